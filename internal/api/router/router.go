package router

import (
	"net/http"
	"strings"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"gowms/internal/api/acesso"
	"gowms/internal/api/auth"
	"gowms/internal/api/configuracao"
	"gowms/internal/api/dashboard"
	"gowms/internal/api/endereco"
	"gowms/internal/api/painel"
	"gowms/internal/api/produto"
	"gowms/internal/api/relatorio"
	"gowms/internal/domain"
	"gowms/internal/pkg/cache"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/middleware"
)

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Endereco     *endereco.Handler
	Produto      *produto.Handler
	Painel       *painel.Handler
	Auth         *auth.Handler
	Acesso       *acesso.Handler
	Configuracao *configuracao.Handler
	Dashboard    *dashboard.Handler
	Relatorio    *relatorio.Handler
}

// Options são as dependências dos middlewares.
type Options struct {
	Tokens          middleware.TokenService
	Permissions     middleware.PermissionChecker
	Cache           cache.Client
	RateLimit       int
	RateLimitPeriod time.Duration
	AllowedOrigins  []string
	Logger          logger.Logger
}

// NewRouter configura e retorna o roteador HTTP principal.
// Rotas protegidas passam por auth e pela permissão do módulo; a ação segue o verbo HTTP.
func NewRouter(h Handlers, opt Options) http.Handler {
	mux := http.NewServeMux()
	authMW := middleware.NewAuthMiddleware(opt.Tokens, opt.Logger)

	// protect registra pattern exigindo a ação do verbo sobre o módulo.
	protect := func(pattern string, chave domain.ModuloChave, hf http.HandlerFunc) {
		method, _, _ := strings.Cut(pattern, " ")
		perm := middleware.RequirePermission(opt.Permissions, opt.Logger, chave, middleware.AcaoDoMetodo(method))
		mux.HandleFunc(pattern, authMW(perm(hf)))
	}

	// --- Rotas públicas ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.HandleFunc("POST /login", h.Auth.Login)
	mux.HandleFunc("GET /configuracoes", h.Configuracao.Obter)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- Sessão ---
	mux.HandleFunc("GET /auth/verify", authMW(h.Auth.Verify))

	// --- Endereços e estoque por endereço ---
	e := h.Endereco
	protect("GET /enderecos", domain.ModuloEnderecos, e.Listar)
	protect("POST /enderecos", domain.ModuloEnderecos, e.Criar)
	protect("PUT /enderecos/{codendereco}", domain.ModuloEnderecos, e.Atualizar)
	protect("DELETE /enderecos/{codendereco}", domain.ModuloEnderecos, e.Remover)
	protect("GET /enderecos/enderecos-por-produto/{codproduto}", domain.ModuloEnderecos, e.EnderecosPorProduto)
	protect("POST /enderecos/produtos", domain.ModuloEnderecos, e.VincularProduto)
	protect("PUT /enderecos/produtos", domain.ModuloEnderecos, e.AlterarQuantidade)
	protect("DELETE /enderecos/produtos/{codproduto}/{codendereco}", domain.ModuloEnderecos, e.DesvincularProduto)

	// --- Produtos ---
	// POST /produtos é consulta (filtro no corpo), por isso exige visualizar.
	p := h.Produto
	protect("GET /produtos", domain.ModuloProdutos, p.Listar)
	mux.HandleFunc("POST /produtos", authMW(middleware.RequirePermission(opt.Permissions, opt.Logger, domain.ModuloProdutos, domain.AcaoVisualizar)(p.Buscar)))
	protect("GET /produtos/sem-endereco", domain.ModuloProdutos, p.SemEndereco)
	protect("GET /produtos/{a}/{b}", domain.ModuloProdutos, p.Detalhe)
	protect("GET /produtos/{codproduto}/enderecos-lote/{lote}", domain.ModuloProdutos, p.EnderecosLote)
	protect("POST /produtos/{codproduto}/{lote}", domain.ModuloProdutos, p.Vincular)
	protect("PUT /produtos/{codproduto}/{lote}/{codendereco}", domain.ModuloProdutos, p.AlterarQuantidade)
	protect("DELETE /produtos/{codproduto}/{lote}/{codendereco}", domain.ModuloProdutos, p.Desvincular)

	// --- Painéis ---
	protect("GET /painel-saida", domain.ModuloPainelSaida, h.Painel.Saida)
	protect("GET /painel-saida/{prenota}", domain.ModuloPainelSaida, h.Painel.ItensSaida)
	protect("GET /painel-entrada", domain.ModuloPainelEntrada, h.Painel.Entrada)
	protect("GET /painel-entrada/{nota}", domain.ModuloPainelEntrada, h.Painel.ItensEntrada)

	// --- Controle de acesso ---
	a := h.Acesso
	protect("GET /controle-acesso/niveis", domain.ModuloControleAcesso, a.ListarNiveis)
	protect("POST /controle-acesso/niveis", domain.ModuloControleAcesso, a.CriarNivel)
	protect("PUT /controle-acesso/niveis/{id}", domain.ModuloControleAcesso, a.AtualizarNivel)
	protect("DELETE /controle-acesso/niveis/{id}", domain.ModuloControleAcesso, a.RemoverNivel)
	protect("GET /controle-acesso/niveis/{id}/permissoes", domain.ModuloControleAcesso, a.ListarPermissoes)
	protect("PUT /controle-acesso/niveis/{id}/permissoes", domain.ModuloControleAcesso, a.SalvarPermissoes)
	protect("GET /controle-acesso/modulos", domain.ModuloControleAcesso, a.ListarModulos)
	protect("GET /controle-acesso/usuarios", domain.ModuloControleAcesso, a.ListarUsuarios)
	protect("POST /controle-acesso/usuarios", domain.ModuloControleAcesso, a.CriarUsuario)
	protect("PUT /controle-acesso/usuarios/{id}", domain.ModuloControleAcesso, a.AtualizarUsuario)
	protect("PUT /controle-acesso/usuarios/{id}/senha", domain.ModuloControleAcesso, a.AlterarSenha)

	// --- Configurações, dashboard e relatórios ---
	protect("PUT /configuracoes", domain.ModuloConfiguracoes, h.Configuracao.Atualizar)
	protect("GET /dashboard", domain.ModuloDashboard, h.Dashboard.Resumo)
	protect("GET /relatorios/enderecos", domain.ModuloRelatorioEnderecos, h.Relatorio.Enderecos)
	protect("GET /relatorios/enderecos/pdf", domain.ModuloRelatorioEnderecos, h.Relatorio.EnderecosPDF)

	return middleware.Chain(mux,
		middleware.RequestLogger(opt.Logger),
		middleware.CORS(opt.AllowedOrigins),
		middleware.RateLimiter(opt.Cache, opt.RateLimit, opt.RateLimitPeriod, opt.Logger),
	)
}

// PingHandler é o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
