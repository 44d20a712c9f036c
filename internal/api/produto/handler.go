package produto

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"gowms/internal/api/response"
	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/middleware"
)

// ProdutoService define as consultas de produto (somente leitura).
type ProdutoService interface {
	Listar(ctx context.Context, f domain.ProdutoFiltro) ([]domain.Produto, error)
	SemEndereco(ctx context.Context) ([]domain.Produto, error)
	Lotes(ctx context.Context, codProduto string) ([]domain.Lote, error)
}

// EstoqueService define as operações de estoque por produto/lote/endereço.
type EstoqueService interface {
	Vincular(ctx context.Context, in domain.MovimentoEstoqueInput) (domain.EstoqueLocal, error)
	AlterarQuantidade(ctx context.Context, in domain.MovimentoEstoqueInput) (domain.EstoqueLocal, error)
	Desvincular(ctx context.Context, chave domain.ChaveEstoque, usuario string) error
	ListarPorProdutoLote(ctx context.Context, codProduto, lote string) ([]domain.EstoqueEndereco, error)
	ListarPorEndereco(ctx context.Context, codEndereco string) ([]domain.EstoqueEndereco, error)
}

// Handler agrupa as rotas de produto.
type Handler struct {
	Produtos ProdutoService
	Estoque  EstoqueService
	Logger   logger.Logger
}

func NewHandler(produtos ProdutoService, estoque EstoqueService, log logger.Logger) *Handler {
	return &Handler{Produtos: produtos, Estoque: estoque, Logger: log}
}

// Listar godoc
// @Summary Lista produtos
// @Tags produtos
// @Param busca query string false "código ou descrição"
// @Param controla_lote query bool false "filtra por controle de lote"
// @Param com_estoque query bool false "apenas produtos com estoque"
// @Param pagina query int false "página (1..)"
// @Param limite query int false "itens por página (0 = todos)"
// @Success 200 {array} domain.Produto
// @Router /produtos [get]
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	filtro, err := filtroDaQuery(r.URL.Query())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	data, err := h.Produtos.Listar(r.Context(), filtro)
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// Buscar trata POST /produtos: mesma listagem com o filtro no corpo. Corpo vazio lista tudo.
func (h *Handler) Buscar(w http.ResponseWriter, r *http.Request) {
	var filtro domain.ProdutoFiltro
	if err := response.DecodeOptional(r, &filtro); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	data, err := h.Produtos.Listar(r.Context(), filtro)
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// SemEndereco trata GET /produtos/sem-endereco.
func (h *Handler) SemEndereco(w http.ResponseWriter, r *http.Request) {
	data, err := h.Produtos.SemEndereco(r.Context())
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// Detalhe trata GET /produtos/{a}/{b}, que atende duas rotas com o mesmo formato:
// /produtos/por-endereco/{codendereco} e /produtos/{codproduto}/lotes.
func (h *Handler) Detalhe(w http.ResponseWriter, r *http.Request) {
	a, b := r.PathValue("a"), r.PathValue("b")
	switch {
	case a == "por-endereco":
		data, err := h.Estoque.ListarPorEndereco(r.Context(), b)
		response.Handle(w, r, h.Logger, data, err, http.StatusOK)
	case b == "lotes":
		data, err := h.Produtos.Lotes(r.Context(), a)
		response.Handle(w, r, h.Logger, data, err, http.StatusOK)
	default:
		response.Error(w, r, h.Logger, apperror.NewNotFoundError("Rota não encontrada."))
	}
}

// EnderecosLote trata GET /produtos/{codproduto}/enderecos-lote/{lote}.
func (h *Handler) EnderecosLote(w http.ResponseWriter, r *http.Request) {
	data, err := h.Estoque.ListarPorProdutoLote(r.Context(), r.PathValue("codproduto"), r.PathValue("lote"))
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// Vincular godoc
// @Summary Guarda um lote do produto em um endereço
// @Tags produtos
// @Param codproduto path string true "produto"
// @Param lote path string true "lote ou sem-lote"
// @Param body body domain.MovimentoEstoqueInput true "codendereco, qtde"
// @Success 201 {object} domain.EstoqueLocal
// @Failure 400 {object} domain.ErrorResponse
// @Router /produtos/{codproduto}/{lote} [post]
func (h *Handler) Vincular(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeMovimento(w, r)
	if !ok {
		return
	}
	created, err := h.Estoque.Vincular(r.Context(), in)
	response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
}

// AlterarQuantidade trata PUT /produtos/{codproduto}/{lote}/{codendereco}.
func (h *Handler) AlterarQuantidade(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeMovimento(w, r)
	if !ok {
		return
	}
	in.CodEndereco = r.PathValue("codendereco")
	updated, err := h.Estoque.AlterarQuantidade(r.Context(), in)
	response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
}

// Desvincular trata DELETE /produtos/{codproduto}/{lote}/{codendereco}.
func (h *Handler) Desvincular(w http.ResponseWriter, r *http.Request) {
	chave := domain.ChaveEstoque{
		CodProduto:  r.PathValue("codproduto"),
		Lote:        domain.LoteDaRota(r.PathValue("lote")),
		CodEndereco: r.PathValue("codendereco"),
	}
	err := h.Estoque.Desvincular(r.Context(), chave, middleware.LoginFromContext(r.Context()))
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}

// decodeMovimento lê o corpo e completa produto e lote a partir da rota.
func (h *Handler) decodeMovimento(w http.ResponseWriter, r *http.Request) (domain.MovimentoEstoqueInput, bool) {
	var in domain.MovimentoEstoqueInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return in, false
	}
	in.CodProduto = r.PathValue("codproduto")
	in.Lote = domain.LoteDaRota(r.PathValue("lote"))
	if login := middleware.LoginFromContext(r.Context()); login != "" {
		in.Usuario = login
	}
	return in, true
}

func filtroDaQuery(q url.Values) (domain.ProdutoFiltro, error) {
	f := domain.ProdutoFiltro{Busca: q.Get("busca")}

	if v := q.Get("controla_lote"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, apperror.NewValidationError("Parâmetro controla_lote inválido.")
		}
		f.ControlaLote = &b
	}
	if v := q.Get("com_estoque"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, apperror.NewValidationError("Parâmetro com_estoque inválido.")
		}
		f.ComEstoque = b
	}
	var err error
	if f.Pagina, err = inteiro(q, "pagina"); err != nil {
		return f, err
	}
	if f.Limite, err = inteiro(q, "limite"); err != nil {
		return f, err
	}
	return f, nil
}

func inteiro(q url.Values, nome string) (int, error) {
	v := q.Get(nome)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperror.NewValidationError("Parâmetro " + nome + " inválido.")
	}
	return n, nil
}
