package endereco

import (
	"context"
	"net/http"
	"strconv"

	"gowms/internal/api/response"
	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/middleware"
)

// EnderecoService define o contrato que o Handler espera para o cadastro de endereços.
type EnderecoService interface {
	Listar(ctx context.Context) ([]domain.Endereco, error)
	ListarComProdutos(ctx context.Context) ([]domain.EnderecoComProdutos, error)
	Criar(ctx context.Context, in domain.EnderecoInput) (domain.Endereco, error)
	Atualizar(ctx context.Context, codEndereco string, in domain.EnderecoInput) (domain.Endereco, error)
	Remover(ctx context.Context, codEndereco string) error
}

// EstoqueService define as operações de estoque por endereço usadas nas rotas /enderecos.
type EstoqueService interface {
	Vincular(ctx context.Context, in domain.MovimentoEstoqueInput) (domain.EstoqueLocal, error)
	AlterarQuantidade(ctx context.Context, in domain.MovimentoEstoqueInput) (domain.EstoqueLocal, error)
	Desvincular(ctx context.Context, chave domain.ChaveEstoque, usuario string) error
	ListarPorProduto(ctx context.Context, codProduto string) ([]domain.EstoqueEndereco, error)
}

// Handler agrupa as rotas de endereço.
type Handler struct {
	Enderecos EnderecoService
	Estoque   EstoqueService
	Logger    logger.Logger
}

func NewHandler(enderecos EnderecoService, estoque EstoqueService, log logger.Logger) *Handler {
	return &Handler{Enderecos: enderecos, Estoque: estoque, Logger: log}
}

// Listar godoc
// @Summary Lista endereços
// @Tags enderecos
// @Param com_produtos query bool false "inclui o estoque de cada endereço"
// @Success 200 {array} domain.Endereco
// @Router /enderecos [get]
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	comProdutos, _ := strconv.ParseBool(r.URL.Query().Get("com_produtos"))
	if comProdutos {
		data, err := h.Enderecos.ListarComProdutos(r.Context())
		response.Handle(w, r, h.Logger, data, err, http.StatusOK)
		return
	}
	data, err := h.Enderecos.Listar(r.Context())
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// Criar godoc
// @Summary Cadastra endereço
// @Tags enderecos
// @Param body body domain.EnderecoInput true "endereço"
// @Success 201 {object} domain.Endereco
// @Router /enderecos [post]
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var in domain.EnderecoInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	created, err := h.Enderecos.Criar(r.Context(), in)
	response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
}

// Atualizar trata PUT /enderecos/{codendereco}.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	var in domain.EnderecoInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	updated, err := h.Enderecos.Atualizar(r.Context(), r.PathValue("codendereco"), in)
	response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
}

// Remover trata DELETE /enderecos/{codendereco}.
func (h *Handler) Remover(w http.ResponseWriter, r *http.Request) {
	err := h.Enderecos.Remover(r.Context(), r.PathValue("codendereco"))
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}

// EnderecosPorProduto trata GET /enderecos/enderecos-por-produto/{codproduto}.
func (h *Handler) EnderecosPorProduto(w http.ResponseWriter, r *http.Request) {
	data, err := h.Estoque.ListarPorProduto(r.Context(), r.PathValue("codproduto"))
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// VincularProduto godoc
// @Summary Vincula produto (sem lote) a um endereço
// @Tags enderecos
// @Param body body domain.MovimentoEstoqueInput true "codproduto, codendereco, quantidade"
// @Success 201 {object} domain.EstoqueLocal
// @Failure 400 {object} domain.ErrorResponse
// @Router /enderecos/produtos [post]
func (h *Handler) VincularProduto(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeMovimento(w, r)
	if !ok {
		return
	}
	in.Lote = ""
	created, err := h.Estoque.Vincular(r.Context(), in)
	response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
}

// AlterarQuantidade trata PUT /enderecos/produtos.
func (h *Handler) AlterarQuantidade(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeMovimento(w, r)
	if !ok {
		return
	}
	in.Lote = ""
	updated, err := h.Estoque.AlterarQuantidade(r.Context(), in)
	response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
}

// DesvincularProduto trata DELETE /enderecos/produtos/{codproduto}/{codendereco}.
func (h *Handler) DesvincularProduto(w http.ResponseWriter, r *http.Request) {
	chave := domain.ChaveEstoque{
		CodProduto:  r.PathValue("codproduto"),
		CodEndereco: r.PathValue("codendereco"),
	}
	err := h.Estoque.Desvincular(r.Context(), chave, middleware.LoginFromContext(r.Context()))
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}

// decodeMovimento lê o corpo e usa o login da sessão como usuário da auditoria.
// O campo usuario do corpo só vale quando não há sessão.
func (h *Handler) decodeMovimento(w http.ResponseWriter, r *http.Request) (domain.MovimentoEstoqueInput, bool) {
	var in domain.MovimentoEstoqueInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return in, false
	}
	if login := middleware.LoginFromContext(r.Context()); login != "" {
		in.Usuario = login
	}
	return in, true
}
