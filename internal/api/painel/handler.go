package painel

import (
	"context"
	"net/http"
	"strconv"

	"gowms/internal/api/response"
	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
)

// PainelService define as consultas dos painéis de entrada e saída.
type PainelService interface {
	Saida(ctx context.Context, f domain.PainelFiltro) ([]domain.PainelSaidaCabecalho, error)
	ItensSaida(ctx context.Context, prenota string) ([]domain.PainelSaidaItem, error)
	Entrada(ctx context.Context, f domain.PainelFiltro) ([]domain.PainelEntradaCabecalho, error)
	ItensEntrada(ctx context.Context, nota string) ([]domain.PainelEntradaItem, error)
}

type Handler struct {
	Service PainelService
	Logger  logger.Logger
}

func NewHandler(svc PainelService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Saida godoc
// @Summary Pré-notas do painel de saída
// @Tags painel
// @Param status query string false "filtra pelo status"
// @Param atualizar query bool false "ignora o cache"
// @Success 200 {array} domain.PainelSaidaCabecalho
// @Router /painel-saida [get]
func (h *Handler) Saida(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.Saida(r.Context(), filtro(r))
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// ItensSaida trata GET /painel-saida/{prenota}.
func (h *Handler) ItensSaida(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.ItensSaida(r.Context(), r.PathValue("prenota"))
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// Entrada trata GET /painel-entrada.
func (h *Handler) Entrada(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.Entrada(r.Context(), filtro(r))
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// ItensEntrada trata GET /painel-entrada/{nota}.
func (h *Handler) ItensEntrada(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.ItensEntrada(r.Context(), r.PathValue("nota"))
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

func filtro(r *http.Request) domain.PainelFiltro {
	q := r.URL.Query()
	atualizar, _ := strconv.ParseBool(q.Get("atualizar"))
	return domain.PainelFiltro{Status: q.Get("status"), Atualizar: atualizar}
}
