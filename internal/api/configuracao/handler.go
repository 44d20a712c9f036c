package configuracao

import (
	"context"
	"net/http"

	"gowms/internal/api/response"
	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
)

type ConfiguracaoService interface {
	Obter(ctx context.Context) (domain.Configuracao, error)
	Atualizar(ctx context.Context, c domain.Configuracao) (domain.Configuracao, error)
}

type Handler struct {
	Service ConfiguracaoService
	Logger  logger.Logger
}

func NewHandler(svc ConfiguracaoService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Obter godoc
// @Summary Configuração da empresa (pública)
// @Tags configuracoes
// @Success 200 {object} domain.Configuracao
// @Router /configuracoes [get]
func (h *Handler) Obter(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Service.Obter(r.Context())
	response.Handle(w, r, h.Logger, cfg, err, http.StatusOK)
}

// Atualizar trata PUT /configuracoes.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	var in domain.Configuracao
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	cfg, err := h.Service.Atualizar(r.Context(), in)
	response.Handle(w, r, h.Logger, cfg, err, http.StatusOK)
}
