package dashboard

import (
	"context"
	"net/http"

	"gowms/internal/api/response"
	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
)

type ResumoService interface {
	Resumo(ctx context.Context) (domain.ResumoDashboard, error)
}

type Handler struct {
	Service ResumoService
	Logger  logger.Logger
}

func NewHandler(svc ResumoService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Resumo godoc
// @Summary Totais do dashboard
// @Tags dashboard
// @Success 200 {object} domain.ResumoDashboard
// @Router /dashboard [get]
func (h *Handler) Resumo(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.Resumo(r.Context())
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}
