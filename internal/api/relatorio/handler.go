package relatorio

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gowms/internal/api/response"
	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
)

type RelatorioService interface {
	Enderecos(ctx context.Context, rua string) ([]domain.LinhaRelatorioEndereco, error)
	EnderecosPDF(ctx context.Context, rua string) ([]byte, error)
}

type Handler struct {
	Service RelatorioService
	Logger  logger.Logger
}

func NewHandler(svc RelatorioService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Enderecos godoc
// @Summary Relatório de ocupação de endereços
// @Tags relatorios
// @Param rua query string false "filtra pela rua"
// @Success 200 {array} domain.LinhaRelatorioEndereco
// @Router /relatorios/enderecos [get]
func (h *Handler) Enderecos(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.Enderecos(r.Context(), r.URL.Query().Get("rua"))
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// EnderecosPDF godoc
// @Summary Relatório de ocupação de endereços em PDF
// @Tags relatorios
// @Produce application/pdf
// @Param rua query string false "filtra pela rua"
// @Success 200 {file} binary
// @Router /relatorios/enderecos/pdf [get]
func (h *Handler) EnderecosPDF(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.Service.EnderecosPDF(r.Context(), r.URL.Query().Get("rua"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	nome := fmt.Sprintf("relatorio-enderecos-%s.pdf", time.Now().Format("20060102-1504"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+nome+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.Logger.Error("Falha ao enviar PDF do relatório.", err)
	}
}
