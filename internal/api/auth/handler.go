package auth

import (
	"context"
	"net/http"

	"gowms/internal/api/response"
	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/middleware"
)

// AuthService define login e verificação de sessão.
type AuthService interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.Sessao, error)
	Verificar(ctx context.Context, codUsuario int64) (domain.Sessao, error)
}

type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

func NewHandler(svc AuthService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Login godoc
// @Summary Autentica o usuário
// @Tags auth
// @Param body body domain.LoginRequest true "login e senha"
// @Success 200 {object} domain.Sessao
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	sessao, err := h.Service.Login(r.Context(), req)
	response.Handle(w, r, h.Logger, sessao, err, http.StatusOK)
}

// Verify godoc
// @Summary Valida o token e devolve a sessão
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} domain.Sessao
// @Failure 401 {object} domain.ErrorResponse
// @Router /auth/verify [get]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Token inválido ou expirado."))
		return
	}
	sessao, err := h.Service.Verificar(r.Context(), claims.CodUsuario)
	response.Handle(w, r, h.Logger, sessao, err, http.StatusOK)
}
