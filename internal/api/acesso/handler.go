package acesso

import (
	"context"
	"net/http"
	"strconv"

	"gowms/internal/api/response"
	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// AcessoService define o contrato da tela de controle de acesso.
type AcessoService interface {
	ListarNiveis(ctx context.Context) ([]domain.NivelAcesso, error)
	CriarNivel(ctx context.Context, nome string) (domain.NivelAcesso, error)
	AtualizarNivel(ctx context.Context, id int64, nome string) (domain.NivelAcesso, error)
	RemoverNivel(ctx context.Context, id int64) error
	ListarModulos(ctx context.Context) ([]domain.Modulo, error)
	ListarPermissoes(ctx context.Context, nivelAcessoID int64) ([]domain.Permissao, error)
	SalvarPermissoes(ctx context.Context, nivelAcessoID int64, permissoes []domain.Permissao) ([]domain.Permissao, error)
	ListarUsuarios(ctx context.Context) ([]domain.Usuario, error)
	CriarUsuario(ctx context.Context, in domain.UsuarioInput) (domain.Usuario, error)
	AtualizarUsuario(ctx context.Context, codUsuario int64, in domain.UsuarioInput) (domain.Usuario, error)
	AlterarSenha(ctx context.Context, codUsuario int64, login, senha string) error
}

type Handler struct {
	Service AcessoService
	Logger  logger.Logger
}

func NewHandler(svc AcessoService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

type nivelRequest struct {
	Nome string `json:"nome"`
}

type senhaRequest struct {
	Senha string `json:"senha"`
}

// --- Níveis ---

// ListarNiveis godoc
// @Summary Lista níveis de acesso
// @Tags controle-acesso
// @Security BearerAuth
// @Success 200 {array} domain.NivelAcesso
// @Router /controle-acesso/niveis [get]
func (h *Handler) ListarNiveis(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.ListarNiveis(r.Context())
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

func (h *Handler) CriarNivel(w http.ResponseWriter, r *http.Request) {
	var in nivelRequest
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	data, err := h.Service.CriarNivel(r.Context(), in.Nome)
	response.Handle(w, r, h.Logger, data, err, http.StatusCreated)
}

func (h *Handler) AtualizarNivel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in nivelRequest
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	data, err := h.Service.AtualizarNivel(r.Context(), id, in.Nome)
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

func (h *Handler) RemoverNivel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	err := h.Service.RemoverNivel(r.Context(), id)
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}

// --- Módulos e permissões ---

func (h *Handler) ListarModulos(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.ListarModulos(r.Context())
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

func (h *Handler) ListarPermissoes(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	data, err := h.Service.ListarPermissoes(r.Context(), id)
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// SalvarPermissoes godoc
// @Summary Substitui as permissões do nível
// @Tags controle-acesso
// @Security BearerAuth
// @Param id path int true "nível"
// @Param body body []domain.Permissao true "permissões por módulo"
// @Success 200 {array} domain.Permissao
// @Router /controle-acesso/niveis/{id}/permissoes [put]
func (h *Handler) SalvarPermissoes(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in []domain.Permissao
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	data, err := h.Service.SalvarPermissoes(r.Context(), id, in)
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// --- Usuários ---

func (h *Handler) ListarUsuarios(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.ListarUsuarios(r.Context())
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

// CriarUsuario godoc
// @Summary Cadastra usuário
// @Tags controle-acesso
// @Security BearerAuth
// @Param body body domain.UsuarioInput true "usuário"
// @Success 201 {object} domain.Usuario
// @Failure 400 {object} domain.ErrorResponse
// @Router /controle-acesso/usuarios [post]
func (h *Handler) CriarUsuario(w http.ResponseWriter, r *http.Request) {
	var in domain.UsuarioInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	data, err := h.Service.CriarUsuario(r.Context(), in)
	response.Handle(w, r, h.Logger, data, err, http.StatusCreated)
}

func (h *Handler) AtualizarUsuario(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in domain.UsuarioInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	data, err := h.Service.AtualizarUsuario(r.Context(), id, in)
	response.Handle(w, r, h.Logger, data, err, http.StatusOK)
}

func (h *Handler) AlterarSenha(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in senhaRequest
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	err := h.Service.AlterarSenha(r.Context(), id, "", in.Senha)
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(w, r, h.Logger, apperror.NewValidationError("Identificador inválido."))
		return 0, false
	}
	return id, true
}
