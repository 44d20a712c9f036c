package errors_test

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "gowms/internal/errors"
)

func TestMapToHTTPStatus(t *testing.T) {
	casos := []struct {
		err      error
		status   int
		category string
		message  string
	}{
		{apperror.NewValidationError("Quantidade inválida."), http.StatusBadRequest, "VALIDATION_ERROR", "Quantidade inválida."},
		{apperror.NewDuplicateError("Login já cadastrado.", nil), http.StatusBadRequest, "DUPLICATE", "Login já cadastrado."},
		{apperror.NewNotFoundError("Nota não encontrada."), http.StatusNotFound, "NOT_FOUND", "Nota não encontrada."},
		{apperror.NewUnauthorizedError("Usuário ou senha inválidos."), http.StatusUnauthorized, "UNAUTHORIZED", "Usuário ou senha inválidos."},
		{apperror.NewForbiddenError("Acesso negado."), http.StatusForbidden, "FORBIDDEN", "Acesso negado."},
		{apperror.NewConflictError("x"), http.StatusConflict, "CONFLICT", "x"},
		{apperror.NewDBError("Falha ao listar", sql.ErrConnDone), http.StatusInternalServerError, "INTERNAL_ERROR", apperror.InternalMessage},
		{fmt.Errorf("contexto: %w", apperror.NewNotFoundError("Endereço não encontrado.")), http.StatusNotFound, "NOT_FOUND", "Endereço não encontrado."},
		{sql.ErrTxDone, http.StatusInternalServerError, "UNKNOWN_ERROR", apperror.InternalMessage},
	}
	for _, c := range casos {
		status, category, message := apperror.MapToHTTPStatus(c.err)
		assert.Equal(t, c.status, status, c.err.Error())
		assert.Equal(t, c.category, category, c.err.Error())
		assert.Equal(t, c.message, message, c.err.Error())
	}
}

func TestInternalErrorKeepsCause(t *testing.T) {
	err := apperror.NewDBError("Falha ao inserir estoque", sql.ErrConnDone)

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "(DB)")
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, apperror.IsNotFound(fmt.Errorf("wrap: %w", apperror.NewNotFoundError("x"))))
	assert.False(t, apperror.IsNotFound(apperror.NewValidationError("x")))
	assert.True(t, apperror.IsDuplicate(apperror.NewDuplicateError("x", nil)))
}
