package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowms/internal/pkg/token"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := token.NewService("segredo-de-teste", time.Hour)

	tk, err := svc.GenerateToken(7, "OPERADOR", 2)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tk)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.CodUsuario)
	assert.Equal(t, "OPERADOR", claims.Login)
	assert.Equal(t, int64(2), claims.NivelAcessoID)
	assert.Equal(t, "7", claims.Subject)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := token.NewService("segredo-de-teste", -time.Minute)

	tk, err := svc.GenerateToken(1, "ADMIN", 1)
	require.NoError(t, err)

	_, err = svc.ValidateToken(tk)
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tk, err := token.NewService("um", time.Hour).GenerateToken(1, "ADMIN", 1)
	require.NoError(t, err)

	_, err = token.NewService("outro", time.Hour).ValidateToken(tk)
	assert.Error(t, err)
}
