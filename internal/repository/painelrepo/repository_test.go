package painelrepo_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
	"gowms/internal/repository/painelrepo"
)

func newRepo(t *testing.T) (*painelrepo.Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return painelrepo.NewRepository(sqlx.NewDb(db, "postgres"), database.MustTables("pwb"), time.Second, logger.NewNopLogger()), mock
}

func TestCabecalhosSaida_StatusFilter(t *testing.T) {
	repo, mock := newRepo(t)
	emissao := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM vs_pwb_fpainel_saida")).
		WithArgs("ABERTA").
		WillReturnRows(sqlmock.NewRows([]string{"prenota", "numnota", "data_emissao", "cliente", "status"}).
			AddRow("1001", nil, emissao, "Mercado Central", "ABERTA"))

	docs, err := repo.CabecalhosSaida(context.Background(), "ABERTA")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "1001", docs[0].Prenota)
	assert.Nil(t, docs[0].NumNota)
	assert.Equal(t, emissao, *docs[0].DataEmissao)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItensEntrada(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM vs_pwb_fpainel_entrada")).
		WithArgs("5521").
		WillReturnRows(sqlmock.NewRows([]string{"nota", "codproduto", "descricao", "unidade", "qtde", "qtde_conferida"}).
			AddRow("5521", "ABC123", "Parafuso", "UN", "100", "37.5"))

	itens, err := repo.ItensEntrada(context.Background(), "5521")

	require.NoError(t, err)
	require.Len(t, itens, 1)
	assert.True(t, decimal.RequireFromString("37.5").Equal(itens[0].QtdeConferida))
}

func TestItensSaida_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM vs_pwb_fpainel_saida")).
		WithArgs("9").
		WillReturnRows(sqlmock.NewRows([]string{"prenota", "codproduto", "descricao", "unidade", "qtde", "qtde_separada"}))

	itens, err := repo.ItensSaida(context.Background(), "9")

	require.NoError(t, err)
	assert.NotNil(t, itens)
	assert.Empty(t, itens)
}

func TestCabecalhosEntrada_DBError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM vs_pwb_fpainel_entrada")).WillReturnError(errors.New("conn reset"))

	_, err := repo.CabecalhosEntrada(context.Background(), "")

	assert.Error(t, err)
}
