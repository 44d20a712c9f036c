package estoquerepo_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
	"gowms/internal/repository/estoquerepo"
)

func newRepo(t *testing.T) (*estoquerepo.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := estoquerepo.NewRepository(sqlx.NewDb(db, "postgres"), database.MustTables("wms"), time.Second, logger.NewNopLogger())
	return repo, mock
}

var chave = domain.ChaveEstoque{CodProduto: "ABC123", CodEndereco: "E01", Lote: "L01"}

func TestInserir_Success(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO wms_estoque_local")).
		WithArgs("ABC123", "E01", "L01", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"codproduto", "codendereco", "lote", "quantidade"}).
			AddRow("ABC123", "E01", "L01", "50"))

	created, err := repo.Inserir(context.Background(), domain.EstoqueLocal{
		CodProduto: "ABC123", CodEndereco: "E01", Lote: "L01", Quantidade: decimal.NewFromInt(50),
	})

	require.NoError(t, err)
	assert.True(t, created.Quantidade.Equal(decimal.NewFromInt(50)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInserir_DuplicateKey(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO wms_estoque_local")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Inserir(context.Background(), domain.EstoqueLocal{
		CodProduto: "ABC123", CodEndereco: "E01", Lote: "L01", Quantidade: decimal.NewFromInt(5),
	})

	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
	_, _, msg := apperror.MapToHTTPStatus(err)
	assert.Equal(t, estoquerepo.MsgDuplicado, msg)
}

func TestInserir_UnknownAddress(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO wms_estoque_local")).
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.Inserir(context.Background(), domain.EstoqueLocal{CodProduto: "ABC123", CodEndereco: "X"})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAtualizarQuantidade_ReturnsPrevious(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT quantidade FROM wms_estoque_local")).
		WithArgs("ABC123", "E01", "L01").
		WillReturnRows(sqlmock.NewRows([]string{"quantidade"}).AddRow("10"))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE wms_estoque_local SET quantidade = $4")).
		WithArgs("ABC123", "E01", "L01", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"codproduto", "codendereco", "lote", "quantidade"}).
			AddRow("ABC123", "E01", "L01", "25"))
	mock.ExpectCommit()

	anterior, atual, err := repo.AtualizarQuantidade(context.Background(), chave, decimal.NewFromInt(25))

	require.NoError(t, err)
	assert.True(t, anterior.Equal(decimal.NewFromInt(10)))
	assert.True(t, atual.Quantidade.Equal(decimal.NewFromInt(25)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemover_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT quantidade FROM wms_estoque_local")).
		WillReturnRows(sqlmock.NewRows([]string{"quantidade"}))
	mock.ExpectRollback()

	_, err := repo.Remover(context.Background(), chave)

	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemover_ReturnsRemovedQuantity(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT quantidade FROM wms_estoque_local")).
		WillReturnRows(sqlmock.NewRows([]string{"quantidade"}).AddRow("7.5"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM wms_estoque_local")).
		WithArgs("ABC123", "E01", "L01").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := repo.Remover(context.Background(), chave)

	require.NoError(t, err)
	assert.Equal(t, "7.5", removed.Quantidade.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
