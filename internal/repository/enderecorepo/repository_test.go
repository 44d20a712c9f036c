package enderecorepo_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
	"gowms/internal/repository/enderecorepo"
)

func newRepo(t *testing.T, prefix string) (*enderecorepo.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return enderecorepo.NewRepository(sqlx.NewDb(db, "postgres"), database.MustTables(prefix), time.Second, logger.NewNopLogger()), mock
}

func TestInserir_GeneratedCode(t *testing.T) {
	repo, mock := newRepo(t, "wms")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO wms_enderecos (rua, predio, andar, apto)")).
		WithArgs("A", "01", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"codendereco", "rua", "predio", "andar", "apto"}).
			AddRow("E1", "A", "01", nil, nil))

	created, err := repo.Inserir(context.Background(), domain.EnderecoInput{Rua: "A", Predio: "01"})

	require.NoError(t, err)
	assert.Equal(t, "E1", created.CodEndereco)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInserir_Duplicate(t *testing.T) {
	repo, mock := newRepo(t, "pwb")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pwb_enderecos (codendereco")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Inserir(context.Background(), domain.EnderecoInput{CodEndereco: "E01", Rua: "A", Predio: "01"})

	require.True(t, apperror.IsDuplicate(err))
	_, _, msg := apperror.MapToHTTPStatus(err)
	assert.Equal(t, enderecorepo.MsgDuplicado, msg)
}

func TestRemover_WithProducts(t *testing.T) {
	repo, mock := newRepo(t, "wms")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM wms_enderecos")).
		WithArgs("E01").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM wms_estoque_local")).
		WithArgs("E01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.Remover(context.Background(), "E01")

	require.Error(t, err)
	status, _, msg := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 400, status)
	assert.Equal(t, enderecorepo.MsgComProdutos, msg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemover_NotFound(t *testing.T) {
	repo, mock := newRepo(t, "wms")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM wms_enderecos")).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectRollback()

	err := repo.Remover(context.Background(), "E99")

	assert.True(t, apperror.IsNotFound(err))
}

func TestRemover_Success(t *testing.T) {
	repo, mock := newRepo(t, "wms")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM wms_enderecos")).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM wms_estoque_local")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM wms_enderecos")).
		WithArgs("E01").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Remover(context.Background(), "E01"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
