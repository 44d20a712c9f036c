package auditoriarepo_test

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

	"gowms/internal/domain"
	"gowms/internal/pkg/database"
	"gowms/internal/repository/auditoriarepo"
)

func newRepo(t *testing.T) (*auditoriarepo.Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return auditoriarepo.NewRepository(sqlx.NewDb(db, "postgres"), database.MustTables("pwb"), time.Second), mock
}

func TestInserir_BindsColumns(t *testing.T) {
	repo, mock := newRepo(t)
	chave := domain.ChaveEstoque{CodProduto: "ABC123", CodEndereco: "E01", Lote: "L01"}
	a, ok := domain.NovaAuditoria(chave, decimal.NewFromInt(-6), "ADMIN")
	require.True(t, ok)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pwb_auditoria_enderecos (codendereco, codproduto, lote, quantidade, tipo, usuario)")).
		WithArgs("E01", "ABC123", "L01", "6", "saida", "ADMIN").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Inserir(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInserir_DBError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pwb_auditoria_enderecos")).
		WillReturnError(errors.New("conn reset"))

	err := repo.Inserir(context.Background(), domain.AuditoriaEndereco{
		CodEndereco: "E01", CodProduto: "ABC123", Quantidade: decimal.NewFromInt(1), Tipo: domain.MovimentoEntrada, Usuario: "ADMIN",
	})

	assert.Error(t, err)
}
