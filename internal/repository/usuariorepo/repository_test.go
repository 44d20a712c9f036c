package usuariorepo_test

import (
	"context"
	"database/sql"
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
	"gowms/internal/repository/usuariorepo"
)

var colunas = []string{"codusuario", "login", "nome", "senha", "nivel_acesso_id", "nivel_acesso", "ativo"}

func newRepo(t *testing.T) (*usuariorepo.Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return usuariorepo.NewRepository(sqlx.NewDb(db, "postgres"), database.MustTables("pwb"), time.Second, logger.NewNopLogger()), mock
}

func TestBuscarPorLogin(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pwb_usuarios u")).
		WithArgs("ADMIN").
		WillReturnRows(sqlmock.NewRows(colunas).AddRow(1, "ADMIN", "Administrador", "d2cc342653e944df15923698c6bdd1ac", 1, "Administrador", true))

	u, err := repo.BuscarPorLogin(context.Background(), "ADMIN")

	require.NoError(t, err)
	assert.Equal(t, int64(1), u.CodUsuario)
	assert.Equal(t, "d2cc342653e944df15923698c6bdd1ac", u.SenhaHash)
	assert.True(t, u.Ativo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuscarPorLogin_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE u.login = $1")).
		WithArgs("NINGUEM").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.BuscarPorLogin(context.Background(), "NINGUEM")

	assert.True(t, apperror.IsNotFound(err))
}

func TestInserir_DuplicateLogin(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pwb_usuarios")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Inserir(context.Background(), domain.Usuario{Login: "ADMIN", Nome: "x", SenhaHash: "h", NivelAcessoID: 1, Ativo: true})

	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
	_, _, msg := apperror.MapToHTTPStatus(err)
	assert.Equal(t, usuariorepo.MsgLoginDuplicado, msg)
}

func TestInserir_UnknownNivel(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pwb_usuarios")).
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.Inserir(context.Background(), domain.Usuario{Login: "JOAO", Nome: "João", SenhaHash: "h", NivelAcessoID: 99})

	status, _, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, 400, status)
}

func TestAtualizarSenha_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pwb_usuarios SET senha = $2 WHERE codusuario = $1")).
		WithArgs(int64(7), "novo-hash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AtualizarSenha(context.Background(), 7, "novo-hash")

	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAtualizar_LoginAndPasswordInOneStatement(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("senha = COALESCE(NULLIF($6, ''), senha)")).
		WithArgs(int64(7), "NOVO", "Novo", int64(2), true, "novo-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE u.codusuario = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(colunas).AddRow(7, "NOVO", "Novo", "novo-hash", 2, "Operador", true))

	u, err := repo.Atualizar(context.Background(), domain.Usuario{
		CodUsuario: 7, Login: "NOVO", Nome: "Novo", NivelAcessoID: 2, Ativo: true, SenhaHash: "novo-hash",
	})

	require.NoError(t, err)
	assert.Equal(t, "novo-hash", u.SenhaHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}
