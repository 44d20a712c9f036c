package usuariorepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
)

// MsgLoginDuplicado é devolvido quando o login já existe.
const MsgLoginDuplicado = "Login já cadastrado."

// Repository acessa a tabela de usuários.
type Repository struct {
	DB        *sqlx.DB
	Tables    database.Tables
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewRepository cria e retorna uma nova instância do Repositório de Usuário.
func NewRepository(db *sqlx.DB, tables database.Tables, dbTimeout time.Duration, logger logger.Logger) *Repository {
	return &Repository{DB: db, Tables: tables, DBTimeout: dbTimeout, logger: logger}
}

func (r *Repository) selectUsuario() string {
	return fmt.Sprintf(`
        SELECT u.codusuario, u.login, u.nome, u.senha, u.nivel_acesso_id,
               COALESCE(n.nome, '') AS nivel_acesso, u.ativo
        FROM %s u
        LEFT JOIN %s n ON n.id = u.nivel_acesso_id`, r.Tables.Usuarios, r.Tables.NiveisAcesso)
}

// BuscarPorLogin busca o usuário pelo login já normalizado em maiúsculas.
func (r *Repository) BuscarPorLogin(ctx context.Context, login string) (domain.Usuario, error) {
	return r.get(ctx, r.selectUsuario()+` WHERE u.login = $1`, login)
}

// BuscarPorID busca o usuário pelo código.
func (r *Repository) BuscarPorID(ctx context.Context, codUsuario int64) (domain.Usuario, error) {
	return r.get(ctx, r.selectUsuario()+` WHERE u.codusuario = $1`, codUsuario)
}

func (r *Repository) get(ctx context.Context, query string, arg interface{}) (domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var u domain.Usuario
	err := r.DB.GetContext(ctxTimeout, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Usuario{}, apperror.NewNotFoundError("Usuário não encontrado.")
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário no DB.", err)
		return domain.Usuario{}, apperror.NewDBError("Falha ao buscar usuário", err)
	}
	return u, nil
}

// Listar devolve todos os usuários ordenados pelo nome.
func (r *Repository) Listar(ctx context.Context) ([]domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	usuarios := []domain.Usuario{}
	if err := r.DB.SelectContext(ctxTimeout, &usuarios, r.selectUsuario()+` ORDER BY u.nome`); err != nil {
		r.logger.Error("Falha ao listar usuários.", err)
		return nil, apperror.NewDBError("Falha ao listar usuários", err)
	}
	return usuarios, nil
}

// Inserir cria o usuário. senhaHash já vem calculado pelo serviço.
func (r *Repository) Inserir(ctx context.Context, u domain.Usuario) (domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`
        INSERT INTO %s (login, nome, senha, nivel_acesso_id, ativo)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING codusuario`, r.Tables.Usuarios)

	err := r.DB.GetContext(ctxTimeout, &u.CodUsuario, query, u.Login, u.Nome, u.SenhaHash, u.NivelAcessoID, u.Ativo)
	if err != nil {
		return domain.Usuario{}, r.translateWriteError("Falha ao inserir usuário", err)
	}
	return r.BuscarPorID(ctx, u.CodUsuario)
}

// Atualizar altera nome, login, nível e situação. Com SenhaHash preenchido, grava também a
// senha no mesmo UPDATE.
func (r *Repository) Atualizar(ctx context.Context, u domain.Usuario) (domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`
        UPDATE %s SET login = $2, nome = $3, nivel_acesso_id = $4, ativo = $5,
               senha = COALESCE(NULLIF($6, ''), senha)
        WHERE codusuario = $1`, r.Tables.Usuarios)

	res, err := r.DB.ExecContext(ctxTimeout, query, u.CodUsuario, u.Login, u.Nome, u.NivelAcessoID, u.Ativo, u.SenhaHash)
	if err != nil {
		return domain.Usuario{}, r.translateWriteError("Falha ao atualizar usuário", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Usuario{}, apperror.NewNotFoundError("Usuário não encontrado.")
	}
	return r.BuscarPorID(ctx, u.CodUsuario)
}

// AtualizarSenha grava um novo hash de senha.
func (r *Repository) AtualizarSenha(ctx context.Context, codUsuario int64, senhaHash string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout,
		fmt.Sprintf(`UPDATE %s SET senha = $2 WHERE codusuario = $1`, r.Tables.Usuarios), codUsuario, senhaHash)
	if err != nil {
		r.logger.Error("Falha ao atualizar senha.", err)
		return apperror.NewDBError("Falha ao atualizar senha", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError("Usuário não encontrado.")
	}
	return nil
}

func (r *Repository) translateWriteError(msg string, err error) error {
	if database.IsUniqueViolation(err) {
		return apperror.NewDuplicateError(MsgLoginDuplicado, err)
	}
	if database.IsForeignKeyViolation(err) {
		return apperror.NewValidationError("Nível de acesso não encontrado.")
	}
	r.logger.Error(msg+".", err)
	return apperror.NewDBError(msg, err)
}
