package acessorepo

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

const (
	MsgNivelDuplicado = "Nível de acesso já cadastrado."
	MsgNivelEmUso     = "Nível de acesso possui usuários vinculados e não pode ser excluído."
)

// Repository acessa níveis de acesso, módulos e permissões.
type Repository struct {
	DB        *sqlx.DB
	Tables    database.Tables
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewRepository(db *sqlx.DB, tables database.Tables, dbTimeout time.Duration, logger logger.Logger) *Repository {
	return &Repository{DB: db, Tables: tables, DBTimeout: dbTimeout, logger: logger}
}

// ListarNiveis devolve os níveis de acesso por nome.
func (r *Repository) ListarNiveis(ctx context.Context) ([]domain.NivelAcesso, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	niveis := []domain.NivelAcesso{}
	query := fmt.Sprintf(`SELECT id, nome FROM %s ORDER BY nome`, r.Tables.NiveisAcesso)
	if err := r.DB.SelectContext(ctxTimeout, &niveis, query); err != nil {
		r.logger.Error("Falha ao listar níveis de acesso.", err)
		return nil, apperror.NewDBError("Falha ao listar níveis de acesso", err)
	}
	return niveis, nil
}

// InserirNivel cria um nível de acesso sem permissões.
func (r *Repository) InserirNivel(ctx context.Context, nome string) (domain.NivelAcesso, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var n domain.NivelAcesso
	query := fmt.Sprintf(`INSERT INTO %s (nome) VALUES ($1) RETURNING id, nome`, r.Tables.NiveisAcesso)
	if err := r.DB.GetContext(ctxTimeout, &n, query, nome); err != nil {
		if database.IsUniqueViolation(err) {
			return domain.NivelAcesso{}, apperror.NewDuplicateError(MsgNivelDuplicado, err)
		}
		r.logger.Error("Falha ao inserir nível de acesso.", err)
		return domain.NivelAcesso{}, apperror.NewDBError("Falha ao inserir nível de acesso", err)
	}
	return n, nil
}

// AtualizarNivel renomeia um nível.
func (r *Repository) AtualizarNivel(ctx context.Context, id int64, nome string) (domain.NivelAcesso, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var n domain.NivelAcesso
	query := fmt.Sprintf(`UPDATE %s SET nome = $2 WHERE id = $1 RETURNING id, nome`, r.Tables.NiveisAcesso)
	err := r.DB.GetContext(ctxTimeout, &n, query, id, nome)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NivelAcesso{}, apperror.NewNotFoundError("Nível de acesso não encontrado.")
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.NivelAcesso{}, apperror.NewDuplicateError(MsgNivelDuplicado, err)
		}
		r.logger.Error("Falha ao atualizar nível de acesso.", err)
		return domain.NivelAcesso{}, apperror.NewDBError("Falha ao atualizar nível de acesso", err)
	}
	return n, nil
}

// RemoverNivel apaga o nível e suas permissões. Níveis com usuários são recusados.
func (r *Repository) RemoverNivel(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTxx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	var usuarios int
	if err := tx.GetContext(ctxTimeout, &usuarios,
		fmt.Sprintf(`SELECT count(*) FROM %s WHERE nivel_acesso_id = $1`, r.Tables.Usuarios), id); err != nil {
		r.logger.Error("Falha ao contar usuários do nível.", err)
		return apperror.NewDBError("Falha ao contar usuários do nível", err)
	}
	if usuarios > 0 {
		return apperror.NewValidationError(MsgNivelEmUso)
	}

	res, err := tx.ExecContext(ctxTimeout, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.Tables.NiveisAcesso), id)
	if err != nil {
		r.logger.Error("Falha ao remover nível de acesso.", err)
		return apperror.NewDBError("Falha ao remover nível de acesso", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError("Nível de acesso não encontrado.")
	}

	if err := tx.Commit(); err != nil {
		return apperror.NewDBError("Falha ao commitar transação", err)
	}
	return nil
}

// ListarModulos devolve os módulos cadastrados.
func (r *Repository) ListarModulos(ctx context.Context) ([]domain.Modulo, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	modulos := []domain.Modulo{}
	query := fmt.Sprintf(`SELECT id, chave, nome, rota FROM %s ORDER BY id`, r.Tables.Modulos)
	if err := r.DB.SelectContext(ctxTimeout, &modulos, query); err != nil {
		r.logger.Error("Falha ao listar módulos.", err)
		return nil, apperror.NewDBError("Falha ao listar módulos", err)
	}
	return modulos, nil
}

// ListarPermissoes devolve uma linha por módulo para o nível; módulos sem permissão
// gravada aparecem com todas as flags falsas.
func (r *Repository) ListarPermissoes(ctx context.Context, nivelAcessoID int64) ([]domain.Permissao, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`
        SELECT $1::bigint AS nivel_acesso_id, m.id AS modulo_id, m.chave, m.nome, m.rota,
               COALESCE(p.visualizar, FALSE) AS visualizar,
               COALESCE(p.incluir, FALSE) AS incluir,
               COALESCE(p.editar, FALSE) AS editar,
               COALESCE(p.excluir, FALSE) AS excluir
        FROM %s m
        LEFT JOIN %s p ON p.modulo_id = m.id AND p.nivel_acesso_id = $1
        ORDER BY m.id`, r.Tables.Modulos, r.Tables.Permissoes)

	permissoes := []domain.Permissao{}
	if err := r.DB.SelectContext(ctxTimeout, &permissoes, query, nivelAcessoID); err != nil {
		r.logger.Error("Falha ao listar permissões.", err)
		return nil, apperror.NewDBError("Falha ao listar permissões", err)
	}
	return permissoes, nil
}

// SubstituirPermissoes troca todo o conjunto de permissões do nível numa transação.
func (r *Repository) SubstituirPermissoes(ctx context.Context, nivelAcessoID int64, permissoes []domain.Permissao) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTxx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	var existe int
	err = tx.GetContext(ctxTimeout, &existe,
		fmt.Sprintf(`SELECT 1 FROM %s WHERE id = $1`, r.Tables.NiveisAcesso), nivelAcessoID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NewNotFoundError("Nível de acesso não encontrado.")
	}
	if err != nil {
		return apperror.NewDBError("Falha ao buscar nível de acesso", err)
	}

	if _, err := tx.ExecContext(ctxTimeout,
		fmt.Sprintf(`DELETE FROM %s WHERE nivel_acesso_id = $1`, r.Tables.Permissoes), nivelAcessoID); err != nil {
		r.logger.Error("Falha ao limpar permissões.", err)
		return apperror.NewDBError("Falha ao limpar permissões", err)
	}

	insert := fmt.Sprintf(`
        INSERT INTO %s (nivel_acesso_id, modulo_id, visualizar, incluir, editar, excluir)
        SELECT $1, m.id, $3, $4, $5, $6 FROM %s m WHERE m.chave = $2`, r.Tables.Permissoes, r.Tables.Modulos)
	for _, p := range permissoes {
		res, err := tx.ExecContext(ctxTimeout, insert, nivelAcessoID, string(p.Chave), p.Visualizar, p.Incluir, p.Editar, p.Excluir)
		if err != nil {
			r.logger.Error("Falha ao gravar permissão.", err)
			return apperror.NewDBError("Falha ao gravar permissão", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.NewValidationError(fmt.Sprintf("Módulo %q não cadastrado.", p.Chave))
		}
	}

	if err := tx.Commit(); err != nil {
		return apperror.NewDBError("Falha ao commitar transação", err)
	}
	return nil
}
