package enderecorepo

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
	MsgDuplicado       = "Endereço já cadastrado."
	MsgComProdutos     = "Endereço possui produtos vinculados e não pode ser excluído."
	msgNaoEncontrado   = "Endereço não encontrado."
	colunasEndereco    = "codendereco, rua, predio, andar, apto"
	ordenacaoEnderecos = "rua, predio, andar NULLS FIRST, apto NULLS FIRST"
)

// Repository acessa a tabela de endereços.
type Repository struct {
	DB        *sqlx.DB
	Tables    database.Tables
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewRepository(db *sqlx.DB, tables database.Tables, dbTimeout time.Duration, logger logger.Logger) *Repository {
	return &Repository{DB: db, Tables: tables, DBTimeout: dbTimeout, logger: logger}
}

// Listar devolve todos os endereços ordenados por rua, prédio, andar e apto.
func (r *Repository) Listar(ctx context.Context) ([]domain.Endereco, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`, colunasEndereco, r.Tables.Enderecos, ordenacaoEnderecos)

	enderecos := []domain.Endereco{}
	if err := r.DB.SelectContext(ctxTimeout, &enderecos, query); err != nil {
		r.logger.Error("Falha ao listar endereços.", err)
		return nil, apperror.NewDBError("Falha ao listar endereços", err)
	}
	return enderecos, nil
}

// Buscar devolve um endereço pelo código.
func (r *Repository) Buscar(ctx context.Context, codEndereco string) (domain.Endereco, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE codendereco = $1`, colunasEndereco, r.Tables.Enderecos)

	var e domain.Endereco
	err := r.DB.GetContext(ctxTimeout, &e, query, codEndereco)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Endereco{}, apperror.NewNotFoundError(msgNaoEncontrado)
	}
	if err != nil {
		r.logger.Error("Falha ao buscar endereço.", err)
		return domain.Endereco{}, apperror.NewDBError("Falha ao buscar endereço", err)
	}
	return e, nil
}

// Inserir cria o endereço. Sem codendereco, o banco gera E<n> pela sequence.
func (r *Repository) Inserir(ctx context.Context, in domain.EnderecoInput) (domain.Endereco, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		query string
		args  []interface{}
	)
	if in.CodEndereco == "" {
		query = fmt.Sprintf(`
            INSERT INTO %s (rua, predio, andar, apto) VALUES ($1, $2, $3, $4)
            RETURNING %s`, r.Tables.Enderecos, colunasEndereco)
		args = []interface{}{in.Rua, in.Predio, in.Andar, in.Apto}
	} else {
		query = fmt.Sprintf(`
            INSERT INTO %s (codendereco, rua, predio, andar, apto) VALUES ($1, $2, $3, $4, $5)
            RETURNING %s`, r.Tables.Enderecos, colunasEndereco)
		args = []interface{}{in.CodEndereco, in.Rua, in.Predio, in.Andar, in.Apto}
	}

	var created domain.Endereco
	if err := r.DB.GetContext(ctxTimeout, &created, query, args...); err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Endereco{}, apperror.NewDuplicateError(MsgDuplicado, err)
		}
		r.logger.Error("Falha ao inserir endereço.", err)
		return domain.Endereco{}, apperror.NewDBError("Falha ao inserir endereço", err)
	}
	return created, nil
}

// Atualizar altera rua, prédio, andar e apto.
func (r *Repository) Atualizar(ctx context.Context, codEndereco string, in domain.EnderecoInput) (domain.Endereco, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`
        UPDATE %s SET rua = $2, predio = $3, andar = $4, apto = $5
        WHERE codendereco = $1
        RETURNING %s`, r.Tables.Enderecos, colunasEndereco)

	var updated domain.Endereco
	err := r.DB.GetContext(ctxTimeout, &updated, query, codEndereco, in.Rua, in.Predio, in.Andar, in.Apto)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Endereco{}, apperror.NewNotFoundError(msgNaoEncontrado)
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar endereço.", err)
		return domain.Endereco{}, apperror.NewDBError("Falha ao atualizar endereço", err)
	}
	return updated, nil
}

// Remover apaga o endereço se nenhuma linha de estoque o referencia.
func (r *Repository) Remover(ctx context.Context, codEndereco string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTxx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	var existe int
	err = tx.GetContext(ctxTimeout, &existe,
		fmt.Sprintf(`SELECT 1 FROM %s WHERE codendereco = $1 FOR UPDATE`, r.Tables.Enderecos), codEndereco)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NewNotFoundError(msgNaoEncontrado)
	}
	if err != nil {
		r.logger.Error("Falha ao bloquear endereço.", err)
		return apperror.NewDBError("Falha ao buscar endereço", err)
	}

	var vinculados int
	err = tx.GetContext(ctxTimeout, &vinculados,
		fmt.Sprintf(`SELECT count(*) FROM %s WHERE codendereco = $1`, r.Tables.EstoqueLocal), codEndereco)
	if err != nil {
		r.logger.Error("Falha ao contar produtos do endereço.", err)
		return apperror.NewDBError("Falha ao contar produtos do endereço", err)
	}
	if vinculados > 0 {
		return apperror.NewValidationError(MsgComProdutos)
	}

	if _, err := tx.ExecContext(ctxTimeout, fmt.Sprintf(`DELETE FROM %s WHERE codendereco = $1`, r.Tables.Enderecos), codEndereco); err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperror.NewValidationError(MsgComProdutos)
		}
		r.logger.Error("Falha ao remover endereço.", err)
		return apperror.NewDBError("Falha ao remover endereço", err)
	}

	if err := tx.Commit(); err != nil {
		return apperror.NewDBError("Falha ao commitar transação", err)
	}
	return nil
}
