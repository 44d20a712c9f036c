package auditoriarepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
)

// Repository grava a trilha de auditoria dos endereços. Só insere.
type Repository struct {
	DB        *sqlx.DB
	Tables    database.Tables
	DBTimeout time.Duration
}

func NewRepository(db *sqlx.DB, tables database.Tables, dbTimeout time.Duration) *Repository {
	return &Repository{DB: db, Tables: tables, DBTimeout: dbTimeout}
}

// Inserir acrescenta um registro. data_hora vem do banco.
func (r *Repository) Inserir(ctx context.Context, a domain.AuditoriaEndereco) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`
        INSERT INTO %s (codendereco, codproduto, lote, quantidade, tipo, usuario)
        VALUES (:codendereco, :codproduto, :lote, :quantidade, :tipo, :usuario)`, r.Tables.Auditoria)

	if _, err := r.DB.NamedExecContext(ctxTimeout, query, a); err != nil {
		return apperror.NewDBError("Falha ao gravar auditoria de endereço", err)
	}
	return nil
}
