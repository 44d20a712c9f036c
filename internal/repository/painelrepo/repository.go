package painelrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
)

// Repository lê as views dos painéis de entrada e saída.
type Repository struct {
	DB        *sqlx.DB
	Tables    database.Tables
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewRepository(db *sqlx.DB, tables database.Tables, dbTimeout time.Duration, logger logger.Logger) *Repository {
	return &Repository{DB: db, Tables: tables, DBTimeout: dbTimeout, logger: logger}
}

// CabecalhosSaida lista as pré-notas distintas, mais recentes primeiro.
func (r *Repository) CabecalhosSaida(ctx context.Context, status string) ([]domain.PainelSaidaCabecalho, error) {
	query := fmt.Sprintf(`
        SELECT DISTINCT prenota, numnota, data_emissao, cliente, status
        FROM %s
        WHERE ($1 = '' OR status = $1)
        ORDER BY data_emissao DESC NULLS LAST, prenota DESC`, r.Tables.PainelSaida)

	out := []domain.PainelSaidaCabecalho{}
	if err := r.selectInto(ctx, &out, "Falha ao listar painel de saída", query, status); err != nil {
		return nil, err
	}
	return out, nil
}

// ItensSaida lista os produtos de uma pré-nota.
func (r *Repository) ItensSaida(ctx context.Context, prenota string) ([]domain.PainelSaidaItem, error) {
	query := fmt.Sprintf(`
        SELECT prenota, codproduto, descricao, unidade, qtde, qtde_separada
        FROM %s
        WHERE prenota = $1
        ORDER BY descricao, codproduto`, r.Tables.PainelSaida)

	out := []domain.PainelSaidaItem{}
	if err := r.selectInto(ctx, &out, "Falha ao listar itens da pré-nota", query, prenota); err != nil {
		return nil, err
	}
	return out, nil
}

// CabecalhosEntrada lista as notas de entrada distintas, mais recentes primeiro.
func (r *Repository) CabecalhosEntrada(ctx context.Context, status string) ([]domain.PainelEntradaCabecalho, error) {
	query := fmt.Sprintf(`
        SELECT DISTINCT nota, serie, data_entrada, fornecedor, status
        FROM %s
        WHERE ($1 = '' OR status = $1)
        ORDER BY data_entrada DESC NULLS LAST, nota DESC`, r.Tables.PainelEntrada)

	out := []domain.PainelEntradaCabecalho{}
	if err := r.selectInto(ctx, &out, "Falha ao listar painel de entrada", query, status); err != nil {
		return nil, err
	}
	return out, nil
}

// ItensEntrada lista os produtos de uma nota de entrada.
func (r *Repository) ItensEntrada(ctx context.Context, nota string) ([]domain.PainelEntradaItem, error) {
	query := fmt.Sprintf(`
        SELECT nota, codproduto, descricao, unidade, qtde, qtde_conferida
        FROM %s
        WHERE nota = $1
        ORDER BY descricao, codproduto`, r.Tables.PainelEntrada)

	out := []domain.PainelEntradaItem{}
	if err := r.selectInto(ctx, &out, "Falha ao listar itens da nota", query, nota); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) selectInto(ctx context.Context, dest interface{}, msg, query string, args ...interface{}) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if err := r.DB.SelectContext(ctxTimeout, dest, query, args...); err != nil {
		r.logger.Error(msg+".", err)
		return apperror.NewDBError(msg, err)
	}
	return nil
}
