package produtorepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
)

const colunasProduto = `p.codproduto, p.descricao, p.descricao_complementar, p.unidade, p.controla_lote,
               p.qtde_estoque, p.qtde_reserva, p.qtde_disponivel, p.qtde_avaria, p.facing`

// Repository lê a view de produtos e lotes mantida pelo ERP. Não há escrita.
type Repository struct {
	DB        *sqlx.DB
	Tables    database.Tables
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewRepository(db *sqlx.DB, tables database.Tables, dbTimeout time.Duration, logger logger.Logger) *Repository {
	return &Repository{DB: db, Tables: tables, DBTimeout: dbTimeout, logger: logger}
}

// likeEscaper faz % e _ digitados na busca valerem como texto no ILIKE.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Listar aplica o filtro de busca e a paginação.
func (r *Repository) Listar(ctx context.Context, f domain.ProdutoFiltro) ([]domain.Produto, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	conditions := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if busca := strings.TrimSpace(f.Busca); busca != "" {
		p := arg("%" + likeEscaper.Replace(busca) + "%")
		conditions = append(conditions, fmt.Sprintf(`(p.codproduto ILIKE %s ESCAPE '\' OR p.descricao ILIKE %s ESCAPE '\')`, p, p))
	}
	if f.ControlaLote != nil {
		conditions = append(conditions, "p.controla_lote = "+arg(*f.ControlaLote))
	}
	if f.ComEstoque {
		conditions = append(conditions, "p.qtde_estoque > 0")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s p`, colunasProduto, r.Tables.Produtos)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.descricao, p.codproduto"
	if f.Limite > 0 {
		query += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(f.Limite), arg((f.Pagina-1)*f.Limite))
	}

	return r.selectProdutos(ctxTimeout, "Falha ao listar produtos", query, args...)
}

// SemEndereco lista produtos com estoque e nenhuma linha de estoque por endereço.
func (r *Repository) SemEndereco(ctx context.Context) ([]domain.Produto, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`
        SELECT %s FROM %s p
        WHERE p.qtde_estoque > 0
          AND NOT EXISTS (SELECT 1 FROM %s e WHERE e.codproduto = p.codproduto)
        ORDER BY p.descricao, p.codproduto`, colunasProduto, r.Tables.Produtos, r.Tables.EstoqueLocal)

	return r.selectProdutos(ctxTimeout, "Falha ao listar produtos sem endereço", query)
}

// Lotes devolve os lotes do produto com o total já endereçado de cada um.
func (r *Repository) Lotes(ctx context.Context, codProduto string) ([]domain.Lote, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`
        SELECT l.codproduto, l.lote, l.validade, l.qtde_estoque,
               COALESCE(SUM(e.quantidade), 0) AS qtde_enderecada
        FROM %s l
        LEFT JOIN %s e ON e.codproduto = l.codproduto AND e.lote = l.lote
        WHERE l.codproduto = $1
        GROUP BY l.codproduto, l.lote, l.validade, l.qtde_estoque
        ORDER BY l.validade NULLS LAST, l.lote`, r.Tables.Lotes, r.Tables.EstoqueLocal)

	lotes := []domain.Lote{}
	if err := r.DB.SelectContext(ctxTimeout, &lotes, query, codProduto); err != nil {
		r.logger.Error("Falha ao listar lotes do produto.", err)
		return nil, apperror.NewDBError("Falha ao listar lotes do produto", err)
	}
	return lotes, nil
}

func (r *Repository) selectProdutos(ctx context.Context, msg, query string, args ...interface{}) ([]domain.Produto, error) {
	produtos := []domain.Produto{}
	if err := r.DB.SelectContext(ctx, &produtos, query, args...); err != nil {
		r.logger.Error(msg+".", err)
		return nil, apperror.NewDBError(msg, err)
	}
	return produtos, nil
}
