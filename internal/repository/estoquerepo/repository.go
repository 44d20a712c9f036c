package estoquerepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
)

// MsgDuplicado é a mensagem devolvida quando o produto/lote já está no endereço.
const MsgDuplicado = "Este endereço já está cadastrado para este produto."

// Repository acessa a tabela de estoque por endereço.
type Repository struct {
	DB        *sqlx.DB
	Tables    database.Tables
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewRepository(db *sqlx.DB, tables database.Tables, dbTimeout time.Duration, logger logger.Logger) *Repository {
	return &Repository{
		DB:        db,
		Tables:    tables,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

func (r *Repository) selectJoin() string {
	return fmt.Sprintf(`
        SELECT e.codproduto, p.descricao, e.lote, e.codendereco,
               en.rua, en.predio, en.andar, en.apto, e.quantidade
        FROM %s e
        JOIN %s en ON en.codendereco = e.codendereco
        LEFT JOIN %s p ON p.codproduto = e.codproduto`,
		r.Tables.EstoqueLocal, r.Tables.Enderecos, r.Tables.Produtos)
}

// Inserir cria a linha de estoque. Violação da chave (produto, endereço, lote) vira DuplicateError.
func (r *Repository) Inserir(ctx context.Context, e domain.EstoqueLocal) (domain.EstoqueLocal, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`
        INSERT INTO %s (codproduto, codendereco, lote, quantidade)
        VALUES ($1, $2, $3, $4)
        RETURNING codproduto, codendereco, lote, quantidade`, r.Tables.EstoqueLocal)

	var created domain.EstoqueLocal
	err := r.DB.GetContext(ctxTimeout, &created, query, e.CodProduto, e.CodEndereco, e.Lote, e.Quantidade)
	if err != nil {
		if database.IsUniqueViolation(err) {
			r.logger.Info("Produto já vinculado ao endereço.", map[string]interface{}{
				"codproduto": e.CodProduto, "codendereco": e.CodEndereco, "lote": e.Lote,
			})
			return domain.EstoqueLocal{}, apperror.NewDuplicateError(MsgDuplicado, err)
		}
		if database.IsForeignKeyViolation(err) {
			return domain.EstoqueLocal{}, apperror.NewValidationError(fmt.Sprintf("Endereço %s não cadastrado.", e.CodEndereco))
		}
		r.logger.Error("Falha ao inserir estoque por endereço.", err)
		return domain.EstoqueLocal{}, apperror.NewDBError("Falha ao inserir estoque por endereço", err)
	}

	return created, nil
}

// AtualizarQuantidade grava a nova quantidade e devolve a anterior. A linha é lida com
// FOR UPDATE na mesma transação, então a diferença corresponde ao que foi gravado.
func (r *Repository) AtualizarQuantidade(ctx context.Context, chave domain.ChaveEstoque, nova decimal.Decimal) (decimal.Decimal, domain.EstoqueLocal, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTxx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação para atualização de estoque.", err)
		return decimal.Zero, domain.EstoqueLocal{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	anterior, err := r.lockQuantidade(ctxTimeout, tx, chave)
	if err != nil {
		return decimal.Zero, domain.EstoqueLocal{}, err
	}

	query := fmt.Sprintf(`
        UPDATE %s SET quantidade = $4
        WHERE codproduto = $1 AND codendereco = $2 AND lote = $3
        RETURNING codproduto, codendereco, lote, quantidade`, r.Tables.EstoqueLocal)

	var atual domain.EstoqueLocal
	if err := tx.GetContext(ctxTimeout, &atual, query, chave.CodProduto, chave.CodEndereco, chave.Lote, nova); err != nil {
		r.logger.Error("Falha ao atualizar estoque por endereço.", err)
		return decimal.Zero, domain.EstoqueLocal{}, apperror.NewDBError("Falha ao atualizar estoque", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação de atualização de estoque.", err)
		return decimal.Zero, domain.EstoqueLocal{}, apperror.NewDBError("Falha ao commitar transação", err)
	}

	return anterior, atual, nil
}

// Remover apaga a linha e devolve o que havia nela.
func (r *Repository) Remover(ctx context.Context, chave domain.ChaveEstoque) (domain.EstoqueLocal, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTxx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação para remoção de estoque.", err)
		return domain.EstoqueLocal{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	anterior, err := r.lockQuantidade(ctxTimeout, tx, chave)
	if err != nil {
		return domain.EstoqueLocal{}, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE codproduto = $1 AND codendereco = $2 AND lote = $3`, r.Tables.EstoqueLocal)
	if _, err := tx.ExecContext(ctxTimeout, query, chave.CodProduto, chave.CodEndereco, chave.Lote); err != nil {
		r.logger.Error("Falha ao remover estoque por endereço.", err)
		return domain.EstoqueLocal{}, apperror.NewDBError("Falha ao remover estoque", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação de remoção de estoque.", err)
		return domain.EstoqueLocal{}, apperror.NewDBError("Falha ao commitar transação", err)
	}

	return domain.EstoqueLocal{
		CodProduto:  chave.CodProduto,
		CodEndereco: chave.CodEndereco,
		Lote:        chave.Lote,
		Quantidade:  anterior,
	}, nil
}

func (r *Repository) lockQuantidade(ctx context.Context, tx *sqlx.Tx, chave domain.ChaveEstoque) (decimal.Decimal, error) {
	query := fmt.Sprintf(`
        SELECT quantidade FROM %s
        WHERE codproduto = $1 AND codendereco = $2 AND lote = $3
        FOR UPDATE`, r.Tables.EstoqueLocal)

	var quantidade decimal.Decimal
	err := tx.GetContext(ctx, &quantidade, query, chave.CodProduto, chave.CodEndereco, chave.Lote)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, apperror.NewNotFoundError("Produto não vinculado a este endereço.")
	}
	if err != nil {
		r.logger.Error("Falha ao bloquear linha de estoque.", err)
		return decimal.Zero, apperror.NewDBError("Falha ao buscar estoque para atualização", err)
	}
	return quantidade, nil
}

// ListarPorProduto devolve todas as linhas de estoque do produto com o endereço.
func (r *Repository) ListarPorProduto(ctx context.Context, codProduto string) ([]domain.EstoqueEndereco, error) {
	query := r.selectJoin() + `
        WHERE e.codproduto = $1
        ORDER BY e.lote, en.rua, en.predio, en.andar NULLS FIRST, en.apto NULLS FIRST`
	return r.selectEstoque(ctx, "Falha ao listar endereços do produto", query, codProduto)
}

// ListarPorProdutoLote devolve as linhas de estoque do produto no lote.
func (r *Repository) ListarPorProdutoLote(ctx context.Context, codProduto, lote string) ([]domain.EstoqueEndereco, error) {
	query := r.selectJoin() + `
        WHERE e.codproduto = $1 AND e.lote = $2
        ORDER BY en.rua, en.predio, en.andar NULLS FIRST, en.apto NULLS FIRST`
	return r.selectEstoque(ctx, "Falha ao listar endereços do lote", query, codProduto, lote)
}

// ListarPorEndereco devolve o estoque guardado no endereço com a descrição dos produtos.
func (r *Repository) ListarPorEndereco(ctx context.Context, codEndereco string) ([]domain.EstoqueEndereco, error) {
	query := r.selectJoin() + `
        WHERE e.codendereco = $1
        ORDER BY e.codproduto, e.lote`
	return r.selectEstoque(ctx, "Falha ao listar produtos do endereço", query, codEndereco)
}

// ListarTodos devolve o estoque de todos os endereços, usado na listagem com produtos.
func (r *Repository) ListarTodos(ctx context.Context) ([]domain.EstoqueEndereco, error) {
	query := r.selectJoin() + `
        ORDER BY e.codendereco, e.codproduto, e.lote`
	return r.selectEstoque(ctx, "Falha ao listar estoque por endereço", query)
}

func (r *Repository) selectEstoque(ctx context.Context, msg, query string, args ...interface{}) ([]domain.EstoqueEndereco, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	itens := []domain.EstoqueEndereco{}
	if err := r.DB.SelectContext(ctxTimeout, &itens, query, args...); err != nil {
		r.logger.Error(msg+".", err)
		return nil, apperror.NewDBError(msg, err)
	}
	return itens, nil
}
