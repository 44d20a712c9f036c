package relatoriorepo

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

// Repository agrega os números do dashboard e as linhas do relatório de endereços.
type Repository struct {
	DB        *sqlx.DB
	Tables    database.Tables
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewRepository(db *sqlx.DB, tables database.Tables, dbTimeout time.Duration, logger logger.Logger) *Repository {
	return &Repository{DB: db, Tables: tables, DBTimeout: dbTimeout, logger: logger}
}

// Resumo calcula todos os totais em uma única consulta.
// Documento aberto é o que ainda tem item não separado (saída) ou não conferido (entrada).
func (r *Repository) Resumo(ctx context.Context) (domain.ResumoDashboard, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	t := r.Tables
	query := fmt.Sprintf(`
        SELECT
            (SELECT COUNT(*) FROM %[1]s) AS total_produtos,
            (SELECT COUNT(*) FROM %[1]s WHERE qtde_estoque > 0) AS produtos_com_estoque,
            (SELECT COUNT(*) FROM %[1]s p WHERE p.qtde_estoque > 0
                AND NOT EXISTS (SELECT 1 FROM %[2]s el WHERE el.codproduto = p.codproduto)) AS produtos_sem_endereco,
            (SELECT COUNT(*) FROM %[1]s WHERE facing > 0 AND qtde_disponivel < facing) AS produtos_abaixo_facing,
            (SELECT COUNT(*) FROM %[3]s) AS total_enderecos,
            (SELECT COUNT(DISTINCT codendereco) FROM %[2]s) AS enderecos_ocupados,
            (SELECT COUNT(DISTINCT nota) FROM %[4]s WHERE qtde_conferida < qtde) AS documentos_entrada_abertos,
            (SELECT COUNT(DISTINCT prenota) FROM %[5]s WHERE qtde_separada < qtde) AS documentos_saida_abertos`,
		t.Produtos, t.EstoqueLocal, t.Enderecos, t.PainelEntrada, t.PainelSaida)

	var resumo domain.ResumoDashboard
	if err := r.DB.GetContext(ctxTimeout, &resumo, query); err != nil {
		r.logger.Error("Falha ao calcular o resumo do dashboard.", err)
		return domain.ResumoDashboard{}, apperror.NewDBError("Falha ao calcular o resumo do dashboard", err)
	}
	return resumo, nil
}

// Enderecos lista cada endereço com os produtos e lotes guardados nele.
// Endereços vazios aparecem uma vez, sem produto. rua vazia não filtra.
func (r *Repository) Enderecos(ctx context.Context, rua string) ([]domain.LinhaRelatorioEndereco, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`
        SELECT e.codendereco, e.rua, e.predio, e.andar, e.apto,
               el.codproduto, p.descricao, el.lote, el.quantidade
        FROM %s e
        LEFT JOIN %s el ON el.codendereco = e.codendereco
        LEFT JOIN %s p ON p.codproduto = el.codproduto
        WHERE ($1 = '' OR e.rua = $1)
        ORDER BY e.rua, e.predio, e.andar NULLS FIRST, e.apto NULLS FIRST, p.descricao, el.lote`,
		r.Tables.Enderecos, r.Tables.EstoqueLocal, r.Tables.Produtos)

	out := []domain.LinhaRelatorioEndereco{}
	if err := r.DB.SelectContext(ctxTimeout, &out, query, rua); err != nil {
		r.logger.Error("Falha ao gerar relatório de endereços.", err)
		return nil, apperror.NewDBError("Falha ao gerar relatório de endereços", err)
	}
	return out, nil
}
