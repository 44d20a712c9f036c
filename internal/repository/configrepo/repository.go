package configrepo

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

const colunasConfig = "nome_empresa, logo_url, cor_primaria, cor_secundaria, endereco_quatro_niveis, intervalo_painel_min"

// Repository acessa a linha única de configurações.
type Repository struct {
	DB        *sqlx.DB
	Tables    database.Tables
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewRepository(db *sqlx.DB, tables database.Tables, dbTimeout time.Duration, logger logger.Logger) *Repository {
	return &Repository{DB: db, Tables: tables, DBTimeout: dbTimeout, logger: logger}
}

// Obter lê a configuração. Sem linha gravada, devolve os padrões.
func (r *Repository) Obter(ctx context.Context) (domain.Configuracao, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var c domain.Configuracao
	err := r.DB.GetContext(ctxTimeout, &c, fmt.Sprintf(`SELECT %s FROM %s WHERE id = 1`, colunasConfig, r.Tables.Configuracoes))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ConfiguracaoPadrao(), nil
	}
	if err != nil {
		r.logger.Error("Falha ao ler configurações.", err)
		return domain.Configuracao{}, apperror.NewDBError("Falha ao ler configurações", err)
	}
	return c, nil
}

// Salvar grava a configuração (upsert da linha única).
func (r *Repository) Salvar(ctx context.Context, c domain.Configuracao) (domain.Configuracao, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`
        INSERT INTO %s (id, nome_empresa, logo_url, cor_primaria, cor_secundaria, endereco_quatro_niveis, intervalo_painel_min)
        VALUES (1, :nome_empresa, :logo_url, :cor_primaria, :cor_secundaria, :endereco_quatro_niveis, :intervalo_painel_min)
        ON CONFLICT (id) DO UPDATE SET
            nome_empresa = EXCLUDED.nome_empresa,
            logo_url = EXCLUDED.logo_url,
            cor_primaria = EXCLUDED.cor_primaria,
            cor_secundaria = EXCLUDED.cor_secundaria,
            endereco_quatro_niveis = EXCLUDED.endereco_quatro_niveis,
            intervalo_painel_min = EXCLUDED.intervalo_painel_min`, r.Tables.Configuracoes)

	if _, err := r.DB.NamedExecContext(ctxTimeout, query, c); err != nil {
		r.logger.Error("Falha ao salvar configurações.", err)
		return domain.Configuracao{}, apperror.NewDBError("Falha ao salvar configurações", err)
	}
	return c, nil
}
