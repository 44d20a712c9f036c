package produtorepo_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowms/internal/domain"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
	"gowms/internal/repository/produtorepo"
)

var colunas = []string{
	"codproduto", "descricao", "descricao_complementar", "unidade", "controla_lote",
	"qtde_estoque", "qtde_reserva", "qtde_disponivel", "qtde_avaria", "facing",
}

func TestListar_BuildsFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := produtorepo.NewRepository(sqlx.NewDb(db, "postgres"), database.MustTables("wms"), time.Second, logger.NewNopLogger())

	lote := true
	mock.ExpectQuery(regexp.QuoteMeta(`FROM vs_wms_produtos p WHERE (p.codproduto ILIKE $1 ESCAPE '\' OR p.descricao ILIKE $1 ESCAPE '\') AND p.controla_lote = $2 AND p.qtde_estoque > 0 ORDER BY p.descricao, p.codproduto LIMIT $3 OFFSET $4`)).
		WithArgs("%parafuso%", true, 20, 20).
		WillReturnRows(sqlmock.NewRows(colunas).
			AddRow("ABC123", "Parafuso", nil, "UN", true, "10", "0", "3", "0", 5))

	produtos, err := repo.Listar(context.Background(), domain.ProdutoFiltro{
		Busca: "parafuso", ControlaLote: &lote, ComEstoque: true, Pagina: 2, Limite: 20,
	})

	require.NoError(t, err)
	require.Len(t, produtos, 1)
	assert.Equal(t, "ABC123", produtos[0].CodProduto)
	assert.Equal(t, 5, produtos[0].Facing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListar_NoFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := produtorepo.NewRepository(sqlx.NewDb(db, "postgres"), database.MustTables("wms"), time.Second, logger.NewNopLogger())

	mock.ExpectQuery(regexp.QuoteMeta("FROM vs_wms_produtos p ORDER BY p.descricao, p.codproduto")).
		WillReturnRows(sqlmock.NewRows(colunas))

	produtos, err := repo.Listar(context.Background(), domain.ProdutoFiltro{Pagina: 1})

	require.NoError(t, err)
	assert.NotNil(t, produtos)
	assert.Empty(t, produtos)
}

func TestListar_EscapesLikeWildcards(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := produtorepo.NewRepository(sqlx.NewDb(db, "postgres"), database.MustTables("wms"), time.Second, logger.NewNopLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`p.codproduto ILIKE $1 ESCAPE '\'`)).
		WithArgs(`%50\%\_off\\x%`).
		WillReturnRows(sqlmock.NewRows(colunas))

	_, err = repo.Listar(context.Background(), domain.ProdutoFiltro{Busca: `50%_off\x`, Pagina: 1})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
