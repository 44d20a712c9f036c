package domain_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowms/internal/domain"
)

func TestParseQuantidade(t *testing.T) {
	casos := map[string]string{
		"50":      "50",
		"  50 un": "50",
		"12abc":   "12",
		"12.5":    "12.5",
		".5":      "0.5",
		"5.":      "5",
		"-3":      "-3",
		"+7":      "7",
		"1e3":     "1000",
		"2e":      "2",
	}
	for in, want := range casos {
		got, ok := domain.ParseQuantidade(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got.String(), in)
	}

	for _, in := range []string{"", "abc", "un 5", "-", "."} {
		_, ok := domain.ParseQuantidade(in)
		assert.False(t, ok, in)
	}
}

func TestParseQuantidade_RejectsOversizedValues(t *testing.T) {
	for _, in := range []string{
		"1e2000000",
		"1e200000000",
		"1e-300",
		"1" + strings.Repeat("0", 100),
		"0." + strings.Repeat("0", 200) + "1",
	} {
		_, ok := domain.ParseQuantidade(in)
		assert.False(t, ok, in)
	}

	got, ok := domain.ParseQuantidade("1e9")
	require.True(t, ok)
	assert.Equal(t, "1000000000", got.String())

	var in domain.MovimentoEstoqueInput
	require.NoError(t, json.Unmarshal([]byte(`{"qtde":"1e200000000"}`), &in))
	assert.True(t, in.Qtde.Presente)
	assert.False(t, in.Qtde.Valida)

	assert.False(t, domain.QuantidadeNoLimite(decimal.New(1, 65)))
	assert.True(t, domain.QuantidadeNoLimite(decimal.RequireFromString("123456.789")))
}

func TestQuantidade_UnmarshalJSON(t *testing.T) {
	var in domain.MovimentoEstoqueInput
	require.NoError(t, json.Unmarshal([]byte(`{"codendereco":"E01","qtde":"50"}`), &in))
	q := in.QuantidadeInformada()
	assert.True(t, q.Presente)
	assert.True(t, q.Valida)
	assert.True(t, q.Valor.Equal(decimal.NewFromInt(50)))

	in = domain.MovimentoEstoqueInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"quantidade":7.5}`), &in))
	assert.Equal(t, "7.5", in.QuantidadeInformada().Valor.String(), "quantidade vale quando qtde não veio")

	in = domain.MovimentoEstoqueInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"qtde":null}`), &in))
	assert.False(t, in.QuantidadeInformada().Presente)

	in = domain.MovimentoEstoqueInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"qtde":"muitos"}`), &in))
	assert.True(t, in.Qtde.Presente)
	assert.False(t, in.Qtde.Valida)
}

func TestEstoqueLocal_MarshalsQuantidadeAsNumber(t *testing.T) {
	b, err := json.Marshal(domain.EstoqueLocal{CodProduto: "ABC123", CodEndereco: "E01", Quantidade: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"quantidade":50`)
}

func TestLoteDaRota(t *testing.T) {
	assert.Equal(t, "", domain.LoteDaRota("sem-lote"))
	assert.Equal(t, "L01", domain.LoteDaRota("L01"))
}

func TestMapaPermissoes(t *testing.T) {
	m := domain.NovoMapaPermissoes([]domain.Permissao{
		{Chave: domain.ModuloEnderecos, Visualizar: true, Editar: true},
	})

	assert.True(t, m.Permite(domain.ModuloEnderecos, domain.AcaoEditar))
	assert.False(t, m.Permite(domain.ModuloEnderecos, domain.AcaoExcluir))
	assert.False(t, m.Permite("Enderecos", domain.AcaoVisualizar), "chave comparada exatamente")
	assert.False(t, domain.ModuloChave("enderecos ").Valida())
}

func TestProduto_PrecisaReposicao(t *testing.T) {
	p := domain.Produto{Facing: 10, QtdeDisponivel: decimal.NewFromInt(4)}
	assert.True(t, p.PrecisaReposicao())

	p.QtdeDisponivel = decimal.NewFromInt(10)
	assert.False(t, p.PrecisaReposicao())

	p.Facing = 0
	p.QtdeDisponivel = decimal.Zero
	assert.False(t, p.PrecisaReposicao(), "sem facing definido nunca pede reposição")
}

func TestProdutoFiltro_Normalizar(t *testing.T) {
	f := domain.ProdutoFiltro{Pagina: int(^uint(0) >> 1), Limite: 5000}
	f.Normalizar()
	assert.Equal(t, domain.ProdutoMaxPagina, f.Pagina)
	assert.Equal(t, 1000, f.Limite)
	assert.Positive(t, (f.Pagina-1)*f.Limite, "offset sem overflow")

	f = domain.ProdutoFiltro{Pagina: -3, Limite: -1}
	f.Normalizar()
	assert.Equal(t, 1, f.Pagina)
	assert.Equal(t, 0, f.Limite)
}
