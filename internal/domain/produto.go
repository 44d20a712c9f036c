package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produto é uma linha da view de agregação de estoque. É alimentada pelo ERP;
// o serviço apenas lê.
type Produto struct {
	CodProduto            string          `json:"codproduto" db:"codproduto"`
	Descricao             string          `json:"descricao" db:"descricao"`
	DescricaoComplementar *string         `json:"descricao_complementar" db:"descricao_complementar"`
	Unidade               string          `json:"unidade" db:"unidade"`
	ControlaLote          bool            `json:"controla_lote" db:"controla_lote"`
	QtdeEstoque           decimal.Decimal `json:"qtde_estoque" db:"qtde_estoque"`
	QtdeReserva           decimal.Decimal `json:"qtde_reserva" db:"qtde_reserva"`
	QtdeDisponivel        decimal.Decimal `json:"qtde_disponivel" db:"qtde_disponivel"`
	QtdeAvaria            decimal.Decimal `json:"qtde_avaria" db:"qtde_avaria"`
	Facing                int             `json:"facing" db:"facing"`
	AbaixoFacing          bool            `json:"abaixo_facing" db:"-"`
}

// PrecisaReposicao informa se o disponível está abaixo do número de posições de exposição.
func (p Produto) PrecisaReposicao() bool {
	return p.Facing > 0 && p.QtdeDisponivel.LessThan(decimal.NewFromInt(int64(p.Facing)))
}

// Lote é um lote de produto com o total já endereçado.
type Lote struct {
	CodProduto     string          `json:"codproduto" db:"codproduto"`
	Lote           string          `json:"lote" db:"lote"`
	Validade       *time.Time      `json:"validade" db:"validade"`
	QtdeEstoque    decimal.Decimal `json:"qtde_estoque" db:"qtde_estoque"`
	QtdeEnderecada decimal.Decimal `json:"qtde_enderecada" db:"qtde_enderecada"`
}

// ProdutoFiltro define os parâmetros de busca e paginação da listagem de produtos.
type ProdutoFiltro struct {
	Busca        string `json:"busca"`
	ControlaLote *bool  `json:"controla_lote"`
	ComEstoque   bool   `json:"com_estoque"`
	Pagina       int    `json:"pagina"`
	Limite       int    `json:"limite"`
}

// ProdutoMaxPagina limita a página pedida; com o limite máximo o OFFSET fica em 10^8.
const ProdutoMaxPagina = 100000

// Normalizar aplica os limites de paginação.
func (f *ProdutoFiltro) Normalizar() {
	if f.Pagina < 1 {
		f.Pagina = 1
	}
	if f.Pagina > ProdutoMaxPagina {
		f.Pagina = ProdutoMaxPagina
	}
	if f.Limite < 0 {
		f.Limite = 0
	}
	if f.Limite > 1000 {
		f.Limite = 1000
	}
}
