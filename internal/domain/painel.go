package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PainelSaidaCabecalho é um documento (pré-nota) do painel de saída.
type PainelSaidaCabecalho struct {
	Prenota     string     `json:"prenota" db:"prenota"`
	NumNota     *string    `json:"numnota" db:"numnota"`
	DataEmissao *time.Time `json:"data_emissao" db:"data_emissao"`
	Cliente     string     `json:"cliente" db:"cliente"`
	Status      string     `json:"status" db:"status"`
}

// PainelSaidaItem é uma linha de produto de uma pré-nota.
type PainelSaidaItem struct {
	Prenota      string          `json:"prenota" db:"prenota"`
	CodProduto   string          `json:"codproduto" db:"codproduto"`
	Descricao    string          `json:"descricao" db:"descricao"`
	Unidade      string          `json:"unidade" db:"unidade"`
	Qtde         decimal.Decimal `json:"qtde" db:"qtde"`
	QtdeSeparada decimal.Decimal `json:"qtde_separada" db:"qtde_separada"`
}

// PainelEntradaCabecalho é uma nota do painel de entrada.
type PainelEntradaCabecalho struct {
	Nota        string     `json:"nota" db:"nota"`
	Serie       *string    `json:"serie" db:"serie"`
	DataEntrada *time.Time `json:"data_entrada" db:"data_entrada"`
	Fornecedor  string     `json:"fornecedor" db:"fornecedor"`
	Status      string     `json:"status" db:"status"`
}

// PainelEntradaItem é uma linha de produto de uma nota de entrada.
type PainelEntradaItem struct {
	Nota          string          `json:"nota" db:"nota"`
	CodProduto    string          `json:"codproduto" db:"codproduto"`
	Descricao     string          `json:"descricao" db:"descricao"`
	Unidade       string          `json:"unidade" db:"unidade"`
	Qtde          decimal.Decimal `json:"qtde" db:"qtde"`
	QtdeConferida decimal.Decimal `json:"qtde_conferida" db:"qtde_conferida"`
}

// PainelFiltro filtra as listagens de cabeçalho.
type PainelFiltro struct {
	Status    string
	Atualizar bool // ignora o cache (atualização manual)
}
