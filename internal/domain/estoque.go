package domain

import "github.com/shopspring/decimal"

// SemLote é o segmento de rota usado para produtos sem controle de lote.
// No banco esses registros têm lote vazio.
const SemLote = "sem-lote"

// LoteDaRota converte o segmento {lote} da URL no valor gravado no banco.
func LoteDaRota(segmento string) string {
	if segmento == SemLote {
		return ""
	}
	return segmento
}

// EstoqueLocal é a quantidade de um produto (e lote) guardada em um endereço.
type EstoqueLocal struct {
	CodProduto  string          `json:"codproduto" db:"codproduto"`
	CodEndereco string          `json:"codendereco" db:"codendereco"`
	Lote        string          `json:"lote" db:"lote"`
	Quantidade  decimal.Decimal `json:"quantidade" db:"quantidade"`
}

// ChaveEstoque identifica uma linha de EstoqueLocal.
type ChaveEstoque struct {
	CodProduto  string
	CodEndereco string
	Lote        string
}

// EstoqueEndereco é uma linha de estoque juntada com o endereço e a descrição do produto,
// formato usado pelas listagens de três níveis (produto → lote → endereço).
type EstoqueEndereco struct {
	CodProduto  string          `json:"codproduto" db:"codproduto"`
	Descricao   *string         `json:"descricao,omitempty" db:"descricao"`
	Lote        string          `json:"lote" db:"lote"`
	CodEndereco string          `json:"codendereco" db:"codendereco"`
	Rua         string          `json:"rua" db:"rua"`
	Predio      string          `json:"predio" db:"predio"`
	Andar       *string         `json:"andar" db:"andar"`
	Apto        *string         `json:"apto" db:"apto"`
	Quantidade  decimal.Decimal `json:"quantidade" db:"quantidade"`
}

// MovimentoEstoqueInput é o corpo de POST/PUT de estoque por endereço.
// As rotas de produto usam "qtde"; as de endereço usam "quantidade". Os dois são aceitos.
type MovimentoEstoqueInput struct {
	CodProduto  string     `json:"codproduto"`
	CodEndereco string     `json:"codendereco"`
	Lote        string     `json:"lote"`
	Qtde        Quantidade `json:"qtde"`
	Quantidade  Quantidade `json:"quantidade"`
	Usuario     string     `json:"usuario"`
}

// QuantidadeInformada devolve qtde, ou quantidade quando qtde não veio.
func (in MovimentoEstoqueInput) QuantidadeInformada() Quantidade {
	if in.Qtde.Presente {
		return in.Qtde
	}
	return in.Quantidade
}
