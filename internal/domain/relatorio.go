package domain

import "github.com/shopspring/decimal"

// ResumoDashboard são os totais exibidos no painel inicial.
type ResumoDashboard struct {
	TotalProdutos            int `json:"total_produtos" db:"total_produtos"`
	ProdutosComEstoque       int `json:"produtos_com_estoque" db:"produtos_com_estoque"`
	ProdutosSemEndereco      int `json:"produtos_sem_endereco" db:"produtos_sem_endereco"`
	ProdutosAbaixoFacing     int `json:"produtos_abaixo_facing" db:"produtos_abaixo_facing"`
	TotalEnderecos           int `json:"total_enderecos" db:"total_enderecos"`
	EnderecosOcupados        int `json:"enderecos_ocupados" db:"enderecos_ocupados"`
	DocumentosEntradaAbertos int `json:"documentos_entrada_abertos" db:"documentos_entrada_abertos"`
	DocumentosSaidaAbertos   int `json:"documentos_saida_abertos" db:"documentos_saida_abertos"`
}

// LinhaRelatorioEndereco é uma linha do relatório de ocupação de endereços.
// Endereços vazios aparecem com CodProduto nil.
type LinhaRelatorioEndereco struct {
	CodEndereco string           `json:"codendereco" db:"codendereco"`
	Rua         string           `json:"rua" db:"rua"`
	Predio      string           `json:"predio" db:"predio"`
	Andar       *string          `json:"andar" db:"andar"`
	Apto        *string          `json:"apto" db:"apto"`
	CodProduto  *string          `json:"codproduto" db:"codproduto"`
	Descricao   *string          `json:"descricao" db:"descricao"`
	Lote        *string          `json:"lote" db:"lote"`
	Quantidade  *decimal.Decimal `json:"quantidade" db:"quantidade"`
}
