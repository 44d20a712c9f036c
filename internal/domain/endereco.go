package domain

// Endereco representa uma posição física de armazenagem (rua/prédio, opcionalmente andar/apto).
type Endereco struct {
	CodEndereco string  `json:"codendereco" db:"codendereco"`
	Rua         string  `json:"rua" db:"rua"`
	Predio      string  `json:"predio" db:"predio"`
	Andar       *string `json:"andar" db:"andar"`
	Apto        *string `json:"apto" db:"apto"`
}

// EnderecoComProdutos é o endereço acompanhado do estoque que ele guarda.
type EnderecoComProdutos struct {
	Endereco
	Produtos []EstoqueEndereco `json:"produtos"`
}

// EnderecoInput é o payload de criação/alteração de endereço.
type EnderecoInput struct {
	CodEndereco string  `json:"codendereco"`
	Rua         string  `json:"rua"`
	Predio      string  `json:"predio"`
	Andar       *string `json:"andar"`
	Apto        *string `json:"apto"`
}
