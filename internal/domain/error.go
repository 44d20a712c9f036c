package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Erro     string `json:"erro" example:"Este endereço já está cadastrado para este produto."`
	Code     int    `json:"code" example:"400"`
	Category string `json:"category" example:"DUPLICATE"`
}
