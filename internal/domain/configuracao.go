package domain

// Configuracao guarda a identidade visual da empresa e opções de operação.
type Configuracao struct {
	NomeEmpresa          string  `json:"nome_empresa" db:"nome_empresa"`
	LogoURL              *string `json:"logo_url" db:"logo_url"`
	CorPrimaria          string  `json:"cor_primaria" db:"cor_primaria"`
	CorSecundaria        string  `json:"cor_secundaria" db:"cor_secundaria"`
	EnderecoQuatroNiveis bool    `json:"endereco_quatro_niveis" db:"endereco_quatro_niveis"`
	IntervaloPainelMin   int     `json:"intervalo_painel_min" db:"intervalo_painel_min"`
}

// ConfiguracaoPadrao é usada enquanto nenhuma configuração foi gravada.
func ConfiguracaoPadrao() Configuracao {
	return Configuracao{
		NomeEmpresa:        "WMS",
		CorPrimaria:        "#1976d2",
		CorSecundaria:      "#dc004e",
		IntervaloPainelMin: 5,
	}
}
