package domain

// Usuario representa um operador do WMS.
type Usuario struct {
	CodUsuario    int64  `json:"codusuario" db:"codusuario"`
	Login         string `json:"login" db:"login"`
	Nome          string `json:"nome" db:"nome"`
	SenhaHash     string `json:"-" db:"senha"` // Nunca sai no JSON
	NivelAcessoID int64  `json:"nivel_acesso_id" db:"nivel_acesso_id"`
	NivelAcesso   string `json:"nivel_acesso" db:"nivel_acesso"`
	Ativo         bool   `json:"ativo" db:"ativo"`
}

// SituacaoUsuario é o recorte do cadastro conferido a cada requisição protegida.
type SituacaoUsuario struct {
	NivelAcessoID int64 `json:"nivel_acesso_id"`
	Ativo         bool  `json:"ativo"`
}

// LoginRequest é o payload de POST /login.
type LoginRequest struct {
	Login string `json:"login"`
	Senha string `json:"senha"`
}

// UsuarioInput cria ou altera um usuário pelo controle de acesso.
type UsuarioInput struct {
	Login         string `json:"login"`
	Nome          string `json:"nome"`
	Senha         string `json:"senha"`
	NivelAcessoID int64  `json:"nivel_acesso_id"`
	Ativo         *bool  `json:"ativo"`
}

// Sessao é o contexto de autenticação devolvido no login e na verificação do token.
// O frontend guarda este objeto inteiro; não há outras leituras soltas.
type Sessao struct {
	Sucesso      bool          `json:"sucesso,omitempty"`
	Valido       bool          `json:"valido,omitempty"`
	Token        string        `json:"token,omitempty"`
	Usuario      Usuario       `json:"usuario"`
	Permissoes   []Permissao   `json:"permissoes"`
	Configuracao *Configuracao `json:"configuracao,omitempty"`
}
