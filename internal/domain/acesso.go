package domain

// ModuloChave identifica um módulo do sistema. A checagem de permissão compara chaves
// exatamente; nomes exibidos e rotas do frontend podem mudar sem afetar o acesso.
type ModuloChave string

const (
	ModuloProdutos           ModuloChave = "produtos"
	ModuloEnderecos          ModuloChave = "enderecos"
	ModuloPainelEntrada      ModuloChave = "painel-entrada"
	ModuloPainelSaida        ModuloChave = "painel-saida"
	ModuloRelatorioEnderecos ModuloChave = "relatorio-enderecos"
	ModuloControleAcesso     ModuloChave = "controle-acesso"
	ModuloConfiguracoes      ModuloChave = "configuracoes"
	ModuloDashboard          ModuloChave = "dashboard"
)

// Modulos lista todas as chaves conhecidas.
var Modulos = []ModuloChave{
	ModuloProdutos,
	ModuloEnderecos,
	ModuloPainelEntrada,
	ModuloPainelSaida,
	ModuloRelatorioEnderecos,
	ModuloControleAcesso,
	ModuloConfiguracoes,
	ModuloDashboard,
}

// Valida informa se a chave pertence ao conjunto conhecido.
func (c ModuloChave) Valida() bool {
	for _, m := range Modulos {
		if m == c {
			return true
		}
	}
	return false
}

// Acao é uma das quatro flags de permissão.
type Acao string

const (
	AcaoVisualizar Acao = "visualizar"
	AcaoIncluir    Acao = "incluir"
	AcaoEditar     Acao = "editar"
	AcaoExcluir    Acao = "excluir"
)

// NivelAcesso agrupa usuários com o mesmo conjunto de permissões.
type NivelAcesso struct {
	ID   int64  `json:"id" db:"id"`
	Nome string `json:"nome" db:"nome"`
}

// Modulo é uma área do sistema sujeita a permissão.
type Modulo struct {
	ID    int64       `json:"id" db:"id"`
	Chave ModuloChave `json:"chave" db:"chave"`
	Nome  string      `json:"nome" db:"nome"`
	Rota  string      `json:"rota" db:"rota"`
}

// Permissao são as flags de um nível de acesso sobre um módulo.
type Permissao struct {
	NivelAcessoID int64       `json:"nivel_acesso_id" db:"nivel_acesso_id"`
	ModuloID      int64       `json:"modulo_id" db:"modulo_id"`
	Chave         ModuloChave `json:"chave" db:"chave"`
	Nome          string      `json:"nome" db:"nome"`
	Rota          string      `json:"rota" db:"rota"`
	Visualizar    bool        `json:"visualizar" db:"visualizar"`
	Incluir       bool        `json:"incluir" db:"incluir"`
	Editar        bool        `json:"editar" db:"editar"`
	Excluir       bool        `json:"excluir" db:"excluir"`
}

// Permite informa se a flag correspondente à ação está ligada.
func (p Permissao) Permite(acao Acao) bool {
	switch acao {
	case AcaoVisualizar:
		return p.Visualizar
	case AcaoIncluir:
		return p.Incluir
	case AcaoEditar:
		return p.Editar
	case AcaoExcluir:
		return p.Excluir
	}
	return false
}

// MapaPermissoes indexa as permissões de um nível pela chave do módulo.
type MapaPermissoes map[ModuloChave]Permissao

// NovoMapaPermissoes monta o mapa a partir da lista do repositório.
func NovoMapaPermissoes(lista []Permissao) MapaPermissoes {
	m := make(MapaPermissoes, len(lista))
	for _, p := range lista {
		m[p.Chave] = p
	}
	return m
}

// Permite consulta o mapa por chave exata.
func (m MapaPermissoes) Permite(chave ModuloChave, acao Acao) bool {
	p, ok := m[chave]
	return ok && p.Permite(acao)
}
