package database

import (
	"fmt"
	"regexp"
)

var prefixPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Tables resolve os nomes físicos das tabelas e views a partir do prefixo configurado.
// Tabelas: <prefixo>_<nome>. Views alimentadas pelo ERP: vs_<prefixo>_<nome>.
type Tables struct {
	Prefix string

	Enderecos     string
	EstoqueLocal  string
	Auditoria     string
	Usuarios      string
	NiveisAcesso  string
	Modulos       string
	Permissoes    string
	Configuracoes string

	Produtos      string
	Lotes         string
	PainelSaida   string
	PainelEntrada string
}

// NewTables valida o prefixo (ele é interpolado no SQL) e monta os nomes.
func NewTables(prefix string) (Tables, error) {
	if !prefixPattern.MatchString(prefix) {
		return Tables{}, fmt.Errorf("prefixo de tabela inválido: %q", prefix)
	}
	t := func(name string) string { return prefix + "_" + name }
	v := func(name string) string { return "vs_" + prefix + "_" + name }

	return Tables{
		Prefix:        prefix,
		Enderecos:     t("enderecos"),
		EstoqueLocal:  t("estoque_local"),
		Auditoria:     t("auditoria_enderecos"),
		Usuarios:      t("usuarios"),
		NiveisAcesso:  t("niveis_acesso"),
		Modulos:       t("modulos"),
		Permissoes:    t("permissoes"),
		Configuracoes: t("configuracoes"),
		Produtos:      v("produtos"),
		Lotes:         v("produtos_lotes"),
		PainelSaida:   v("fpainel_saida"),
		PainelEntrada: v("fpainel_entrada"),
	}, nil
}

// MustTables é usado em testes e em prefixos fixos.
func MustTables(prefix string) Tables {
	t, err := NewTables(prefix)
	if err != nil {
		panic(err)
	}
	return t
}
