package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TipoMovimento indica a direção de uma alteração de estoque por endereço.
type TipoMovimento string

const (
	MovimentoEntrada TipoMovimento = "entrada"
	MovimentoSaida   TipoMovimento = "saida"
)

// AuditoriaEndereco é um registro append-only de alteração de estoque por endereço.
// Quantidade é sempre o valor absoluto da variação.
type AuditoriaEndereco struct {
	CodEndereco string          `db:"codendereco"`
	CodProduto  string          `db:"codproduto"`
	Lote        string          `db:"lote"`
	Quantidade  decimal.Decimal `db:"quantidade"`
	Tipo        TipoMovimento   `db:"tipo"`
	Usuario     string          `db:"usuario"`
	DataHora    time.Time       `db:"data_hora"`
}

// NovaAuditoria monta o registro para a variação delta (novo - anterior).
// ok é false quando delta é zero: nesse caso nada deve ser gravado.
func NovaAuditoria(chave ChaveEstoque, delta decimal.Decimal, usuario string) (AuditoriaEndereco, bool) {
	if delta.IsZero() {
		return AuditoriaEndereco{}, false
	}
	tipo := MovimentoEntrada
	if delta.IsNegative() {
		tipo = MovimentoSaida
	}
	return AuditoriaEndereco{
		CodEndereco: chave.CodEndereco,
		CodProduto:  chave.CodProduto,
		Lote:        chave.Lote,
		Quantidade:  delta.Abs(),
		Tipo:        tipo,
		Usuario:     usuario,
	}, true
}
