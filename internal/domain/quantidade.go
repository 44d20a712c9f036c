package domain

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

func init() {
	// O frontend soma e compara quantidades como números; "50" entre aspas quebraria o estado local.
	decimal.MarshalJSONWithoutQuotes = true
}

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Limites de uma quantidade aceita. Ficam bem abaixo do NUMERIC do Postgres e impedem
// que um expoente enorme seja expandido em String() ou no driver.
const (
	QuantidadeMaxDigitos  = 64
	QuantidadeMaxExpoente = 64
)

// ParseQuantidade lê s como o parseFloat do JavaScript: ignora espaços à esquerda e usa o
// maior prefixo numérico ("12abc" vale 12). ok é false quando não existe prefixo numérico
// ou quando o valor excede QuantidadeMaxDigitos/QuantidadeMaxExpoente.
func ParseQuantidade(s string) (decimal.Decimal, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	m := numericPrefix.FindString(s)
	if m == "" {
		return decimal.Zero, false
	}

	sign := ""
	if m[0] == '+' || m[0] == '-' {
		if m[0] == '-' {
			sign = "-"
		}
		m = m[1:]
	}

	mantissa, exponent := m, ""
	if i := strings.IndexAny(m, "eE"); i >= 0 {
		mantissa, exponent = m[:i], m[i:]
	}
	mantissa = strings.TrimSuffix(mantissa, ".")
	if strings.HasPrefix(mantissa, ".") {
		mantissa = "0" + mantissa
	}
	if len(mantissa) > QuantidadeMaxDigitos+1 || len(exponent) > 8 {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(sign + mantissa + exponent)
	if err != nil {
		return decimal.Zero, false
	}
	if !QuantidadeNoLimite(d) {
		return decimal.Zero, false
	}
	return d, true
}

// QuantidadeNoLimite confere expoente e número de dígitos sem expandir o valor.
func QuantidadeNoLimite(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > QuantidadeMaxExpoente || exp < -QuantidadeMaxExpoente-QuantidadeMaxDigitos {
		return false
	}
	return d.Coefficient().BitLen() <= QuantidadeMaxDigitos*4
}

// Quantidade recebe quantidades que chegam do frontend ora como número, ora como string.
type Quantidade struct {
	Valor    decimal.Decimal
	Presente bool // false quando o campo veio ausente ou null
	Valida   bool // false quando não há prefixo numérico
}

// NewQuantidade monta uma Quantidade já validada (útil em testes e chamadas internas).
func NewQuantidade(v decimal.Decimal) Quantidade {
	return Quantidade{Valor: v, Presente: true, Valida: true}
}

// UnmarshalJSON aceita 50, 50.5, "50", " 50 un" e null.
func (q *Quantidade) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*q = Quantidade{}
		return nil
	}

	q.Presente = true
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		q.Valor, q.Valida = ParseQuantidade(s)
		return nil
	}

	q.Valor, q.Valida = ParseQuantidade(raw)
	return nil
}

// MarshalJSON devolve o valor numérico.
func (q Quantidade) MarshalJSON() ([]byte, error) {
	if !q.Presente || !q.Valida {
		return []byte("null"), nil
	}
	return q.Valor.MarshalJSON()
}
