// Package report gera os documentos impressos do WMS.
package report

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"gowms/internal/domain"
)

var (
	colorGray  = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight = &props.Color{Red: 235, Green: 235, Blue: 235}
)

// EnderecosPDF monta o relatório de ocupação de endereços em A4.
type EnderecosPDF struct {
	now func() time.Time
}

func NewEnderecosPDF() *EnderecosPDF {
	return &EnderecosPDF{now: time.Now}
}

// Gerar devolve os bytes do PDF. A cor primária da empresa vem em "#RRGGBB".
func (g *EnderecosPDF) Gerar(cfg domain.Configuracao, filtroRua string, linhas []domain.LinhaRelatorioEndereco) ([]byte, error) {
	primary := parseHex(cfg.CorPrimaria)

	m := maroto.New(config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Relatório de Endereços", true).
		WithAuthor(cfg.NomeEmpresa, true).
		Build())

	m.AddRows(cabecalho(cfg.NomeEmpresa, filtroRua, g.now(), primary))
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.5}))
	m.AddRows(tituloTabela(primary))
	m.AddRows(linhasTabela(linhas)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(rodape(linhas))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("report: gerar relatório de endereços: %w", err)
	}
	return doc.GetBytes(), nil
}

func cabecalho(empresa, rua string, emitido time.Time, primary *props.Color) core.Row {
	filtro := "Todas as ruas"
	if rua != "" {
		filtro = "Rua " + rua
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New(empresa, props.Text{Style: fontstyle.Bold, Size: 13, Color: primary, Top: 1}),
			text.New("Relatório de Endereços", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(filtro, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1}),
			text.New("Emitido em "+emitido.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tituloTabela(primary *props.Color) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: primary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Endereço", 2, align.Left),
		h("Rua/Prédio/Andar/Apto", 3, align.Left),
		h("Produto", 4, align.Left),
		h("Lote", 1, align.Left),
		h("Quantidade", 2, align.Right),
	)
}

func linhasTabela(linhas []domain.LinhaRelatorioEndereco) []core.Row {
	rows := make([]core.Row, 0, len(linhas))
	for i, l := range linhas {
		cell := func(value string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		r := row.New(6).Add(
			cell(l.CodEndereco, 2, align.Left),
			cell(posicao(l), 3, align.Left),
			cell(produto(l), 4, align.Left),
			cell(deref(l.Lote, ""), 1, align.Left),
			cell(quantidade(l), 2, align.Right),
		)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorLight})
		}
		rows = append(rows, r)
	}
	return rows
}

func rodape(linhas []domain.LinhaRelatorioEndereco) core.Row {
	enderecos := map[string]bool{}
	vazios := 0
	for _, l := range linhas {
		enderecos[l.CodEndereco] = true
		if l.CodProduto == nil {
			vazios++
		}
	}
	resumo := fmt.Sprintf("%d endereço(s), %d vazio(s), %d linha(s)", len(enderecos), vazios, len(linhas))
	return row.New(8).Add(col.New(12).Add(
		text.New(resumo, props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

func posicao(l domain.LinhaRelatorioEndereco) string {
	s := l.Rua + "/" + l.Predio
	if l.Andar != nil {
		s += "/" + *l.Andar
	}
	if l.Apto != nil {
		s += "/" + *l.Apto
	}
	return s
}

func produto(l domain.LinhaRelatorioEndereco) string {
	if l.CodProduto == nil {
		return "(vazio)"
	}
	if l.Descricao == nil {
		return *l.CodProduto
	}
	return *l.CodProduto + " - " + *l.Descricao
}

func quantidade(l domain.LinhaRelatorioEndereco) string {
	if l.Quantidade == nil {
		return ""
	}
	return l.Quantidade.String()
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// parseHex converte "#RRGGBB" ou "#RGB". Valores inválidos caem no azul padrão.
func parseHex(s string) *props.Color {
	var r, g, b int
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return &props.Color{Red: r, Green: g, Blue: b}
		}
	case 4:
		if _, err := fmt.Sscanf(s, "#%1x%1x%1x", &r, &g, &b); err == nil {
			return &props.Color{Red: r * 17, Green: g * 17, Blue: b * 17}
		}
	}
	return &props.Color{Red: 25, Green: 118, Blue: 210}
}
