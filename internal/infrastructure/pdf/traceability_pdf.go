// Package pdf genera la ficha de trazabilidad de una pieza en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la pieza + código │ Fecha de emisión      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FICHA: Categoría / Ubicación / Estado / Precio / Peso       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Ubicación | Estado | Usuario | Doc.   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de la pieza + leyenda                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 120, Green: 90, Blue: 30}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dateLayout = "02/01/2006 15:04"

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ inventory.ReportRenderer = (*TraceabilityRenderer)(nil)

// TraceabilityRenderer genera la ficha de trazabilidad con Maroto v2.
type TraceabilityRenderer struct {
	company string
}

// NewTraceabilityRenderer construye el generador. company aparece como autor del documento.
func NewTraceabilityRenderer(company string) *TraceabilityRenderer {
	return &TraceabilityRenderer{company: company}
}

// Render genera el PDF y devuelve sus bytes.
func (g *TraceabilityRenderer) Render(_ context.Context, report *inventory.TraceabilityReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Trazabilidad "+report.Item.ItemCode, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(itemRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Movements) == 0 {
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("Sin movimientos registrados.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}
	for _, r := range movementRows(report) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(report.Item))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *inventory.TraceabilityReport) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(report.Item.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Código: "+report.Item.ItemCode, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("FICHA DE TRAZABILIDAD", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitida: "+report.GeneratedAt.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func itemRow(report *inventory.TraceabilityReport) core.Row {
	item := report.Item
	return row.New(14).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Categoría: %s   |   Ubicación actual: %s   |   Estado: %s",
				nonEmpty(item.CategoryID, "—"),
				nonEmpty(report.LocationName(item.LocationID()), "—"),
				nonEmpty(report.StatusName(item.StatusID()), "—"),
			), props.Text{Size: 8, Top: 1}),
			text.New(fmt.Sprintf("Precio de venta: $%s   |   Peso: %s g   |   Movimientos: %d",
				formatMoney(item.SalePrice.StringFixed(0)),
				item.MainWeight.StringFixed(2),
				len(report.Movements),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2),
		h("Tipo", 2),
		h("Ubicación", 3),
		h("Estado", 2),
		h("Usuario", 2),
		h("Doc.", 1),
	)
}

func movementRows(report *inventory.TraceabilityReport) []core.Row {
	cell := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7, Top: 1, Left: 1}))
	}
	result := make([]core.Row, 0, len(report.Movements))
	for _, mv := range report.Movements {
		result = append(result, row.New(7).Add(
			cell(mv.CreatedAt.Format(dateLayout), 2),
			cell(report.TypeName(mv), 2),
			cell(transition(report.LocationName(mv.FromLocationID), report.LocationName(mv.ToLocationID)), 3),
			cell(transition(report.StatusName(mv.FromStatusID), report.StatusName(mv.ToStatusID)), 2),
			cell(mv.PerformedBy, 2),
			cell(mv.DocumentType, 1),
		))
	}
	return result
}

func footerRow(item *entity.InventoryItem) core.Row {
	if item.QRCode == "" {
		return row.New(8).Add(col.New(12).Add(
			text.New("Documento generado a partir del libro de movimientos.", props.Text{
				Size: 7, Color: colorGray, Top: 2,
			}),
		))
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(item.QRCode, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Escanea el código QR para consultar la pieza.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Documento generado a partir del libro de movimientos.", props.Text{
				Size: 7, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func transition(from, to string) string {
	switch {
	case from == to:
		return nonEmpty(to, "—")
	case from == "":
		return "→ " + to
	default:
		return from + " → " + to
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
