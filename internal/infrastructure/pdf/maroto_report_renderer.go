// Package pdf genera reportes tabulares en PDF con Maroto v2.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título              │  Fecha de generación          │
//	│  Subtítulo (periodo)                                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: encabezados + una fila por registro                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: etiqueta / valor                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"io"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Fabrica-api/internal/application/analytics"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorZebra   = &props.Color{Red: 240, Green: 244, Blue: 248}
)

const defaultGrid = 12

// ── Renderer ──────────────────────────────────────────────────────────────────

// ReportRenderer implementa analytics.ReportRenderer usando Maroto v2.
type ReportRenderer struct{}

var _ analytics.ReportRenderer = (*ReportRenderer)(nil)

// NewReportRenderer construye el generador.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

// Extension extensión de archivo de los reportes PDF.
func (ReportRenderer) Extension() string { return "pdf" }

// Render genera el PDF y lo escribe en w.
func (ReportRenderer) Render(w io.Writer, doc *analytics.ReportDocument) error {
	grid := defaultGrid
	if n := len(doc.Headers); n > grid {
		grid = n
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithMaxGridSize(grid).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(doc.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc, grid))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	widths := columnWidths(len(doc.Headers), grid)
	m.AddRows(tableHeaderRow(doc.Headers, widths))
	m.AddRows(tableRows(doc.Rows, widths)...)

	if len(doc.Summary) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(summaryRows(doc.Summary, grid)...)
	}

	out, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	if _, err := w.Write(out.GetBytes()); err != nil {
		return fmt.Errorf("pdf: escribir documento: %w", err)
	}
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y subtítulo (izq) y fecha de generación (der).
func headerRow(doc *analytics.ReportDocument, grid int) core.Row {
	right := grid / 3
	return row.New(16).Add(
		col.New(grid-right).Add(
			text.New(doc.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Subtitle, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(right).Add(
			text.New("Generado: "+doc.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla.
func tableHeaderRow(headers []string, widths []int) core.Row {
	cols := make([]core.Col, 0, len(headers))
	for i, h := range headers {
		cols = append(cols, col.New(widths[i]).Add(text.New(h, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

// tableRows: una fila por registro, con fondo alterno.
func tableRows(rows [][]string, widths []int) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for i, values := range rows {
		cols := make([]core.Col, 0, len(widths))
		for j, width := range widths {
			cell := ""
			if j < len(values) {
				cell = values[j]
			}
			cols = append(cols, col.New(width).Add(text.New(cell, props.Text{
				Size: 8, Top: 1, Left: 1, Right: 1,
			})))
		}
		r := row.New(6).Add(cols...)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorZebra})
		}
		result = append(result, r)
	}
	return result
}

// summaryRows: pares etiqueta/valor alineados a la derecha.
func summaryRows(items []analytics.SummaryItem, grid int) []core.Row {
	half := grid / 2
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(6).Add(
			col.New(half).Add(text.New(it.Label+":", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1,
			})),
			col.New(grid-half).Add(text.New(it.Value, props.Text{
				Size: 9, Top: 1,
			})),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

// columnWidths reparte la grilla entre n columnas; el sobrante va a las primeras.
func columnWidths(n, grid int) []int {
	if n == 0 {
		return nil
	}
	base, extra := grid/n, grid%n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < extra {
			widths[i]++
		}
	}
	return widths
}
