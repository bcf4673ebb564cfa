// Package csvreport genera reportes tabulares en CSV.
package csvreport

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jhoicas/Fabrica-api/internal/application/analytics"
)

// ReportRenderer implementa analytics.ReportRenderer con encoding/csv.
type ReportRenderer struct{}

var _ analytics.ReportRenderer = (*ReportRenderer)(nil)

// NewReportRenderer construye el generador.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

// Extension extensión de archivo de los reportes CSV.
func (ReportRenderer) Extension() string { return "csv" }

// Render escribe encabezados y filas; el resumen va al final tras una línea vacía.
func (ReportRenderer) Render(w io.Writer, doc *analytics.ReportDocument) error {
	cw := csv.NewWriter(w)
	if len(doc.Headers) > 0 {
		if err := cw.Write(doc.Headers); err != nil {
			return fmt.Errorf("csv: encabezados: %w", err)
		}
	}
	if err := cw.WriteAll(doc.Rows); err != nil {
		return fmt.Errorf("csv: filas: %w", err)
	}
	if len(doc.Summary) > 0 {
		summary := make([][]string, 0, len(doc.Summary)+1)
		summary = append(summary, nil)
		for _, it := range doc.Summary {
			summary = append(summary, []string{it.Label, it.Value})
		}
		if err := cw.WriteAll(summary); err != nil {
			return fmt.Errorf("csv: resumen: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
