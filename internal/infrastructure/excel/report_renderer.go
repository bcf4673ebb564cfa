// Package excel genera reportes tabulares en formato XLSX con excelize.
package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Fabrica-api/internal/application/analytics"
)

const sheetName = "Reporte"

// ReportRenderer implementa analytics.ReportRenderer sobre excelize.
type ReportRenderer struct{}

var _ analytics.ReportRenderer = (*ReportRenderer)(nil)

// NewReportRenderer construye el generador.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

// Extension extensión de archivo de los reportes Excel.
func (ReportRenderer) Extension() string { return "xlsx" }

// Render escribe título, tabla y resumen en una única hoja.
func (ReportRenderer) Render(w io.Writer, doc *analytics.ReportDocument) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("excel: estilo: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "00467F"}})
	if err != nil {
		return fmt.Errorf("excel: estilo: %w", err)
	}

	sw := &sheetWriter{f: f}
	sw.row(doc.Title)
	sw.style(title)
	sw.row(doc.Subtitle)
	sw.row("Generado: " + doc.GeneratedAt.Format("2006-01-02 15:04"))
	sw.skip()

	sw.row(doc.Headers...)
	sw.style(bold)
	for _, r := range doc.Rows {
		sw.row(r...)
	}

	if len(doc.Summary) > 0 {
		sw.skip()
		for _, it := range doc.Summary {
			sw.row(it.Label, it.Value)
		}
	}
	if sw.err != nil {
		return fmt.Errorf("excel: escribir celdas: %w", sw.err)
	}

	if len(doc.Headers) > 0 {
		last, _ := excelize.ColumnNumberToName(len(doc.Headers))
		if err := f.SetColWidth(sheetName, "A", last, 18); err != nil {
			return fmt.Errorf("excel: ancho de columnas: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: escribir libro: %w", err)
	}
	return nil
}

// sheetWriter escribe filas consecutivas y guarda el primer error.
type sheetWriter struct {
	f    *excelize.File
	next int
	cols int
	err  error
}

func (s *sheetWriter) row(values ...string) {
	s.next++
	s.cols = len(values)
	if s.err != nil || len(values) == 0 {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		s.err = err
		return
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	s.err = s.f.SetSheetRow(sheetName, cell, &vals)
}

// style aplica el estilo a la última fila escrita.
func (s *sheetWriter) style(id int) {
	if s.err != nil || s.cols == 0 {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, s.next)
	last, _ := excelize.CoordinatesToCellName(s.cols, s.next)
	s.err = s.f.SetCellStyle(sheetName, first, last, id)
}

func (s *sheetWriter) skip() { s.next++ }
