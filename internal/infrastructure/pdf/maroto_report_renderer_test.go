package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnWidths_SumaLaGrilla(t *testing.T) {
	assert.Equal(t, []int{3, 3, 3, 3}, columnWidths(4, 12))
	assert.Equal(t, []int{3, 3, 2, 2, 2}, columnWidths(5, 12))
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, columnWidths(14, 14))
	assert.Nil(t, columnWidths(0, 12))
}

func TestRender_GeneraPDF(t *testing.T) {
	doc := &analytics.ReportDocument{
		Title:       "Resumen de inventario",
		Subtitle:    "Existencias al 2026-03-10",
		GeneratedAt: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		Headers:     []string{"Código", "Material", "Unidad", "Stock"},
		Rows: [][]string{
			{"A-1", "Acero", "kg", "40"},
			{"B-2", "Pintura", "l", "12"},
		},
		Summary: []analytics.SummaryItem{{Label: "Materiales", Value: "2"}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReportRenderer().Render(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "el archivo debe empezar con la cabecera PDF")
	assert.Equal(t, "pdf", NewReportRenderer().Extension())
}
