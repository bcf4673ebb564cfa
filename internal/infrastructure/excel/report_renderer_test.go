package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Fabrica-api/internal/application/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_EscribeTablaYResumen(t *testing.T) {
	doc := &analytics.ReportDocument{
		Title:       "Análisis de movimientos",
		Subtitle:    "Periodo 2026-02-08 a 2026-03-10",
		GeneratedAt: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		Headers:     []string{"Tipo", "Movimientos", "Cantidad"},
		Rows:        [][]string{{"receipt", "4", "120"}, {"issue", "2", "35"}},
		Summary:     []analytics.SummaryItem{{Label: "Total", Value: "6"}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReportRenderer().Render(&buf, doc))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 9)

	assert.Equal(t, "Análisis de movimientos", rows[0][0])
	assert.Equal(t, []string{"Tipo", "Movimientos", "Cantidad"}, rows[4])
	assert.Equal(t, []string{"receipt", "4", "120"}, rows[5])
	assert.Equal(t, []string{"Total", "6"}, rows[8])
	assert.Equal(t, "xlsx", NewReportRenderer().Extension())
}
