package csvreport

import (
	"bytes"
	"testing"

	"github.com/jhoicas/Fabrica-api/internal/application/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	doc := &analytics.ReportDocument{
		Headers: []string{"Código", "Material"},
		Rows:    [][]string{{"A-1", "Acero, laminado"}},
		Summary: []analytics.SummaryItem{{Label: "Materiales", Value: "1"}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewReportRenderer().Render(&buf, doc))
	assert.Equal(t, "Código,Material\nA-1,\"Acero, laminado\"\n\nMateriales,1\n", buf.String())
}
