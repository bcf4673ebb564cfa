package analytics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	kpirules "github.com/jhoicas/Fabrica-api/internal/domain/analytics"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	defaultReportDays  = 30
	reportTopMaterials = 10
	maxReportRows      = 10000
)

// ReportSources repositorios de los que se alimentan los reportes.
type ReportSources struct {
	KPIs      repository.KPIRepository
	Alerts    repository.AlertRepository
	Materials repository.MaterialRepository
	Movements repository.StockMovementRepository
}

// ReportBuilder arma el contenido tabular de cada tipo de reporte.
type ReportBuilder struct {
	src ReportSources
	now func() time.Time
}

// NewReportBuilder construye el armador.
func NewReportBuilder(src ReportSources) *ReportBuilder {
	return &ReportBuilder{src: src, now: time.Now}
}

// Build arma el documento del reporte. Sin rango usa los últimos 30 días.
func (b *ReportBuilder) Build(ctx context.Context, r *entity.Report) (*ReportDocument, error) {
	from, to := b.period(r)
	doc := &ReportDocument{
		Title:       r.Name,
		Subtitle:    fmt.Sprintf("Periodo %s a %s", from.Format("2006-01-02"), to.Format("2006-01-02")),
		GeneratedAt: b.now(),
	}
	var err error
	switch r.ReportType {
	case entity.ReportKPISummary:
		err = b.kpiSummary(ctx, doc)
	case entity.ReportAlertSummary:
		err = b.alertSummary(ctx, doc, from, to)
	case entity.ReportInventorySummary:
		doc.Subtitle = "Existencias al " + doc.GeneratedAt.Format("2006-01-02")
		err = b.inventorySummary(ctx, doc)
	case entity.ReportMovementAnalysis:
		err = b.movementAnalysis(ctx, doc, from, to)
	default:
		err = fmt.Errorf("tipo de reporte %q no soportado", r.ReportType)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *ReportBuilder) period(r *entity.Report) (time.Time, time.Time) {
	to := b.now()
	if r.EndDate != nil {
		to = *r.EndDate
	}
	from := to.AddDate(0, 0, -defaultReportDays)
	if r.StartDate != nil {
		from = *r.StartDate
	}
	return from, to
}

func (b *ReportBuilder) kpiSummary(ctx context.Context, doc *ReportDocument) error {
	kpis, err := b.src.KPIs.List(ctx, "")
	if err != nil {
		return err
	}
	doc.Headers = []string{"KPI", "Categoría", "Unidad", "Meta", "Actual", "Cumplimiento %", "Estado"}
	counts := map[string]int{}
	for _, k := range kpis {
		completion := "-"
		if pct, ok := kpirules.Completion(k.CurrentValue, k.TargetValue); ok {
			completion = formatFloat(pct)
		}
		status := kpirules.KPIStatus(k.CurrentValue, k.TargetValue)
		counts[status]++
		doc.Rows = append(doc.Rows, []string{
			k.Name, k.Category, k.Unit, formatFloat(k.TargetValue), formatFloat(k.CurrentValue), completion, status,
		})
	}
	doc.Summary = []SummaryItem{
		{Label: "KPIs", Value: strconv.Itoa(len(kpis))},
		{Label: "Cumplidos", Value: strconv.Itoa(counts[kpirules.StatusAchieved])},
		{Label: "En riesgo", Value: strconv.Itoa(counts[kpirules.StatusAtRisk])},
	}
	return nil
}

func (b *ReportBuilder) alertSummary(ctx context.Context, doc *ReportDocument, from, to time.Time) error {
	alerts, err := b.src.Alerts.List(ctx, repository.AlertFilter{}, maxReportRows, 0)
	if err != nil {
		return err
	}
	doc.Headers = []string{"Alerta", "Severidad", "Estado", "Umbral", "Valor", "Creada"}
	var critical, active int
	for _, a := range alerts {
		if a.CreatedAt.Before(from) || a.CreatedAt.After(to) {
			continue
		}
		if a.Severity == entity.AlertSeverityCritical {
			critical++
		}
		if a.Status == entity.AlertStatusActive {
			active++
		}
		doc.Rows = append(doc.Rows, []string{
			a.Title, a.Severity, a.Status, formatFloat(a.ThresholdValue), formatFloat(a.CurrentValue),
			a.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	doc.Summary = []SummaryItem{
		{Label: "Alertas", Value: strconv.Itoa(len(doc.Rows))},
		{Label: "Críticas", Value: strconv.Itoa(critical)},
		{Label: "Activas", Value: strconv.Itoa(active)},
	}
	return nil
}

func (b *ReportBuilder) inventorySummary(ctx context.Context, doc *ReportDocument) error {
	levels, err := b.src.Materials.ListStockLevels(ctx, false)
	if err != nil {
		return err
	}
	doc.Headers = []string{"Código", "Material", "Unidad", "Stock", "Punto de reorden", "Precio", "Valor"}
	total := decimal.Zero
	low := 0
	for _, l := range levels {
		value := l.CurrentStock.Mul(l.Material.UnitPrice).Round(2)
		total = total.Add(value)
		if l.CurrentStock.LessThanOrEqual(l.Material.ReorderPoint) {
			low++
		}
		doc.Rows = append(doc.Rows, []string{
			l.Material.Code, l.Material.Name, l.Material.Unit, l.CurrentStock.String(),
			l.Material.ReorderPoint.String(), l.Material.UnitPrice.StringFixed(2), value.StringFixed(2),
		})
	}
	doc.Summary = []SummaryItem{
		{Label: "Materiales", Value: strconv.Itoa(len(levels))},
		{Label: "Bajo punto de reorden", Value: strconv.Itoa(low)},
		{Label: "Valor total", Value: total.StringFixed(2)},
	}
	return nil
}

func (b *ReportBuilder) movementAnalysis(ctx context.Context, doc *ReportDocument, from, to time.Time) error {
	summary, err := b.src.Movements.SummaryByType(ctx, from, to)
	if err != nil {
		return err
	}
	top, err := b.src.Movements.TopMaterials(ctx, from, to, reportTopMaterials)
	if err != nil {
		return err
	}
	doc.Headers = []string{"Tipo", "Movimientos", "Cantidad total"}
	total := 0
	for _, s := range summary {
		total += s.Count
		doc.Rows = append(doc.Rows, []string{s.Type, strconv.Itoa(s.Count), s.TotalQuantity.String()})
	}
	doc.Summary = []SummaryItem{{Label: "Movimientos", Value: strconv.Itoa(total)}}
	for i, m := range top {
		doc.Summary = append(doc.Summary, SummaryItem{
			Label: fmt.Sprintf("Top %d", i+1),
			Value: fmt.Sprintf("%s %s (%d)", m.MaterialCode, m.MaterialName, m.Count),
		})
	}
	return nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
