package analytics_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/analytics"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	kpirules "github.com/jhoicas/Fabrica-api/internal/domain/analytics"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// KPIs y alertas
// ──────────────────────────────────────────────────────────────────────────────

type kpiFixture struct {
	kpis     *kpiRepo
	alerts   *alertRepo
	notifier *notifier
	uc       *analytics.KPIUseCase
}

func newKPIFixture() *kpiFixture {
	f := &kpiFixture{kpis: newKPIRepo(), alerts: &alertRepo{}, notifier: &notifier{}}
	f.uc = analytics.NewKPIUseCase(f.kpis, f.alerts, &txRunner{kpis: f.kpis, alerts: f.alerts}, f.notifier, logger.Nop())
	return f
}

// eficiencia: meta 90, warning 80, critical 70 (menor es peor).
func (f *kpiFixture) efficiency(t *testing.T) *dto.KPIResponse {
	t.Helper()
	k, err := f.uc.CreateKPI(context.Background(), dto.CreateKPIRequest{
		Name: "OEE", Category: entity.KPICategoryEfficiency, Unit: "%",
		TargetValue: 90, WarningThreshold: 80, CriticalThreshold: 70,
	})
	require.NoError(t, err)
	return k
}

func TestCreateKPI_Defaults(t *testing.T) {
	f := newKPIFixture()

	k := f.efficiency(t)

	assert.Equal(t, 30, k.TrendPeriodDays)
	assert.Equal(t, "daily", k.UpdateFrequency)
	assert.Equal(t, kpirules.StatusAtRisk, k.Status, "valor 0 frente a meta 90")

	_, err := f.uc.CreateKPI(context.Background(), dto.CreateKPIRequest{Name: "x", Unit: "u", Category: "ventas"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordValue_EstadoYTendencia(t *testing.T) {
	f := newKPIFixture()
	ctx := context.Background()
	k := f.efficiency(t)

	_, err := f.uc.RecordValue(ctx, k.ID, dto.RecordKPIValueRequest{Value: 85})
	require.NoError(t, err)
	res, err := f.uc.RecordValue(ctx, k.ID, dto.RecordKPIValueRequest{Value: 93.5})
	require.NoError(t, err)

	assert.Equal(t, kpirules.StatusAchieved, res.KPI.Status)
	assert.Equal(t, kpirules.TrendUp, res.KPI.Trend)
	assert.InDelta(t, 10.0, res.KPI.TrendChange, 0.001)
	assert.Nil(t, res.Alert)

	got, err := f.uc.GetKPI(ctx, k.ID)
	require.NoError(t, err)
	assert.Equal(t, 93.5, got.CurrentValue)
	require.NotNil(t, got.Completion)
	assert.InDelta(t, 103.89, *got.Completion, 0.01)
}

func TestRecordValue_AbreUnaAlertaPorSeveridad(t *testing.T) {
	f := newKPIFixture()
	ctx := context.Background()
	k := f.efficiency(t)

	res, err := f.uc.RecordValue(ctx, k.ID, dto.RecordKPIValueRequest{Value: 65})
	require.NoError(t, err)
	require.NotNil(t, res.Alert)
	assert.Equal(t, entity.AlertSeverityCritical, res.Alert.Severity)
	assert.Equal(t, 70.0, res.Alert.ThresholdValue)

	res, err = f.uc.RecordValue(ctx, k.ID, dto.RecordKPIValueRequest{Value: 60})
	require.NoError(t, err)
	assert.Nil(t, res.Alert, "ya hay una crítica activa")

	res, err = f.uc.RecordValue(ctx, k.ID, dto.RecordKPIValueRequest{Value: 75})
	require.NoError(t, err)
	require.NotNil(t, res.Alert)
	assert.Equal(t, entity.AlertSeverityWarning, res.Alert.Severity)

	assert.Len(t, f.alerts.alerts, 2)
	assert.Equal(t, 2, f.notifier.calls)
}

func TestRecordValue_FalloDeNotificacionNoFalla(t *testing.T) {
	f := newKPIFixture()
	f.notifier.err = errors.New("sendgrid caído")
	k := f.efficiency(t)

	res, err := f.uc.RecordValue(context.Background(), k.ID, dto.RecordKPIValueRequest{Value: 10})
	require.NoError(t, err)
	assert.NotNil(t, res.Alert)
}

func TestRecordValue_FalloDeAlertaRevierteElValor(t *testing.T) {
	f := newKPIFixture()
	ctx := context.Background()
	k := f.efficiency(t)
	_, err := f.uc.RecordValue(ctx, k.ID, dto.RecordKPIValueRequest{Value: 85})
	require.NoError(t, err)

	f.alerts.createErr = errors.New("alerts: conexión perdida")
	_, err = f.uc.RecordValue(ctx, k.ID, dto.RecordKPIValueRequest{Value: 60})
	require.Error(t, err)

	got, err := f.uc.GetKPI(ctx, k.ID)
	require.NoError(t, err)
	assert.Equal(t, 85.0, got.CurrentValue)
	assert.Len(t, f.kpis.history, 1, "el historial del valor fallido se revierte")
	assert.Empty(t, f.alerts.alerts)
	assert.Zero(t, f.notifier.calls)
}

func TestRecordValue_KPIInexistente(t *testing.T) {
	f := newKPIFixture()
	_, err := f.uc.RecordValue(context.Background(), "nope", dto.RecordKPIValueRequest{Value: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAlertas_ReconocerYResolver(t *testing.T) {
	f := newKPIFixture()
	ctx := context.Background()
	k := f.efficiency(t)
	res, err := f.uc.RecordValue(ctx, k.ID, dto.RecordKPIValueRequest{Value: 50})
	require.NoError(t, err)
	id := res.Alert.ID

	a, err := f.uc.AcknowledgeAlert(ctx, id, "sup-1")
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusAcknowledged, a.Status)
	assert.Equal(t, "sup-1", a.AcknowledgedBy)

	_, err = f.uc.AcknowledgeAlert(ctx, id, "sup-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	a, err = f.uc.ResolveAlert(ctx, id, "sup-1", "línea recalibrada")
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusResolved, a.Status)
	assert.NotNil(t, a.ResolvedAt)
	assert.Equal(t, "línea recalibrada", a.ResolutionNote)

	_, err = f.uc.ResolveAlert(ctx, id, "sup-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	list, err := f.uc.ListAlerts(ctx, repository.AlertFilter{Status: entity.AlertStatusResolved}, 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_Resumen(t *testing.T) {
	dash := &dashRepo{value: decimal.RequireFromString("1234.567"), low: 3, alerts: 2, moves: 41}
	uc := analytics.NewDashboardUseCase(dash,
		prodOrders{statusCounter: statusCounter{counts: map[string]int{
			entity.ProductionStatusScheduled: 2, entity.ProductionStatusInProgress: 1, entity.ProductionStatusDraft: 9,
		}}},
		custOrders{statusCounter: statusCounter{counts: map[string]int{
			entity.OrderStatusPending: 4, entity.OrderStatusDelivered: 7,
		}}},
	)

	res, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.True(t, res.StockValue.Equal(decimal.RequireFromString("1234.57")))
	assert.Equal(t, 3, res.LowStockMaterials)
	assert.Equal(t, 3, res.OpenProductionOrders, "draft no cuenta como abierta")
	assert.Equal(t, 4, res.PendingOrders)
	assert.Equal(t, 2, res.ActiveAlerts)
	assert.Equal(t, 41, res.MovementsLast7Days)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), dash.since, time.Minute)
	assert.NotEmpty(t, res.DateLabel)
}

func TestDashboard_PropagaErrores(t *testing.T) {
	dash := &dashRepo{valueErr: errors.New("timeout")}
	uc := analytics.NewDashboardUseCase(dash, prodOrders{}, custOrders{})

	_, err := uc.GetSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valor de inventario")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

type reportFixture struct {
	reports *reportRepo
	queue   *queue
	uc      *analytics.ReportUseCase
	worker  *analytics.ReportWorker
	dir     string
}

func newReportFixture(t *testing.T, renderer analytics.ReportRenderer) *reportFixture {
	store := inventorytest.NewStore().
		AddMaterial(entity.Material{ID: "M1", Code: "A-1", Name: "Acero", Unit: entity.UnitKilogram,
			UnitPrice: decimal.RequireFromString("2.5"), ReorderPoint: decimal.RequireFromString("50"), Active: true}).
		AddStock(entity.Stock{MaterialID: "M1", LocationID: "L1", Quantity: decimal.RequireFromString("40")})
	repos := store.Repos()

	f := &reportFixture{reports: newReportRepo(), queue: &queue{}, dir: t.TempDir()}
	f.uc = analytics.NewReportUseCase(f.reports, f.queue, logger.Nop())
	builder := analytics.NewReportBuilder(analytics.ReportSources{
		KPIs: newKPIRepo(), Alerts: &alertRepo{}, Materials: repos.Materials, Movements: repos.Movements,
	})
	f.worker = analytics.NewReportWorker(f.reports, f.queue, builder,
		map[string]analytics.ReportRenderer{entity.ReportFormatCSV: renderer}, f.dir, logger.Nop())
	return f
}

func TestReport_SolicitudYGeneracion(t *testing.T) {
	f := newReportFixture(t, textRenderer{})
	ctx := context.Background()

	r, err := f.uc.Request(ctx, "admin", dto.CreateReportRequest{
		Name: "Inventario", ReportType: entity.ReportInventorySummary, Format: entity.ReportFormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusPending, r.Status)
	require.Equal(t, []string{r.ID}, f.queue.ids)

	_, err = f.uc.Download(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "aún no está listo")

	id, err := f.queue.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NoError(t, f.worker.Process(ctx, id))

	done, err := f.uc.Download(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	content, err := os.ReadFile(done.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "A-1|Acero|kg|40|50|2.50|100.00")
}

func TestReport_FalloDeRenderizado(t *testing.T) {
	f := newReportFixture(t, textRenderer{fail: true})
	ctx := context.Background()

	r, err := f.uc.Request(ctx, "admin", dto.CreateReportRequest{ReportType: entity.ReportKPISummary, Format: entity.ReportFormatCSV})
	require.NoError(t, err)

	err = f.worker.Process(ctx, r.ID)
	require.Error(t, err)

	got, err := f.uc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusFailed, got.Status)
	assert.Contains(t, got.Error, "plantilla rota")
}

func TestReport_FormatoSinRenderizador(t *testing.T) {
	f := newReportFixture(t, textRenderer{})
	ctx := context.Background()

	r, err := f.uc.Request(ctx, "admin", dto.CreateReportRequest{ReportType: entity.ReportAlertSummary, Format: entity.ReportFormatPDF})
	require.NoError(t, err)
	require.Error(t, f.worker.Process(ctx, r.ID))

	got, err := f.uc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusFailed, got.Status)
}

func TestReport_Validaciones(t *testing.T) {
	f := newReportFixture(t, textRenderer{})
	ctx := context.Background()
	from := time.Now()
	to := from.Add(-time.Hour)

	_, err := f.uc.Request(ctx, "u", dto.CreateReportRequest{ReportType: "ventas", Format: entity.ReportFormatPDF})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Request(ctx, "u", dto.CreateReportRequest{ReportType: entity.ReportKPISummary, Format: "docx"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Request(ctx, "u", dto.CreateReportRequest{ReportType: entity.ReportKPISummary, Format: entity.ReportFormatPDF,
		StartDate: &from, EndDate: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReport_ColaCaidaMarcaFallido(t *testing.T) {
	f := newReportFixture(t, textRenderer{})
	f.queue.err = errors.New("redis: connection refused")

	_, err := f.uc.Request(context.Background(), "u", dto.CreateReportRequest{ReportType: entity.ReportKPISummary, Format: entity.ReportFormatCSV})
	require.Error(t, err)

	require.Len(t, f.reports.reports, 1)
	for _, r := range f.reports.reports {
		assert.Equal(t, entity.ReportStatusFailed, r.Status)
	}
}

func TestReportWorker_ArranqueMarcaInterrumpidosComoFallidos(t *testing.T) {
	f := newReportFixture(t, textRenderer{})
	f.reports.reports["cortado"] = entity.Report{ID: "cortado", Status: entity.ReportStatusProcessing, Format: entity.ReportFormatCSV}
	f.reports.reports["listo"] = entity.Report{ID: "listo", Status: entity.ReportStatusCompleted, Format: entity.ReportFormatCSV}
	f.reports.reports["en-cola"] = entity.Report{ID: "en-cola", Status: entity.ReportStatusPending, Format: entity.ReportFormatCSV}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.worker.Run(ctx)

	assert.Equal(t, entity.ReportStatusFailed, f.reports.reports["cortado"].Status)
	assert.NotEmpty(t, f.reports.reports["cortado"].Error)
	assert.Equal(t, entity.ReportStatusCompleted, f.reports.reports["listo"].Status)
	assert.Equal(t, entity.ReportStatusPending, f.reports.reports["en-cola"].Status)

	n, err := f.worker.RecoverInterrupted(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
