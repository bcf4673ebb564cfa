package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	prodrules "github.com/jhoicas/Fabrica-api/internal/domain/production"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineSchedule_OrdenEnCursoYAgendadas(t *testing.T) {
	f := newFixture()
	now := time.Now()
	f.db.
		AddOrder(entity.ProductionOrder{ID: "O1", OrderNumber: "OP-1", ProductID: "MESA", Quantity: q("5"),
			ProductionLineID: "L", Status: entity.ProductionStatusScheduled, StartDate: now.AddDate(0, 0, 5)}).
		AddOrder(entity.ProductionOrder{ID: "O2", OrderNumber: "OP-2", ProductID: "MESA", Quantity: q("1"),
			ProductionLineID: "L", Status: entity.ProductionStatusInProgress, StartDate: now}).
		AddOrder(entity.ProductionOrder{ID: "O3", OrderNumber: "OP-3", ProductID: "MESA", Quantity: q("1"),
			ProductionLineID: "L", Status: entity.ProductionStatusScheduled, StartDate: now.AddDate(0, 0, 1)}).
		AddOrder(entity.ProductionOrder{ID: "O4", OrderNumber: "OP-4", ProductID: "MESA", Quantity: q("1"),
			ProductionLineID: "OTRA", Status: entity.ProductionStatusScheduled, StartDate: now}).
		AddOrder(entity.ProductionOrder{ID: "O5", OrderNumber: "OP-5", ProductID: "MESA", Quantity: q("1"),
			ProductionLineID: "L", Status: entity.ProductionStatusCompleted, StartDate: now})

	res, err := f.uc.LineSchedule(context.Background(), "L")
	require.NoError(t, err)
	require.NotNil(t, res.CurrentOrder)
	assert.Equal(t, "OP-2", res.CurrentOrder.OrderNumber)
	require.Len(t, res.UpcomingOrders, 2)
	assert.Equal(t, "OP-3", res.UpcomingOrders[0].OrderNumber)
	assert.Equal(t, "OP-1", res.UpcomingOrders[1].OrderNumber)

	_, err = f.uc.LineSchedule(context.Background(), "X")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLineSchedule_SinOrdenEnCurso(t *testing.T) {
	f := newFixture()

	res, err := f.uc.LineSchedule(context.Background(), "L")
	require.NoError(t, err)
	assert.Nil(t, res.CurrentOrder)
	assert.Len(t, res.UpcomingOrders, 1)
}

func TestLinePerformance(t *testing.T) {
	f := newFixture()
	now := time.Now()
	schedule := now.Add(3*24*time.Hour + 12*time.Hour)
	end := now
	oldEnd := now.AddDate(0, 0, -40).Add(time.Hour)
	f.db.
		AddLine(entity.ProductionLine{ID: "L", Name: "Línea 1", Status: entity.LineStatusActive,
			CapacityPerHour: q("50"), MaintenanceSchedule: &schedule}).
		AddBatch(entity.ProductionBatch{ID: "B1", BatchNumber: "B-OP-1-1", ProductionOrderID: "O1",
			StartTime: now.Add(-2 * time.Hour), EndTime: &end, QuantityProduced: q("80"), DefectCount: 4}).
		AddBatch(entity.ProductionBatch{ID: "B0", BatchNumber: "B-OP-1-0", ProductionOrderID: "O1",
			StartTime: now.AddDate(0, 0, -40), EndTime: &oldEnd, QuantityProduced: q("500"), DefectCount: 100})

	res, err := f.uc.LinePerformance(context.Background(), "L", time.Time{})
	require.NoError(t, err)
	assert.True(t, res.TotalProduced.Equal(q("80")), "el lote de hace 40 días queda fuera")
	assert.Equal(t, 4, res.TotalDefects)
	assert.True(t, res.DefectRate.Equal(q("5")), "obtuvo %s", res.DefectRate)
	require.NotNil(t, res.Efficiency)
	assert.True(t, res.Efficiency.Equal(q("80")), "40 u/h frente a 50, obtuvo %s", res.Efficiency)
	assert.Equal(t, prodrules.MaintenanceDueSoon, res.MaintenanceStatus)
	require.NotNil(t, res.DaysUntilMaintenance)
	assert.Equal(t, 3, *res.DaysUntilMaintenance)

	res, err = f.uc.LinePerformance(context.Background(), "L", now.AddDate(0, 0, -60))
	require.NoError(t, err)
	assert.True(t, res.TotalProduced.Equal(q("580")))
}

func TestLinePerformance_SinLotes(t *testing.T) {
	f := newFixture()

	res, err := f.uc.LinePerformance(context.Background(), "L", time.Time{})
	require.NoError(t, err)
	assert.True(t, res.TotalProduced.IsZero())
	assert.True(t, res.DefectRate.IsZero())
	assert.Nil(t, res.Efficiency)
	assert.Equal(t, prodrules.MaintenanceNotScheduled, res.MaintenanceStatus)
	assert.Nil(t, res.DaysUntilMaintenance)
}

func TestMaintenanceSchedule(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	yesterday := time.Now().AddDate(0, 0, -1)
	closedAt := time.Now().Add(-time.Hour)
	f.db.
		AddLine(entity.ProductionLine{ID: "L2", Name: "Línea 2", Status: entity.LineStatusActive, MaintenanceSchedule: &yesterday}).
		AddMaintenance(entity.MaintenanceLog{ID: "done", ProductionLineID: "L2", MaintenanceType: entity.MaintenanceCorrective,
			StartTime: time.Now().Add(-2 * time.Hour), EndTime: &closedAt})

	m, err := f.uc.StartMaintenance(ctx, "L", "tec", dto.StartMaintenanceRequest{MaintenanceType: entity.MaintenancePreventive})
	require.NoError(t, err)

	res, err := f.uc.MaintenanceSchedule(ctx)
	require.NoError(t, err)
	require.Len(t, res.Upcoming, 1)
	assert.Equal(t, m.ID, res.Upcoming[0].ID)
	assert.Equal(t, entity.LineStatusMaintenance, res.Upcoming[0].LineStatus)
	require.Len(t, res.Overdue, 1)
	assert.Equal(t, "L2", res.Overdue[0].ID)
}

func TestConsumptionReport_AgrupaPorMaterial(t *testing.T) {
	f := newFixture()
	now := time.Now()
	f.db.
		AddConsumption(entity.MaterialConsumption{ID: "c1", BatchID: "B1", MaterialID: "M1", QuantityUsed: q("45"), Wastage: q("5"), RecordedAt: now.AddDate(0, 0, -1)}).
		AddConsumption(entity.MaterialConsumption{ID: "c2", BatchID: "B1", MaterialID: "M2", QuantityUsed: q("50"), RecordedAt: now.AddDate(0, 0, -2)}).
		AddConsumption(entity.MaterialConsumption{ID: "c3", BatchID: "B2", MaterialID: "M1", QuantityUsed: q("45"), Wastage: q("5"), RecordedAt: now.AddDate(0, 0, -3)}).
		AddConsumption(entity.MaterialConsumption{ID: "c4", BatchID: "B0", MaterialID: "M1", QuantityUsed: q("1000"), RecordedAt: now.AddDate(0, 0, -60)})

	res, err := f.uc.ConsumptionReport(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, res.Materials, 2)

	m1 := res.Materials[0]
	assert.Equal(t, "M1", m1.MaterialID)
	assert.Equal(t, "MAD", m1.MaterialCode)
	assert.True(t, m1.TotalUsed.Equal(q("90")))
	assert.True(t, m1.TotalWastage.Equal(q("10")))
	assert.True(t, m1.Efficiency.Equal(q("90")), "100 − 10 / (90 + 10), obtuvo %s", m1.Efficiency)

	assert.Equal(t, "Tornillo", res.Materials[1].MaterialName)
	assert.True(t, res.Materials[1].Efficiency.Equal(q("100")))

	res, err = f.uc.ConsumptionReport(context.Background(), now.AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.True(t, res.Materials[0].TotalUsed.Equal(q("1090")))
}

func TestQualityMetrics_PorParametro(t *testing.T) {
	f := newFixture()
	now := time.Now()
	for i, c := range []entity.QualityCheck{
		{Parameter: "medida", Result: entity.QualityPassed, CheckTime: now.Add(-time.Hour)},
		{Parameter: "humedad", Result: entity.QualityPassed, CheckTime: now.Add(-2 * time.Hour)},
		{Parameter: "humedad", Result: entity.QualityFailed, CheckTime: now.Add(-3 * time.Hour)},
		{Parameter: "medida", Result: entity.QualityPending, CheckTime: now.Add(-4 * time.Hour)},
		{Parameter: "humedad", Result: entity.QualityFailed, CheckTime: now.AddDate(0, 0, -45)},
	} {
		c.ID = string(rune('a' + i))
		c.BatchID = "B1"
		f.db.AddQualityCheck(c)
	}

	res, err := f.uc.QualityMetrics(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalChecks)
	assert.Equal(t, 2, res.Passed)
	assert.Equal(t, 50.0, res.PassRate)

	require.Len(t, res.Parameters, 2)
	assert.Equal(t, dto.QualityParameterDTO{Parameter: "humedad", Total: 2, Passed: 1, Failed: 1, PassRate: 50}, res.Parameters[0])
	assert.Equal(t, dto.QualityParameterDTO{Parameter: "medida", Total: 2, Passed: 1, Failed: 0, PassRate: 50}, res.Parameters[1])
}

func TestQualityMetrics_SinControles(t *testing.T) {
	f := newFixture()

	res, err := f.uc.QualityMetrics(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Zero(t, res.TotalChecks)
	assert.Zero(t, res.PassRate)
	assert.Empty(t, res.Parameters)
}
