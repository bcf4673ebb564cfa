package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/Fabrica-api/internal/application/production"
	"github.com/jhoicas/Fabrica-api/internal/application/production/productiontest"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var q = productiontest.Qty

// fixture: producto MESA = 2 × M1 + 1 × PATA; PATA = 3 × M2.
// Orden OP-1 de 5 mesas en línea L activa → M1 10, M2 15.
type fixture struct {
	db    *productiontest.DB
	store *inventorytest.Store
	uc    *production.UseCase
}

func newFixture() *fixture {
	store := inventorytest.NewStore().
		AddMaterial(entity.Material{ID: "M1", Code: "MAD", Name: "Madera", Active: true}).
		AddMaterial(entity.Material{ID: "M2", Code: "TOR", Name: "Tornillo", Active: true})

	repos := store.Repos()
	db := productiontest.NewDB(repos.Stock).
		AddProduct(entity.Product{ID: "MESA", SKU: "MESA", Status: entity.ProductStatusActive}).
		AddProduct(entity.Product{ID: "PATA", SKU: "PATA", Status: entity.ProductStatusActive}).
		AddComponent(entity.ProductComponent{ID: "c1", ProductID: "MESA", MaterialID: "M1", Quantity: q("2")}).
		AddComponent(entity.ProductComponent{ID: "c2", ProductID: "MESA", ComponentProductID: "PATA", Quantity: q("1")}).
		AddComponent(entity.ProductComponent{ID: "c3", ProductID: "PATA", MaterialID: "M2", Quantity: q("3")}).
		AddLine(entity.ProductionLine{ID: "L", Name: "Línea 1", Status: entity.LineStatusActive}).
		AddOrder(entity.ProductionOrder{ID: "O1", OrderNumber: "OP-1", ProductID: "MESA", Quantity: q("5"),
			ProductionLineID: "L", Status: entity.ProductionStatusScheduled, Priority: 3})

	return &fixture{
		db:    db,
		store: store,
		uc:    production.NewUseCase(db.Repos(repos.Materials), db, logger.Nop()),
	}
}

func (f *fixture) stock(material, qty string) *fixture {
	f.store.AddStock(entity.Stock{MaterialID: material, LocationID: "LOC", Quantity: q(qty)})
	return f
}

func (f *fixture) started(t *testing.T) *dto.StartProductionResponse {
	t.Helper()
	f.stock("M1", "10").stock("M2", "15")
	res, err := f.uc.Start(context.Background(), "O1", "op-1")
	require.NoError(t, err)
	return res
}

// ──────────────────────────────────────────────────────────────────────────────
// Requerimientos e inicio
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirements_ExplotaSubProductos(t *testing.T) {
	f := newFixture().stock("M1", "4").stock("M1", "8").stock("M2", "10")

	res, err := f.uc.Requirements(context.Background(), "O1")
	require.NoError(t, err)
	require.Len(t, res.Requirements, 2)

	assert.Equal(t, "M1", res.Requirements[0].MaterialID)
	assert.True(t, res.Requirements[0].RequiredQuantity.Equal(q("10")))
	assert.True(t, res.Requirements[0].Available.Equal(q("12")), "suma todas las ubicaciones")
	assert.True(t, res.Requirements[0].Shortage.IsZero())

	assert.Equal(t, "M2", res.Requirements[1].MaterialID)
	assert.True(t, res.Requirements[1].RequiredQuantity.Equal(q("15")))
	assert.True(t, res.Requirements[1].Shortage.Equal(q("5")))
	assert.False(t, res.CanStart)
}

func TestStart_CreaPrimerLote(t *testing.T) {
	f := newFixture()

	res := f.started(t)

	assert.Equal(t, entity.ProductionStatusInProgress, res.Order.Status)
	assert.Equal(t, "B-OP-1-1", res.Batch.BatchNumber)
	assert.Equal(t, "op-1", res.Batch.OperatorID)
	assert.Equal(t, entity.ProductionStatusInProgress, f.db.Order("O1").Status)
	require.Len(t, f.db.Batches("O1"), 1)
}

func TestStart_MaterialesInsuficientes(t *testing.T) {
	f := newFixture().stock("M1", "10").stock("M2", "14")

	_, err := f.uc.Start(context.Background(), "O1", "op-1")

	require.ErrorIs(t, err, domain.ErrInsufficientMaterials)
	assert.Contains(t, err.Error(), "M2")
	assert.Equal(t, entity.ProductionStatusScheduled, f.db.Order("O1").Status)
	assert.Empty(t, f.db.Batches("O1"))
}

func TestStart_RequiereScheduled(t *testing.T) {
	f := newFixture().stock("M1", "10").stock("M2", "15")
	f.db.AddOrder(entity.ProductionOrder{ID: "O2", OrderNumber: "OP-2", ProductID: "MESA", Quantity: q("1"),
		ProductionLineID: "L", Status: entity.ProductionStatusDraft})

	_, err := f.uc.Start(context.Background(), "O2", "op-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestStart_LineaNoActiva(t *testing.T) {
	f := newFixture().stock("M1", "10").stock("M2", "15")
	f.db.AddLine(entity.ProductionLine{ID: "L", Name: "Línea 1", Status: entity.LineStatusMaintenance})

	_, err := f.uc.Start(context.Background(), "O1", "op-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	o, err := f.uc.CreateOrder(ctx, "u1", dto.CreateProductionOrderRequest{
		OrderNumber: "OP-9", ProductID: "MESA", Quantity: q("3"), StartDate: start, EndDate: start.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionStatusDraft, o.Status)
	assert.Equal(t, 3, o.Priority, "prioridad por defecto")
	assert.Equal(t, "u1", o.CreatedBy)

	_, err = f.uc.CreateOrder(ctx, "u1", dto.CreateProductionOrderRequest{
		OrderNumber: "OP-9", ProductID: "MESA", Quantity: q("3"), StartDate: start, EndDate: start,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.uc.CreateOrder(ctx, "u1", dto.CreateProductionOrderRequest{
		ProductID: "MESA", Quantity: q("3"), StartDate: start, EndDate: start.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.CreateOrder(ctx, "u1", dto.CreateProductionOrderRequest{
		ProductID: "MESA", Quantity: q("3"), Priority: 6, StartDate: start, EndDate: start,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.CreateOrder(ctx, "u1", dto.CreateProductionOrderRequest{
		ProductID: "NOPE", Quantity: q("3"), StartDate: start, EndDate: start,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOrder_GeneraNumero(t *testing.T) {
	f := newFixture()
	now := time.Now()

	o, err := f.uc.CreateOrder(context.Background(), "u1", dto.CreateProductionOrderRequest{
		ProductID: "MESA", Quantity: q("1"), EndDate: now.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Regexp(t, `^OP-\d{8}-[0-9A-F]{6}$`, o.OrderNumber)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture().stock("M1", "10").stock("M2", "15")
	ctx := context.Background()

	_, err := f.uc.UpdateOrderStatus(ctx, "O1", "u1", entity.ProductionStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.UpdateOrderStatus(ctx, "O1", "u1", "archivada")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	o, err := f.uc.UpdateOrderStatus(ctx, "O1", "u1", entity.ProductionStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionStatusInProgress, o.Status)
	assert.Len(t, f.db.Batches("O1"), 1, "pasar a in_progress abre el lote")

	o, err = f.uc.UpdateOrderStatus(ctx, "O1", "u1", entity.ProductionStatusOnHold)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionStatusOnHold, o.Status)
}

func TestListOrders_FiltraPorEstado(t *testing.T) {
	f := newFixture()
	f.db.AddOrder(entity.ProductionOrder{ID: "O2", OrderNumber: "OP-2", Status: entity.ProductionStatusDraft})

	res, err := f.uc.ListOrders(context.Background(), repository.ProductionOrderFilter{Status: entity.ProductionStatusDraft}, 20, 0)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "OP-2", res.Items[0].OrderNumber)

	_, err = f.uc.ListOrders(context.Background(), repository.ProductionOrderFilter{Status: "x"}, 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestCompleteBatch_CompletaLaOrdenAlAlcanzarLaCantidad(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first := f.started(t).Batch

	_, err := f.uc.RecordProduction(ctx, first.ID, dto.RecordProductionRequest{Quantity: q("3"), DefectCount: 1})
	require.NoError(t, err)
	res, err := f.uc.CompleteBatch(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, res.OrderCompleted)
	assert.Equal(t, entity.ProductionStatusInProgress, res.OrderStatus)

	second, err := f.uc.OpenBatch(ctx, "O1", "op-2")
	require.NoError(t, err)
	assert.Equal(t, "B-OP-1-2", second.BatchNumber)

	_, err = f.uc.RecordProduction(ctx, second.ID, dto.RecordProductionRequest{Quantity: q("2")})
	require.NoError(t, err)
	res, err = f.uc.CompleteBatch(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, res.OrderCompleted)
	assert.Equal(t, entity.ProductionStatusCompleted, f.db.Order("O1").Status)
}

func TestRecordProduction_LoteCerrado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.started(t).Batch

	_, err := f.uc.CompleteBatch(ctx, b.ID)
	require.NoError(t, err)

	_, err = f.uc.RecordProduction(ctx, b.ID, dto.RecordProductionRequest{Quantity: q("1")})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.RecordProduction(ctx, b.ID, dto.RecordProductionRequest{Quantity: q("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpenBatch_ConLoteAbierto(t *testing.T) {
	f := newFixture()
	f.started(t)

	_, err := f.uc.OpenBatch(context.Background(), "O1", "op-2")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestComplete_CierraLotesAbiertos(t *testing.T) {
	f := newFixture()
	f.started(t)

	o, err := f.uc.Complete(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionStatusCompleted, o.Status)
	for _, b := range f.db.Batches("O1") {
		assert.NotNil(t, b.EndTime)
	}

	_, err = f.uc.Complete(context.Background(), "O1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumo y calidad
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchEfficiency(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.started(t).Batch

	for _, in := range []dto.RecordConsumptionRequest{
		{MaterialID: "M1", QuantityUsed: q("45"), Wastage: q("5")},
		{MaterialID: "M2", QuantityUsed: q("50")},
		{MaterialID: "M1", QuantityUsed: q("45"), Wastage: q("5")},
	} {
		_, err := f.uc.RecordConsumption(ctx, b.ID, "u1", in)
		require.NoError(t, err)
	}

	res, err := f.uc.BatchEfficiency(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, res.Materials, 2)
	assert.Equal(t, "M1", res.Materials[0].MaterialID)
	assert.True(t, res.Materials[0].QuantityUsed.Equal(q("90")))
	assert.True(t, res.Materials[0].WastagePercentage.Equal(q("10")), "10 / (90 + 10)")
	assert.True(t, res.Materials[1].WastagePercentage.IsZero())
	assert.True(t, res.WastagePercentage.Equal(q("6.67")), "10 / 150, obtuvo %s", res.WastagePercentage)
}

func TestRecordConsumption_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.started(t).Batch

	_, err := f.uc.RecordConsumption(ctx, b.ID, "u1", dto.RecordConsumptionRequest{MaterialID: "M1", QuantityUsed: q("1"), Wastage: q("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.RecordConsumption(ctx, b.ID, "u1", dto.RecordConsumptionRequest{MaterialID: "M1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.RecordConsumption(ctx, b.ID, "u1", dto.RecordConsumptionRequest{MaterialID: "X", QuantityUsed: q("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWastagePercentage_SinConsumo(t *testing.T) {
	assert.True(t, production.WastagePercentage(q("0"), q("0")).IsZero())
}

func TestQualityChecks_DerivanAprobacionDelLote(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.started(t).Batch

	c, err := f.uc.AddQualityCheck(ctx, b.ID, "qa", dto.CreateQualityCheckRequest{Parameter: "humedad", Result: entity.QualityPassed})
	require.NoError(t, err)
	assert.True(t, c.BatchPassed)

	c, err = f.uc.AddQualityCheck(ctx, b.ID, "qa", dto.CreateQualityCheckRequest{Parameter: "medida", Result: entity.QualityFailed})
	require.NoError(t, err)
	assert.False(t, c.BatchPassed)
	assert.False(t, f.db.Batches("O1")[0].QualityCheckPassed)

	rate, err := f.uc.QualityRate(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, 2, rate.TotalChecks)
	assert.Equal(t, 50.0, rate.PassRate)

	_, err = f.uc.AddQualityCheck(ctx, b.ID, "qa", dto.CreateQualityCheckRequest{Parameter: "x", Result: "ok"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mantenimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestMaintenance_PreventivoAgendaElSiguiente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	m, err := f.uc.StartMaintenance(ctx, "L", "tec", dto.StartMaintenanceRequest{MaintenanceType: entity.MaintenancePreventive})
	require.NoError(t, err)
	assert.Equal(t, entity.LineStatusMaintenance, m.LineStatus)
	assert.Equal(t, entity.LineStatusMaintenance, f.db.Line("L").Status)

	_, err = f.uc.StartMaintenance(ctx, "L", "tec", dto.StartMaintenanceRequest{MaintenanceType: entity.MaintenanceCorrective})
	assert.ErrorIs(t, err, domain.ErrConflict)

	done, err := f.uc.CompleteMaintenance(ctx, m.ID, dto.CompleteMaintenanceRequest{Cost: q("120")})
	require.NoError(t, err)
	require.NotNil(t, done.EndTime)

	line := f.db.Line("L")
	assert.Equal(t, entity.LineStatusActive, line.Status)
	require.NotNil(t, line.LastMaintenance)
	require.NotNil(t, line.MaintenanceSchedule)
	assert.True(t, line.LastMaintenance.Equal(*done.EndTime))
	assert.True(t, line.MaintenanceSchedule.Equal(done.EndTime.AddDate(0, 0, 30)))

	_, err = f.uc.CompleteMaintenance(ctx, m.ID, dto.CompleteMaintenanceRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMaintenance_CorrectivoNoAgenda(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	m, err := f.uc.StartMaintenance(ctx, "L", "tec", dto.StartMaintenanceRequest{MaintenanceType: entity.MaintenanceBreakdown})
	require.NoError(t, err)
	_, err = f.uc.CompleteMaintenance(ctx, m.ID, dto.CompleteMaintenanceRequest{})
	require.NoError(t, err)

	assert.Nil(t, f.db.Line("L").MaintenanceSchedule)
}
