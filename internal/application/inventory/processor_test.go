package inventory_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fixture: material M (2 m³/u, precio 10) y ubicaciones L1 (100 m³) y L2 (50 m³).
type fixture struct {
	store     *inventorytest.Store
	metrics   *inventorytest.Metrics
	publisher *inventorytest.Publisher
	proc      *inventory.MovementProcessor
}

func newFixture() *fixture {
	store := inventorytest.NewStore()
	store.AddWarehouse(entity.Warehouse{ID: "W1", Code: "W1", Capacity: dec("500"), Active: true}).
		AddMaterial(entity.Material{ID: "M", Code: "MAT-1", Name: "Resina", Unit: entity.UnitKilogram,
			UnitPrice: dec("10"), VolumePerUnit: dec("2"), ReorderPoint: dec("5"), MaximumStock: dec("40"), Active: true}).
		AddLocation(entity.StorageLocation{ID: "L1", WarehouseID: "W1", Name: "A", LocationType: entity.LocationTypeRack, Capacity: dec("100"), Active: true}).
		AddLocation(entity.StorageLocation{ID: "L2", WarehouseID: "W1", Name: "B", LocationType: entity.LocationTypeShelf, Capacity: dec("50"), Active: true})

	f := &fixture{store: store, metrics: &inventorytest.Metrics{}, publisher: &inventorytest.Publisher{}}
	f.proc = inventory.NewMovementProcessor(store, f.metrics, f.publisher, logger.Nop())
	return f
}

func (f *fixture) receipt(t *testing.T, loc, qty string) {
	t.Helper()
	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", DestinationLocationID: loc, Type: entity.MovementReceipt, Quantity: dec(qty),
	})
	require.NoError(t, err)
}

func key(loc string) entity.StockKey { return entity.StockKey{MaterialID: "M", LocationID: loc} }

// ──────────────────────────────────────────────────────────────────────────────
// Recepción y capacidad
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_RecepcionActualizaStockYVolumen(t *testing.T) {
	f := newFixture()

	mov, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", DestinationLocationID: "L1", Type: entity.MovementReceipt, Quantity: dec("30"), PerformedBy: "u1",
	})

	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.True(t, f.store.Quantity(key("L1")).Equal(dec("30")))
	assert.True(t, f.store.Location("L1").CurrentVolume.Equal(dec("60")), "30 u × 2 m³ = 60 m³")
	assert.Len(t, f.store.Movements(), 1)
	assert.Equal(t, 1, f.metrics.Count(entity.MovementReceipt, inventory.ResultOK))

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, mov.ID, events[0].MovementID)
	assert.Equal(t, "L1", events[0].DestinationLocationID)
}

func TestApply_RecepcionSinCapacidadNoModificaNada(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "30")

	// 25 u × 2 m³ = 50 m³ y solo quedan 40 libres
	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", DestinationLocationID: "L1", Type: entity.MovementReceipt, Quantity: dec("25"),
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
	assert.True(t, f.store.Quantity(key("L1")).Equal(dec("30")))
	assert.True(t, f.store.Location("L1").CurrentVolume.Equal(dec("60")))
	assert.Len(t, f.store.Movements(), 1)
	assert.Equal(t, 1, f.metrics.Count(entity.MovementReceipt, inventory.ResultInsufficientCapacity))
	assert.Len(t, f.publisher.Events(), 1)
}

func TestApply_RecepcionLlenaExactamenteLaUbicacion(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "50")
	assert.True(t, f.store.Location("L1").CurrentVolume.Equal(dec("100")))
}

func TestApply_RecepcionConCostoActualizaPrecioPromedio(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "10") // 10 u a precio 10

	cost := dec("16")
	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", DestinationLocationID: "L2", Type: entity.MovementReceipt, Quantity: dec("10"), UnitCost: &cost,
	})

	require.NoError(t, err)
	assert.True(t, f.store.Material("M").UnitPrice.Equal(dec("13")), "obtuvo %s", f.store.Material("M").UnitPrice)
}

func TestApply_CostoSoloEnRecepcion(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "10")
	cost := dec("1")

	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", Type: entity.MovementIssue, Quantity: dec("1"), UnitCost: &cost,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_SalidaTotalEliminaRegistro(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "5")

	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", Type: entity.MovementIssue, Quantity: dec("5"),
	})

	require.NoError(t, err)
	assert.False(t, f.store.HasStock(key("L1")), "un registro en cero se elimina")
	assert.True(t, f.store.Location("L1").CurrentVolume.IsZero())
}

func TestApply_SalidaMayorAlStock(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "5")

	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", Type: entity.MovementIssue, Quantity: dec("6"),
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.store.Quantity(key("L1")).Equal(dec("5")))
	assert.Len(t, f.store.Movements(), 1)
}

func TestApply_SalidaConMasDeTresDecimales(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "5")

	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", Type: entity.MovementIssue, Quantity: dec("0.0004"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.store.Quantity(key("L1")).Equal(dec("5")))
	assert.Len(t, f.store.Movements(), 1)
}

func TestApply_SalidaSinRegistro(t *testing.T) {
	f := newFixture()

	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", Type: entity.MovementIssue, Quantity: dec("1"),
	})

	assert.ErrorIs(t, err, domain.ErrStockRecordNotFound)
	assert.Empty(t, f.store.Movements())
}

func TestApply_SalidaDeOtroLoteNoEncuentraRegistro(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "5")

	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", BatchNumber: "LOTE-9", Type: entity.MovementIssue, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrStockRecordNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_TrasladoConservaTotal(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "20")

	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", DestinationLocationID: "L2", Type: entity.MovementTransfer, Quantity: dec("8"),
	})

	require.NoError(t, err)
	assert.True(t, f.store.Quantity(key("L1")).Equal(dec("12")))
	assert.True(t, f.store.Quantity(key("L2")).Equal(dec("8")))
	assert.True(t, f.store.TotalQuantity("M").Equal(dec("20")))
	assert.True(t, f.store.Location("L1").CurrentVolume.Equal(dec("24")))
	assert.True(t, f.store.Location("L2").CurrentVolume.Equal(dec("16")))
}

func TestApply_TrasladoSinCapacidadEnDestino(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "40")

	// 30 u × 2 = 60 m³ > 50 m³ de L2
	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", DestinationLocationID: "L2", Type: entity.MovementTransfer, Quantity: dec("30"),
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
	assert.True(t, f.store.Quantity(key("L1")).Equal(dec("40")))
	assert.False(t, f.store.HasStock(key("L2")))
}

func TestApply_TrasladoAUbicacionInexistente(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "4")

	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", DestinationLocationID: "NOPE", Type: entity.MovementTransfer, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes y devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_AjustePositivoNoValidaCapacidad(t *testing.T) {
	f := newFixture()

	// 30 u × 2 = 60 m³ en una ubicación de 50 m³
	mov, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", DestinationLocationID: "L2", Type: entity.MovementAdjustment, Quantity: dec("30"),
	})

	require.NoError(t, err)
	assert.True(t, mov.Quantity.Equal(dec("30")))
	assert.True(t, f.store.Location("L2").CurrentVolume.Equal(dec("60")))
}

func TestApply_AjusteNegativoDescuentaEnOrigen(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "10")

	mov, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", Type: entity.MovementAdjustment, Quantity: dec("-3"),
	})

	require.NoError(t, err)
	assert.True(t, mov.Quantity.Equal(dec("-3")), "el movimiento conserva el signo")
	assert.True(t, f.store.Quantity(key("L1")).Equal(dec("7")))
}

func TestApply_DevolucionNegativaSinStock(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "2")

	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", Type: entity.MovementReturn, Quantity: dec("-3"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación, referencias y atomicidad
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_Validaciones(t *testing.T) {
	f := newFixture()

	cases := []inventory.MovementInput{
		{DestinationLocationID: "L1", Type: entity.MovementReceipt, Quantity: dec("1")},
		{MaterialID: "M", DestinationLocationID: "L1", Type: entity.MovementReceipt, Quantity: dec("0")},
		{MaterialID: "M", DestinationLocationID: "L1", Type: "scrap", Quantity: dec("1")},
		{MaterialID: "M", SourceLocationID: "L1", DestinationLocationID: "L1", Type: entity.MovementTransfer, Quantity: dec("1")},
		{MaterialID: "M", DestinationLocationID: "L1", Type: entity.MovementReceipt, Quantity: dec("0.0004")},
		{MaterialID: "M", SourceLocationID: "L1", Type: entity.MovementIssue, Quantity: dec("1.2345")},
	}
	for _, in := range cases {
		_, err := f.proc.Apply(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
	assert.Empty(t, f.store.Movements())
}

func TestApply_MaterialInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "X", DestinationLocationID: "L1", Type: entity.MovementReceipt, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApply_ReferenciaDuplicada(t *testing.T) {
	f := newFixture()
	in := inventory.MovementInput{
		MaterialID: "M", DestinationLocationID: "L1", Type: entity.MovementReceipt, Quantity: dec("1"), ReferenceNumber: "OC-1",
	}
	_, err := f.proc.Apply(context.Background(), in)
	require.NoError(t, err)

	_, err = f.proc.Apply(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.True(t, f.store.Quantity(key("L1")).Equal(dec("1")))
}

func TestApply_GeneraReferencia(t *testing.T) {
	f := newFixture()
	mov, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", DestinationLocationID: "L1", Type: entity.MovementReceipt, Quantity: dec("1"),
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^MV-\d{8}-[0-9A-F]{8}$`), mov.ReferenceNumber)
}

func TestApply_FalloAlEscribirRevierteTodo(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "10")
	f.store.FailOn("locations.UpdateVolume", errors.New("conexión perdida"))

	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", DestinationLocationID: "L2", Type: entity.MovementTransfer, Quantity: dec("4"),
	})

	require.Error(t, err)
	assert.True(t, f.store.Quantity(key("L1")).Equal(dec("10")))
	assert.False(t, f.store.HasStock(key("L2")))
	assert.Len(t, f.store.Movements(), 1)
	assert.Equal(t, 1, f.metrics.Count(entity.MovementTransfer, inventory.ResultError))
}

func TestApply_FalloDelBrokerNoRevierte(t *testing.T) {
	f := newFixture()
	f.publisher.Err = errors.New("broker caído")

	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", DestinationLocationID: "L1", Type: entity.MovementReceipt, Quantity: dec("3"),
	})

	require.NoError(t, err)
	assert.True(t, f.store.Quantity(key("L1")).Equal(dec("3")))
}

func TestApply_SalidasConcurrentesNoSobregiran(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "10")

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, insufficient := 0, 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
				MaterialID: "M", SourceLocationID: "L1", Type: entity.MovementIssue, Quantity: dec("1"),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrStockRecordNotFound) {
				insufficient++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 15, insufficient)
	assert.False(t, f.store.HasStock(key("L1")))
	assert.True(t, f.store.Location("L1").CurrentVolume.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger
// ──────────────────────────────────────────────────────────────────────────────

func newLedger(store *inventorytest.Store) *inventory.Ledger {
	r := store.Repos()
	return inventory.NewLedger(r.Stock, inventory.NewCapacityTracker(r.Stock, r.Locations))
}

func TestLedger_CreateOrIncrement(t *testing.T) {
	f := newFixture()
	l := newLedger(f.store)
	ctx := context.Background()

	_, err := l.CreateOrIncrement(ctx, key("L1"), dec("0"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = l.CreateOrIncrement(ctx, key("L1"), dec("0.0004"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, f.store.HasStock(key("L1")))

	st, err := l.CreateOrIncrement(ctx, key("L1"), dec("4"), nil)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(dec("4")))

	st, err = l.CreateOrIncrement(ctx, key("L1"), dec("1.5"), nil)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(dec("5.5")))

	q, err := l.Quantity(ctx, key("L1"))
	require.NoError(t, err)
	assert.True(t, q.Equal(dec("5.5")))
	assert.True(t, f.store.Location("L1").CurrentVolume.Equal(dec("11")))
}

func TestLedger_DecrementOrDelete(t *testing.T) {
	f := newFixture()
	l := newLedger(f.store)
	ctx := context.Background()

	assert.ErrorIs(t, l.DecrementOrDelete(ctx, key("L1"), dec("1")), domain.ErrStockRecordNotFound)

	_, err := l.CreateOrIncrement(ctx, key("L1"), dec("3"), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, l.DecrementOrDelete(ctx, key("L1"), dec("4")), domain.ErrInsufficientStock)
	assert.ErrorIs(t, l.DecrementOrDelete(ctx, key("L1"), dec("0.0001")), domain.ErrInvalidInput)
	assert.True(t, f.store.Quantity(key("L1")).Equal(dec("3")))

	require.NoError(t, l.DecrementOrDelete(ctx, key("L1"), dec("3")))
	assert.False(t, f.store.HasStock(key("L1")))

	q, err := l.Quantity(ctx, key("L1"))
	require.NoError(t, err)
	assert.True(t, q.IsZero())
}

func TestCapacityTracker_RecomputeIdempotente(t *testing.T) {
	f := newFixture()
	f.store.AddStock(entity.Stock{MaterialID: "M", LocationID: "L2", Quantity: dec("7")})
	r := f.store.Repos()
	tracker := inventory.NewCapacityTracker(r.Stock, r.Locations)

	v1, err := tracker.RecomputeVolume(context.Background(), "L2")
	require.NoError(t, err)
	v2, err := tracker.RecomputeVolume(context.Background(), "L2")
	require.NoError(t, err)

	assert.True(t, v1.Equal(dec("14")))
	assert.True(t, v1.Equal(v2))
	assert.True(t, f.store.Location("L2").CurrentVolume.Equal(dec("14")))
}
