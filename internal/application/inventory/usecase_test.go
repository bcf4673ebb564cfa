package inventory_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityUseCase_Utilizacion(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "25") // 50 m³
	f.receipt(t, "L2", "10") // 20 m³
	r := f.store.Repos()
	uc := inventory.NewCapacityUseCase(f.store, f.store.Warehouses(), r.Locations)

	got, err := uc.Utilization(context.Background(), "W1")
	require.NoError(t, err)
	assert.True(t, got.UsedVolume.Equal(dec("70")))
	assert.True(t, got.Utilization.Equal(dec("14")), "70 / 500 × 100, obtuvo %s", got.Utilization)
	assert.Equal(t, 2, got.LocationsCount)

	_, err = uc.Utilization(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCapacityUseCase_UbicacionesDisponibles(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "45") // L1 queda con 10 m³ libres
	r := f.store.Repos()
	uc := inventory.NewCapacityUseCase(f.store, f.store.Warehouses(), r.Locations)

	got, err := uc.AvailableLocations(context.Background(), "W1", dec("20"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "L2", got[0].ID)
}

func TestCapacityUseCase_RecalculaVolumen(t *testing.T) {
	f := newFixture()
	f.store.AddStock(entity.Stock{MaterialID: "M", LocationID: "L2", Quantity: dec("3")})
	r := f.store.Repos()
	uc := inventory.NewCapacityUseCase(f.store, f.store.Warehouses(), r.Locations)

	got, err := uc.RecomputeVolume(context.Background(), "L2")
	require.NoError(t, err)
	assert.True(t, got.CurrentVolume.Equal(dec("6")))
	assert.True(t, f.store.Location("L2").CurrentVolume.Equal(dec("6")))
}

func TestReplenishment_SugiereHastaElMaximo(t *testing.T) {
	f := newFixture()
	f.store.AddMaterial(entity.Material{ID: "N", Code: "MAT-2", Name: "Pigmento", UnitPrice: dec("5"),
		VolumePerUnit: dec("1"), ReorderPoint: dec("10"), MaximumStock: dec("30"), Active: true})
	f.receipt(t, "L1", "4") // M: 4 ≤ reorden 5, déficit 20%
	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "N", DestinationLocationID: "L2", Type: entity.MovementReceipt, Quantity: dec("2"),
	}) // N: 2 ≤ reorden 10, déficit 80%
	require.NoError(t, err)

	r := f.store.Repos()
	uc := inventory.NewReplenishmentUseCase(r.Materials, r.Movements)
	got, err := uc.GenerateReplenishmentList(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "N", got[0].MaterialID, "mayor déficit relativo primero")
	assert.Equal(t, 1, got[0].Priority)
	assert.True(t, got[0].SuggestedOrderQty.Equal(dec("28")))
	assert.True(t, got[0].EstimatedOrderCost.Equal(dec("140")))
	assert.Equal(t, "M", got[1].MaterialID)
	assert.True(t, got[1].SuggestedOrderQty.Equal(dec("36")))
}

func TestReplenishment_SinFaltantes(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "20")
	r := f.store.Repos()

	got, err := inventory.NewReplenishmentUseCase(r.Materials, r.Movements).GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStockAnalysis_ConsumoYReorden(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "30")
	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", Type: entity.MovementIssue, Quantity: dec("18"),
	})
	require.NoError(t, err)

	r := f.store.Repos()
	uc := inventory.NewStockAnalysisUseCase(r.Materials, r.Stock, r.Movements)
	got, err := uc.MaterialAnalysis(context.Background(), "M")

	require.NoError(t, err)
	assert.True(t, got.CurrentStock.Equal(dec("12")))
	assert.True(t, got.StockValue.Equal(dec("120")))
	assert.True(t, got.ConsumptionLast90d.Equal(dec("18")))
	assert.True(t, got.DailyConsumption.Equal(dec("0.2")))
	require.NotNil(t, got.DaysUntilReorder)
	assert.Equal(t, 35, *got.DaysUntilReorder, "(12 - 5) / 0.2")
	assert.False(t, got.NeedsReorder)
}

func TestMovementUseCase_AnalisisPorTipo(t *testing.T) {
	f := newFixture()
	f.receipt(t, "L1", "10")
	f.receipt(t, "L1", "5")
	_, err := f.proc.Apply(context.Background(), inventory.MovementInput{
		MaterialID: "M", SourceLocationID: "L1", Type: entity.MovementIssue, Quantity: dec("2"),
	})
	require.NoError(t, err)

	r := f.store.Repos()
	uc := inventory.NewMovementUseCase(f.proc, r.Stock, r.Movements)
	got, err := uc.Analysis(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, got.ByType, 2)
	assert.Equal(t, entity.MovementIssue, got.ByType[0].Type)
	assert.Equal(t, entity.MovementReceipt, got.ByType[1].Type)
	assert.Equal(t, 2, got.ByType[1].Count)
	require.Len(t, got.TopMaterials, 1)
	assert.Equal(t, 3, got.TopMaterials[0].Movements)
}
