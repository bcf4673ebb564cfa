package inventory_test

import (
	"testing"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ──────────────────────────────────────────────────────────────────────────────
// Capacidad
// ──────────────────────────────────────────────────────────────────────────────

func TestIsAvailable_LimiteExacto(t *testing.T) {
	loc := &entity.StorageLocation{Capacity: dec(100), CurrentVolume: dec(60)}

	assert.True(t, inventory.IsAvailable(loc, dec(40)), "40 libres alcanzan justo para 40")
	assert.False(t, inventory.IsAvailable(loc, dec(41)))
	assert.True(t, inventory.IsAvailable(loc, decimal.Zero))
}

func TestRequiredVolume(t *testing.T) {
	got := inventory.RequiredVolume(dec(25), decimal.RequireFromString("2"))
	assert.True(t, got.Equal(dec(50)), "25 unidades de 2 m³ ocupan 50 m³, obtuvo %s", got)
}

func TestUtilization_CapacidadCero(t *testing.T) {
	assert.True(t, inventory.Utilization(dec(10), decimal.Zero).IsZero())
	assert.True(t, inventory.Utilization(dec(25), dec(200)).Equal(decimal.RequireFromString("12.5")))
}

func TestStorageByType_AgrupaEnOrdenDeAparicion(t *testing.T) {
	locs := []*entity.StorageLocation{
		{LocationType: entity.LocationTypeRack, Capacity: dec(100), CurrentVolume: dec(50)},
		{LocationType: entity.LocationTypeCold, Capacity: dec(20), CurrentVolume: dec(5)},
		{LocationType: entity.LocationTypeRack, Capacity: dec(100), CurrentVolume: dec(0)},
	}

	got := inventory.StorageByType(locs)
	require.Len(t, got, 2)
	assert.Equal(t, entity.LocationTypeRack, got[0].LocationType)
	assert.Equal(t, 2, got[0].Locations)
	assert.True(t, got[0].Capacity.Equal(dec(200)))
	assert.True(t, got[0].Utilization.Equal(dec(25)))
	assert.Equal(t, entity.LocationTypeCold, got[1].LocationType)
}

func TestAvailableLocations_IgnoraInactivas(t *testing.T) {
	locs := []*entity.StorageLocation{
		{ID: "a", Active: true, Capacity: dec(10), CurrentVolume: dec(9)},
		{ID: "b", Active: false, Capacity: dec(100)},
		{ID: "c", Active: true, Capacity: dec(100), CurrentVolume: dec(10)},
	}
	got := inventory.AvailableLocations(locs, dec(5))
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Plan de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestPlanMovement(t *testing.T) {
	cases := []struct {
		name    string
		typ     string
		qty     int64
		src     string
		dst     string
		want    inventory.MovementPlan
		wantErr bool
	}{
		{name: "recepción", typ: entity.MovementReceipt, qty: 5, dst: "L1",
			want: inventory.MovementPlan{Destination: "L1", Quantity: dec(5), CheckCapacity: true}},
		{name: "recepción sin destino", typ: entity.MovementReceipt, qty: 5, src: "L1", wantErr: true},
		{name: "salida", typ: entity.MovementIssue, qty: 3, src: "L1",
			want: inventory.MovementPlan{Source: "L1", Quantity: dec(3)}},
		{name: "salida con cantidad cero", typ: entity.MovementIssue, qty: 0, src: "L1", wantErr: true},
		{name: "traslado", typ: entity.MovementTransfer, qty: 2, src: "L1", dst: "L2",
			want: inventory.MovementPlan{Source: "L1", Destination: "L2", Quantity: dec(2), CheckCapacity: true}},
		{name: "traslado a la misma ubicación", typ: entity.MovementTransfer, qty: 2, src: "L1", dst: "L1", wantErr: true},
		{name: "ajuste positivo", typ: entity.MovementAdjustment, qty: 4, dst: "L2",
			want: inventory.MovementPlan{Destination: "L2", Quantity: dec(4)}},
		{name: "ajuste negativo", typ: entity.MovementAdjustment, qty: -4, src: "L1",
			want: inventory.MovementPlan{Source: "L1", Quantity: dec(4)}},
		{name: "devolución negativa sin origen", typ: entity.MovementReturn, qty: -1, dst: "L1", wantErr: true},
		{name: "tipo desconocido", typ: "scrap", qty: 1, src: "L1", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.PlanMovement(tc.typ, dec(tc.qty), tc.src, tc.dst)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want.Source, got.Source)
			assert.Equal(t, tc.want.Destination, got.Destination)
			assert.Equal(t, tc.want.CheckCapacity, got.CheckCapacity)
			assert.True(t, tc.want.Quantity.Equal(got.Quantity), "cantidad %s != %s", got.Quantity, tc.want.Quantity)
		})
	}
}

func TestPlanMovement_EscalaDeCantidad(t *testing.T) {
	_, err := inventory.PlanMovement(entity.MovementIssue, decimal.RequireFromString("0.0004"), "L1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.PlanMovement(entity.MovementAdjustment, decimal.RequireFromString("-1.2345"), "L1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := inventory.PlanMovement(entity.MovementReceipt, decimal.RequireFromString("0.125"), "", "L1")
	require.NoError(t, err)
	assert.Equal(t, "0.125", got.Quantity.String())
}

func TestMovementPlan_LocationIDs(t *testing.T) {
	p := inventory.MovementPlan{Source: "B", Destination: "A"}
	assert.Equal(t, []string{"B", "A"}, p.LocationIDs())
	assert.Equal(t, []string{"A"}, inventory.MovementPlan{Destination: "A"}.LocationIDs())
}

// ──────────────────────────────────────────────────────────────────────────────
// Costo promedio ponderado
// ──────────────────────────────────────────────────────────────────────────────

func TestWeightedAverageCost(t *testing.T) {
	// 10 u a 2.00 + 10 u a 4.00 → 3.00
	got := inventory.WeightedAverageCost(dec(10), dec(2), dec(10), dec(4))
	assert.True(t, got.Equal(dec(3)), "obtuvo %s", got)

	// sin stock previo toma el costo de la entrada
	got = inventory.WeightedAverageCost(decimal.Zero, dec(9), decimal.Zero, dec(4))
	assert.True(t, got.Equal(dec(4)))
}
