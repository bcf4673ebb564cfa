package usecase_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory/inventorytest"
	"github.com/jhoicas/Fabrica-api/internal/application/usecase"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type productFixture struct {
	uc      *usecase.ProductUseCase
	catalog *catalog
	store   *inventorytest.Store
}

func newProductFixture() productFixture {
	c := newCatalog()
	store := inventorytest.NewStore().
		AddMaterial(entity.Material{ID: "M1", Code: "MP-001", Name: "Acero", Unit: entity.UnitKilogram, UnitPrice: dec("2.5"), Active: true}).
		AddMaterial(entity.Material{ID: "M2", Code: "MP-002", Name: "Pintura", Unit: entity.UnitLiter, UnitPrice: dec("10"), Active: true})
	uc := usecase.NewProductUseCase(productRepo{c}, componentRepo{c}, categoryRepo{c}, store.Repos().Materials, c)
	return productFixture{uc: uc, catalog: c, store: store}
}

func (f productFixture) product(t *testing.T, sku string, cost string) string {
	t.Helper()
	p, err := f.uc.Create(context.Background(), dto.CreateProductRequest{SKU: sku, Name: sku, CostPrice: dec(cost), MaxStockLevel: 10})
	require.NoError(t, err)
	return p.ID
}

func TestProduct_SKUDuplicado(t *testing.T) {
	f := newProductFixture()
	f.product(t, "SILLA", "0")

	_, err := f.uc.Create(context.Background(), dto.CreateProductRequest{SKU: "SILLA", Name: "otra", MaxStockLevel: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProduct_ValidaNiveles(t *testing.T) {
	f := newProductFixture()
	_, err := f.uc.Create(context.Background(), dto.CreateProductRequest{SKU: "X", Name: "X", MinStockLevel: 5, MaxStockLevel: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(context.Background(), dto.CreateProductRequest{SKU: "Y", Name: "Y", MaxStockLevel: 1, CategoryID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddComponent_Validaciones(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	silla := f.product(t, "SILLA", "0")
	pata := f.product(t, "PATA", "1")

	cases := []struct {
		name string
		in   dto.AddComponentRequest
		want error
	}{
		{"sin material ni producto", dto.AddComponentRequest{Quantity: dec("1")}, domain.ErrInvalidInput},
		{"ambos", dto.AddComponentRequest{MaterialID: "M1", ComponentProductID: pata, Quantity: dec("1")}, domain.ErrInvalidInput},
		{"cantidad cero", dto.AddComponentRequest{MaterialID: "M1"}, domain.ErrInvalidInput},
		{"material inexistente", dto.AddComponentRequest{MaterialID: "M9", Quantity: dec("1")}, domain.ErrNotFound},
		{"se contiene a sí mismo", dto.AddComponentRequest{ComponentProductID: silla, Quantity: dec("1")}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.AddComponent(ctx, silla, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAddComponent_RechazaCiclo(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	a := f.product(t, "A", "0")
	b := f.product(t, "B", "0")

	_, err := f.uc.AddComponent(ctx, a, dto.AddComponentRequest{ComponentProductID: b, Quantity: dec("1")})
	require.NoError(t, err)

	_, err = f.uc.AddComponent(ctx, b, dto.AddComponentRequest{ComponentProductID: a, Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDiscontinue_CascadaSoloPorComponentesObligatorios(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	tornillo := f.product(t, "TORNILLO", "0")
	pata := f.product(t, "PATA", "0")
	silla := f.product(t, "SILLA", "0")
	mesa := f.product(t, "MESA", "0")

	// tornillo ⊂ pata ⊂ silla (obligatorios); pata ⊂ mesa (opcional)
	_, err := f.uc.AddComponent(ctx, pata, dto.AddComponentRequest{ComponentProductID: tornillo, Quantity: dec("4")})
	require.NoError(t, err)
	_, err = f.uc.AddComponent(ctx, silla, dto.AddComponentRequest{ComponentProductID: pata, Quantity: dec("4")})
	require.NoError(t, err)
	_, err = f.uc.AddComponent(ctx, mesa, dto.AddComponentRequest{ComponentProductID: pata, Quantity: dec("4"), Optional: true})
	require.NoError(t, err)

	out, err := f.uc.Discontinue(ctx, tornillo)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{tornillo, pata, silla}, out.Discontinued)

	got, err := f.uc.GetByID(ctx, silla)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusDiscontinued, got.Status)
	assert.NotNil(t, got.DiscontinuedAt)

	got, err = f.uc.GetByID(ctx, mesa)
	require.NoError(t, err)
	assert.Equal(t, entity.ProductStatusActive, got.Status)

	// repetir no vuelve a reportar los ya discontinuados
	out, err = f.uc.Discontinue(ctx, tornillo)
	require.NoError(t, err)
	assert.Empty(t, out.Discontinued)
}

func TestDiscontinue_FalloRevierteLaCascada(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	tornillo := f.product(t, "TORNILLO", "0")
	pata := f.product(t, "PATA", "0")
	silla := f.product(t, "SILLA", "0")

	_, err := f.uc.AddComponent(ctx, pata, dto.AddComponentRequest{ComponentProductID: tornillo, Quantity: dec("4")})
	require.NoError(t, err)
	_, err = f.uc.AddComponent(ctx, silla, dto.AddComponentRequest{ComponentProductID: pata, Quantity: dec("4")})
	require.NoError(t, err)

	f.catalog.failUpdate = silla
	_, err = f.uc.Discontinue(ctx, tornillo)
	require.ErrorIs(t, err, errUpdateFailed)

	for _, id := range []string{tornillo, pata, silla} {
		got, err := f.uc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.ProductStatusActive, got.Status, got.SKU)
		assert.Nil(t, got.DiscontinuedAt, got.SKU)
	}
}

func TestCostPrice_SeRecalculaConLaReceta(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	silla := f.product(t, "SILLA", "0")
	cojin := f.product(t, "COJIN", "7")

	cost := func() decimal.Decimal {
		t.Helper()
		p, err := f.uc.GetByID(ctx, silla)
		require.NoError(t, err)
		return p.CostPrice
	}

	acero, err := f.uc.AddComponent(ctx, silla, dto.AddComponentRequest{MaterialID: "M1", Quantity: dec("4")})
	require.NoError(t, err)
	assert.True(t, cost().Equal(dec("12")), "4 × 2.5 × 1.2, obtuvo %s", cost())

	_, err = f.uc.AddComponent(ctx, silla, dto.AddComponentRequest{ComponentProductID: cojin, Quantity: dec("2")})
	require.NoError(t, err)
	assert.True(t, cost().Equal(dec("28.8")), "(10 + 14) × 1.2, obtuvo %s", cost())

	require.NoError(t, f.uc.RemoveComponent(ctx, silla, acero.ID))
	assert.True(t, cost().Equal(dec("16.8")), "14 × 1.2, obtuvo %s", cost())
}

func TestComponentUsage(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	pata := f.product(t, "PATA", "1")
	silla := f.product(t, "SILLA", "0")
	mesa := f.product(t, "MESA", "0")

	for _, add := range []struct {
		product string
		in      dto.AddComponentRequest
	}{
		{silla, dto.AddComponentRequest{MaterialID: "M1", Quantity: dec("4")}},
		{mesa, dto.AddComponentRequest{MaterialID: "M1", Quantity: dec("2")}},
		{silla, dto.AddComponentRequest{ComponentProductID: pata, Quantity: dec("4")}},
		{mesa, dto.AddComponentRequest{ComponentProductID: pata, Quantity: dec("1"), Optional: true}},
		{pata, dto.AddComponentRequest{MaterialID: "M2", Quantity: dec("0.5")}},
	} {
		_, err := f.uc.AddComponent(ctx, add.product, add.in)
		require.NoError(t, err)
	}

	usage, err := f.uc.ComponentUsage(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 3)

	assert.Equal(t, "material", usage[0].Kind)
	assert.Equal(t, "MP-001", usage[0].Code)
	assert.Equal(t, 2, usage[0].UsageCount)
	assert.True(t, usage[0].TotalQuantity.Equal(dec("6")))

	assert.Equal(t, "product", usage[1].Kind)
	assert.Equal(t, pata, usage[1].RefID)
	assert.Equal(t, 2, usage[1].UsageCount)
	assert.True(t, usage[1].TotalQuantity.Equal(dec("5")))

	assert.Equal(t, "MP-002", usage[2].Code)
	assert.Equal(t, 1, usage[2].UsageCount)
}

func TestBOM_CostoTotal(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	silla := f.product(t, "SILLA", "0")
	cojin := f.product(t, "COJIN", "7")

	_, err := f.uc.AddComponent(ctx, silla, dto.AddComponentRequest{MaterialID: "M1", Quantity: dec("4")})
	require.NoError(t, err)
	_, err = f.uc.AddComponent(ctx, silla, dto.AddComponentRequest{ComponentProductID: cojin, Quantity: dec("2")})
	require.NoError(t, err)

	bom, err := f.uc.BOM(ctx, silla)
	require.NoError(t, err)
	require.Len(t, bom.Lines, 2)
	// 4 kg × 2.5 + 2 × 7
	assert.True(t, bom.TotalCost.Equal(dec("24")), "obtuvo %s", bom.TotalCost)
}

func TestRemoveComponent_DeOtroProducto(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	silla := f.product(t, "SILLA", "0")
	mesa := f.product(t, "MESA", "0")

	line, err := f.uc.AddComponent(ctx, silla, dto.AddComponentRequest{MaterialID: "M2", Quantity: dec("0.5")})
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.RemoveComponent(ctx, mesa, line.ID), domain.ErrNotFound)
	require.NoError(t, f.uc.RemoveComponent(ctx, silla, line.ID))

	list, err := f.uc.ListComponents(ctx, silla)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMaterial_AdvertenciaDePuntoDeReorden(t *testing.T) {
	c := newCatalog()
	store := inventorytest.NewStore()
	uc := usecase.NewMaterialUseCase(store.Repos().Materials, supplierRepo{c})
	ctx := context.Background()

	m, err := uc.Create(ctx, dto.CreateMaterialRequest{
		Code: "MP-010", Name: "Madera", Unit: entity.UnitCubicMeter,
		MinimumStock: dec("10"), MaximumStock: dec("50"), ReorderPoint: dec("60"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ReorderPointWarning)

	rp := dec("20")
	m, err = uc.Update(ctx, m.ID, dto.UpdateMaterialRequest{ReorderPoint: &rp})
	require.NoError(t, err)
	assert.Empty(t, m.ReorderPointWarning)
}

func TestMaterial_Validaciones(t *testing.T) {
	uc := usecase.NewMaterialUseCase(inventorytest.NewStore().Repos().Materials, supplierRepo{newCatalog()})
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateMaterialRequest
		want error
	}{
		{"unidad desconocida", dto.CreateMaterialRequest{Code: "A", Name: "A", Unit: "caja"}, domain.ErrInvalidInput},
		{"precio negativo", dto.CreateMaterialRequest{Code: "A", Name: "A", Unit: "kg", UnitPrice: dec("-1")}, domain.ErrInvalidInput},
		{"mínimo mayor al máximo", dto.CreateMaterialRequest{Code: "A", Name: "A", Unit: "kg", MinimumStock: dec("5")}, domain.ErrInvalidInput},
		{"proveedor inexistente", dto.CreateMaterialRequest{Code: "A", Name: "A", Unit: "kg", SupplierID: "S9"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
