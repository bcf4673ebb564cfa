package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/orders"
	"github.com/jhoicas/Fabrica-api/internal/application/production/productiontest"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var q = productiontest.Qty

type fixture struct {
	db *memDB
	uc *orders.UseCase
}

// fixture: SILLA = 4 × M1 + 1 × ASIENTO; ASIENTO = 2 × M2 + 1 × M1.
func newFixture() *fixture {
	catalog := productiontest.NewDB(nil).
		AddProduct(entity.Product{ID: "SILLA", SKU: "SILLA", Status: entity.ProductStatusActive}).
		AddProduct(entity.Product{ID: "ASIENTO", SKU: "ASIENTO", Status: entity.ProductStatusActive}).
		AddProduct(entity.Product{ID: "VIEJO", SKU: "VIEJO", Status: entity.ProductStatusDiscontinued}).
		AddComponent(entity.ProductComponent{ID: "c1", ProductID: "SILLA", MaterialID: "M1", Quantity: q("4")}).
		AddComponent(entity.ProductComponent{ID: "c2", ProductID: "SILLA", ComponentProductID: "ASIENTO", Quantity: q("1")}).
		AddComponent(entity.ProductComponent{ID: "c3", ProductID: "ASIENTO", MaterialID: "M2", Quantity: q("2")}).
		AddComponent(entity.ProductComponent{ID: "c4", ProductID: "ASIENTO", MaterialID: "M1", Quantity: q("1")})
	catalogRepos := catalog.Repos(nil)

	db := newMemDB()
	tx := db.txRepos()
	uc := orders.NewUseCase(orders.Repos{
		Orders:       tx.Orders,
		Items:        tx.Items,
		Payments:     tx.Payments,
		Requirements: tx.Requirements,
		Products:     catalogRepos.Products,
		Components:   catalogRepos.Components,
	}, db, logger.Nop())
	return &fixture{db: db, uc: uc}
}

func (f *fixture) order(t *testing.T) *dto.OrderResponse {
	t.Helper()
	o, err := f.uc.CreateOrder(context.Background(), "vend-1", dto.CreateOrderRequest{
		CustomerName: "Muebles SAS",
		RequiredDate: time.Now().AddDate(0, 0, 15),
		Items: []dto.OrderItemRequest{
			{ProductID: "SILLA", Quantity: q("10"), UnitPrice: q("25.50")},
			{ProductID: "ASIENTO", Quantity: q("4"), UnitPrice: q("10")},
		},
	})
	require.NoError(t, err)
	return o
}

func TestCreateOrder_CalculaTotal(t *testing.T) {
	f := newFixture()

	o := f.order(t)

	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.Equal(t, entity.OrderPriorityMedium, o.Priority)
	assert.True(t, o.TotalAmount.Equal(q("295")), "10×25.50 + 4×10, obtuvo %s", o.TotalAmount)
	assert.True(t, o.Balance.Equal(q("295")))
	assert.False(t, o.IsPaid)
	assert.Regexp(t, `^PED-\d{8}-[0-9A-F]{6}$`, o.OrderNumber)
	require.Len(t, o.Items, 2)
}

func TestCreateOrder_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	due := time.Now().AddDate(0, 0, 1)
	item := []dto.OrderItemRequest{{ProductID: "SILLA", Quantity: q("1"), UnitPrice: q("1")}}

	cases := []struct {
		name string
		in   dto.CreateOrderRequest
		want error
	}{
		{"sin fecha requerida", dto.CreateOrderRequest{CustomerName: "x", Items: item}, domain.ErrInvalidInput},
		{"sin ítems", dto.CreateOrderRequest{CustomerName: "x", RequiredDate: due}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateOrderRequest{CustomerName: "x", RequiredDate: due,
			Items: []dto.OrderItemRequest{{ProductID: "SILLA", Quantity: q("0")}}}, domain.ErrInvalidInput},
		{"prioridad desconocida", dto.CreateOrderRequest{CustomerName: "x", RequiredDate: due, Priority: "ya", Items: item}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateOrderRequest{CustomerName: "x", RequiredDate: due,
			Items: []dto.OrderItemRequest{{ProductID: "NOPE", Quantity: q("1")}}}, domain.ErrNotFound},
		{"producto descontinuado", dto.CreateOrderRequest{CustomerName: "x", RequiredDate: due,
			Items: []dto.OrderItemRequest{{ProductID: "VIEJO", Quantity: q("1")}}}, domain.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.CreateOrder(ctx, "u", tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateOrder_NumeroDuplicado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	in := dto.CreateOrderRequest{OrderNumber: "PED-1", CustomerName: "x", RequiredDate: time.Now(),
		Items: []dto.OrderItemRequest{{ProductID: "SILLA", Quantity: q("1")}}}

	_, err := f.uc.CreateOrder(ctx, "u", in)
	require.NoError(t, err)
	_, err = f.uc.CreateOrder(ctx, "u", in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdateStatus_FlujoHastaEntrega(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.order(t)

	_, err := f.uc.UpdateStatus(ctx, o.ID, entity.OrderStatusDelivered)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	for _, s := range []string{entity.OrderStatusConfirmed, entity.OrderStatusInProduction, entity.OrderStatusCompleted} {
		got, err := f.uc.UpdateStatus(ctx, o.ID, s)
		require.NoError(t, err)
		assert.Nil(t, got.ActualDelivery)
	}
	got, err := f.uc.UpdateStatus(ctx, o.ID, entity.OrderStatusDelivered)
	require.NoError(t, err)
	assert.NotNil(t, got.ActualDelivery)

	_, err = f.uc.UpdateStatus(ctx, o.ID, "perdido")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPayments_RecalculanPagado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.order(t)

	p1, err := f.uc.AddPayment(ctx, o.ID, "caja", dto.CreatePaymentRequest{
		Amount: q("100"), PaymentMethod: entity.PaymentMethodCash, Status: entity.PaymentStatusCompleted,
	})
	require.NoError(t, err)
	assert.True(t, p1.OrderPaidAmount.Equal(q("100")))
	assert.True(t, p1.OrderBalance.Equal(q("195")))

	p2, err := f.uc.AddPayment(ctx, o.ID, "caja", dto.CreatePaymentRequest{
		Amount: q("195"), PaymentMethod: entity.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, p2.Status)
	assert.True(t, p2.OrderPaidAmount.Equal(q("100")), "los pendientes no cuentan")

	_, err = f.uc.UpdatePaymentStatus(ctx, p2.ID, entity.PaymentStatusCompleted)
	require.NoError(t, err)
	got, err := f.uc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	assert.True(t, got.Balance.IsZero())

	_, err = f.uc.UpdatePaymentStatus(ctx, p1.ID, entity.PaymentStatusRefunded)
	require.NoError(t, err)
	got, err = f.uc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.Equal(q("195")))
	assert.False(t, got.IsPaid)
}

func TestAddPayment_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.order(t)

	_, err := f.uc.AddPayment(ctx, o.ID, "u", dto.CreatePaymentRequest{Amount: q("0"), PaymentMethod: entity.PaymentMethodCash})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.AddPayment(ctx, o.ID, "u", dto.CreatePaymentRequest{Amount: q("1"), PaymentMethod: "bitcoin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.AddPayment(ctx, "nope", "u", dto.CreatePaymentRequest{Amount: q("1"), PaymentMethod: entity.PaymentMethodCash})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.db.payments, "el rollback descarta el pago")
}

func TestGenerateRequirements_ReemplazaLosAnteriores(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.order(t).Items[0] // 10 sillas

	reqs, err := f.uc.GenerateRequirements(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "M1", reqs[0].MaterialID)
	assert.True(t, reqs[0].RequiredQuantity.Equal(q("50")), "10 × (4 + 1), obtuvo %s", reqs[0].RequiredQuantity)
	assert.Equal(t, "M2", reqs[1].MaterialID)
	assert.True(t, reqs[1].RequiredQuantity.Equal(q("20")))

	_, err = f.uc.GenerateRequirements(ctx, item.ID)
	require.NoError(t, err)
	list, err := f.uc.ListRequirements(ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAllocate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.order(t).Items[0]
	reqs, err := f.uc.GenerateRequirements(ctx, item.ID)
	require.NoError(t, err)
	m2 := reqs[1]

	got, err := f.uc.Allocate(ctx, m2.ID, q("15"))
	require.NoError(t, err)
	assert.False(t, got.IsFullyAllocated)
	assert.True(t, got.RemainingQuantity.Equal(q("5")))

	got, err = f.uc.Allocate(ctx, m2.ID, q("20"))
	require.NoError(t, err)
	assert.True(t, got.IsFullyAllocated)
	assert.True(t, got.RemainingQuantity.IsZero())

	_, err = f.uc.Allocate(ctx, m2.ID, q("21"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Allocate(ctx, m2.ID, q("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateItemProduction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.order(t).Items[1] // 4 asientos
	yes, no := true, false
	half, all := q("2"), q("4")

	got, err := f.uc.UpdateItemProduction(ctx, item.ID, dto.UpdateItemProductionRequest{InProduction: &yes, ProducedQuantity: &half})
	require.NoError(t, err)
	assert.NotNil(t, got.ProductionStarted)
	assert.True(t, got.ProductionProgress.Equal(q("50")))

	got, err = f.uc.UpdateItemProduction(ctx, item.ID, dto.UpdateItemProductionRequest{InProduction: &no, ProducedQuantity: &all})
	require.NoError(t, err)
	assert.NotNil(t, got.ProductionCompleted)
	assert.True(t, got.ProductionProgress.Equal(q("100")))
}
