package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pedido de cliente.
const (
	OrderStatusPending      = "pending"
	OrderStatusConfirmed    = "confirmed"
	OrderStatusInProduction = "in_production"
	OrderStatusCompleted    = "completed"
	OrderStatusDelivered    = "delivered"
	OrderStatusCancelled    = "cancelled"
)

// Prioridades de pedido.
const (
	OrderPriorityLow    = "low"
	OrderPriorityMedium = "medium"
	OrderPriorityHigh   = "high"
	OrderPriorityUrgent = "urgent"
)

// Métodos y estados de pago.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodMobileMoney  = "mobile_money"
	PaymentMethodCheque       = "cheque"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Order pedido de cliente.
type Order struct {
	ID                string
	OrderNumber       string // único
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	CustomerAddress   string
	OrderDate         time.Time
	RequiredDate      time.Time
	EstimatedDelivery *time.Time
	ActualDelivery    *time.Time
	Status            string
	Priority          string
	TotalAmount       decimal.Decimal
	PaidAmount        decimal.Decimal
	Notes             string
	CreatedBy         string
	AssignedTo        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Balance saldo pendiente del pedido.
func (o *Order) Balance() decimal.Decimal { return o.TotalAmount.Sub(o.PaidAmount) }

// IsPaid indica si los pagos completados cubren el total.
func (o *Order) IsPaid() bool { return o.PaidAmount.GreaterThanOrEqual(o.TotalAmount) }

// OrderItem línea de un pedido.
type OrderItem struct {
	ID                  string
	OrderID             string
	ProductID           string
	Quantity            decimal.Decimal
	UnitPrice           decimal.Decimal
	ProducedQuantity    decimal.Decimal
	InProduction        bool
	ProductionStarted   *time.Time
	ProductionCompleted *time.Time
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TotalPrice cantidad por precio unitario.
func (i *OrderItem) TotalPrice() decimal.Decimal { return i.Quantity.Mul(i.UnitPrice) }

// ProductionProgress porcentaje producido (0 cuando la cantidad es 0).
func (i *OrderItem) ProductionProgress() decimal.Decimal {
	if i.Quantity.IsZero() {
		return decimal.Zero
	}
	return i.ProducedQuantity.Div(i.Quantity).Mul(decimal.NewFromInt(100)).Round(2)
}

// Payment pago registrado contra un pedido.
type Payment struct {
	ID              string
	OrderID         string
	Amount          decimal.Decimal
	PaymentMethod   string
	PaymentDate     time.Time
	Status          string
	ReferenceNumber string
	ReceiptNumber   string
	Notes           string
	RecordedBy      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MaterialRequirement necesidad de material para un ítem de pedido, con asignación manual.
type MaterialRequirement struct {
	ID                string
	OrderItemID       string
	MaterialID        string
	RequiredQuantity  decimal.Decimal
	AllocatedQuantity decimal.Decimal
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsFullyAllocated indica si lo asignado cubre lo requerido.
func (r *MaterialRequirement) IsFullyAllocated() bool {
	return r.AllocatedQuantity.GreaterThanOrEqual(r.RequiredQuantity)
}

// RemainingQuantity cantidad pendiente de asignar (nunca negativa).
func (r *MaterialRequirement) RemainingQuantity() decimal.Decimal {
	rem := r.RequiredQuantity.Sub(r.AllocatedQuantity)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}
