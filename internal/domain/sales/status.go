// Package sales reglas de pedidos de cliente: transiciones de estado y pagos.
package sales

import (
	"fmt"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var orderTransitions = map[string][]string{
	entity.OrderStatusPending:      {entity.OrderStatusConfirmed, entity.OrderStatusCancelled},
	entity.OrderStatusConfirmed:    {entity.OrderStatusInProduction, entity.OrderStatusCancelled},
	entity.OrderStatusInProduction: {entity.OrderStatusCompleted},
	entity.OrderStatusCompleted:    {entity.OrderStatusDelivered},
}

// CheckOrderTransition valida el cambio de estado de un pedido.
func CheckOrderTransition(from, to string) error {
	for _, s := range orderTransitions[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
}

// ValidPriority indica si la prioridad es conocida.
func ValidPriority(p string) bool {
	switch p {
	case entity.OrderPriorityLow, entity.OrderPriorityMedium, entity.OrderPriorityHigh, entity.OrderPriorityUrgent:
		return true
	}
	return false
}

// ValidPaymentMethod indica si el método de pago es conocido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case entity.PaymentMethodCash, entity.PaymentMethodBankTransfer, entity.PaymentMethodCreditCard,
		entity.PaymentMethodMobileMoney, entity.PaymentMethodCheque:
		return true
	}
	return false
}

// ValidPaymentStatus indica si el estado de pago es conocido.
func ValidPaymentStatus(s string) bool {
	switch s {
	case entity.PaymentStatusPending, entity.PaymentStatusCompleted, entity.PaymentStatusFailed, entity.PaymentStatusRefunded:
		return true
	}
	return false
}

// OrderTotal suma cantidad × precio unitario de los ítems.
func OrderTotal(items []*entity.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice())
	}
	return total
}

// PaidAmount suma solo los pagos completados.
func PaidAmount(payments []*entity.Payment) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range payments {
		if p.Status == entity.PaymentStatusCompleted {
			paid = paid.Add(p.Amount)
		}
	}
	return paid
}

// CheckAllocation valida 0 ≤ allocated ≤ required.
func CheckAllocation(req *entity.MaterialRequirement, allocated decimal.Decimal) error {
	if allocated.IsNegative() {
		return fmt.Errorf("%w: la cantidad asignada no puede ser negativa", domain.ErrInvalidInput)
	}
	if allocated.GreaterThan(req.RequiredQuantity) {
		return fmt.Errorf("%w: la cantidad asignada (%s) supera la requerida (%s)",
			domain.ErrInvalidInput, allocated, req.RequiredQuantity)
	}
	return nil
}
