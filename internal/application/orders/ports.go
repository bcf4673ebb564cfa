// Package orders casos de uso de pedidos de cliente: ítems, pagos y requerimientos de material.
package orders

import (
	"context"

	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// TxRepos repositorios de pedidos atados a una misma transacción.
type TxRepos struct {
	Orders       repository.OrderRepository
	Items        repository.OrderItemRepository
	Payments     repository.PaymentRepository
	Requirements repository.MaterialRequirementRepository
}

// TxRunner ejecuta fn dentro de una transacción; error → Rollback.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(repos TxRepos) error) error
}

// Repos repositorios fuera de transacción.
type Repos struct {
	Orders       repository.OrderRepository
	Items        repository.OrderItemRepository
	Payments     repository.PaymentRepository
	Requirements repository.MaterialRequirementRepository
	Products     repository.ProductRepository
	Components   repository.ProductComponentRepository
}
