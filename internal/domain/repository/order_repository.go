package repository

import (
	"context"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderRepository define el puerto de persistencia para pedidos de clientes.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	UpdatePaidAmount(ctx context.Context, id string, paid decimal.Decimal) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Order, error)
	CountByStatus(ctx context.Context, statuses ...string) (int, error)
}

// OrderItemRepository define el puerto de persistencia para ítems de pedido.
type OrderItemRepository interface {
	Create(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.OrderItem, error)
	Update(ctx context.Context, item *entity.OrderItem) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
}

// PaymentRepository define el puerto de persistencia para pagos.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Payment, error)
}

// MaterialRequirementRepository define el puerto de persistencia para requerimientos de material.
type MaterialRequirementRepository interface {
	Create(ctx context.Context, req *entity.MaterialRequirement) error
	GetByID(ctx context.Context, id string) (*entity.MaterialRequirement, error)
	UpdateAllocation(ctx context.Context, req *entity.MaterialRequirement) error
	DeleteByItem(ctx context.Context, orderItemID string) error
	ListByItem(ctx context.Context, orderItemID string) ([]*entity.MaterialRequirement, error)
}
