package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de un pedido nuevo.
type OrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Notes     string          `json:"notes"`
}

// CreateOrderRequest entrada para crear un pedido de cliente.
type CreateOrderRequest struct {
	OrderNumber       string             `json:"order_number,omitempty"`
	CustomerName      string             `json:"customer_name" validate:"required"`
	CustomerEmail     string             `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone     string             `json:"customer_phone"`
	CustomerAddress   string             `json:"customer_address"`
	RequiredDate      time.Time          `json:"required_date" validate:"required"`
	EstimatedDelivery *time.Time         `json:"estimated_delivery,omitempty"`
	Priority          string             `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo        string             `json:"assigned_to,omitempty"`
	Notes             string             `json:"notes"`
	Items             []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// AssignOrderRequest asignación de un pedido a un usuario.
type AssignOrderRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// OrderItemResponse salida de un ítem de pedido.
type OrderItemResponse struct {
	ID                  string          `json:"id"`
	ProductID           string          `json:"product_id"`
	Quantity            decimal.Decimal `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	ProducedQuantity    decimal.Decimal `json:"produced_quantity"`
	ProductionProgress  decimal.Decimal `json:"production_progress"`
	InProduction        bool            `json:"in_production"`
	ProductionStarted   *time.Time      `json:"production_started,omitempty"`
	ProductionCompleted *time.Time      `json:"production_completed,omitempty"`
	Notes               string          `json:"notes"`
}

// UpdateItemProductionRequest avance de producción de un ítem.
type UpdateItemProductionRequest struct {
	ProducedQuantity *decimal.Decimal `json:"produced_quantity,omitempty" validate:"omitempty,gte=0"`
	InProduction     *bool            `json:"in_production,omitempty"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID                string              `json:"id"`
	OrderNumber       string              `json:"order_number"`
	CustomerName      string              `json:"customer_name"`
	CustomerEmail     string              `json:"customer_email"`
	CustomerPhone     string              `json:"customer_phone"`
	CustomerAddress   string              `json:"customer_address"`
	OrderDate         time.Time           `json:"order_date"`
	RequiredDate      time.Time           `json:"required_date"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time          `json:"actual_delivery,omitempty"`
	Status            string              `json:"status"`
	Priority          string              `json:"priority"`
	TotalAmount       decimal.Decimal     `json:"total_amount"`
	PaidAmount        decimal.Decimal     `json:"paid_amount"`
	Balance           decimal.Decimal     `json:"balance"`
	IsPaid            bool                `json:"is_paid"`
	Notes             string              `json:"notes"`
	CreatedBy         string              `json:"created_by,omitempty"`
	AssignedTo        string              `json:"assigned_to,omitempty"`
	Items             []OrderItemResponse `json:"items,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// OrderListResponse listado paginado de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// CreatePaymentRequest pago contra un pedido.
type CreatePaymentRequest struct {
	Amount          decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentMethod   string          `json:"payment_method" validate:"required,oneof=cash bank_transfer credit_card mobile_money cheque"`
	Status          string          `json:"status" validate:"omitempty,oneof=pending completed failed refunded"`
	PaymentDate     *time.Time      `json:"payment_date,omitempty"`
	ReferenceNumber string          `json:"reference_number"`
	ReceiptNumber   string          `json:"receipt_number"`
	Notes           string          `json:"notes"`
}

// PaymentResponse salida de un pago, con el saldo resultante del pedido.
type PaymentResponse struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"order_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentDate     time.Time       `json:"payment_date"`
	Status          string          `json:"status"`
	ReferenceNumber string          `json:"reference_number"`
	ReceiptNumber   string          `json:"receipt_number"`
	Notes           string          `json:"notes"`
	RecordedBy      string          `json:"recorded_by,omitempty"`
	OrderPaidAmount decimal.Decimal `json:"order_paid_amount"`
	OrderBalance    decimal.Decimal `json:"order_balance"`
}

// MaterialRequirementResponse requerimiento de material de un ítem.
type MaterialRequirementResponse struct {
	ID                string          `json:"id"`
	OrderItemID       string          `json:"order_item_id"`
	MaterialID        string          `json:"material_id"`
	RequiredQuantity  decimal.Decimal `json:"required_quantity"`
	AllocatedQuantity decimal.Decimal `json:"allocated_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	IsFullyAllocated  bool            `json:"is_fully_allocated"`
	Notes             string          `json:"notes"`
}

// AllocateRequest asignación manual de material a un requerimiento.
type AllocateRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gte=0"`
}
