package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	ParentID    string `json:"parent_id,omitempty"`
	Description string `json:"description"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ParentID    string    `json:"parent_id,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProductRequest entrada para crear un producto terminado.
type CreateProductRequest struct {
	SKU                   string          `json:"sku" validate:"required,min=1,max=100"`
	Name                  string          `json:"name" validate:"required,min=1,max=200"`
	Description           string          `json:"description"`
	CategoryID            string          `json:"category_id,omitempty"`
	UnitPrice             decimal.Decimal `json:"unit_price"`
	CostPrice             decimal.Decimal `json:"cost_price"`
	Status                string          `json:"status,omitempty"`
	MinStockLevel         int             `json:"min_stock_level"`
	MaxStockLevel         int             `json:"max_stock_level"`
	ManufacturingLeadTime int             `json:"manufacturing_lead_time"`
	BatchSize             int             `json:"batch_size"`
}

// UpdateProductRequest entrada para actualizar un producto. El estado discontinued solo se
// alcanza por el endpoint de discontinuar.
type UpdateProductRequest struct {
	Name                  *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description           *string          `json:"description"`
	CategoryID            *string          `json:"category_id"`
	UnitPrice             *decimal.Decimal `json:"unit_price"`
	CostPrice             *decimal.Decimal `json:"cost_price"`
	Status                *string          `json:"status"`
	MinStockLevel         *int             `json:"min_stock_level"`
	MaxStockLevel         *int             `json:"max_stock_level"`
	ManufacturingLeadTime *int             `json:"manufacturing_lead_time"`
	BatchSize             *int             `json:"batch_size"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                    string          `json:"id"`
	SKU                   string          `json:"sku"`
	Name                  string          `json:"name"`
	Description           string          `json:"description"`
	CategoryID            string          `json:"category_id,omitempty"`
	UnitPrice             decimal.Decimal `json:"unit_price"`
	CostPrice             decimal.Decimal `json:"cost_price"`
	Status                string          `json:"status"`
	MinStockLevel         int             `json:"min_stock_level"`
	MaxStockLevel         int             `json:"max_stock_level"`
	ManufacturingLeadTime int             `json:"manufacturing_lead_time"`
	BatchSize             int             `json:"batch_size"`
	DiscontinuedAt        *time.Time      `json:"discontinued_at,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// DiscontinueResponse productos discontinuados (el pedido y sus padres en cascada).
type DiscontinueResponse struct {
	Discontinued []string `json:"discontinued"`
}

// AddComponentRequest línea de receta: exactamente uno de material_id o component_product_id.
type AddComponentRequest struct {
	MaterialID         string          `json:"material_id,omitempty"`
	ComponentProductID string          `json:"component_product_id,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	Optional           bool            `json:"optional"`
	Notes              string          `json:"notes"`
}

// ComponentResponse línea de receta.
type ComponentResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	MaterialID         string          `json:"material_id,omitempty"`
	ComponentProductID string          `json:"component_product_id,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	Optional           bool            `json:"optional"`
	Notes              string          `json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
}

// BOMLineDTO línea de la lista de materiales con su costo.
type BOMLineDTO struct {
	ComponentID string          `json:"component_id"`
	Kind        string          `json:"kind"` // material | product
	RefID       string          `json:"ref_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Optional    bool            `json:"optional"`
}

// BOMResponse lista de materiales de un producto.
type BOMResponse struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Lines     []BOMLineDTO    `json:"lines"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// ComponentUsageDTO uso de un componente en las recetas.
type ComponentUsageDTO struct {
	Kind          string          `json:"kind"` // material | product
	RefID         string          `json:"ref_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	UsageCount    int             `json:"usage_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}
