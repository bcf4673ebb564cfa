package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Code          string `json:"code" validate:"required,max=50"`
	Name          string `json:"name" validate:"required,max=200"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

// UpdateSupplierRequest entrada para actualizar un proveedor.
type UpdateSupplierRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	Active        *bool   `json:"active"`
	Notes         *string `json:"notes"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	Active        bool      `json:"active"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateMaterialRequest entrada para crear una materia prima.
type CreateMaterialRequest struct {
	Code          string          `json:"code" validate:"required,max=50"`
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit" validate:"required,oneof=kg l m pcs m2 m3"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	MaximumStock  decimal.Decimal `json:"maximum_stock"`
	ReorderPoint  decimal.Decimal `json:"reorder_point"`
	LeadTimeDays  int             `json:"lead_time_days"`
	VolumePerUnit decimal.Decimal `json:"volume_per_unit"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	Notes         string          `json:"notes"`
}

// UpdateMaterialRequest entrada para actualizar una materia prima.
type UpdateMaterialRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	MinimumStock  *decimal.Decimal `json:"minimum_stock"`
	MaximumStock  *decimal.Decimal `json:"maximum_stock"`
	ReorderPoint  *decimal.Decimal `json:"reorder_point"`
	LeadTimeDays  *int             `json:"lead_time_days"`
	VolumePerUnit *decimal.Decimal `json:"volume_per_unit"`
	SupplierID    *string          `json:"supplier_id"`
	Active        *bool            `json:"active"`
	Notes         *string          `json:"notes"`
}

// MaterialResponse salida de una materia prima. ReorderPointWarning se informa cuando el punto
// de reorden queda fuera de [mínimo, máximo].
type MaterialResponse struct {
	ID                  string          `json:"id"`
	Code                string          `json:"code"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Unit                string          `json:"unit"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	MinimumStock        decimal.Decimal `json:"minimum_stock"`
	MaximumStock        decimal.Decimal `json:"maximum_stock"`
	ReorderPoint        decimal.Decimal `json:"reorder_point"`
	LeadTimeDays        int             `json:"lead_time_days"`
	VolumePerUnit       decimal.Decimal `json:"volume_per_unit"`
	SupplierID          string          `json:"supplier_id,omitempty"`
	Active              bool            `json:"active"`
	Notes               string          `json:"notes"`
	ReorderPointWarning string          `json:"reorder_point_warning,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// MaterialListResponse lista paginada de materias primas.
type MaterialListResponse struct {
	Items []MaterialResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MaterialStockAnalysisResponse análisis de stock de un material.
type MaterialStockAnalysisResponse struct {
	MaterialID         string          `json:"material_id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	StockValue         decimal.Decimal `json:"stock_value"`
	ReorderPoint       decimal.Decimal `json:"reorder_point"`
	ConsumptionLast90d decimal.Decimal `json:"consumption_last_90d"`
	DailyConsumption   decimal.Decimal `json:"daily_consumption"`
	DaysUntilReorder   *int            `json:"days_until_reorder"` // nil sin consumo
	NeedsReorder       bool            `json:"needs_reorder"`
}

// LowStockItemDTO material en o bajo su punto de reorden.
type LowStockItemDTO struct {
	MaterialID   string          `json:"material_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
}

// StockResponse registro del libro de stock.
type StockResponse struct {
	ID          string          `json:"id"`
	MaterialID  string          `json:"material_id"`
	LocationID  string          `json:"location_id"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockListResponse lista paginada de stock.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ApplyMovementRequest body para POST /api/inventory/movements.
type ApplyMovementRequest struct {
	MaterialID            string           `json:"material_id" validate:"required"`
	SourceLocationID      string           `json:"source_location_id,omitempty"`
	DestinationLocationID string           `json:"destination_location_id,omitempty"`
	Type                  string           `json:"type" validate:"required,oneof=receipt issue transfer adjustment return"`
	Quantity              decimal.Decimal  `json:"quantity"`
	BatchNumber           string           `json:"batch_number,omitempty"`
	ReferenceNumber       string           `json:"reference_number,omitempty"`
	UnitCost              *decimal.Decimal `json:"unit_cost,omitempty"`
	ExpiryDate            *time.Time       `json:"expiry_date,omitempty"`
	Notes                 string           `json:"notes"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID                    string           `json:"id"`
	MaterialID            string           `json:"material_id"`
	SourceLocationID      string           `json:"source_location_id,omitempty"`
	DestinationLocationID string           `json:"destination_location_id,omitempty"`
	Type                  string           `json:"type"`
	Quantity              decimal.Decimal  `json:"quantity"`
	BatchNumber           string           `json:"batch_number,omitempty"`
	ReferenceNumber       string           `json:"reference_number"`
	UnitCost              *decimal.Decimal `json:"unit_cost,omitempty"`
	PerformedBy           string           `json:"performed_by,omitempty"`
	Notes                 string           `json:"notes"`
	CreatedAt             time.Time        `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementTypeSummaryDTO agregado por tipo.
type MovementTypeSummaryDTO struct {
	Type          string          `json:"type"`
	Count         int             `json:"count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// TopMaterialDTO material con más movimientos.
type TopMaterialDTO struct {
	MaterialID string `json:"material_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Movements  int    `json:"movements"`
}

// MovementAnalysisResponse análisis de movimientos en una ventana de días.
type MovementAnalysisResponse struct {
	From         time.Time                `json:"from"`
	To           time.Time                `json:"to"`
	ByType       []MovementTypeSummaryDTO `json:"by_type"`
	TopMaterials []TopMaterialDTO         `json:"top_materials"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un material en o bajo su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	MaterialID         string          `json:"material_id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	SupplierID         string          `json:"supplier_id,omitempty"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	ReorderPoint       decimal.Decimal `json:"reorder_point"`
	MaximumStock       decimal.Decimal `json:"maximum_stock"`
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"` // max - current
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitPrice
	ShortageRatio      decimal.Decimal `json:"shortage_ratio"`       // (reorden - actual) / reorden
	ConsumptionLast90d decimal.Decimal `json:"consumption_last_90d"`
	LeadTimeDays       int             `json:"lead_time_days"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
