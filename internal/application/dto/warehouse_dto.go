package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Code      string          `json:"code" validate:"required,max=50"`
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	Location  string          `json:"location"`
	Capacity  decimal.Decimal `json:"capacity"`
	ManagerID string          `json:"manager_id,omitempty"`
	Notes     string          `json:"notes"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega.
type UpdateWarehouseRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Location  *string          `json:"location"`
	Capacity  *decimal.Decimal `json:"capacity"`
	ManagerID *string          `json:"manager_id"`
	Active    *bool            `json:"active"`
	Notes     *string          `json:"notes"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	Capacity  decimal.Decimal `json:"capacity"`
	ManagerID string          `json:"manager_id,omitempty"`
	Active    bool            `json:"active"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CreateLocationRequest entrada para crear una ubicación de almacenamiento.
type CreateLocationRequest struct {
	WarehouseID           string          `json:"warehouse_id" validate:"required"`
	Name                  string          `json:"name" validate:"required,max=100"`
	LocationType          string          `json:"location_type" validate:"required,oneof=shelf rack bin floor cold"`
	Capacity              decimal.Decimal `json:"capacity"`
	TemperatureControlled bool            `json:"temperature_controlled"`
	TemperatureRange      string          `json:"temperature_range"`
	Notes                 string          `json:"notes"`
}

// UpdateLocationRequest entrada para actualizar una ubicación. current_volume no es editable.
type UpdateLocationRequest struct {
	Name                  *string          `json:"name"`
	LocationType          *string          `json:"location_type"`
	Capacity              *decimal.Decimal `json:"capacity"`
	TemperatureControlled *bool            `json:"temperature_controlled"`
	TemperatureRange      *string          `json:"temperature_range"`
	Active                *bool            `json:"active"`
	Notes                 *string          `json:"notes"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID                    string          `json:"id"`
	WarehouseID           string          `json:"warehouse_id"`
	Name                  string          `json:"name"`
	LocationType          string          `json:"location_type"`
	Capacity              decimal.Decimal `json:"capacity"`
	CurrentVolume         decimal.Decimal `json:"current_volume"`
	FreeVolume            decimal.Decimal `json:"free_volume"`
	TemperatureControlled bool            `json:"temperature_controlled"`
	TemperatureRange      string          `json:"temperature_range,omitempty"`
	Active                bool            `json:"active"`
	Notes                 string          `json:"notes"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// WarehouseUtilizationResponse ocupación de una bodega.
type WarehouseUtilizationResponse struct {
	WarehouseID    string          `json:"warehouse_id"`
	Capacity       decimal.Decimal `json:"capacity"`
	UsedVolume     decimal.Decimal `json:"used_volume"`
	Utilization    decimal.Decimal `json:"utilization_pct"`
	LocationsCount int             `json:"locations_count"`
}

// StorageTypeUsageDTO ocupación agregada por tipo de ubicación.
type StorageTypeUsageDTO struct {
	LocationType  string          `json:"location_type"`
	Locations     int             `json:"locations"`
	Capacity      decimal.Decimal `json:"capacity"`
	CurrentVolume decimal.Decimal `json:"current_volume"`
	Utilization   decimal.Decimal `json:"utilization_pct"`
}

// StorageAnalysisResponse análisis de almacenamiento de una bodega.
type StorageAnalysisResponse struct {
	WarehouseID string                `json:"warehouse_id"`
	ByType      []StorageTypeUsageDTO `json:"by_type"`
}

// RecomputeVolumeResponse resultado de recalcular el volumen de una ubicación.
type RecomputeVolumeResponse struct {
	LocationID    string          `json:"location_id"`
	CurrentVolume decimal.Decimal `json:"current_volume"`
}
