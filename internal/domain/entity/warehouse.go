package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ubicación de almacenamiento.
const (
	LocationTypeShelf = "shelf"
	LocationTypeRack  = "rack"
	LocationTypeBin   = "bin"
	LocationTypeFloor = "floor"
	LocationTypeCold  = "cold"
)

// ValidLocationType indica si el tipo de ubicación es conocido.
func ValidLocationType(t string) bool {
	switch t {
	case LocationTypeShelf, LocationTypeRack, LocationTypeBin, LocationTypeFloor, LocationTypeCold:
		return true
	}
	return false
}

// Warehouse representa una bodega de la planta. Capacity en metros cúbicos.
type Warehouse struct {
	ID        string
	Code      string // único
	Name      string
	Location  string
	Capacity  decimal.Decimal
	ManagerID string // vacío si no tiene responsable
	Active    bool
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StorageLocation es un espacio físico dentro de una bodega (estante, rack, piso, cuarto frío).
// CurrentVolume es derivado: siempre se recalcula desde el stock de la ubicación.
type StorageLocation struct {
	ID                    string
	WarehouseID           string
	Name                  string
	LocationType          string
	Capacity              decimal.Decimal // m³
	CurrentVolume         decimal.Decimal // m³ ocupados
	TemperatureControlled bool
	TemperatureRange      string // ej. "2-8°C"
	Active                bool
	Notes                 string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// FreeVolume volumen disponible (puede ser negativo si hubo ajustes sin control de capacidad).
func (l *StorageLocation) FreeVolume() decimal.Decimal {
	return l.Capacity.Sub(l.CurrentVolume)
}
