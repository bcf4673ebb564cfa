package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive        = "active"
	ProductStatusDiscontinued  = "discontinued"
	ProductStatusInDevelopment = "in_development"
)

// ValidProductStatus indica si el estado es conocido.
func ValidProductStatus(s string) bool {
	switch s {
	case ProductStatusActive, ProductStatusDiscontinued, ProductStatusInDevelopment:
		return true
	}
	return false
}

// Product producto terminado que se fabrica en planta.
type Product struct {
	ID                    string
	SKU                   string // único
	Name                  string
	Description           string
	CategoryID            string
	UnitPrice             decimal.Decimal
	CostPrice             decimal.Decimal
	Status                string
	MinStockLevel         int
	MaxStockLevel         int
	ManufacturingLeadTime int // días
	BatchSize             int
	DiscontinuedAt        *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ProductComponent línea de la receta de un producto. Apunta a una materia prima
// (MaterialID) o a un sub-producto (ComponentProductID), nunca a ambos.
type ProductComponent struct {
	ID                 string
	ProductID          string
	MaterialID         string
	ComponentProductID string
	Quantity           decimal.Decimal // por unidad de producto
	Optional           bool
	Notes              string
	CreatedAt          time.Time
}

// IsMaterial indica si la línea consume materia prima directamente.
func (c *ProductComponent) IsMaterial() bool { return c.MaterialID != "" }
