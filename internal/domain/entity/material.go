package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida de materias primas.
const (
	UnitKilogram    = "kg"
	UnitLiter       = "l"
	UnitMeter       = "m"
	UnitPiece       = "pcs"
	UnitSquareMeter = "m2"
	UnitCubicMeter  = "m3"
)

// ValidUnit indica si la unidad de medida es conocida.
func ValidUnit(u string) bool {
	switch u {
	case UnitKilogram, UnitLiter, UnitMeter, UnitPiece, UnitSquareMeter, UnitCubicMeter:
		return true
	}
	return false
}

// Material representa una materia prima identificada por código.
// ReorderPoint debería estar entre MinimumStock y MaximumStock, pero es una regla
// de negocio orientativa: no se rechaza.
type Material struct {
	ID            string
	Code          string // único
	Name          string
	Description   string
	Unit          string
	UnitPrice     decimal.Decimal
	MinimumStock  decimal.Decimal
	MaximumStock  decimal.Decimal
	ReorderPoint  decimal.Decimal
	LeadTimeDays  int
	VolumePerUnit decimal.Decimal // m³ por unidad
	SupplierID    string          // vacío si no tiene proveedor preferido
	Active        bool
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReorderPointWithinLimits reporta si el punto de reorden está dentro de [mínimo, máximo].
func (m *Material) ReorderPointWithinLimits() bool {
	return m.ReorderPoint.GreaterThanOrEqual(m.MinimumStock) && m.ReorderPoint.LessThanOrEqual(m.MaximumStock)
}

// MaterialStockLevel material con su stock total (suma de todas las ubicaciones y lotes).
type MaterialStockLevel struct {
	Material     Material
	CurrentStock decimal.Decimal
}
