package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementReceipt    = "receipt"    // entrada a una ubicación
	MovementIssue      = "issue"      // salida desde una ubicación
	MovementTransfer   = "transfer"   // traslado entre ubicaciones
	MovementAdjustment = "adjustment" // ajuste: el signo define entrada o salida
	MovementReturn     = "return"     // devolución: el signo define entrada o salida
)

// StockMovement evento inmutable de cambio de stock. Se crea una vez y nunca se modifica.
// SourceLocationID / DestinationLocationID vacíos cuando no aplican al tipo.
type StockMovement struct {
	ID                    string
	MaterialID            string
	SourceLocationID      string
	DestinationLocationID string
	Type                  string
	Quantity              decimal.Decimal // con signo en adjustment/return
	BatchNumber           string
	ReferenceNumber       string // único
	UnitCost              *decimal.Decimal
	PerformedBy           string
	Notes                 string
	CreatedAt             time.Time
}

// MovementTypeSummary agregado de movimientos por tipo en un periodo.
type MovementTypeSummary struct {
	Type          string
	Count         int
	TotalQuantity decimal.Decimal
}

// MaterialMovementCount material con su número de movimientos en un periodo.
type MaterialMovementCount struct {
	MaterialID   string
	MaterialCode string
	MaterialName string
	Count        int
}
