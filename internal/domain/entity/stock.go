package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockKey identifica un registro del libro de stock.
type StockKey struct {
	MaterialID  string
	LocationID  string
	BatchNumber string
}

// Stock cantidad disponible de un material en una ubicación para un lote.
// Único por (material, ubicación, lote). Quantity > 0: un registro que llega a cero se elimina.
type Stock struct {
	ID          string
	MaterialID  string
	LocationID  string
	BatchNumber string
	Quantity    decimal.Decimal
	ExpiryDate  *time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Key devuelve la llave del registro.
func (s *Stock) Key() StockKey {
	return StockKey{MaterialID: s.MaterialID, LocationID: s.LocationID, BatchNumber: s.BatchNumber}
}
