package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Ledger libro de stock por (material, ubicación, lote). Cada escritura recalcula el volumen
// de la ubicación afectada con el CapacityTracker, dentro de la misma transacción del caller.
type Ledger struct {
	stock   repository.StockRepository
	tracker *CapacityTracker
	now     func() time.Time
}

// NewLedger construye el libro sobre el repositorio de stock y el tracker de capacidad.
func NewLedger(stock repository.StockRepository, tracker *CapacityTracker) *Ledger {
	return &Ledger{stock: stock, tracker: tracker, now: time.Now}
}

// Quantity cantidad disponible para la llave; cero si no existe registro.
func (l *Ledger) Quantity(ctx context.Context, key entity.StockKey) (decimal.Decimal, error) {
	s, err := l.stock.Get(ctx, key)
	if err != nil {
		return decimal.Zero, err
	}
	if s == nil {
		return decimal.Zero, nil
	}
	return s.Quantity, nil
}

// CreateOrIncrement crea el registro con quantity = delta o le suma delta. expiry solo se usa al crear.
func (l *Ledger) CreateOrIncrement(ctx context.Context, key entity.StockKey, delta decimal.Decimal, expiry *time.Time) (*entity.Stock, error) {
	if !delta.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad a sumar debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if err := inventory.CheckQuantityScale(delta); err != nil {
		return nil, err
	}

	s, err := l.stock.GetForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}
	now := l.now()
	if s == nil {
		s = &entity.Stock{
			ID:          uuid.New().String(),
			MaterialID:  key.MaterialID,
			LocationID:  key.LocationID,
			BatchNumber: key.BatchNumber,
			Quantity:    delta,
			ExpiryDate:  expiry,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := l.stock.Create(ctx, s); err != nil {
			return nil, err
		}
	} else {
		s.Quantity = s.Quantity.Add(delta)
		s.UpdatedAt = now
		if err := l.stock.UpdateQuantity(ctx, s.ID, s.Quantity); err != nil {
			return nil, err
		}
	}

	if _, err := l.tracker.RecomputeVolume(ctx, key.LocationID); err != nil {
		return nil, err
	}
	return s, nil
}

// DecrementOrDelete resta delta del registro. Si la cantidad llega a cero el registro se elimina.
// Sin registro devuelve ErrStockRecordNotFound; con cantidad menor a delta, ErrInsufficientStock
// sin modificar nada.
func (l *Ledger) DecrementOrDelete(ctx context.Context, key entity.StockKey, delta decimal.Decimal) error {
	if !delta.IsPositive() {
		return fmt.Errorf("%w: la cantidad a descontar debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if err := inventory.CheckQuantityScale(delta); err != nil {
		return err
	}

	s, err := l.stock.GetForUpdate(ctx, key)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: material %s en ubicación %s", domain.ErrStockRecordNotFound, key.MaterialID, key.LocationID)
	}
	if s.Quantity.LessThan(delta) {
		return fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, s.Quantity, delta)
	}

	remaining := s.Quantity.Sub(delta)
	if remaining.IsZero() {
		err = l.stock.Delete(ctx, s.ID)
	} else {
		err = l.stock.UpdateQuantity(ctx, s.ID, remaining)
	}
	if err != nil {
		return err
	}

	_, err = l.tracker.RecomputeVolume(ctx, key.LocationID)
	return err
}
