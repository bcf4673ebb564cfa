package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CapacityTracker mantiene current_volume de las ubicaciones a partir del stock que contienen.
type CapacityTracker struct {
	stock     repository.StockRepository
	locations repository.StorageLocationRepository
}

// NewCapacityTracker construye el tracker sobre los repositorios dados (normalmente atados a una tx).
func NewCapacityTracker(stock repository.StockRepository, locations repository.StorageLocationRepository) *CapacityTracker {
	return &CapacityTracker{stock: stock, locations: locations}
}

// RecomputeVolume recalcula Σ quantity × volume_per_unit de la ubicación y lo persiste. Idempotente.
func (t *CapacityTracker) RecomputeVolume(ctx context.Context, locationID string) (decimal.Decimal, error) {
	volume, err := t.stock.SumVolumeByLocation(ctx, locationID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sumar volumen de ubicación %s: %w", locationID, err)
	}
	if err := t.locations.UpdateVolume(ctx, locationID, volume); err != nil {
		return decimal.Zero, fmt.Errorf("actualizar volumen de ubicación %s: %w", locationID, err)
	}
	return volume, nil
}
