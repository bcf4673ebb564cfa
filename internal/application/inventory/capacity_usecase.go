package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CapacityUseCase consultas de ocupación de bodegas y recálculo manual de volúmenes.
type CapacityUseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	locationRepo  repository.StorageLocationRepository
}

// NewCapacityUseCase construye el caso de uso.
func NewCapacityUseCase(
	txRunner TxRunner,
	warehouseRepo repository.WarehouseRepository,
	locationRepo repository.StorageLocationRepository,
) *CapacityUseCase {
	return &CapacityUseCase{txRunner: txRunner, warehouseRepo: warehouseRepo, locationRepo: locationRepo}
}

// Utilization Σ volumen de las ubicaciones / capacidad de la bodega × 100.
func (uc *CapacityUseCase) Utilization(ctx context.Context, warehouseID string) (*dto.WarehouseUtilizationResponse, error) {
	wh, locs, err := uc.load(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	used := decimal.Zero
	for _, l := range locs {
		used = used.Add(l.CurrentVolume)
	}
	return &dto.WarehouseUtilizationResponse{
		WarehouseID:    wh.ID,
		Capacity:       wh.Capacity,
		UsedVolume:     used,
		Utilization:    inventory.Utilization(used, wh.Capacity),
		LocationsCount: len(locs),
	}, nil
}

// StorageAnalysis ocupación agrupada por tipo de ubicación.
func (uc *CapacityUseCase) StorageAnalysis(ctx context.Context, warehouseID string) (*dto.StorageAnalysisResponse, error) {
	wh, locs, err := uc.load(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	usage := inventory.StorageByType(locs)
	out := &dto.StorageAnalysisResponse{WarehouseID: wh.ID, ByType: make([]dto.StorageTypeUsageDTO, 0, len(usage))}
	for _, u := range usage {
		out.ByType = append(out.ByType, dto.StorageTypeUsageDTO{
			LocationType:  u.LocationType,
			Locations:     u.Locations,
			Capacity:      u.Capacity,
			CurrentVolume: u.CurrentVolume,
			Utilization:   u.Utilization,
		})
	}
	return out, nil
}

// AvailableLocations ubicaciones activas de la bodega con espacio para requiredVolume.
func (uc *CapacityUseCase) AvailableLocations(ctx context.Context, warehouseID string, requiredVolume decimal.Decimal) ([]dto.LocationResponse, error) {
	if requiredVolume.IsNegative() {
		return nil, fmt.Errorf("%w: required_volume no puede ser negativo", domain.ErrInvalidInput)
	}
	_, locs, err := uc.load(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	avail := inventory.AvailableLocations(locs, requiredVolume)
	out := make([]dto.LocationResponse, 0, len(avail))
	for _, l := range avail {
		out = append(out, ToLocationResponse(l))
	}
	return out, nil
}

// RecomputeVolume recalcula el volumen de la ubicación bajo bloqueo de fila.
func (uc *CapacityUseCase) RecomputeVolume(ctx context.Context, locationID string) (*dto.RecomputeVolumeResponse, error) {
	var volume decimal.Decimal
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		loc, err := r.Locations.GetForUpdate(ctx, locationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, locationID)
		}
		volume, err = NewCapacityTracker(r.Stock, r.Locations).RecomputeVolume(ctx, locationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.RecomputeVolumeResponse{LocationID: locationID, CurrentVolume: volume}, nil
}

func (uc *CapacityUseCase) load(ctx context.Context, warehouseID string) (*entity.Warehouse, []*entity.StorageLocation, error) {
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, nil, err
	}
	if wh == nil {
		return nil, nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, warehouseID)
	}
	locs, err := uc.locationRepo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, nil, err
	}
	return wh, locs, nil
}

// ToLocationResponse mapea una ubicación a su DTO.
func ToLocationResponse(l *entity.StorageLocation) dto.LocationResponse {
	return dto.LocationResponse{
		ID:                    l.ID,
		WarehouseID:           l.WarehouseID,
		Name:                  l.Name,
		LocationType:          l.LocationType,
		Capacity:              l.Capacity,
		CurrentVolume:         l.CurrentVolume,
		FreeVolume:            l.FreeVolume(),
		TemperatureControlled: l.TemperatureControlled,
		TemperatureRange:      l.TemperatureRange,
		Active:                l.Active,
		Notes:                 l.Notes,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}
}
