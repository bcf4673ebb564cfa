package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// WarehouseUseCase casos de uso CRUD para bodegas y sus ubicaciones.
type WarehouseUseCase struct {
	repo         repository.WarehouseRepository
	locationRepo repository.StorageLocationRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, locationRepo repository.StorageLocationRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, locationRepo: locationRepo}
}

// Create crea una nueva bodega. El código es único.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	if in.Code == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: code y name son obligatorios", domain.ErrInvalidInput)
	}
	if in.Capacity.IsNegative() {
		return nil, fmt.Errorf("%w: la capacidad no puede ser negativa", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrDuplicate, in.Code)
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Location:  in.Location,
		Capacity:  in.Capacity,
		ManagerID: in.ManagerID,
		Active:    true,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// Update actualiza una bodega.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		warehouse.Name = *in.Name
	}
	if in.Location != nil {
		warehouse.Location = *in.Location
	}
	if in.Capacity != nil {
		if in.Capacity.IsNegative() {
			return nil, fmt.Errorf("%w: la capacidad no puede ser negativa", domain.ErrInvalidInput)
		}
		warehouse.Capacity = *in.Capacity
	}
	if in.ManagerID != nil {
		warehouse.ManagerID = *in.ManagerID
	}
	if in.Active != nil {
		warehouse.Active = *in.Active
	}
	if in.Notes != nil {
		warehouse.Notes = *in.Notes
	}
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, limit, offset int) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// CreateLocation crea una ubicación dentro de una bodega. current_volume inicia en 0.
func (uc *WarehouseUseCase) CreateLocation(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if _, err := uc.get(ctx, in.WarehouseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	if !entity.ValidLocationType(in.LocationType) {
		return nil, fmt.Errorf("%w: tipo de ubicación %q desconocido", domain.ErrInvalidInput, in.LocationType)
	}
	if in.Capacity.IsNegative() {
		return nil, fmt.Errorf("%w: la capacidad no puede ser negativa", domain.ErrInvalidInput)
	}
	now := time.Now()
	loc := &entity.StorageLocation{
		ID:                    uuid.New().String(),
		WarehouseID:           in.WarehouseID,
		Name:                  in.Name,
		LocationType:          in.LocationType,
		Capacity:              in.Capacity,
		CurrentVolume:         decimal.Zero,
		TemperatureControlled: in.TemperatureControlled,
		TemperatureRange:      in.TemperatureRange,
		Active:                true,
		Notes:                 in.Notes,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.locationRepo.Create(ctx, loc); err != nil {
		return nil, err
	}
	out := inventory.ToLocationResponse(loc)
	return &out, nil
}

// GetLocation obtiene una ubicación por ID.
func (uc *WarehouseUseCase) GetLocation(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
	}
	out := inventory.ToLocationResponse(loc)
	return &out, nil
}

// UpdateLocation actualiza los datos descriptivos de una ubicación; el volumen no se toca.
func (uc *WarehouseUseCase) UpdateLocation(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
	}
	if in.Name != nil {
		loc.Name = *in.Name
	}
	if in.LocationType != nil {
		if !entity.ValidLocationType(*in.LocationType) {
			return nil, fmt.Errorf("%w: tipo de ubicación %q desconocido", domain.ErrInvalidInput, *in.LocationType)
		}
		loc.LocationType = *in.LocationType
	}
	if in.Capacity != nil {
		if in.Capacity.IsNegative() {
			return nil, fmt.Errorf("%w: la capacidad no puede ser negativa", domain.ErrInvalidInput)
		}
		loc.Capacity = *in.Capacity
	}
	if in.TemperatureControlled != nil {
		loc.TemperatureControlled = *in.TemperatureControlled
	}
	if in.TemperatureRange != nil {
		loc.TemperatureRange = *in.TemperatureRange
	}
	if in.Active != nil {
		loc.Active = *in.Active
	}
	if in.Notes != nil {
		loc.Notes = *in.Notes
	}
	loc.UpdatedAt = time.Now()
	if err := uc.locationRepo.Update(ctx, loc); err != nil {
		return nil, err
	}
	out := inventory.ToLocationResponse(loc)
	return &out, nil
}

// ListLocations lista las ubicaciones de una bodega.
func (uc *WarehouseUseCase) ListLocations(ctx context.Context, warehouseID string) ([]dto.LocationResponse, error) {
	if _, err := uc.get(ctx, warehouseID); err != nil {
		return nil, err
	}
	list, err := uc.locationRepo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, inventory.ToLocationResponse(l))
	}
	return out, nil
}

func (uc *WarehouseUseCase) get(ctx context.Context, id string) (*entity.Warehouse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}
	return warehouse, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Location:  w.Location,
		Capacity:  w.Capacity,
		ManagerID: w.ManagerID,
		Active:    w.Active,
		Notes:     w.Notes,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
