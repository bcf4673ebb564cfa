package repository

import (
	"context"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetByCode(ctx context.Context, code string) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
}

// StorageLocationRepository define el puerto de persistencia para ubicaciones.
// GetForUpdate bloquea la fila (SELECT FOR UPDATE) y solo tiene sentido dentro de una transacción.
type StorageLocationRepository interface {
	Create(ctx context.Context, location *entity.StorageLocation) error
	GetByID(ctx context.Context, id string) (*entity.StorageLocation, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StorageLocation, error)
	Update(ctx context.Context, location *entity.StorageLocation) error
	UpdateVolume(ctx context.Context, id string, volume decimal.Decimal) error
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StorageLocation, error)
}
