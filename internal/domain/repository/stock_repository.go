package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockFilter filtros opcionales para listar stock.
type StockFilter struct {
	MaterialID  string
	LocationID  string
	WarehouseID string
	BatchNumber string
}

// StockRepository define el puerto del libro de stock por (material, ubicación, lote).
// Get y GetForUpdate devuelven nil, nil cuando no existe el registro.
type StockRepository interface {
	Get(ctx context.Context, key entity.StockKey) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.Stock, error)
	Create(ctx context.Context, stock *entity.Stock) error
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
	Delete(ctx context.Context, id string) error
	// SumVolumeByLocation Σ quantity × volume_per_unit de la ubicación.
	SumVolumeByLocation(ctx context.Context, locationID string) (decimal.Decimal, error)
	// SumByMaterial stock total del material en todas las ubicaciones y lotes.
	SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error)
	List(ctx context.Context, filter StockFilter, limit, offset int) ([]*entity.Stock, error)
	ListExpiringBefore(ctx context.Context, before time.Time) ([]*entity.Stock, error)
}
