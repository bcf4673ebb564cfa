package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementFilter filtros opcionales para listar movimientos.
type MovementFilter struct {
	MaterialID string
	Type       string
	From       *time.Time
	To         *time.Time
}

// StockMovementRepository define el puerto de persistencia para movimientos (solo inserción y lectura).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	ExistsReference(ctx context.Context, reference string) (bool, error)
	List(ctx context.Context, filter MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
	SummaryByType(ctx context.Context, from, to time.Time) ([]entity.MovementTypeSummary, error)
	TopMaterials(ctx context.Context, from, to time.Time, limit int) ([]entity.MaterialMovementCount, error)
	// IssuedQuantity cantidad salida del material por movimientos issue en el periodo.
	IssuedQuantity(ctx context.Context, materialID string, from, to time.Time) (decimal.Decimal, error)
}
