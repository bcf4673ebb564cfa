package repository

import (
	"context"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MaterialRepository define el puerto de persistencia para materias primas.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	GetByCode(ctx context.Context, code string) (*entity.Material, error)
	Update(ctx context.Context, material *entity.Material) error
	UpdatePrice(ctx context.Context, id string, unitPrice decimal.Decimal) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Material, error)
	// ListStockLevels devuelve los materiales activos con su stock total; belowReorder
	// filtra los que están en o bajo el punto de reorden.
	ListStockLevels(ctx context.Context, belowReorder bool) ([]entity.MaterialStockLevel, error)
}
