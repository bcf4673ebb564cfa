package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// ProductionLineRepository define el puerto de persistencia para líneas de producción.
type ProductionLineRepository interface {
	Create(ctx context.Context, line *entity.ProductionLine) error
	GetByID(ctx context.Context, id string) (*entity.ProductionLine, error)
	Update(ctx context.Context, line *entity.ProductionLine) error
	List(ctx context.Context) ([]*entity.ProductionLine, error)
}

// ProductionOrderFilter filtros opcionales para órdenes de producción.
type ProductionOrderFilter struct {
	Status           string
	ProductionLineID string
}

// ProductionOrderRepository define el puerto de persistencia para órdenes de producción.
type ProductionOrderRepository interface {
	Create(ctx context.Context, order *entity.ProductionOrder) error
	GetByID(ctx context.Context, id string) (*entity.ProductionOrder, error)
	GetByNumber(ctx context.Context, orderNumber string) (*entity.ProductionOrder, error)
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	List(ctx context.Context, filter ProductionOrderFilter, limit, offset int) ([]*entity.ProductionOrder, error)
	CountByStatus(ctx context.Context, statuses ...string) (int, error)
}

// ProductionBatchRepository define el puerto de persistencia para lotes de producción.
type ProductionBatchRepository interface {
	Create(ctx context.Context, batch *entity.ProductionBatch) error
	GetByID(ctx context.Context, id string) (*entity.ProductionBatch, error)
	Update(ctx context.Context, batch *entity.ProductionBatch) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.ProductionBatch, error)
	// ListByLineSince lotes de órdenes de la línea iniciados desde since.
	ListByLineSince(ctx context.Context, lineID string, since time.Time) ([]*entity.ProductionBatch, error)
}

// MaterialConsumptionRepository define el puerto de persistencia para consumos de material.
type MaterialConsumptionRepository interface {
	Create(ctx context.Context, consumption *entity.MaterialConsumption) error
	ListByBatch(ctx context.Context, batchID string) ([]*entity.MaterialConsumption, error)
	ListSince(ctx context.Context, since time.Time) ([]*entity.MaterialConsumption, error)
}

// QualityCheckRepository define el puerto de persistencia para controles de calidad.
type QualityCheckRepository interface {
	Create(ctx context.Context, check *entity.QualityCheck) error
	ListByBatch(ctx context.Context, batchID string) ([]*entity.QualityCheck, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.QualityCheck, error)
	ListSince(ctx context.Context, since time.Time) ([]*entity.QualityCheck, error)
}

// MaintenanceLogRepository define el puerto de persistencia para mantenimientos.
type MaintenanceLogRepository interface {
	Create(ctx context.Context, log *entity.MaintenanceLog) error
	GetByID(ctx context.Context, id string) (*entity.MaintenanceLog, error)
	Update(ctx context.Context, log *entity.MaintenanceLog) error
	ListByLine(ctx context.Context, lineID string) ([]*entity.MaintenanceLog, error)
	// ListOpen mantenimientos sin cerrar, del más antiguo al más reciente.
	ListOpen(ctx context.Context) ([]*entity.MaintenanceLog, error)
}
