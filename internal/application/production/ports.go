// Package production casos de uso de planta: líneas, órdenes de producción, lotes,
// consumos, calidad y mantenimiento.
package production

import (
	"context"

	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// TxRepos repositorios de producción atados a una misma transacción.
type TxRepos struct {
	Orders      repository.ProductionOrderRepository
	Batches     repository.ProductionBatchRepository
	Lines       repository.ProductionLineRepository
	Quality     repository.QualityCheckRepository
	Maintenance repository.MaintenanceLogRepository
	Stock       repository.StockRepository
}

// TxRunner ejecuta fn dentro de una transacción; error → Rollback.
type TxRunner interface {
	RunProduction(ctx context.Context, fn func(repos TxRepos) error) error
}

// Repos repositorios de lectura y escritura fuera de transacción.
type Repos struct {
	Lines       repository.ProductionLineRepository
	Orders      repository.ProductionOrderRepository
	Batches     repository.ProductionBatchRepository
	Consumption repository.MaterialConsumptionRepository
	Quality     repository.QualityCheckRepository
	Maintenance repository.MaintenanceLogRepository
	Products    repository.ProductRepository
	Components  repository.ProductComponentRepository
	Materials   repository.MaterialRepository
	Stock       repository.StockRepository
}
