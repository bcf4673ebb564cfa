package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Fabrica-api/internal/application/analytics"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/application/orders"
	"github.com/jhoicas/Fabrica-api/internal/application/production"
	"github.com/jhoicas/Fabrica-api/internal/application/usecase"
)

var (
	_ inventory.TxRunner      = (*TxRunner)(nil)
	_ production.TxRunner     = (*TxRunner)(nil)
	_ orders.TxRunner         = (*TxRunner)(nil)
	_ usecase.CatalogTxRunner = (*TxRunner)(nil)
	_ analytics.TxRunner      = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run ejecuta fn con los repositorios de inventario atados a la tx (motor de movimientos).
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(inventory.TxRepos{
			Stock:     NewStockRepository(tx),
			Movements: NewStockMovementRepository(tx),
			Locations: NewStorageLocationRepository(tx),
			Materials: NewMaterialRepository(tx),
		})
	})
}

// RunProduction ejecuta fn con los repositorios de producción atados a la tx.
func (r *TxRunner) RunProduction(ctx context.Context, fn func(repos production.TxRepos) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(production.TxRepos{
			Orders:      NewProductionOrderRepository(tx),
			Batches:     NewProductionBatchRepository(tx),
			Lines:       NewProductionLineRepository(tx),
			Quality:     NewQualityCheckRepository(tx),
			Maintenance: NewMaintenanceLogRepository(tx),
			Stock:       NewStockRepository(tx),
		})
	})
}

// RunOrders ejecuta fn con los repositorios de pedidos atados a la tx.
func (r *TxRunner) RunOrders(ctx context.Context, fn func(repos orders.TxRepos) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(orders.TxRepos{
			Orders:       NewOrderRepository(tx),
			Items:        NewOrderItemRepository(tx),
			Payments:     NewPaymentRepository(tx),
			Requirements: NewMaterialRequirementRepository(tx),
		})
	})
}

// RunCatalog ejecuta fn con los repositorios de productos y recetas atados a la tx.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(repos usecase.CatalogTxRepos) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(usecase.CatalogTxRepos{
			Products:   NewProductRepository(tx),
			Components: NewProductComponentRepository(tx),
		})
	})
}

// RunAnalytics ejecuta fn con los repositorios de KPIs y alertas atados a la tx.
func (r *TxRunner) RunAnalytics(ctx context.Context, fn func(repos analytics.TxRepos) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(analytics.TxRepos{
			KPIs:   NewKPIRepository(tx),
			Alerts: NewAlertRepository(tx),
		})
	})
}

// inTx inicia la transacción, ejecuta fn y hace Commit; cualquier error hace Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
