package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// KPIRepository define el puerto de persistencia para KPIs y su historial.
type KPIRepository interface {
	Create(ctx context.Context, kpi *entity.KPI) error
	GetByID(ctx context.Context, id string) (*entity.KPI, error)
	UpdateValue(ctx context.Context, id string, value float64, updatedAt time.Time) error
	List(ctx context.Context, category string) ([]*entity.KPI, error)
	AddHistory(ctx context.Context, h *entity.KPIHistory) error
	// History devuelve los valores desde since, en orden cronológico.
	History(ctx context.Context, kpiID string, since time.Time) ([]*entity.KPIHistory, error)
}

// AlertFilter filtros opcionales para alertas.
type AlertFilter struct {
	KPIID    string
	Status   string
	Severity string
}

// AlertRepository define el puerto de persistencia para alertas.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	Update(ctx context.Context, alert *entity.Alert) error
	List(ctx context.Context, filter AlertFilter, limit, offset int) ([]*entity.Alert, error)
}

// ReportRepository define el puerto de persistencia para reportes.
type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	Update(ctx context.Context, report *entity.Report) error
	List(ctx context.Context, limit, offset int) ([]*entity.Report, error)
	// FailProcessing marca como failed, con reason, los reportes que quedaron en processing.
	FailProcessing(ctx context.Context, reason string) (int, error)
}

// DashboardRepository consultas read-only para el tablero.
type DashboardRepository interface {
	StockValue(ctx context.Context) (decimal.Decimal, error)
	CountLowStockMaterials(ctx context.Context) (int, error)
	CountActiveAlerts(ctx context.Context) (int, error)
	CountMovementsSince(ctx context.Context, since time.Time) (int, error)
}
