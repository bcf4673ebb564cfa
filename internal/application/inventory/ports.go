package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Stock     repository.StockRepository
	Movements repository.StockMovementRepository
	Locations repository.StorageLocationRepository
	Materials repository.MaterialRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// MovementMetrics registra el resultado de cada movimiento procesado.
type MovementMetrics interface {
	ObserveMovement(movementType, result string)
}

// StockMovedEvent evento publicado después del commit de un movimiento.
type StockMovedEvent struct {
	MovementID            string          `json:"movement_id"`
	MaterialID            string          `json:"material_id"`
	Type                  string          `json:"type"`
	Quantity              decimal.Decimal `json:"quantity"`
	SourceLocationID      string          `json:"source_location_id,omitempty"`
	DestinationLocationID string          `json:"destination_location_id,omitempty"`
	BatchNumber           string          `json:"batch_number,omitempty"`
	ReferenceNumber       string          `json:"reference_number"`
	PerformedBy           string          `json:"performed_by,omitempty"`
	OccurredAt            time.Time       `json:"occurred_at"`
}

// EventPublisher publica eventos de inventario hacia un broker.
type EventPublisher interface {
	PublishStockMoved(ctx context.Context, event StockMovedEvent) error
}
