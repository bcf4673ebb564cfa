package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/inventory"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Resultados reportados a MovementMetrics.
const (
	ResultOK                   = "ok"
	ResultInvalid              = "invalid"
	ResultNotFound             = "not_found"
	ResultDuplicate            = "duplicate"
	ResultInsufficientStock    = "insufficient_stock"
	ResultInsufficientCapacity = "insufficient_capacity"
	ResultStockRecordNotFound  = "stock_record_not_found"
	ResultError                = "error"
)

// MovementInput entrada para aplicar un movimiento de stock.
// Quantity lleva signo solo en adjustment/return. UnitCost opcional, solo en receipt,
// actualiza el precio del material por promedio ponderado.
type MovementInput struct {
	MaterialID            string
	SourceLocationID      string
	DestinationLocationID string
	Type                  string
	Quantity              decimal.Decimal
	BatchNumber           string
	ReferenceNumber       string
	UnitCost              *decimal.Decimal
	ExpiryDate            *time.Time
	PerformedBy           string
	Notes                 string
}

// MovementProcessor aplica movimientos de stock de forma atómica: valida todo contra el estado
// bloqueado (ubicaciones y registros de stock con SELECT FOR UPDATE) y solo entonces escribe
// movimiento, stock y volúmenes en la misma transacción.
type MovementProcessor struct {
	txRunner TxRunner
	metrics  MovementMetrics
	events   EventPublisher
	log      *logger.Logger
	now      func() time.Time
}

// NewMovementProcessor construye el procesador.
func NewMovementProcessor(txRunner TxRunner, metrics MovementMetrics, events EventPublisher, log *logger.Logger) *MovementProcessor {
	return &MovementProcessor{
		txRunner: txRunner,
		metrics:  metrics,
		events:   events,
		log:      log.Component("movement_processor"),
		now:      time.Now,
	}
}

// Apply valida y persiste el movimiento. Ante cualquier error no queda ningún efecto.
func (p *MovementProcessor) Apply(ctx context.Context, in MovementInput) (*entity.StockMovement, error) {
	mov, err := p.apply(ctx, in)
	p.metrics.ObserveMovement(in.Type, resultLabel(err))
	if err != nil {
		return nil, err
	}

	// fuera de la transacción: un fallo del broker no revierte el movimiento
	ev := StockMovedEvent{
		MovementID:            mov.ID,
		MaterialID:            mov.MaterialID,
		Type:                  mov.Type,
		Quantity:              mov.Quantity,
		SourceLocationID:      mov.SourceLocationID,
		DestinationLocationID: mov.DestinationLocationID,
		BatchNumber:           mov.BatchNumber,
		ReferenceNumber:       mov.ReferenceNumber,
		PerformedBy:           mov.PerformedBy,
		OccurredAt:            mov.CreatedAt,
	}
	if err := p.events.PublishStockMoved(ctx, ev); err != nil {
		p.log.Warn().Err(err).Str("movement_id", mov.ID).Msg("no se pudo publicar el evento de movimiento")
	}
	return mov, nil
}

func (p *MovementProcessor) apply(ctx context.Context, in MovementInput) (*entity.StockMovement, error) {
	in.MaterialID = strings.TrimSpace(in.MaterialID)
	if in.MaterialID == "" {
		return nil, fmt.Errorf("%w: material_id es obligatorio", domain.ErrInvalidInput)
	}
	plan, err := inventory.PlanMovement(in.Type, in.Quantity, in.SourceLocationID, in.DestinationLocationID)
	if err != nil {
		return nil, err
	}
	if in.UnitCost != nil {
		if in.Type != entity.MovementReceipt {
			return nil, fmt.Errorf("%w: unit_cost solo aplica a recepciones", domain.ErrInvalidInput)
		}
		if in.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidInput)
		}
	}

	now := p.now()
	if in.ReferenceNumber == "" {
		in.ReferenceNumber = NewReferenceNumber(now)
	}
	mov := &entity.StockMovement{
		ID:                    uuid.New().String(),
		MaterialID:            in.MaterialID,
		SourceLocationID:      plan.Source,
		DestinationLocationID: plan.Destination,
		Type:                  in.Type,
		Quantity:              in.Quantity,
		BatchNumber:           in.BatchNumber,
		ReferenceNumber:       in.ReferenceNumber,
		UnitCost:              in.UnitCost,
		PerformedBy:           in.PerformedBy,
		Notes:                 in.Notes,
		CreatedAt:             now,
	}

	err = p.txRunner.Run(ctx, func(r TxRepos) error {
		material, err := r.Materials.GetByID(ctx, in.MaterialID)
		if err != nil {
			return err
		}
		if material == nil {
			return fmt.Errorf("%w: material %s", domain.ErrNotFound, in.MaterialID)
		}
		exists, err := r.Movements.ExistsReference(ctx, in.ReferenceNumber)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: referencia %s", domain.ErrDuplicate, in.ReferenceNumber)
		}

		// orden ascendente de id para que dos movimientos cruzados no se bloqueen mutuamente
		ids := plan.LocationIDs()
		sort.Strings(ids)
		locations := make(map[string]*entity.StorageLocation, len(ids))
		for _, id := range ids {
			loc, err := r.Locations.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if loc == nil {
				return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
			}
			locations[id] = loc
		}

		if plan.Decrements() {
			key := entity.StockKey{MaterialID: in.MaterialID, LocationID: plan.Source, BatchNumber: in.BatchNumber}
			st, err := r.Stock.GetForUpdate(ctx, key)
			if err != nil {
				return err
			}
			if st == nil {
				return fmt.Errorf("%w: material %s en ubicación %s", domain.ErrStockRecordNotFound, in.MaterialID, plan.Source)
			}
			if st.Quantity.LessThan(plan.Quantity) {
				return fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, st.Quantity, plan.Quantity)
			}
		}
		if plan.CheckCapacity {
			dst := locations[plan.Destination]
			required := inventory.RequiredVolume(plan.Quantity, material.VolumePerUnit)
			if !inventory.IsAvailable(dst, required) {
				return fmt.Errorf("%w: requiere %s m³, libre %s m³", domain.ErrInsufficientCapacity, required, dst.FreeVolume())
			}
		}

		// precio promedio con el stock previo a la recepción
		var newPrice *decimal.Decimal
		if in.UnitCost != nil {
			current, err := r.Stock.SumByMaterial(ctx, in.MaterialID)
			if err != nil {
				return err
			}
			price := inventory.WeightedAverageCost(current, material.UnitPrice, plan.Quantity, *in.UnitCost)
			newPrice = &price
		}

		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}
		ledger := NewLedger(r.Stock, NewCapacityTracker(r.Stock, r.Locations))
		if plan.Decrements() {
			key := entity.StockKey{MaterialID: in.MaterialID, LocationID: plan.Source, BatchNumber: in.BatchNumber}
			if err := ledger.DecrementOrDelete(ctx, key, plan.Quantity); err != nil {
				return err
			}
		}
		if plan.Increments() {
			key := entity.StockKey{MaterialID: in.MaterialID, LocationID: plan.Destination, BatchNumber: in.BatchNumber}
			if _, err := ledger.CreateOrIncrement(ctx, key, plan.Quantity, in.ExpiryDate); err != nil {
				return err
			}
		}
		if newPrice != nil {
			if err := r.Materials.UpdatePrice(ctx, in.MaterialID, *newPrice); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// NewReferenceNumber genera una referencia MV-YYYYMMDD-<8 hex>.
func NewReferenceNumber(now time.Time) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("MV-%s-%s", now.Format("20060102"), strings.ToUpper(id[:8]))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrInsufficientStock):
		return ResultInsufficientStock
	case errors.Is(err, domain.ErrInsufficientCapacity):
		return ResultInsufficientCapacity
	case errors.Is(err, domain.ErrStockRecordNotFound):
		return ResultStockRecordNotFound
	case errors.Is(err, domain.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, domain.ErrDuplicate):
		return ResultDuplicate
	case errors.Is(err, domain.ErrInvalidInput):
		return ResultInvalid
	default:
		return ResultError
	}
}
