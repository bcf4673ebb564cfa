package production

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	prodrules "github.com/jhoicas/Fabrica-api/internal/domain/production"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const defaultPriority = 3

// UseCase orquesta la producción en planta.
type UseCase struct {
	repos    Repos
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos Repos, txRunner TxRunner, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		repos:    repos,
		txRunner: txRunner,
		log:      log.Component("production"),
		now:      time.Now,
	}
}

// ── Líneas ────────────────────────────────────────────────────────────────────

// CreateLine crea una línea activa.
func (uc *UseCase) CreateLine(ctx context.Context, in dto.CreateProductionLineRequest) (*dto.ProductionLineResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	if in.CapacityPerHour.IsNegative() {
		return nil, fmt.Errorf("%w: capacity_per_hour no puede ser negativa", domain.ErrInvalidInput)
	}
	now := uc.now()
	l := &entity.ProductionLine{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Description:     in.Description,
		CapacityPerHour: in.CapacityPerHour,
		Status:          entity.LineStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repos.Lines.Create(ctx, l); err != nil {
		return nil, err
	}
	return toLineResponse(l), nil
}

// GetLine obtiene una línea.
func (uc *UseCase) GetLine(ctx context.Context, id string) (*dto.ProductionLineResponse, error) {
	l, err := getLine(ctx, uc.repos.Lines, id)
	if err != nil {
		return nil, err
	}
	return toLineResponse(l), nil
}

// ListLines lista las líneas.
func (uc *UseCase) ListLines(ctx context.Context) ([]dto.ProductionLineResponse, error) {
	list, err := uc.repos.Lines.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductionLineResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLineResponse(l))
	}
	return out, nil
}

// UpdateLineStatus cambia el estado de la línea.
func (uc *UseCase) UpdateLineStatus(ctx context.Context, id, status string) (*dto.ProductionLineResponse, error) {
	if !prodrules.ValidLineStatus(status) {
		return nil, fmt.Errorf("%w: estado de línea %q desconocido", domain.ErrInvalidInput, status)
	}
	l, err := getLine(ctx, uc.repos.Lines, id)
	if err != nil {
		return nil, err
	}
	l.Status = status
	l.UpdatedAt = uc.now()
	if err := uc.repos.Lines.Update(ctx, l); err != nil {
		return nil, err
	}
	return toLineResponse(l), nil
}

// ── Órdenes ───────────────────────────────────────────────────────────────────

// CreateOrder crea una orden en draft. Sin order_number se genera uno.
func (uc *UseCase) CreateOrder(ctx context.Context, userID string, in dto.CreateProductionOrderRequest) (*dto.ProductionOrderResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if in.Priority == 0 {
		in.Priority = defaultPriority
	}
	if in.Priority < 1 || in.Priority > 5 {
		return nil, fmt.Errorf("%w: priority debe estar entre 1 y 5", domain.ErrInvalidInput)
	}
	now := uc.now()
	if in.StartDate.IsZero() {
		in.StartDate = now
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, fmt.Errorf("%w: end_date no puede ser anterior a start_date", domain.ErrInvalidInput)
	}

	p, err := uc.repos.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	if p.Status == entity.ProductStatusDiscontinued {
		return nil, fmt.Errorf("%w: el producto %s está descontinuado", domain.ErrConflict, p.SKU)
	}
	if in.ProductionLineID != "" {
		if _, err := getLine(ctx, uc.repos.Lines, in.ProductionLineID); err != nil {
			return nil, err
		}
	}

	number := strings.TrimSpace(in.OrderNumber)
	if number == "" {
		number = NewOrderNumber(now)
	}
	existing, err := uc.repos.Orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrDuplicate, number)
	}

	o := &entity.ProductionOrder{
		ID:               uuid.New().String(),
		OrderNumber:      number,
		ProductID:        in.ProductID,
		Quantity:         in.Quantity,
		ProductionLineID: in.ProductionLineID,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		Status:           entity.ProductionStatusDraft,
		Priority:         in.Priority,
		AssignedTo:       in.AssignedTo,
		Notes:            in.Notes,
		CreatedBy:        userID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repos.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// NewOrderNumber genera un número OP-YYYYMMDD-XXXXXX.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("OP-%s-%s", now.Format("20060102"), suffix)
}

// GetOrder obtiene una orden.
func (uc *UseCase) GetOrder(ctx context.Context, id string) (*dto.ProductionOrderResponse, error) {
	o, err := getOrder(ctx, uc.repos.Orders, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// ListOrders lista órdenes con filtros.
func (uc *UseCase) ListOrders(ctx context.Context, filter repository.ProductionOrderFilter, limit, offset int) (*dto.ProductionOrderListResponse, error) {
	if filter.Status != "" && !prodrules.ValidOrderStatus(filter.Status) {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, filter.Status)
	}
	list, err := uc.repos.Orders.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductionOrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.ProductionOrderListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// UpdateOrderStatus aplica una transición. scheduled → in_progress pasa por Start
// y → completed por Complete, para validar materiales y cerrar lotes.
func (uc *UseCase) UpdateOrderStatus(ctx context.Context, id, userID, status string) (*dto.ProductionOrderResponse, error) {
	o, err := getOrder(ctx, uc.repos.Orders, id)
	if err != nil {
		return nil, err
	}
	if err := prodrules.CheckOrderTransition(o.Status, status); err != nil {
		return nil, err
	}
	switch {
	case o.Status == entity.ProductionStatusScheduled && status == entity.ProductionStatusInProgress:
		res, err := uc.Start(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		return &res.Order, nil
	case status == entity.ProductionStatusCompleted:
		return uc.Complete(ctx, id)
	}

	err = uc.txRunner.RunProduction(ctx, func(tx TxRepos) error {
		cur, err := getOrder(ctx, tx.Orders, id)
		if err != nil {
			return err
		}
		if err := prodrules.CheckOrderTransition(cur.Status, status); err != nil {
			return err
		}
		o = cur
		o.Status = status
		o.UpdatedAt = uc.now()
		return tx.Orders.UpdateStatus(ctx, id, status, o.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// Requirements calcula los requerimientos de la orden con la disponibilidad actual.
func (uc *UseCase) Requirements(ctx context.Context, orderID string) (*dto.RequirementsResponse, error) {
	o, err := getOrder(ctx, uc.repos.Orders, orderID)
	if err != nil {
		return nil, err
	}
	reqs, err := uc.requirementsFor(ctx, o.ProductID, o.Quantity)
	if err != nil {
		return nil, err
	}
	available, err := availableStock(ctx, uc.repos.Stock, reqs)
	if err != nil {
		return nil, err
	}

	out := &dto.RequirementsResponse{
		OrderID:      o.ID,
		ProductID:    o.ProductID,
		Quantity:     o.Quantity,
		Requirements: make([]dto.RequirementLineDTO, 0, len(reqs)),
		CanStart:     len(prodrules.CheckAvailability(reqs, available)) == 0,
	}
	for _, r := range reqs {
		shortage := r.RequiredQuantity.Sub(available[r.MaterialID])
		if shortage.IsNegative() {
			shortage = decimal.Zero
		}
		out.Requirements = append(out.Requirements, dto.RequirementLineDTO{
			MaterialID:       r.MaterialID,
			RequiredQuantity: r.RequiredQuantity,
			Available:        available[r.MaterialID],
			Shortage:         shortage,
		})
	}
	return out, nil
}

// Start inicia una orden scheduled en una línea activa, si el stock total cubre cada
// requerimiento, y abre el lote B-<order_number>-1.
func (uc *UseCase) Start(ctx context.Context, orderID, operatorID string) (*dto.StartProductionResponse, error) {
	o, err := getOrder(ctx, uc.repos.Orders, orderID)
	if err != nil {
		return nil, err
	}
	reqs, err := uc.requirementsFor(ctx, o.ProductID, o.Quantity)
	if err != nil {
		return nil, err
	}

	var batch *entity.ProductionBatch
	err = uc.txRunner.RunProduction(ctx, func(tx TxRepos) error {
		cur, err := getOrder(ctx, tx.Orders, orderID)
		if err != nil {
			return err
		}
		if cur.Status != entity.ProductionStatusScheduled {
			return fmt.Errorf("%w: la orden debe estar scheduled (está %s)", domain.ErrInvalidTransition, cur.Status)
		}
		if cur.ProductionLineID == "" {
			return fmt.Errorf("%w: la orden no tiene línea asignada", domain.ErrConflict)
		}
		line, err := getLine(ctx, tx.Lines, cur.ProductionLineID)
		if err != nil {
			return err
		}
		if line.Status != entity.LineStatusActive {
			return fmt.Errorf("%w: la línea %s está %s", domain.ErrConflict, line.Name, line.Status)
		}

		available, err := availableStock(ctx, tx.Stock, reqs)
		if err != nil {
			return err
		}
		if shortages := prodrules.CheckAvailability(reqs, available); len(shortages) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrInsufficientMaterials, describeShortages(shortages))
		}

		now := uc.now()
		if err := tx.Orders.UpdateStatus(ctx, cur.ID, entity.ProductionStatusInProgress, now); err != nil {
			return err
		}
		cur.Status = entity.ProductionStatusInProgress
		cur.UpdatedAt = now
		o = cur

		batch = &entity.ProductionBatch{
			ID:                uuid.New().String(),
			BatchNumber:       batchNumber(cur.OrderNumber, 1),
			ProductionOrderID: cur.ID,
			StartTime:         now,
			QuantityProduced:  decimal.Zero,
			OperatorID:        operatorID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return tx.Batches.Create(ctx, batch)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order", o.OrderNumber).Str("batch", batch.BatchNumber).Msg("producción iniciada")
	return &dto.StartProductionResponse{Order: *toOrderResponse(o), Batch: *toBatchResponse(batch)}, nil
}

// Complete cierra una orden in_progress y sus lotes abiertos.
func (uc *UseCase) Complete(ctx context.Context, orderID string) (*dto.ProductionOrderResponse, error) {
	var o *entity.ProductionOrder
	err := uc.txRunner.RunProduction(ctx, func(tx TxRepos) error {
		cur, err := getOrder(ctx, tx.Orders, orderID)
		if err != nil {
			return err
		}
		if cur.Status != entity.ProductionStatusInProgress {
			return fmt.Errorf("%w: la orden debe estar in_progress (está %s)", domain.ErrInvalidTransition, cur.Status)
		}
		if err := uc.completeOrder(ctx, tx, cur); err != nil {
			return err
		}
		o = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

func (uc *UseCase) completeOrder(ctx context.Context, tx TxRepos, o *entity.ProductionOrder) error {
	now := uc.now()
	batches, err := tx.Batches.ListByOrder(ctx, o.ID)
	if err != nil {
		return err
	}
	for _, b := range batches {
		if !b.IsOpen() {
			continue
		}
		b.EndTime = &now
		b.UpdatedAt = now
		if err := tx.Batches.Update(ctx, b); err != nil {
			return err
		}
	}
	if err := tx.Orders.UpdateStatus(ctx, o.ID, entity.ProductionStatusCompleted, now); err != nil {
		return err
	}
	o.Status = entity.ProductionStatusCompleted
	o.UpdatedAt = now
	return nil
}

func (uc *UseCase) requirementsFor(ctx context.Context, productID string, qty decimal.Decimal) ([]entity.MaterialRequirementLine, error) {
	recipe, err := prodrules.ExplodeRecipe(ctx, productID, uc.repos.Components.ListByProduct)
	if err != nil {
		return nil, err
	}
	return prodrules.CalculateRequirements(recipe, qty), nil
}

func availableStock(ctx context.Context, stock repository.StockRepository, reqs []entity.MaterialRequirementLine) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(reqs))
	for _, r := range reqs {
		total, err := stock.SumByMaterial(ctx, r.MaterialID)
		if err != nil {
			return nil, err
		}
		out[r.MaterialID] = total
	}
	return out, nil
}

func describeShortages(shortages []entity.MaterialShortage) string {
	parts := make([]string, 0, len(shortages))
	for _, s := range shortages {
		parts = append(parts, fmt.Sprintf("%s requiere %s, hay %s", s.MaterialID, s.Required, s.Available))
	}
	return strings.Join(parts, "; ")
}

func batchNumber(orderNumber string, seq int) string {
	return fmt.Sprintf("B-%s-%d", orderNumber, seq)
}

func getOrder(ctx context.Context, repo repository.ProductionOrderRepository, id string) (*entity.ProductionOrder, error) {
	o, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: orden de producción %s", domain.ErrNotFound, id)
	}
	return o, nil
}

func getLine(ctx context.Context, repo repository.ProductionLineRepository, id string) (*entity.ProductionLine, error) {
	l, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("%w: línea %s", domain.ErrNotFound, id)
	}
	return l, nil
}

func toLineResponse(l *entity.ProductionLine) *dto.ProductionLineResponse {
	return &dto.ProductionLineResponse{
		ID:                  l.ID,
		Name:                l.Name,
		Description:         l.Description,
		CapacityPerHour:     l.CapacityPerHour,
		Status:              l.Status,
		MaintenanceSchedule: l.MaintenanceSchedule,
		LastMaintenance:     l.LastMaintenance,
		CreatedAt:           l.CreatedAt,
	}
}

func toOrderResponse(o *entity.ProductionOrder) *dto.ProductionOrderResponse {
	return &dto.ProductionOrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		ProductID:        o.ProductID,
		Quantity:         o.Quantity,
		ProductionLineID: o.ProductionLineID,
		StartDate:        o.StartDate,
		EndDate:          o.EndDate,
		Status:           o.Status,
		Priority:         o.Priority,
		AssignedTo:       o.AssignedTo,
		Notes:            o.Notes,
		CreatedBy:        o.CreatedBy,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}
