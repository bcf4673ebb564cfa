package orders

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
	"github.com/jhoicas/Fabrica-api/internal/domain/sales"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// UseCase gestiona pedidos de cliente.
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
	return &UseCase{repos: repos, txRunner: txRunner, log: log.Component("orders"), now: time.Now}
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

// CreateOrder crea un pedido pending con sus ítems; total = Σ cantidad × precio.
func (uc *UseCase) CreateOrder(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customer_name es obligatorio", domain.ErrInvalidInput)
	}
	if in.RequiredDate.IsZero() {
		return nil, fmt.Errorf("%w: required_date es obligatorio", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el pedido debe tener al menos un ítem", domain.ErrInvalidInput)
	}
	if in.Priority == "" {
		in.Priority = entity.OrderPriorityMedium
	}
	if !sales.ValidPriority(in.Priority) {
		return nil, fmt.Errorf("%w: prioridad %q desconocida", domain.ErrInvalidInput, in.Priority)
	}

	now := uc.now()
	order := &entity.Order{
		ID:                uuid.New().String(),
		OrderNumber:       strings.TrimSpace(in.OrderNumber),
		CustomerName:      in.CustomerName,
		CustomerEmail:     strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
		CustomerPhone:     in.CustomerPhone,
		CustomerAddress:   in.CustomerAddress,
		OrderDate:         now,
		RequiredDate:      in.RequiredDate,
		EstimatedDelivery: in.EstimatedDelivery,
		Status:            entity.OrderStatusPending,
		Priority:          in.Priority,
		PaidAmount:        decimal.Zero,
		Notes:             in.Notes,
		CreatedBy:         userID,
		AssignedTo:        in.AssignedTo,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if order.OrderNumber == "" {
		order.OrderNumber = NewOrderNumber(now)
	}

	items := make([]*entity.OrderItem, 0, len(in.Items))
	for i, it := range in.Items {
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: ítem %d: quantity debe ser mayor que cero", domain.ErrInvalidInput, i+1)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: ítem %d: unit_price no puede ser negativo", domain.ErrInvalidInput, i+1)
		}
		p, err := uc.repos.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		if p.Status == entity.ProductStatusDiscontinued {
			return nil, fmt.Errorf("%w: el producto %s está descontinuado", domain.ErrConflict, p.SKU)
		}
		items = append(items, &entity.OrderItem{
			ID:               uuid.New().String(),
			OrderID:          order.ID,
			ProductID:        it.ProductID,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			ProducedQuantity: decimal.Zero,
			Notes:            it.Notes,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}
	order.TotalAmount = sales.OrderTotal(items)

	err := uc.txRunner.RunOrders(ctx, func(tx TxRepos) error {
		existing, err := tx.Orders.GetByNumber(ctx, order.OrderNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: pedido %s", domain.ErrDuplicate, order.OrderNumber)
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}
		for _, it := range items {
			if err := tx.Items.Create(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, items), nil
}

// NewOrderNumber genera un número PED-YYYYMMDD-XXXXXX.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("PED-%s-%s", now.Format("20060102"), suffix)
}

// GetOrder obtiene un pedido con sus ítems.
func (uc *UseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := getOrder(ctx, uc.repos.Orders, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.repos.Items.ListByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o, items), nil
}

// ListOrders lista pedidos, opcionalmente por estado.
func (uc *UseCase) ListOrders(ctx context.Context, status string, limit, offset int) (*dto.OrderListResponse, error) {
	list, err := uc.repos.Orders.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o, nil))
	}
	return &dto.OrderListResponse{Items: out, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// UpdateStatus aplica una transición; delivered fija actual_delivery.
func (uc *UseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.OrderResponse, error) {
	if !validOrderStatus(status) {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, status)
	}
	var order *entity.Order
	err := uc.txRunner.RunOrders(ctx, func(tx TxRepos) error {
		o, err := getOrder(ctx, tx.Orders, id)
		if err != nil {
			return err
		}
		if err := sales.CheckOrderTransition(o.Status, status); err != nil {
			return err
		}
		now := uc.now()
		o.Status = status
		if status == entity.OrderStatusDelivered {
			o.ActualDelivery = &now
		}
		o.UpdatedAt = now
		order = o
		return tx.Orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order", order.OrderNumber).Str("status", status).Msg("estado de pedido actualizado")
	return toOrderResponse(order, nil), nil
}

// Assign asigna el pedido a un usuario.
func (uc *UseCase) Assign(ctx context.Context, id, userID string) (*dto.OrderResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id es obligatorio", domain.ErrInvalidInput)
	}
	o, err := getOrder(ctx, uc.repos.Orders, id)
	if err != nil {
		return nil, err
	}
	o.AssignedTo = userID
	o.UpdatedAt = uc.now()
	if err := uc.repos.Orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return toOrderResponse(o, nil), nil
}

// UpdateItemProduction registra el avance de un ítem. Al salir de producción con lo producido
// cubriendo la cantidad se fija production_completed.
func (uc *UseCase) UpdateItemProduction(ctx context.Context, itemID string, in dto.UpdateItemProductionRequest) (*dto.OrderItemResponse, error) {
	it, err := uc.repos.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
	}
	now := uc.now()
	if in.ProducedQuantity != nil {
		if in.ProducedQuantity.IsNegative() {
			return nil, fmt.Errorf("%w: produced_quantity no puede ser negativa", domain.ErrInvalidInput)
		}
		it.ProducedQuantity = *in.ProducedQuantity
	}
	if in.InProduction != nil {
		it.InProduction = *in.InProduction
		switch {
		case it.InProduction:
			it.ProductionStarted = &now
		case it.ProducedQuantity.GreaterThanOrEqual(it.Quantity):
			it.ProductionCompleted = &now
		}
	}
	it.UpdatedAt = now
	if err := uc.repos.Items.Update(ctx, it); err != nil {
		return nil, err
	}
	resp := toItemResponse(it)
	return &resp, nil
}

// ── Pagos ─────────────────────────────────────────────────────────────────────

// AddPayment registra un pago (pending por defecto) y recalcula paid_amount como la suma
// de los pagos completados.
func (uc *UseCase) AddPayment(ctx context.Context, orderID, userID string, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if !sales.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: método de pago %q desconocido", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if in.Status == "" {
		in.Status = entity.PaymentStatusPending
	}
	if !sales.ValidPaymentStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado de pago %q desconocido", domain.ErrInvalidInput, in.Status)
	}

	now := uc.now()
	payment := &entity.Payment{
		ID:              uuid.New().String(),
		OrderID:         orderID,
		Amount:          in.Amount,
		PaymentMethod:   in.PaymentMethod,
		PaymentDate:     now,
		Status:          in.Status,
		ReferenceNumber: in.ReferenceNumber,
		ReceiptNumber:   in.ReceiptNumber,
		Notes:           in.Notes,
		RecordedBy:      userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.PaymentDate != nil {
		payment.PaymentDate = *in.PaymentDate
	}

	var order *entity.Order
	err := uc.txRunner.RunOrders(ctx, func(tx TxRepos) error {
		o, err := getOrder(ctx, tx.Orders, orderID)
		if err != nil {
			return err
		}
		if o.Status == entity.OrderStatusCancelled {
			return fmt.Errorf("%w: el pedido está cancelado", domain.ErrConflict)
		}
		if err := tx.Payments.Create(ctx, payment); err != nil {
			return err
		}
		order = o
		return recomputePaid(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(payment, order), nil
}

// UpdatePaymentStatus cambia el estado de un pago y recalcula paid_amount.
func (uc *UseCase) UpdatePaymentStatus(ctx context.Context, paymentID, status string) (*dto.PaymentResponse, error) {
	if !sales.ValidPaymentStatus(status) {
		return nil, fmt.Errorf("%w: estado de pago %q desconocido", domain.ErrInvalidInput, status)
	}
	var (
		payment *entity.Payment
		order   *entity.Order
	)
	err := uc.txRunner.RunOrders(ctx, func(tx TxRepos) error {
		p, err := tx.Payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: pago %s", domain.ErrNotFound, paymentID)
		}
		p.Status = status
		p.UpdatedAt = uc.now()
		if err := tx.Payments.Update(ctx, p); err != nil {
			return err
		}
		payment = p
		o, err := getOrder(ctx, tx.Orders, p.OrderID)
		if err != nil {
			return err
		}
		order = o
		return recomputePaid(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(payment, order), nil
}

// ListPayments lista los pagos de un pedido.
func (uc *UseCase) ListPayments(ctx context.Context, orderID string) ([]dto.PaymentResponse, error) {
	o, err := getOrder(ctx, uc.repos.Orders, orderID)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Payments.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPaymentResponse(p, o))
	}
	return out, nil
}

func recomputePaid(ctx context.Context, tx TxRepos, o *entity.Order) error {
	payments, err := tx.Payments.ListByOrder(ctx, o.ID)
	if err != nil {
		return err
	}
	o.PaidAmount = sales.PaidAmount(payments)
	return tx.Orders.UpdatePaidAmount(ctx, o.ID, o.PaidAmount)
}

// ── Requerimientos de material ────────────────────────────────────────────────

// GenerateRequirements calcula los requerimientos del ítem a partir de la receta explotada
// del producto y reemplaza los existentes.
func (uc *UseCase) GenerateRequirements(ctx context.Context, itemID string) ([]dto.MaterialRequirementResponse, error) {
	it, err := uc.repos.Items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
	}
	recipe, err := prodrules.ExplodeRecipe(ctx, it.ProductID, uc.repos.Components.ListByProduct)
	if err != nil {
		return nil, err
	}
	lines := prodrules.CalculateRequirements(recipe, it.Quantity)

	now := uc.now()
	reqs := make([]*entity.MaterialRequirement, 0, len(lines))
	for _, l := range lines {
		reqs = append(reqs, &entity.MaterialRequirement{
			ID:                uuid.New().String(),
			OrderItemID:       itemID,
			MaterialID:        l.MaterialID,
			RequiredQuantity:  l.RequiredQuantity,
			AllocatedQuantity: decimal.Zero,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	err = uc.txRunner.RunOrders(ctx, func(tx TxRepos) error {
		if err := tx.Requirements.DeleteByItem(ctx, itemID); err != nil {
			return err
		}
		for _, r := range reqs {
			if err := tx.Requirements.Create(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.MaterialRequirementResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toRequirementResponse(r))
	}
	return out, nil
}

// ListRequirements lista los requerimientos de un ítem.
func (uc *UseCase) ListRequirements(ctx context.Context, itemID string) ([]dto.MaterialRequirementResponse, error) {
	list, err := uc.repos.Requirements.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialRequirementResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRequirementResponse(r))
	}
	return out, nil
}

// Allocate fija la cantidad asignada a un requerimiento (0 ≤ asignada ≤ requerida).
func (uc *UseCase) Allocate(ctx context.Context, requirementID string, quantity decimal.Decimal) (*dto.MaterialRequirementResponse, error) {
	r, err := uc.repos.Requirements.GetByID(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: requerimiento %s", domain.ErrNotFound, requirementID)
	}
	if err := sales.CheckAllocation(r, quantity); err != nil {
		return nil, err
	}
	r.AllocatedQuantity = quantity
	r.UpdatedAt = uc.now()
	if err := uc.repos.Requirements.UpdateAllocation(ctx, r); err != nil {
		return nil, err
	}
	resp := toRequirementResponse(r)
	return &resp, nil
}

func validOrderStatus(s string) bool {
	switch s {
	case entity.OrderStatusPending, entity.OrderStatusConfirmed, entity.OrderStatusInProduction,
		entity.OrderStatusCompleted, entity.OrderStatusDelivered, entity.OrderStatusCancelled:
		return true
	}
	return false
}

func getOrder(ctx context.Context, repo repository.OrderRepository, id string) (*entity.Order, error) {
	o, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: pedido %s", domain.ErrNotFound, id)
	}
	return o, nil
}

func toOrderResponse(o *entity.Order, items []*entity.OrderItem) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		CustomerName:      o.CustomerName,
		CustomerEmail:     o.CustomerEmail,
		CustomerPhone:     o.CustomerPhone,
		CustomerAddress:   o.CustomerAddress,
		OrderDate:         o.OrderDate,
		RequiredDate:      o.RequiredDate,
		EstimatedDelivery: o.EstimatedDelivery,
		ActualDelivery:    o.ActualDelivery,
		Status:            o.Status,
		Priority:          o.Priority,
		TotalAmount:       o.TotalAmount,
		PaidAmount:        o.PaidAmount,
		Balance:           o.Balance(),
		IsPaid:            o.IsPaid(),
		Notes:             o.Notes,
		CreatedBy:         o.CreatedBy,
		AssignedTo:        o.AssignedTo,
		CreatedAt:         o.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, toItemResponse(it))
	}
	return out
}

func toItemResponse(it *entity.OrderItem) dto.OrderItemResponse {
	return dto.OrderItemResponse{
		ID:                  it.ID,
		ProductID:           it.ProductID,
		Quantity:            it.Quantity,
		UnitPrice:           it.UnitPrice,
		TotalPrice:          it.TotalPrice(),
		ProducedQuantity:    it.ProducedQuantity,
		ProductionProgress:  it.ProductionProgress(),
		InProduction:        it.InProduction,
		ProductionStarted:   it.ProductionStarted,
		ProductionCompleted: it.ProductionCompleted,
		Notes:               it.Notes,
	}
}

func toPaymentResponse(p *entity.Payment, o *entity.Order) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:              p.ID,
		OrderID:         p.OrderID,
		Amount:          p.Amount,
		PaymentMethod:   p.PaymentMethod,
		PaymentDate:     p.PaymentDate,
		Status:          p.Status,
		ReferenceNumber: p.ReferenceNumber,
		ReceiptNumber:   p.ReceiptNumber,
		Notes:           p.Notes,
		RecordedBy:      p.RecordedBy,
		OrderPaidAmount: o.PaidAmount,
		OrderBalance:    o.Balance(),
	}
}

func toRequirementResponse(r *entity.MaterialRequirement) dto.MaterialRequirementResponse {
	return dto.MaterialRequirementResponse{
		ID:                r.ID,
		OrderItemID:       r.OrderItemID,
		MaterialID:        r.MaterialID,
		RequiredQuantity:  r.RequiredQuantity,
		AllocatedQuantity: r.AllocatedQuantity,
		RemainingQuantity: r.RemainingQuantity(),
		IsFullyAllocated:  r.IsFullyAllocated(),
		Notes:             r.Notes,
	}
}
