package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.OrderRepository               = (*OrderRepo)(nil)
	_ repository.OrderItemRepository           = (*OrderItemRepo)(nil)
	_ repository.PaymentRepository             = (*PaymentRepo)(nil)
	_ repository.MaterialRequirementRepository = (*MaterialRequirementRepo)(nil)
)

// ── Pedidos ───────────────────────────────────────────────────────────────────

const orderColumns = `id, order_number, customer_name, customer_email, customer_phone, customer_address,
	order_date, required_date, estimated_delivery, actual_delivery, status, priority,
	total_amount, paid_amount, notes, created_by, assigned_to, created_at, updated_at`

// OrderRepo implementa repository.OrderRepository con PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste un pedido. Número repetido → ErrDuplicate.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		o.ID, o.OrderNumber, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.CustomerAddress,
		o.OrderDate, o.RequiredDate, o.EstimatedDelivery, o.ActualDelivery, o.Status, o.Priority,
		o.TotalAmount, o.PaidAmount, o.Notes, nullString(o.CreatedBy), nullString(o.AssignedTo), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: pedido %s", domain.ErrDuplicate, o.OrderNumber)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido. nil, nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

// GetByNumber obtiene un pedido por número.
func (r *OrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	return scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber))
}

// Update actualiza los campos mutables del pedido.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE orders SET customer_name = $2, customer_email = $3, customer_phone = $4, customer_address = $5,
			required_date = $6, estimated_delivery = $7, actual_delivery = $8, status = $9, priority = $10,
			total_amount = $11, paid_amount = $12, notes = $13, assigned_to = $14, updated_at = $15
		WHERE id = $1`,
		o.ID, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.CustomerAddress,
		o.RequiredDate, o.EstimatedDelivery, o.ActualDelivery, o.Status, o.Priority,
		o.TotalAmount, o.PaidAmount, o.Notes, nullString(o.AssignedTo), o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, o.ID)
	}
	return nil
}

// UpdatePaidAmount fija el monto pagado del pedido.
func (r *OrderRepo) UpdatePaidAmount(ctx context.Context, id string, paid decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE orders SET paid_amount = $2, updated_at = NOW() WHERE id = $1`, id, paid)
	if err != nil {
		return fmt.Errorf("update order paid amount: %w", err)
	}
	return nil
}

// List lista pedidos del más reciente al más antiguo; status vacío = todos.
func (r *OrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Order, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY order_date DESC
		LIMIT $2 OFFSET $3`, status, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// CountByStatus cuenta pedidos en cualquiera de los estados dados.
func (r *OrderRepo) CountByStatus(ctx context.Context, statuses ...string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = ANY($1)`, statuses).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var createdBy, assigned *string
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.CustomerAddress,
		&o.OrderDate, &o.RequiredDate, &o.EstimatedDelivery, &o.ActualDelivery, &o.Status, &o.Priority,
		&o.TotalAmount, &o.PaidAmount, &o.Notes, &createdBy, &assigned, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.CreatedBy = fromNull(createdBy)
	o.AssignedTo = fromNull(assigned)
	return &o, nil
}

// ── Ítems ─────────────────────────────────────────────────────────────────────

const orderItemColumns = `id, order_id, product_id, quantity, unit_price, produced_quantity, in_production,
	production_started, production_completed, notes, created_at, updated_at`

// OrderItemRepo ítems de pedido.
type OrderItemRepo struct {
	q Querier
}

// NewOrderItemRepository construye el adaptador.
func NewOrderItemRepository(q Querier) *OrderItemRepo {
	return &OrderItemRepo{q: q}
}

// Create persiste un ítem.
func (r *OrderItemRepo) Create(ctx context.Context, i *entity.OrderItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_items (`+orderItemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		i.ID, i.OrderID, i.ProductID, i.Quantity, i.UnitPrice, i.ProducedQuantity, i.InProduction,
		i.ProductionStarted, i.ProductionCompleted, i.Notes, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem.
func (r *OrderItemRepo) GetByID(ctx context.Context, id string) (*entity.OrderItem, error) {
	return scanOrderItem(r.q.QueryRow(ctx, `SELECT `+orderItemColumns+` FROM order_items WHERE id = $1`, id))
}

// Update actualiza cantidad, precio y avance de producción.
func (r *OrderItemRepo) Update(ctx context.Context, i *entity.OrderItem) error {
	_, err := r.q.Exec(ctx, `
		UPDATE order_items SET quantity = $2, unit_price = $3, produced_quantity = $4, in_production = $5,
			production_started = $6, production_completed = $7, notes = $8, updated_at = $9
		WHERE id = $1`,
		i.ID, i.Quantity, i.UnitPrice, i.ProducedQuantity, i.InProduction,
		i.ProductionStarted, i.ProductionCompleted, i.Notes, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}
	return nil
}

// ListByOrder ítems del pedido en orden de creación.
func (r *OrderItemRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+orderItemColumns+` FROM order_items WHERE order_id = $1 ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var list []*entity.OrderItem
	for rows.Next() {
		i, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

func scanOrderItem(row pgx.Row) (*entity.OrderItem, error) {
	var i entity.OrderItem
	err := row.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.Quantity, &i.UnitPrice, &i.ProducedQuantity, &i.InProduction,
		&i.ProductionStarted, &i.ProductionCompleted, &i.Notes, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan order item: %w", err)
	}
	return &i, nil
}

// ── Pagos ─────────────────────────────────────────────────────────────────────

const paymentColumns = `id, order_id, amount, payment_method, payment_date, status, reference_number,
	receipt_number, notes, recorded_by, created_at, updated_at`

// PaymentRepo pagos de pedidos.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create registra un pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.OrderID, p.Amount, p.PaymentMethod, p.PaymentDate, p.Status, p.ReferenceNumber,
		p.ReceiptNumber, p.Notes, nullString(p.RecordedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene un pago.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
}

// Update actualiza estado y referencias del pago.
func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		UPDATE payments SET status = $2, reference_number = $3, receipt_number = $4, notes = $5, updated_at = $6
		WHERE id = $1`,
		p.ID, p.Status, p.ReferenceNumber, p.ReceiptNumber, p.Notes, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

// ListByOrder pagos del pedido por fecha.
func (r *PaymentRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 ORDER BY payment_date, created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	var by *string
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.PaymentMethod, &p.PaymentDate, &p.Status, &p.ReferenceNumber,
		&p.ReceiptNumber, &p.Notes, &by, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	p.RecordedBy = fromNull(by)
	return &p, nil
}

// ── Requerimientos de material ────────────────────────────────────────────────

const requirementColumns = `id, order_item_id, material_id, required_quantity, allocated_quantity, notes, created_at, updated_at`

// MaterialRequirementRepo requerimientos de material por ítem.
type MaterialRequirementRepo struct {
	q Querier
}

// NewMaterialRequirementRepository construye el adaptador.
func NewMaterialRequirementRepository(q Querier) *MaterialRequirementRepo {
	return &MaterialRequirementRepo{q: q}
}

// Create persiste un requerimiento. (ítem, material) repetido → ErrDuplicate.
func (r *MaterialRequirementRepo) Create(ctx context.Context, m *entity.MaterialRequirement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO material_requirements (`+requirementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.OrderItemID, m.MaterialID, m.RequiredQuantity, m.AllocatedQuantity, m.Notes, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material requirement: %w", err)
	}
	return nil
}

// GetByID obtiene un requerimiento.
func (r *MaterialRequirementRepo) GetByID(ctx context.Context, id string) (*entity.MaterialRequirement, error) {
	return scanRequirement(r.q.QueryRow(ctx, `SELECT `+requirementColumns+` FROM material_requirements WHERE id = $1`, id))
}

// UpdateAllocation fija la cantidad asignada.
func (r *MaterialRequirementRepo) UpdateAllocation(ctx context.Context, m *entity.MaterialRequirement) error {
	_, err := r.q.Exec(ctx, `
		UPDATE material_requirements SET allocated_quantity = $2, notes = $3, updated_at = $4 WHERE id = $1`,
		m.ID, m.AllocatedQuantity, m.Notes, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update material requirement: %w", err)
	}
	return nil
}

// DeleteByItem elimina los requerimientos del ítem.
func (r *MaterialRequirementRepo) DeleteByItem(ctx context.Context, orderItemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM material_requirements WHERE order_item_id = $1`, orderItemID); err != nil {
		return fmt.Errorf("delete material requirements: %w", err)
	}
	return nil
}

// ListByItem requerimientos del ítem.
func (r *MaterialRequirementRepo) ListByItem(ctx context.Context, orderItemID string) ([]*entity.MaterialRequirement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+requirementColumns+` FROM material_requirements WHERE order_item_id = $1 ORDER BY created_at, id`, orderItemID)
	if err != nil {
		return nil, fmt.Errorf("list material requirements: %w", err)
	}
	defer rows.Close()

	var list []*entity.MaterialRequirement
	for rows.Next() {
		m, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanRequirement(row pgx.Row) (*entity.MaterialRequirement, error) {
	var m entity.MaterialRequirement
	err := row.Scan(&m.ID, &m.OrderItemID, &m.MaterialID, &m.RequiredQuantity, &m.AllocatedQuantity, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan material requirement: %w", err)
	}
	return &m, nil
}
