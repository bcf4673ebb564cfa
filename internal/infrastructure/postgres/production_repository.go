package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var (
	_ repository.ProductionLineRepository      = (*ProductionLineRepo)(nil)
	_ repository.ProductionOrderRepository     = (*ProductionOrderRepo)(nil)
	_ repository.ProductionBatchRepository     = (*ProductionBatchRepo)(nil)
	_ repository.MaterialConsumptionRepository = (*MaterialConsumptionRepo)(nil)
	_ repository.QualityCheckRepository        = (*QualityCheckRepo)(nil)
	_ repository.MaintenanceLogRepository      = (*MaintenanceLogRepo)(nil)
)

// ── Líneas ────────────────────────────────────────────────────────────────────

const lineColumns = `id, name, description, capacity_per_hour, status, maintenance_schedule, last_maintenance, created_at, updated_at`

// ProductionLineRepo líneas de producción.
type ProductionLineRepo struct {
	q Querier
}

// NewProductionLineRepository construye el adaptador.
func NewProductionLineRepository(q Querier) *ProductionLineRepo {
	return &ProductionLineRepo{q: q}
}

// Create persiste una línea.
func (r *ProductionLineRepo) Create(ctx context.Context, l *entity.ProductionLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO production_lines (`+lineColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.Name, l.Description, l.CapacityPerHour, l.Status, l.MaintenanceSchedule, l.LastMaintenance,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert production line: %w", err)
	}
	return nil
}

// GetByID obtiene una línea.
func (r *ProductionLineRepo) GetByID(ctx context.Context, id string) (*entity.ProductionLine, error) {
	return scanLine(r.q.QueryRow(ctx, `SELECT `+lineColumns+` FROM production_lines WHERE id = $1`, id))
}

// Update actualiza estado, descripción y fechas de mantenimiento.
func (r *ProductionLineRepo) Update(ctx context.Context, l *entity.ProductionLine) error {
	_, err := r.q.Exec(ctx, `
		UPDATE production_lines SET name = $2, description = $3, capacity_per_hour = $4, status = $5,
			maintenance_schedule = $6, last_maintenance = $7, updated_at = $8
		WHERE id = $1`,
		l.ID, l.Name, l.Description, l.CapacityPerHour, l.Status, l.MaintenanceSchedule, l.LastMaintenance, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production line: %w", err)
	}
	return nil
}

// List lista líneas por nombre.
func (r *ProductionLineRepo) List(ctx context.Context) ([]*entity.ProductionLine, error) {
	rows, err := r.q.Query(ctx, `SELECT `+lineColumns+` FROM production_lines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list production lines: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductionLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanLine(row pgx.Row) (*entity.ProductionLine, error) {
	var l entity.ProductionLine
	err := row.Scan(&l.ID, &l.Name, &l.Description, &l.CapacityPerHour, &l.Status, &l.MaintenanceSchedule,
		&l.LastMaintenance, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan production line: %w", err)
	}
	return &l, nil
}

// ── Órdenes ───────────────────────────────────────────────────────────────────

const productionOrderColumns = `id, order_number, product_id, quantity, production_line_id, start_date, end_date,
	status, priority, assigned_to, notes, created_by, created_at, updated_at`

// ProductionOrderRepo órdenes de producción.
type ProductionOrderRepo struct {
	q Querier
}

// NewProductionOrderRepository construye el adaptador.
func NewProductionOrderRepository(q Querier) *ProductionOrderRepo {
	return &ProductionOrderRepo{q: q}
}

// Create persiste una orden. Número repetido → ErrDuplicate.
func (r *ProductionOrderRepo) Create(ctx context.Context, o *entity.ProductionOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO production_orders (`+productionOrderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.OrderNumber, o.ProductID, o.Quantity, nullString(o.ProductionLineID), o.StartDate, o.EndDate,
		o.Status, o.Priority, nullString(o.AssignedTo), o.Notes, nullString(o.CreatedBy), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: orden %s", domain.ErrDuplicate, o.OrderNumber)
		}
		return fmt.Errorf("insert production order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden.
func (r *ProductionOrderRepo) GetByID(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	return scanProductionOrder(r.q.QueryRow(ctx, `SELECT `+productionOrderColumns+` FROM production_orders WHERE id = $1`, id))
}

// GetByNumber obtiene una orden por número.
func (r *ProductionOrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*entity.ProductionOrder, error) {
	return scanProductionOrder(r.q.QueryRow(ctx, `SELECT `+productionOrderColumns+` FROM production_orders WHERE order_number = $1`, orderNumber))
}

// UpdateStatus cambia el estado de la orden.
func (r *ProductionOrderRepo) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE production_orders SET status = $2, updated_at = $3 WHERE id = $1`, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update production order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
	}
	return nil
}

// List lista órdenes por prioridad y fecha de inicio.
func (r *ProductionOrderRepo) List(ctx context.Context, f repository.ProductionOrderFilter, limit, offset int) ([]*entity.ProductionOrder, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+productionOrderColumns+` FROM production_orders
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR production_line_id::text = $2)
		ORDER BY priority DESC, start_date
		LIMIT $3 OFFSET $4`, f.Status, f.ProductionLineID, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list production orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductionOrder
	for rows.Next() {
		o, err := scanProductionOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// CountByStatus cuenta las órdenes en cualquiera de los estados dados.
func (r *ProductionOrderRepo) CountByStatus(ctx context.Context, statuses ...string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM production_orders WHERE status = ANY($1)`, statuses).Scan(&n); err != nil {
		return 0, fmt.Errorf("count production orders: %w", err)
	}
	return n, nil
}

func scanProductionOrder(row pgx.Row) (*entity.ProductionOrder, error) {
	var o entity.ProductionOrder
	var line, assigned, createdBy *string
	err := row.Scan(&o.ID, &o.OrderNumber, &o.ProductID, &o.Quantity, &line, &o.StartDate, &o.EndDate,
		&o.Status, &o.Priority, &assigned, &o.Notes, &createdBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan production order: %w", err)
	}
	o.ProductionLineID = fromNull(line)
	o.AssignedTo = fromNull(assigned)
	o.CreatedBy = fromNull(createdBy)
	return &o, nil
}

// ── Lotes ─────────────────────────────────────────────────────────────────────

const batchColumns = `id, batch_number, production_order_id, start_time, end_time, quantity_produced, defect_count,
	quality_check_passed, quality_notes, operator_id, created_at, updated_at`

// ProductionBatchRepo lotes de producción.
type ProductionBatchRepo struct {
	q Querier
}

// NewProductionBatchRepository construye el adaptador.
func NewProductionBatchRepository(q Querier) *ProductionBatchRepo {
	return &ProductionBatchRepo{q: q}
}

// Create persiste un lote.
func (r *ProductionBatchRepo) Create(ctx context.Context, b *entity.ProductionBatch) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO production_batches (`+batchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID, b.BatchNumber, b.ProductionOrderID, b.StartTime, b.EndTime, b.QuantityProduced, b.DefectCount,
		b.QualityCheckPassed, b.QualityNotes, nullString(b.OperatorID), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: lote %s", domain.ErrDuplicate, b.BatchNumber)
		}
		return fmt.Errorf("insert production batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote.
func (r *ProductionBatchRepo) GetByID(ctx context.Context, id string) (*entity.ProductionBatch, error) {
	return scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM production_batches WHERE id = $1`, id))
}

// Update actualiza producción, cierre y calidad del lote.
func (r *ProductionBatchRepo) Update(ctx context.Context, b *entity.ProductionBatch) error {
	_, err := r.q.Exec(ctx, `
		UPDATE production_batches SET end_time = $2, quantity_produced = $3, defect_count = $4,
			quality_check_passed = $5, quality_notes = $6, operator_id = $7, updated_at = $8
		WHERE id = $1`,
		b.ID, b.EndTime, b.QuantityProduced, b.DefectCount, b.QualityCheckPassed, b.QualityNotes,
		nullString(b.OperatorID), b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production batch: %w", err)
	}
	return nil
}

// ListByOrder lotes de la orden en orden de inicio.
func (r *ProductionBatchRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.ProductionBatch, error) {
	return r.list(ctx, `
		SELECT `+batchColumns+` FROM production_batches
		WHERE production_order_id = $1 ORDER BY start_time, created_at`, orderID)
}

// ListByLineSince lotes de órdenes asignadas a la línea, iniciados desde since.
func (r *ProductionBatchRepo) ListByLineSince(ctx context.Context, lineID string, since time.Time) ([]*entity.ProductionBatch, error) {
	return r.list(ctx, `
		SELECT `+prefixed("b", batchColumns)+`
		FROM production_batches b JOIN production_orders o ON o.id = b.production_order_id
		WHERE o.production_line_id = $1 AND b.start_time >= $2
		ORDER BY b.start_time, b.created_at`, lineID, since)
}

func (r *ProductionBatchRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ProductionBatch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list production batches: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductionBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.ProductionBatch, error) {
	var b entity.ProductionBatch
	var operator *string
	err := row.Scan(&b.ID, &b.BatchNumber, &b.ProductionOrderID, &b.StartTime, &b.EndTime, &b.QuantityProduced,
		&b.DefectCount, &b.QualityCheckPassed, &b.QualityNotes, &operator, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan production batch: %w", err)
	}
	b.OperatorID = fromNull(operator)
	return &b, nil
}

// ── Consumos ──────────────────────────────────────────────────────────────────

// MaterialConsumptionRepo consumos de material por lote.
type MaterialConsumptionRepo struct {
	q Querier
}

// NewMaterialConsumptionRepository construye el adaptador.
func NewMaterialConsumptionRepository(q Querier) *MaterialConsumptionRepo {
	return &MaterialConsumptionRepo{q: q}
}

// Create registra un consumo.
func (r *MaterialConsumptionRepo) Create(ctx context.Context, c *entity.MaterialConsumption) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO material_consumptions (id, batch_id, material_id, quantity_used, wastage, recorded_by, notes, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.BatchID, c.MaterialID, c.QuantityUsed, c.Wastage, nullString(c.RecordedBy), c.Notes, c.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert material consumption: %w", err)
	}
	return nil
}

const consumptionColumns = `id, batch_id, material_id, quantity_used, wastage, recorded_by, notes, recorded_at`

// ListByBatch consumos del lote en orden de registro.
func (r *MaterialConsumptionRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.MaterialConsumption, error) {
	return r.list(ctx, `SELECT `+consumptionColumns+` FROM material_consumptions WHERE batch_id = $1 ORDER BY recorded_at, id`, batchID)
}

// ListSince consumos registrados desde since.
func (r *MaterialConsumptionRepo) ListSince(ctx context.Context, since time.Time) ([]*entity.MaterialConsumption, error) {
	return r.list(ctx, `SELECT `+consumptionColumns+` FROM material_consumptions WHERE recorded_at >= $1 ORDER BY recorded_at, id`, since)
}

func (r *MaterialConsumptionRepo) list(ctx context.Context, query string, arg any) ([]*entity.MaterialConsumption, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list material consumptions: %w", err)
	}
	defer rows.Close()

	var list []*entity.MaterialConsumption
	for rows.Next() {
		var c entity.MaterialConsumption
		var by *string
		if err := rows.Scan(&c.ID, &c.BatchID, &c.MaterialID, &c.QuantityUsed, &c.Wastage, &by, &c.Notes, &c.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan material consumption: %w", err)
		}
		c.RecordedBy = fromNull(by)
		list = append(list, &c)
	}
	return list, rows.Err()
}

// ── Calidad ───────────────────────────────────────────────────────────────────

const qualityColumns = `q.id, q.batch_id, q.check_time, q.parameter, q.expected_value, q.actual_value, q.result,
	q.checked_by, q.notes, q.created_at`

// QualityCheckRepo controles de calidad.
type QualityCheckRepo struct {
	q Querier
}

// NewQualityCheckRepository construye el adaptador.
func NewQualityCheckRepository(q Querier) *QualityCheckRepo {
	return &QualityCheckRepo{q: q}
}

// Create registra un control.
func (r *QualityCheckRepo) Create(ctx context.Context, c *entity.QualityCheck) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO quality_checks (id, batch_id, check_time, parameter, expected_value, actual_value, result, checked_by, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.BatchID, c.CheckTime, c.Parameter, c.ExpectedValue, c.ActualValue, c.Result,
		nullString(c.CheckedBy), c.Notes, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quality check: %w", err)
	}
	return nil
}

// ListByBatch controles del lote.
func (r *QualityCheckRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.QualityCheck, error) {
	return r.list(ctx, `SELECT `+qualityColumns+` FROM quality_checks q WHERE q.batch_id = $1 ORDER BY q.check_time`, batchID)
}

// ListByOrder controles de todos los lotes de la orden.
func (r *QualityCheckRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.QualityCheck, error) {
	return r.list(ctx, `
		SELECT `+qualityColumns+`
		FROM quality_checks q JOIN production_batches b ON b.id = q.batch_id
		WHERE b.production_order_id = $1
		ORDER BY q.check_time`, orderID)
}

// ListSince controles hechos desde since.
func (r *QualityCheckRepo) ListSince(ctx context.Context, since time.Time) ([]*entity.QualityCheck, error) {
	return r.list(ctx, `SELECT `+qualityColumns+` FROM quality_checks q WHERE q.check_time >= $1 ORDER BY q.check_time`, since)
}

func (r *QualityCheckRepo) list(ctx context.Context, query string, arg any) ([]*entity.QualityCheck, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list quality checks: %w", err)
	}
	defer rows.Close()

	var list []*entity.QualityCheck
	for rows.Next() {
		var c entity.QualityCheck
		var by *string
		if err := rows.Scan(&c.ID, &c.BatchID, &c.CheckTime, &c.Parameter, &c.ExpectedValue, &c.ActualValue,
			&c.Result, &by, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quality check: %w", err)
		}
		c.CheckedBy = fromNull(by)
		list = append(list, &c)
	}
	return list, rows.Err()
}

// ── Mantenimiento ─────────────────────────────────────────────────────────────

const maintenanceColumns = `id, production_line_id, maintenance_type, start_time, end_time, description, cost,
	spare_parts_used, performed_by, verified_by, created_at, updated_at`

// MaintenanceLogRepo registros de mantenimiento.
type MaintenanceLogRepo struct {
	q Querier
}

// NewMaintenanceLogRepository construye el adaptador.
func NewMaintenanceLogRepository(q Querier) *MaintenanceLogRepo {
	return &MaintenanceLogRepo{q: q}
}

// Create registra el inicio de un mantenimiento.
func (r *MaintenanceLogRepo) Create(ctx context.Context, m *entity.MaintenanceLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO maintenance_logs (`+maintenanceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.ProductionLineID, m.MaintenanceType, m.StartTime, m.EndTime, m.Description, m.Cost,
		m.SparePartsUsed, nullString(m.PerformedBy), nullString(m.VerifiedBy), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert maintenance log: %w", err)
	}
	return nil
}

// GetByID obtiene un registro.
func (r *MaintenanceLogRepo) GetByID(ctx context.Context, id string) (*entity.MaintenanceLog, error) {
	return scanMaintenance(r.q.QueryRow(ctx, `SELECT `+maintenanceColumns+` FROM maintenance_logs WHERE id = $1`, id))
}

// Update cierra o corrige un registro.
func (r *MaintenanceLogRepo) Update(ctx context.Context, m *entity.MaintenanceLog) error {
	_, err := r.q.Exec(ctx, `
		UPDATE maintenance_logs SET end_time = $2, description = $3, cost = $4, spare_parts_used = $5,
			verified_by = $6, updated_at = $7
		WHERE id = $1`,
		m.ID, m.EndTime, m.Description, m.Cost, m.SparePartsUsed, nullString(m.VerifiedBy), m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update maintenance log: %w", err)
	}
	return nil
}

// ListByLine registros de la línea, del más reciente al más antiguo.
func (r *MaintenanceLogRepo) ListByLine(ctx context.Context, lineID string) ([]*entity.MaintenanceLog, error) {
	return r.list(ctx, `
		SELECT `+maintenanceColumns+` FROM maintenance_logs
		WHERE production_line_id = $1 ORDER BY start_time DESC`, lineID)
}

// ListOpen mantenimientos sin end_time, del más antiguo al más reciente.
func (r *MaintenanceLogRepo) ListOpen(ctx context.Context) ([]*entity.MaintenanceLog, error) {
	return r.list(ctx, `
		SELECT `+maintenanceColumns+` FROM maintenance_logs
		WHERE end_time IS NULL ORDER BY start_time`)
}

func (r *MaintenanceLogRepo) list(ctx context.Context, query string, args ...any) ([]*entity.MaintenanceLog, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list maintenance logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.MaintenanceLog
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMaintenance(row pgx.Row) (*entity.MaintenanceLog, error) {
	var m entity.MaintenanceLog
	var performed, verified *string
	err := row.Scan(&m.ID, &m.ProductionLineID, &m.MaintenanceType, &m.StartTime, &m.EndTime, &m.Description,
		&m.Cost, &m.SparePartsUsed, &performed, &verified, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan maintenance log: %w", err)
	}
	m.PerformedBy = fromNull(performed)
	m.VerifiedBy = fromNull(verified)
	return &m, nil
}
