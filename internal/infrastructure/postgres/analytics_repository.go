package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.KPIRepository       = (*KPIRepo)(nil)
	_ repository.AlertRepository     = (*AlertRepo)(nil)
	_ repository.ReportRepository    = (*ReportRepo)(nil)
	_ repository.DashboardRepository = (*DashboardRepo)(nil)
)

// ── KPIs ──────────────────────────────────────────────────────────────────────

const kpiColumns = `id, name, description, category, unit, target_value, current_value, warning_threshold,
	critical_threshold, trend_period_days, update_frequency, created_at, updated_at`

// KPIRepo KPIs y su historial.
type KPIRepo struct {
	q Querier
}

// NewKPIRepository construye el adaptador.
func NewKPIRepository(q Querier) *KPIRepo {
	return &KPIRepo{q: q}
}

// Create persiste un KPI.
func (r *KPIRepo) Create(ctx context.Context, k *entity.KPI) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO kpis (`+kpiColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		k.ID, k.Name, k.Description, k.Category, k.Unit, k.TargetValue, k.CurrentValue, k.WarningThreshold,
		k.CriticalThreshold, k.TrendPeriodDays, k.UpdateFrequency, k.CreatedAt, k.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert kpi: %w", err)
	}
	return nil
}

// GetByID obtiene un KPI.
func (r *KPIRepo) GetByID(ctx context.Context, id string) (*entity.KPI, error) {
	var k entity.KPI
	err := r.q.QueryRow(ctx, `SELECT `+kpiColumns+` FROM kpis WHERE id = $1`, id).Scan(kpiDest(&k)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kpi: %w", err)
	}
	return &k, nil
}

// UpdateValue fija el valor actual.
func (r *KPIRepo) UpdateValue(ctx context.Context, id string, value float64, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE kpis SET current_value = $2, updated_at = $3 WHERE id = $1`, id, value, updatedAt)
	if err != nil {
		return fmt.Errorf("update kpi value: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: kpi %s", domain.ErrNotFound, id)
	}
	return nil
}

// List KPIs por categoría y nombre; category vacía = todas.
func (r *KPIRepo) List(ctx context.Context, category string) ([]*entity.KPI, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+kpiColumns+` FROM kpis WHERE ($1 = '' OR category = $1) ORDER BY category, name`, category)
	if err != nil {
		return nil, fmt.Errorf("list kpis: %w", err)
	}
	defer rows.Close()

	var list []*entity.KPI
	for rows.Next() {
		var k entity.KPI
		if err := rows.Scan(kpiDest(&k)...); err != nil {
			return nil, fmt.Errorf("scan kpi: %w", err)
		}
		list = append(list, &k)
	}
	return list, rows.Err()
}

// AddHistory agrega un valor al historial.
func (r *KPIRepo) AddHistory(ctx context.Context, h *entity.KPIHistory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO kpi_history (id, kpi_id, value, timestamp, note) VALUES ($1, $2, $3, $4, $5)`,
		h.ID, h.KPIID, h.Value, h.Timestamp, h.Note)
	if err != nil {
		return fmt.Errorf("insert kpi history: %w", err)
	}
	return nil
}

// History valores desde since en orden cronológico.
func (r *KPIRepo) History(ctx context.Context, kpiID string, since time.Time) ([]*entity.KPIHistory, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, kpi_id, value, timestamp, note FROM kpi_history
		WHERE kpi_id = $1 AND timestamp >= $2
		ORDER BY timestamp`, kpiID, since)
	if err != nil {
		return nil, fmt.Errorf("list kpi history: %w", err)
	}
	defer rows.Close()

	var list []*entity.KPIHistory
	for rows.Next() {
		var h entity.KPIHistory
		if err := rows.Scan(&h.ID, &h.KPIID, &h.Value, &h.Timestamp, &h.Note); err != nil {
			return nil, fmt.Errorf("scan kpi history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}

func kpiDest(k *entity.KPI) []any {
	return []any{&k.ID, &k.Name, &k.Description, &k.Category, &k.Unit, &k.TargetValue, &k.CurrentValue,
		&k.WarningThreshold, &k.CriticalThreshold, &k.TrendPeriodDays, &k.UpdateFrequency, &k.CreatedAt, &k.UpdatedAt}
}

// ── Alertas ───────────────────────────────────────────────────────────────────

const alertColumns = `id, kpi_id, title, description, severity, status, threshold_value, current_value,
	created_at, acknowledged_at, resolved_at, acknowledged_by, resolution_note`

// AlertRepo alertas de KPI.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador.
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste una alerta.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO alerts (`+alertColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.KPIID, a.Title, a.Description, a.Severity, a.Status, a.ThresholdValue, a.CurrentValue,
		a.CreatedAt, a.AcknowledgedAt, a.ResolvedAt, nullString(a.AcknowledgedBy), a.ResolutionNote,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	return scanAlert(r.q.QueryRow(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id))
}

// Update guarda reconocimiento o resolución.
func (r *AlertRepo) Update(ctx context.Context, a *entity.Alert) error {
	_, err := r.q.Exec(ctx, `
		UPDATE alerts SET status = $2, acknowledged_at = $3, resolved_at = $4, acknowledged_by = $5, resolution_note = $6
		WHERE id = $1`,
		a.ID, a.Status, a.AcknowledgedAt, a.ResolvedAt, nullString(a.AcknowledgedBy), a.ResolutionNote)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	return nil
}

// List alertas más recientes primero.
func (r *AlertRepo) List(ctx context.Context, f repository.AlertFilter, limit, offset int) ([]*entity.Alert, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+alertColumns+` FROM alerts
		WHERE ($1 = '' OR kpi_id::text = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR severity = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`, f.KPIID, f.Status, f.Severity, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	var by *string
	err := row.Scan(&a.ID, &a.KPIID, &a.Title, &a.Description, &a.Severity, &a.Status, &a.ThresholdValue,
		&a.CurrentValue, &a.CreatedAt, &a.AcknowledgedAt, &a.ResolvedAt, &by, &a.ResolutionNote)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan alert: %w", err)
	}
	a.AcknowledgedBy = fromNull(by)
	return &a, nil
}

// ── Reportes ──────────────────────────────────────────────────────────────────

const reportColumns = `id, name, report_type, format, status, start_date, end_date, file_path, error,
	created_by, created_at, completed_at`

// ReportRepo reportes generados en segundo plano.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// Create persiste la solicitud de reporte.
func (r *ReportRepo) Create(ctx context.Context, rp *entity.Report) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO reports (`+reportColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rp.ID, rp.Name, rp.ReportType, rp.Format, rp.Status, rp.StartDate, rp.EndDate, rp.FilePath, rp.Error,
		nullString(rp.CreatedBy), rp.CreatedAt, rp.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetByID obtiene un reporte.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	return scanReport(r.q.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id))
}

// Update guarda el estado de generación.
func (r *ReportRepo) Update(ctx context.Context, rp *entity.Report) error {
	_, err := r.q.Exec(ctx, `
		UPDATE reports SET status = $2, file_path = $3, error = $4, completed_at = $5 WHERE id = $1`,
		rp.ID, rp.Status, rp.FilePath, rp.Error, rp.CompletedAt)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	return nil
}

// FailProcessing cierra como failed los reportes que quedaron en processing.
func (r *ReportRepo) FailProcessing(ctx context.Context, reason string) (int, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE reports SET status = $1, error = $2 WHERE status = $3`,
		entity.ReportStatusFailed, reason, entity.ReportStatusProcessing)
	if err != nil {
		return 0, fmt.Errorf("fail processing reports: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// List reportes más recientes primero.
func (r *ReportRepo) List(ctx context.Context, limit, offset int) ([]*entity.Report, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+reportColumns+` FROM reports ORDER BY created_at DESC LIMIT $1 OFFSET $2`, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var list []*entity.Report
	for rows.Next() {
		rp, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rp)
	}
	return list, rows.Err()
}

func scanReport(row pgx.Row) (*entity.Report, error) {
	var rp entity.Report
	var by *string
	err := row.Scan(&rp.ID, &rp.Name, &rp.ReportType, &rp.Format, &rp.Status, &rp.StartDate, &rp.EndDate,
		&rp.FilePath, &rp.Error, &by, &rp.CreatedAt, &rp.CompletedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}
	rp.CreatedBy = fromNull(by)
	return &rp, nil
}

// ── Tablero ───────────────────────────────────────────────────────────────────

// DashboardRepo agregados de solo lectura para el tablero.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// StockValue valor del inventario: Σ cantidad × precio unitario.
func (r *DashboardRepo) StockValue(ctx context.Context) (decimal.Decimal, error) {
	var v decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(s.quantity * m.unit_price), 0)
		FROM stock s JOIN materials m ON m.id = s.material_id`).Scan(&v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("stock value: %w", err)
	}
	return v, nil
}

// CountLowStockMaterials materiales activos en o bajo el punto de reorden.
func (r *DashboardRepo) CountLowStockMaterials(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM materials m
		LEFT JOIN (SELECT material_id, SUM(quantity) AS total FROM stock GROUP BY material_id) s
		       ON s.material_id = m.id
		WHERE m.active AND COALESCE(s.total, 0) <= m.reorder_point`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return n, nil
}

// CountActiveAlerts alertas sin reconocer.
func (r *DashboardRepo) CountActiveAlerts(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM alerts WHERE status = $1`, entity.AlertStatusActive).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active alerts: %w", err)
	}
	return n, nil
}

// CountMovementsSince movimientos registrados desde since.
func (r *DashboardRepo) CountMovementsSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}
