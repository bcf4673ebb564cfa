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

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, material_id, source_location_id, destination_location_id, movement_type, quantity,
	batch_number, reference_number, unit_cost, performed_by, notes, created_at`

// StockMovementRepo implementación de StockMovementRepository (solo inserción y lectura).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create registra un movimiento. El reference_number es único.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.MaterialID, nullString(m.SourceLocationID), nullString(m.DestinationLocationID), m.Type,
		m.Quantity, m.BatchNumber, m.ReferenceNumber, m.UnitCost, nullString(m.PerformedBy), m.Notes, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: referencia %s", domain.ErrDuplicate, m.ReferenceNumber)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	return scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id))
}

// ExistsReference indica si ya hay un movimiento con esa referencia.
func (r *StockMovementRepo) ExistsReference(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stock_movements WHERE reference_number = $1)`, reference).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists reference: %w", err)
	}
	return exists, nil
}

// List lista movimientos del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+movementColumns+` FROM stock_movements
		WHERE ($1 = '' OR material_id::text = $1)
		  AND ($2 = '' OR movement_type = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6`,
		f.MaterialID, f.Type, f.From, f.To, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SummaryByType cantidad de movimientos y Σ|quantity| por tipo en [from, to].
func (r *StockMovementRepo) SummaryByType(ctx context.Context, from, to time.Time) ([]entity.MovementTypeSummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT movement_type, COUNT(*), COALESCE(SUM(ABS(quantity)), 0)
		FROM stock_movements
		WHERE created_at BETWEEN $1 AND $2
		GROUP BY movement_type
		ORDER BY movement_type`, from, to)
	if err != nil {
		return nil, fmt.Errorf("movement summary: %w", err)
	}
	defer rows.Close()

	var out []entity.MovementTypeSummary
	for rows.Next() {
		var s entity.MovementTypeSummary
		if err := rows.Scan(&s.Type, &s.Count, &s.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scan movement summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// TopMaterials materiales con más movimientos en [from, to].
func (r *StockMovementRepo) TopMaterials(ctx context.Context, from, to time.Time, limit int) ([]entity.MaterialMovementCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT m.id, m.code, m.name, COUNT(*) AS n
		FROM stock_movements sm JOIN materials m ON m.id = sm.material_id
		WHERE sm.created_at BETWEEN $1 AND $2
		GROUP BY m.id, m.code, m.name
		ORDER BY n DESC, m.id
		LIMIT $3`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top materials: %w", err)
	}
	defer rows.Close()

	var out []entity.MaterialMovementCount
	for rows.Next() {
		var c entity.MaterialMovementCount
		if err := rows.Scan(&c.MaterialID, &c.MaterialCode, &c.MaterialName, &c.Count); err != nil {
			return nil, fmt.Errorf("scan top materials: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// IssuedQuantity Σ quantity de los movimientos issue del material en [from, to].
func (r *StockMovementRepo) IssuedQuantity(ctx context.Context, materialID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM stock_movements
		WHERE material_id = $1 AND movement_type = $2 AND created_at BETWEEN $3 AND $4`,
		materialID, entity.MovementIssue, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("issued quantity: %w", err)
	}
	return total, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var src, dst, by *string
	err := row.Scan(&m.ID, &m.MaterialID, &src, &dst, &m.Type, &m.Quantity, &m.BatchNumber,
		&m.ReferenceNumber, &m.UnitCost, &by, &m.Notes, &m.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	m.SourceLocationID = fromNull(src)
	m.DestinationLocationID = fromNull(dst)
	m.PerformedBy = fromNull(by)
	return &m, nil
}
