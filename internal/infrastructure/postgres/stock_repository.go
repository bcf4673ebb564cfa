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

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `s.id, s.material_id, s.location_id, s.batch_number, s.quantity, s.expiry_date, s.notes, s.created_at, s.updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el registro de stock por (material, ubicación, lote). nil si no existe.
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.Stock, error) {
	return scanStock(r.q.QueryRow(ctx, `
		SELECT `+stockColumns+` FROM stock s
		WHERE s.material_id = $1 AND s.location_id = $2 AND s.batch_number = $3`,
		key.MaterialID, key.LocationID, key.BatchNumber))
}

// GetForUpdate obtiene el registro y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.Stock, error) {
	return scanStock(r.q.QueryRow(ctx, `
		SELECT `+stockColumns+` FROM stock s
		WHERE s.material_id = $1 AND s.location_id = $2 AND s.batch_number = $3
		FOR UPDATE`,
		key.MaterialID, key.LocationID, key.BatchNumber))
}

// Create inserta un registro nuevo. Una llave repetida devuelve ErrDuplicate.
func (r *StockRepo) Create(ctx context.Context, st *entity.Stock) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (id, material_id, location_id, batch_number, quantity, expiry_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		st.ID, st.MaterialID, st.LocationID, st.BatchNumber, st.Quantity, st.ExpiryDate, st.Notes, st.CreatedAt, st.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: stock duplicado", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// UpdateQuantity fija la cantidad del registro.
func (r *StockRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE stock SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock %s", domain.ErrNotFound, id)
	}
	return nil
}

// Delete elimina el registro (cuando la cantidad llega a cero).
func (r *StockRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}

// SumVolumeByLocation Σ quantity × volume_per_unit de la ubicación.
func (r *StockRepo) SumVolumeByLocation(ctx context.Context, locationID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(s.quantity * m.volume_per_unit), 0)
		FROM stock s JOIN materials m ON m.id = s.material_id
		WHERE s.location_id = $1`, locationID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum location volume: %w", err)
	}
	return total, nil
}

// SumByMaterial stock total del material en todas las ubicaciones y lotes.
func (r *StockRepo) SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM stock WHERE material_id = $1`, materialID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum material stock: %w", err)
	}
	return total, nil
}

// List lista registros con filtros opcionales.
func (r *StockRepo) List(ctx context.Context, f repository.StockFilter, limit, offset int) ([]*entity.Stock, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+stockColumns+`
		FROM stock s JOIN storage_locations l ON l.id = s.location_id
		WHERE ($1 = '' OR s.material_id::text = $1)
		  AND ($2 = '' OR s.location_id::text = $2)
		  AND ($3 = '' OR l.warehouse_id::text = $3)
		  AND ($4 = '' OR s.batch_number = $4)
		ORDER BY s.created_at, s.id
		LIMIT $5 OFFSET $6`,
		f.MaterialID, f.LocationID, f.WarehouseID, f.BatchNumber, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return collectStock(rows)
}

// ListExpiringBefore registros con fecha de vencimiento anterior a before, del más próximo al más lejano.
func (r *StockRepo) ListExpiringBefore(ctx context.Context, before time.Time) ([]*entity.Stock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+stockColumns+` FROM stock s
		WHERE s.expiry_date IS NOT NULL AND s.expiry_date < $1
		ORDER BY s.expiry_date`, before)
	if err != nil {
		return nil, fmt.Errorf("list expiring stock: %w", err)
	}
	return collectStock(rows)
}

func collectStock(rows pgx.Rows) ([]*entity.Stock, error) {
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		st, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, st)
	}
	return list, rows.Err()
}

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	err := row.Scan(&s.ID, &s.MaterialID, &s.LocationID, &s.BatchNumber, &s.Quantity, &s.ExpiryDate, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan stock: %w", err)
	}
	return &s, nil
}
