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
	_ repository.WarehouseRepository       = (*WarehouseRepo)(nil)
	_ repository.StorageLocationRepository = (*StorageLocationRepo)(nil)
)

const warehouseColumns = `id, code, name, location, capacity, manager_id, active, notes, created_at, updated_at`

// WarehouseRepo implementación de WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Create persiste una bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO warehouses (`+warehouseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		w.ID, w.Code, w.Name, w.Location, w.Capacity, nullString(w.ManagerID), w.Active, w.Notes, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return scanWarehouse(r.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id))
}

// GetByCode obtiene una bodega por código.
func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*entity.Warehouse, error) {
	return scanWarehouse(r.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE code = $1`, code))
}

// Update actualiza los datos editables de la bodega.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	_, err := r.q.Exec(ctx, `
		UPDATE warehouses SET name = $2, location = $3, capacity = $4, manager_id = $5, active = $6, notes = $7, updated_at = $8
		WHERE id = $1`,
		w.ID, w.Name, w.Location, w.Capacity, nullString(w.ManagerID), w.Active, w.Notes, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	return nil
}

// List lista bodegas por código.
func (r *WarehouseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+warehouseColumns+` FROM warehouses ORDER BY code LIMIT $1 OFFSET $2`, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var list []*entity.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

func scanWarehouse(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	var manager *string
	err := row.Scan(&w.ID, &w.Code, &w.Name, &w.Location, &w.Capacity, &manager, &w.Active, &w.Notes, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan warehouse: %w", err)
	}
	w.ManagerID = fromNull(manager)
	return &w, nil
}

const locationColumns = `id, warehouse_id, name, location_type, capacity, current_volume,
	temperature_controlled, temperature_range, active, notes, created_at, updated_at`

// StorageLocationRepo implementación de StorageLocationRepository (usable con pool o tx).
type StorageLocationRepo struct {
	q Querier
}

// NewStorageLocationRepository construye el adaptador de ubicaciones.
func NewStorageLocationRepository(q Querier) *StorageLocationRepo {
	return &StorageLocationRepo{q: q}
}

// Create persiste una ubicación.
func (r *StorageLocationRepo) Create(ctx context.Context, l *entity.StorageLocation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO storage_locations (`+locationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		l.ID, l.WarehouseID, l.Name, l.LocationType, l.Capacity, l.CurrentVolume,
		l.TemperatureControlled, l.TemperatureRange, l.Active, l.Notes, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert storage location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación.
func (r *StorageLocationRepo) GetByID(ctx context.Context, id string) (*entity.StorageLocation, error) {
	return scanLocation(r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM storage_locations WHERE id = $1`, id))
}

// GetForUpdate obtiene la ubicación y bloquea la fila (SELECT FOR UPDATE).
func (r *StorageLocationRepo) GetForUpdate(ctx context.Context, id string) (*entity.StorageLocation, error) {
	return scanLocation(r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM storage_locations WHERE id = $1 FOR UPDATE`, id))
}

// Update actualiza los datos editables. current_volume solo cambia con UpdateVolume.
func (r *StorageLocationRepo) Update(ctx context.Context, l *entity.StorageLocation) error {
	_, err := r.q.Exec(ctx, `
		UPDATE storage_locations
		SET name = $2, location_type = $3, capacity = $4, temperature_controlled = $5,
		    temperature_range = $6, active = $7, notes = $8, updated_at = $9
		WHERE id = $1`,
		l.ID, l.Name, l.LocationType, l.Capacity, l.TemperatureControlled, l.TemperatureRange, l.Active, l.Notes, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update storage location: %w", err)
	}
	return nil
}

// UpdateVolume fija el volumen ocupado recalculado.
func (r *StorageLocationRepo) UpdateVolume(ctx context.Context, id string, volume decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE storage_locations SET current_volume = $2, updated_at = now() WHERE id = $1`, id, volume)
	if err != nil {
		return fmt.Errorf("update location volume: %w", err)
	}
	return nil
}

// ListByWarehouse lista las ubicaciones de una bodega ("" = todas).
func (r *StorageLocationRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StorageLocation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+locationColumns+` FROM storage_locations
		WHERE ($1 = '' OR warehouse_id::text = $1)
		ORDER BY name`, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list storage locations: %w", err)
	}
	defer rows.Close()

	var list []*entity.StorageLocation
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanLocation(row pgx.Row) (*entity.StorageLocation, error) {
	var l entity.StorageLocation
	err := row.Scan(&l.ID, &l.WarehouseID, &l.Name, &l.LocationType, &l.Capacity, &l.CurrentVolume,
		&l.TemperatureControlled, &l.TemperatureRange, &l.Active, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan storage location: %w", err)
	}
	return &l, nil
}
