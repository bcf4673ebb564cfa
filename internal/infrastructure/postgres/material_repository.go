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
	_ repository.MaterialRepository = (*MaterialRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

const materialColumns = `m.id, m.code, m.name, m.description, m.unit, m.unit_price, m.minimum_stock,
	m.maximum_stock, m.reorder_point, m.lead_time_days, m.volume_per_unit, m.supplier_id, m.active,
	m.notes, m.created_at, m.updated_at`

// MaterialRepo implementación de MaterialRepository (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador de materias primas.
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create persiste un material.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO materials (id, code, name, description, unit, unit_price, minimum_stock, maximum_stock,
			reorder_point, lead_time_days, volume_per_unit, supplier_id, active, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		m.ID, m.Code, m.Name, m.Description, m.Unit, m.UnitPrice, m.MinimumStock, m.MaximumStock,
		m.ReorderPoint, m.LeadTimeDays, m.VolumePerUnit, nullString(m.SupplierID), m.Active, m.Notes,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	return scanMaterial(r.q.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials m WHERE m.id = $1`, id))
}

// GetByCode obtiene un material por código.
func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*entity.Material, error) {
	return scanMaterial(r.q.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials m WHERE m.code = $1`, code))
}

// Update actualiza los datos del material (el código no cambia).
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	_, err := r.q.Exec(ctx, `
		UPDATE materials SET name = $2, description = $3, unit = $4, unit_price = $5, minimum_stock = $6,
			maximum_stock = $7, reorder_point = $8, lead_time_days = $9, volume_per_unit = $10,
			supplier_id = $11, active = $12, notes = $13, updated_at = $14
		WHERE id = $1`,
		m.ID, m.Name, m.Description, m.Unit, m.UnitPrice, m.MinimumStock, m.MaximumStock, m.ReorderPoint,
		m.LeadTimeDays, m.VolumePerUnit, nullString(m.SupplierID), m.Active, m.Notes, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	return nil
}

// UpdatePrice actualiza solo el precio unitario (costo promedio ponderado de las entradas).
func (r *MaterialRepo) UpdatePrice(ctx context.Context, id string, unitPrice decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE materials SET unit_price = $2, updated_at = now() WHERE id = $1`, id, unitPrice)
	if err != nil {
		return fmt.Errorf("update material price: %w", err)
	}
	return nil
}

// List lista materiales por código.
func (r *MaterialRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Material, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+materialColumns+` FROM materials m
		WHERE (NOT $1 OR m.active)
		ORDER BY m.code LIMIT $2 OFFSET $3`, activeOnly, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListStockLevels materiales activos con su stock total agregado desde el libro de stock.
func (r *MaterialRepo) ListStockLevels(ctx context.Context, belowReorder bool) ([]entity.MaterialStockLevel, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+materialColumns+`, COALESCE(s.total, 0)
		FROM materials m
		LEFT JOIN (SELECT material_id, SUM(quantity) AS total FROM stock GROUP BY material_id) s
		       ON s.material_id = m.id
		WHERE m.active AND (NOT $1 OR COALESCE(s.total, 0) <= m.reorder_point)
		ORDER BY m.code`, belowReorder)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()

	var list []entity.MaterialStockLevel
	for rows.Next() {
		var lvl entity.MaterialStockLevel
		var supplier *string
		m := &lvl.Material
		if err := rows.Scan(&m.ID, &m.Code, &m.Name, &m.Description, &m.Unit, &m.UnitPrice, &m.MinimumStock,
			&m.MaximumStock, &m.ReorderPoint, &m.LeadTimeDays, &m.VolumePerUnit, &supplier, &m.Active,
			&m.Notes, &m.CreatedAt, &m.UpdatedAt, &lvl.CurrentStock); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		m.SupplierID = fromNull(supplier)
		list = append(list, lvl)
	}
	return list, rows.Err()
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	var supplier *string
	err := row.Scan(&m.ID, &m.Code, &m.Name, &m.Description, &m.Unit, &m.UnitPrice, &m.MinimumStock,
		&m.MaximumStock, &m.ReorderPoint, &m.LeadTimeDays, &m.VolumePerUnit, &supplier, &m.Active,
		&m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan material: %w", err)
	}
	m.SupplierID = fromNull(supplier)
	return &m, nil
}

const supplierColumns = `id, name, code, contact_person, email, phone, address, active, notes, created_at, updated_at`

// SupplierRepo implementación de SupplierRepository.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de proveedores.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.Name, s.Code, s.ContactPerson, s.Email, s.Phone, s.Address, s.Active, s.Notes, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
}

// GetByCode obtiene un proveedor por código.
func (r *SupplierRepo) GetByCode(ctx context.Context, code string) (*entity.Supplier, error) {
	return scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE code = $1`, code))
}

// Update actualiza un proveedor.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		UPDATE suppliers SET name = $2, contact_person = $3, email = $4, phone = $5, address = $6,
			active = $7, notes = $8, updated_at = $9
		WHERE id = $1`,
		s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address, s.Active, s.Notes, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}

// List lista proveedores por nombre.
func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name LIMIT $1 OFFSET $2`, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Code, &s.ContactPerson, &s.Email, &s.Phone, &s.Address, &s.Active,
		&s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan supplier: %w", err)
	}
	return &s, nil
}
