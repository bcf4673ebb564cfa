package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository          = (*ProductRepo)(nil)
	_ repository.ProductComponentRepository = (*ProductComponentRepo)(nil)
	_ repository.CategoryRepository         = (*CategoryRepo)(nil)
)

const productColumns = `id, sku, name, description, category_id, unit_price, cost_price, status, min_stock_level,
	max_stock_level, manufacturing_lead_time, batch_size, discontinued_at, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.SKU, p.Name, p.Description, nullString(p.CategoryID), p.UnitPrice, p.CostPrice, p.Status,
		p.MinStockLevel, p.MaxStockLevel, p.ManufacturingLeadTime, p.BatchSize, p.DiscontinuedAt,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
}

// Update actualiza un producto existente (incluye estado y fecha de descontinuación).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, description = $3, category_id = $4, unit_price = $5, cost_price = $6,
			status = $7, min_stock_level = $8, max_stock_level = $9, manufacturing_lead_time = $10,
			batch_size = $11, discontinued_at = $12, updated_at = $13
		WHERE id = $1`,
		p.ID, p.Name, p.Description, nullString(p.CategoryID), p.UnitPrice, p.CostPrice, p.Status,
		p.MinStockLevel, p.MaxStockLevel, p.ManufacturingLeadTime, p.BatchSize, p.DiscontinuedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// List lista productos, opcionalmente por estado, del más reciente al más antiguo.
func (r *ProductRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Product, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, status, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var category *string
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &category, &p.UnitPrice, &p.CostPrice, &p.Status,
		&p.MinStockLevel, &p.MaxStockLevel, &p.ManufacturingLeadTime, &p.BatchSize, &p.DiscontinuedAt,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.CategoryID = fromNull(category)
	return &p, nil
}

const componentColumns = `id, product_id, material_id, component_product_id, quantity, optional, notes, created_at`

// ProductComponentRepo líneas de receta (BOM) de los productos.
type ProductComponentRepo struct {
	q Querier
}

// NewProductComponentRepository construye el adaptador de recetas.
func NewProductComponentRepository(q Querier) *ProductComponentRepo {
	return &ProductComponentRepo{q: q}
}

// Create agrega una línea a la receta.
func (r *ProductComponentRepo) Create(ctx context.Context, c *entity.ProductComponent) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_components (`+componentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.ProductID, nullString(c.MaterialID), nullString(c.ComponentProductID), c.Quantity, c.Optional,
		c.Notes, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product component: %w", err)
	}
	return nil
}

// GetByID obtiene una línea de receta.
func (r *ProductComponentRepo) GetByID(ctx context.Context, id string) (*entity.ProductComponent, error) {
	return scanComponent(r.q.QueryRow(ctx, `SELECT `+componentColumns+` FROM product_components WHERE id = $1`, id))
}

// Delete elimina una línea de receta.
func (r *ProductComponentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_components WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product component: %w", err)
	}
	return nil
}

// ListByProduct devuelve la receta en orden de creación.
func (r *ProductComponentRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductComponent, error) {
	return r.list(ctx, `SELECT `+componentColumns+` FROM product_components WHERE product_id = $1 ORDER BY created_at, id`, productID)
}

// ListParents devuelve las líneas que usan el producto como sub-producto.
func (r *ProductComponentRepo) ListParents(ctx context.Context, componentProductID string) ([]*entity.ProductComponent, error) {
	return r.list(ctx, `SELECT `+componentColumns+` FROM product_components WHERE component_product_id = $1 ORDER BY created_at, id`, componentProductID)
}

// List devuelve todas las líneas de receta.
func (r *ProductComponentRepo) List(ctx context.Context) ([]*entity.ProductComponent, error) {
	return r.list(ctx, `SELECT `+componentColumns+` FROM product_components ORDER BY created_at, id`)
}

func (r *ProductComponentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ProductComponent, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list product components: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductComponent
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanComponent(row pgx.Row) (*entity.ProductComponent, error) {
	var c entity.ProductComponent
	var material, sub *string
	err := row.Scan(&c.ID, &c.ProductID, &material, &sub, &c.Quantity, &c.Optional, &c.Notes, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product component: %w", err)
	}
	c.MaterialID = fromNull(material)
	c.ComponentProductID = fromNull(sub)
	return &c, nil
}

// CategoryRepo categorías de productos.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categories (id, parent_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, nullString(c.ParentID), c.Name, c.Description, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return scanCategory(r.q.QueryRow(ctx,
		`SELECT id, parent_id, name, description, created_at, updated_at FROM categories WHERE id = $1`, id))
}

// GetByName obtiene una categoría por nombre.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return scanCategory(r.q.QueryRow(ctx,
		`SELECT id, parent_id, name, description, created_at, updated_at FROM categories WHERE name = $1`, name))
}

// List lista categorías por nombre.
func (r *CategoryRepo) List(ctx context.Context, limit, offset int) ([]*entity.Category, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT id, parent_id, name, description, created_at, updated_at
		FROM categories ORDER BY name LIMIT $1 OFFSET $2`, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	var parent *string
	if err := row.Scan(&c.ID, &parent, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	c.ParentID = fromNull(parent)
	return &c, nil
}
