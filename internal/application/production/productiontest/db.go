// Package productiontest implementaciones en memoria de los puertos de producción y catálogo
// de productos para tests. Los repositorios guardan copias, nunca punteros compartidos.
package productiontest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/production"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// table colección ordenada por inserción.
type table[T any] struct {
	mu   sync.Mutex
	rows []T
	id   func(*T) string
}

func newTable[T any](id func(*T) string) *table[T] { return &table[T]{id: id} }

func (t *table[T]) put(v *T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if t.id(&t.rows[i]) == t.id(v) {
			t.rows[i] = *v
			return
		}
	}
	t.rows = append(t.rows, *v)
}

func (t *table[T]) get(id string) *T {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if t.id(&t.rows[i]) == id {
			c := t.rows[i]
			return &c
		}
	}
	return nil
}

func (t *table[T]) find(match func(*T) bool) []*T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := []*T{}
	for i := range t.rows {
		if match(&t.rows[i]) {
			c := t.rows[i]
			out = append(out, &c)
		}
	}
	return out
}

func (t *table[T]) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if t.id(&t.rows[i]) == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return
		}
	}
}

func all[T any](*T) bool { return true }

// DB estado en memoria de producción y catálogo.
type DB struct {
	txMu sync.Mutex

	lines       *table[entity.ProductionLine]
	orders      *table[entity.ProductionOrder]
	batches     *table[entity.ProductionBatch]
	consumption *table[entity.MaterialConsumption]
	quality     *table[entity.QualityCheck]
	maintenance *table[entity.MaintenanceLog]
	products    *table[entity.Product]
	components  *table[entity.ProductComponent]

	stock repository.StockRepository
}

// NewDB crea la base en memoria; stock responde SumByMaterial para los arranques.
func NewDB(stock repository.StockRepository) *DB {
	return &DB{
		lines:       newTable(func(v *entity.ProductionLine) string { return v.ID }),
		orders:      newTable(func(v *entity.ProductionOrder) string { return v.ID }),
		batches:     newTable(func(v *entity.ProductionBatch) string { return v.ID }),
		consumption: newTable(func(v *entity.MaterialConsumption) string { return v.ID }),
		quality:     newTable(func(v *entity.QualityCheck) string { return v.ID }),
		maintenance: newTable(func(v *entity.MaintenanceLog) string { return v.ID }),
		products:    newTable(func(v *entity.Product) string { return v.ID }),
		components:  newTable(func(v *entity.ProductComponent) string { return v.ID }),
		stock:       stock,
	}
}

// Repos repositorios fuera de transacción. Materials se completa desde fuera.
func (db *DB) Repos(materials repository.MaterialRepository) production.Repos {
	return production.Repos{
		Lines:       LineRepo{db},
		Orders:      OrderRepo{db},
		Batches:     BatchRepo{db},
		Consumption: ConsumptionRepo{db},
		Quality:     QualityRepo{db},
		Maintenance: MaintenanceRepo{db},
		Products:    ProductRepo{db},
		Components:  ComponentRepo{db},
		Materials:   materials,
		Stock:       db.stock,
	}
}

// RunProduction implementa production.TxRunner serializando las transacciones (sin rollback).
func (db *DB) RunProduction(_ context.Context, fn func(repos production.TxRepos) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()
	return fn(production.TxRepos{
		Orders:      OrderRepo{db},
		Batches:     BatchRepo{db},
		Lines:       LineRepo{db},
		Quality:     QualityRepo{db},
		Maintenance: MaintenanceRepo{db},
		Stock:       db.stock,
	})
}

// ── Semillas ────────────────────────────────────────────────────────────────

// AddLine registra una línea.
func (db *DB) AddLine(l entity.ProductionLine) *DB { db.lines.put(&l); return db }

// AddOrder registra una orden.
func (db *DB) AddOrder(o entity.ProductionOrder) *DB { db.orders.put(&o); return db }

// AddProduct registra un producto.
func (db *DB) AddProduct(p entity.Product) *DB { db.products.put(&p); return db }

// AddComponent registra una línea de receta.
func (db *DB) AddComponent(c entity.ProductComponent) *DB { db.components.put(&c); return db }

// AddBatch registra un lote.
func (db *DB) AddBatch(b entity.ProductionBatch) *DB { db.batches.put(&b); return db }

// AddConsumption registra un consumo.
func (db *DB) AddConsumption(c entity.MaterialConsumption) *DB { db.consumption.put(&c); return db }

// AddQualityCheck registra un control de calidad.
func (db *DB) AddQualityCheck(c entity.QualityCheck) *DB { db.quality.put(&c); return db }

// AddMaintenance registra un mantenimiento.
func (db *DB) AddMaintenance(m entity.MaintenanceLog) *DB { db.maintenance.put(&m); return db }

// ── Lecturas para aserciones ────────────────────────────────────────────────

// Order copia de la orden (nil si no existe).
func (db *DB) Order(id string) *entity.ProductionOrder { return db.orders.get(id) }

// Line copia de la línea.
func (db *DB) Line(id string) *entity.ProductionLine { return db.lines.get(id) }

// Product copia del producto.
func (db *DB) Product(id string) *entity.Product { return db.products.get(id) }

// Batches lotes de la orden.
func (db *DB) Batches(orderID string) []*entity.ProductionBatch {
	return db.batches.find(func(b *entity.ProductionBatch) bool { return b.ProductionOrderID == orderID })
}

// ── Repositorios ────────────────────────────────────────────────────────────

// LineRepo líneas de producción.
type LineRepo struct{ db *DB }

var _ repository.ProductionLineRepository = LineRepo{}

func (r LineRepo) Create(_ context.Context, l *entity.ProductionLine) error {
	r.db.lines.put(l)
	return nil
}
func (r LineRepo) GetByID(_ context.Context, id string) (*entity.ProductionLine, error) {
	return r.db.lines.get(id), nil
}
func (r LineRepo) Update(_ context.Context, l *entity.ProductionLine) error {
	r.db.lines.put(l)
	return nil
}
func (r LineRepo) List(_ context.Context) ([]*entity.ProductionLine, error) {
	return r.db.lines.find(all[entity.ProductionLine]), nil
}

// OrderRepo órdenes de producción.
type OrderRepo struct{ db *DB }

var _ repository.ProductionOrderRepository = OrderRepo{}

func (r OrderRepo) Create(_ context.Context, o *entity.ProductionOrder) error {
	r.db.orders.put(o)
	return nil
}
func (r OrderRepo) GetByID(_ context.Context, id string) (*entity.ProductionOrder, error) {
	return r.db.orders.get(id), nil
}
func (r OrderRepo) GetByNumber(_ context.Context, number string) (*entity.ProductionOrder, error) {
	found := r.db.orders.find(func(o *entity.ProductionOrder) bool { return o.OrderNumber == number })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}
func (r OrderRepo) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	o := r.db.orders.get(id)
	if o == nil {
		return nil
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	r.db.orders.put(o)
	return nil
}
func (r OrderRepo) List(_ context.Context, f repository.ProductionOrderFilter, limit, offset int) ([]*entity.ProductionOrder, error) {
	out := r.db.orders.find(func(o *entity.ProductionOrder) bool {
		return (f.Status == "" || o.Status == f.Status) && (f.ProductionLineID == "" || o.ProductionLineID == f.ProductionLineID)
	})
	return page(out, limit, offset), nil
}
func (r OrderRepo) CountByStatus(_ context.Context, statuses ...string) (int, error) {
	out := r.db.orders.find(func(o *entity.ProductionOrder) bool {
		for _, s := range statuses {
			if o.Status == s {
				return true
			}
		}
		return false
	})
	return len(out), nil
}

// BatchRepo lotes.
type BatchRepo struct{ db *DB }

var _ repository.ProductionBatchRepository = BatchRepo{}

func (r BatchRepo) Create(_ context.Context, b *entity.ProductionBatch) error {
	r.db.batches.put(b)
	return nil
}
func (r BatchRepo) GetByID(_ context.Context, id string) (*entity.ProductionBatch, error) {
	return r.db.batches.get(id), nil
}
func (r BatchRepo) Update(_ context.Context, b *entity.ProductionBatch) error {
	r.db.batches.put(b)
	return nil
}
func (r BatchRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.ProductionBatch, error) {
	return r.db.Batches(orderID), nil
}
func (r BatchRepo) ListByLineSince(_ context.Context, lineID string, since time.Time) ([]*entity.ProductionBatch, error) {
	orders := map[string]bool{}
	for _, o := range r.db.orders.find(func(o *entity.ProductionOrder) bool { return o.ProductionLineID == lineID }) {
		orders[o.ID] = true
	}
	return r.db.batches.find(func(b *entity.ProductionBatch) bool {
		return orders[b.ProductionOrderID] && !b.StartTime.Before(since)
	}), nil
}

// ConsumptionRepo consumos de material.
type ConsumptionRepo struct{ db *DB }

var _ repository.MaterialConsumptionRepository = ConsumptionRepo{}

func (r ConsumptionRepo) Create(_ context.Context, c *entity.MaterialConsumption) error {
	r.db.consumption.put(c)
	return nil
}
func (r ConsumptionRepo) ListByBatch(_ context.Context, batchID string) ([]*entity.MaterialConsumption, error) {
	return r.db.consumption.find(func(c *entity.MaterialConsumption) bool { return c.BatchID == batchID }), nil
}
func (r ConsumptionRepo) ListSince(_ context.Context, since time.Time) ([]*entity.MaterialConsumption, error) {
	return r.db.consumption.find(func(c *entity.MaterialConsumption) bool { return !c.RecordedAt.Before(since) }), nil
}

// QualityRepo controles de calidad.
type QualityRepo struct{ db *DB }

var _ repository.QualityCheckRepository = QualityRepo{}

func (r QualityRepo) Create(_ context.Context, c *entity.QualityCheck) error {
	r.db.quality.put(c)
	return nil
}
func (r QualityRepo) ListByBatch(_ context.Context, batchID string) ([]*entity.QualityCheck, error) {
	return r.db.quality.find(func(c *entity.QualityCheck) bool { return c.BatchID == batchID }), nil
}
func (r QualityRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.QualityCheck, error) {
	batches := map[string]bool{}
	for _, b := range r.db.Batches(orderID) {
		batches[b.ID] = true
	}
	return r.db.quality.find(func(c *entity.QualityCheck) bool { return batches[c.BatchID] }), nil
}
func (r QualityRepo) ListSince(_ context.Context, since time.Time) ([]*entity.QualityCheck, error) {
	return r.db.quality.find(func(c *entity.QualityCheck) bool { return !c.CheckTime.Before(since) }), nil
}

// MaintenanceRepo mantenimientos.
type MaintenanceRepo struct{ db *DB }

var _ repository.MaintenanceLogRepository = MaintenanceRepo{}

func (r MaintenanceRepo) Create(_ context.Context, m *entity.MaintenanceLog) error {
	r.db.maintenance.put(m)
	return nil
}
func (r MaintenanceRepo) GetByID(_ context.Context, id string) (*entity.MaintenanceLog, error) {
	return r.db.maintenance.get(id), nil
}
func (r MaintenanceRepo) Update(_ context.Context, m *entity.MaintenanceLog) error {
	r.db.maintenance.put(m)
	return nil
}
func (r MaintenanceRepo) ListByLine(_ context.Context, lineID string) ([]*entity.MaintenanceLog, error) {
	return r.db.maintenance.find(func(m *entity.MaintenanceLog) bool { return m.ProductionLineID == lineID }), nil
}
func (r MaintenanceRepo) ListOpen(_ context.Context) ([]*entity.MaintenanceLog, error) {
	out := r.db.maintenance.find(func(m *entity.MaintenanceLog) bool { return m.EndTime == nil })
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// ProductRepo productos.
type ProductRepo struct{ db *DB }

var _ repository.ProductRepository = ProductRepo{}

func (r ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.db.products.put(p)
	return nil
}
func (r ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.db.products.get(id), nil
}
func (r ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	found := r.db.products.find(func(p *entity.Product) bool { return p.SKU == sku })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}
func (r ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.db.products.put(p)
	return nil
}
func (r ProductRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Product, error) {
	out := r.db.products.find(func(p *entity.Product) bool { return status == "" || p.Status == status })
	return page(out, limit, offset), nil
}

// ComponentRepo líneas de receta.
type ComponentRepo struct{ db *DB }

var _ repository.ProductComponentRepository = ComponentRepo{}

func (r ComponentRepo) Create(_ context.Context, c *entity.ProductComponent) error {
	r.db.components.put(c)
	return nil
}
func (r ComponentRepo) GetByID(_ context.Context, id string) (*entity.ProductComponent, error) {
	return r.db.components.get(id), nil
}
func (r ComponentRepo) Delete(_ context.Context, id string) error {
	r.db.components.remove(id)
	return nil
}
func (r ComponentRepo) ListByProduct(_ context.Context, productID string) ([]*entity.ProductComponent, error) {
	return r.db.components.find(func(c *entity.ProductComponent) bool { return c.ProductID == productID }), nil
}
func (r ComponentRepo) ListParents(_ context.Context, productID string) ([]*entity.ProductComponent, error) {
	return r.db.components.find(func(c *entity.ProductComponent) bool { return c.ComponentProductID == productID }), nil
}
func (r ComponentRepo) List(_ context.Context) ([]*entity.ProductComponent, error) {
	return r.db.components.find(all[entity.ProductComponent]), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Qty atajo para decimales en fixtures.
func Qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }
