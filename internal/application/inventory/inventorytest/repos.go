package inventorytest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

// StockRepo implementa repository.StockRepository sobre Store.
type StockRepo struct{ s *Store }

var _ repository.StockRepository = StockRepo{}

func (r StockRepo) Get(_ context.Context, key entity.StockKey) (*entity.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("stock.Get"); err != nil {
		return nil, err
	}
	if st, ok := r.s.findStock(key); ok {
		return &st, nil
	}
	return nil, nil
}

func (r StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.Stock, error) {
	return r.Get(ctx, key)
}

func (r StockRepo) Create(_ context.Context, st *entity.Stock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("stock.Create"); err != nil {
		return err
	}
	if _, ok := r.s.findStock(st.Key()); ok {
		return fmt.Errorf("%w: stock duplicado", domain.ErrDuplicate)
	}
	r.s.stock[st.ID] = *st
	return nil
}

func (r StockRepo) UpdateQuantity(_ context.Context, id string, quantity decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("stock.UpdateQuantity"); err != nil {
		return err
	}
	st, ok := r.s.stock[id]
	if !ok {
		return notFound("stock", id)
	}
	st.Quantity = quantity
	st.UpdatedAt = time.Now()
	r.s.stock[id] = st
	return nil
}

func (r StockRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("stock.Delete"); err != nil {
		return err
	}
	delete(r.s.stock, id)
	return nil
}

func (r StockRepo) SumVolumeByLocation(_ context.Context, locationID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, st := range r.s.stock {
		if st.LocationID != locationID {
			continue
		}
		m := r.s.materials[st.MaterialID]
		total = total.Add(st.Quantity.Mul(m.VolumePerUnit))
	}
	return total, nil
}

func (r StockRepo) SumByMaterial(_ context.Context, materialID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, st := range r.s.stock {
		if st.MaterialID == materialID {
			total = total.Add(st.Quantity)
		}
	}
	return total, nil
}

func (r StockRepo) List(_ context.Context, f repository.StockFilter, limit, offset int) ([]*entity.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Stock
	for _, st := range r.s.stock {
		if f.MaterialID != "" && st.MaterialID != f.MaterialID {
			continue
		}
		if f.LocationID != "" && st.LocationID != f.LocationID {
			continue
		}
		if f.BatchNumber != "" && st.BatchNumber != f.BatchNumber {
			continue
		}
		if f.WarehouseID != "" && r.s.locations[st.LocationID].WarehouseID != f.WarehouseID {
			continue
		}
		st := st
		out = append(out, &st)
	}
	sortByCreated(out, func(s *entity.Stock) time.Time { return s.CreatedAt }, func(s *entity.Stock) string { return s.ID })
	return page(out, limit, offset), nil
}

func (r StockRepo) ListExpiringBefore(_ context.Context, before time.Time) ([]*entity.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Stock
	for _, st := range r.s.stock {
		if st.ExpiryDate != nil && st.ExpiryDate.Before(before) {
			st := st
			out = append(out, &st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiryDate.Before(*out[j].ExpiryDate) })
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

// MovementRepo implementa repository.StockMovementRepository sobre Store.
type MovementRepo struct{ s *Store }

var _ repository.StockMovementRepository = MovementRepo{}

func (r MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("movements.Create"); err != nil {
		return err
	}
	for _, x := range r.s.movements {
		if x.ReferenceNumber == m.ReferenceNumber {
			return fmt.Errorf("%w: referencia %s", domain.ErrDuplicate, m.ReferenceNumber)
		}
	}
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r MovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, nil
}

func (r MovementRepo) ExistsReference(_ context.Context, reference string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.movements {
		if m.ReferenceNumber == reference {
			return true, nil
		}
	}
	return false, nil
}

func (r MovementRepo) List(_ context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if f.MaterialID != "" && m.MaterialID != f.MaterialID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, &m)
	}
	return page(out, limit, offset), nil
}

func (r MovementRepo) inRange(from, to time.Time) []entity.StockMovement {
	var out []entity.StockMovement
	for _, m := range r.s.movements {
		if !m.CreatedAt.Before(from) && !m.CreatedAt.After(to) {
			out = append(out, m)
		}
	}
	return out
}

func (r MovementRepo) SummaryByType(_ context.Context, from, to time.Time) ([]entity.MovementTypeSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byType := map[string]*entity.MovementTypeSummary{}
	for _, m := range r.inRange(from, to) {
		sum, ok := byType[m.Type]
		if !ok {
			sum = &entity.MovementTypeSummary{Type: m.Type}
			byType[m.Type] = sum
		}
		sum.Count++
		sum.TotalQuantity = sum.TotalQuantity.Add(m.Quantity.Abs())
	}
	out := make([]entity.MovementTypeSummary, 0, len(byType))
	for _, v := range byType {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func (r MovementRepo) TopMaterials(_ context.Context, from, to time.Time, limit int) ([]entity.MaterialMovementCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int{}
	for _, m := range r.inRange(from, to) {
		counts[m.MaterialID]++
	}
	out := make([]entity.MaterialMovementCount, 0, len(counts))
	for id, n := range counts {
		mat := r.s.materials[id]
		out = append(out, entity.MaterialMovementCount{MaterialID: id, MaterialCode: mat.Code, MaterialName: mat.Name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].MaterialID < out[j].MaterialID
	})
	return page(out, limit, 0), nil
}

func (r MovementRepo) IssuedQuantity(_ context.Context, materialID string, from, to time.Time) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, m := range r.inRange(from, to) {
		if m.MaterialID == materialID && m.Type == entity.MovementIssue {
			total = total.Add(m.Quantity)
		}
	}
	return total, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Ubicaciones y bodegas
// ──────────────────────────────────────────────────────────────────────────────

// LocationRepo implementa repository.StorageLocationRepository sobre Store.
type LocationRepo struct{ s *Store }

var _ repository.StorageLocationRepository = LocationRepo{}

func (r LocationRepo) Create(_ context.Context, l *entity.StorageLocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.locations {
		if x.WarehouseID == l.WarehouseID && strings.EqualFold(x.Name, l.Name) {
			return fmt.Errorf("%w: ubicación %s", domain.ErrDuplicate, l.Name)
		}
	}
	r.s.locations[l.ID] = *l
	return nil
}

func (r LocationRepo) GetByID(_ context.Context, id string) (*entity.StorageLocation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if l, ok := r.s.locations[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r LocationRepo) GetForUpdate(ctx context.Context, id string) (*entity.StorageLocation, error) {
	return r.GetByID(ctx, id)
}

func (r LocationRepo) Update(_ context.Context, l *entity.StorageLocation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.locations[l.ID]
	if !ok {
		return notFound("ubicación", l.ID)
	}
	upd := *l
	upd.CurrentVolume = cur.CurrentVolume
	r.s.locations[l.ID] = upd
	return nil
}

func (r LocationRepo) UpdateVolume(_ context.Context, id string, volume decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("locations.UpdateVolume"); err != nil {
		return err
	}
	l, ok := r.s.locations[id]
	if !ok {
		return notFound("ubicación", id)
	}
	l.CurrentVolume = volume
	r.s.locations[id] = l
	return nil
}

func (r LocationRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.StorageLocation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.StorageLocation
	for _, l := range r.s.locations {
		if l.WarehouseID == warehouseID {
			l := l
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// WarehouseRepo implementa repository.WarehouseRepository sobre Store.
type WarehouseRepo struct{ s *Store }

var _ repository.WarehouseRepository = WarehouseRepo{}

func (r WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.warehouses {
		if x.Code == w.Code {
			return fmt.Errorf("%w: bodega %s", domain.ErrDuplicate, w.Code)
		}
	}
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if w, ok := r.s.warehouses[id]; ok {
		return &w, nil
	}
	return nil, nil
}

func (r WarehouseRepo) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, w := range r.s.warehouses {
		if w.Code == code {
			return &w, nil
		}
	}
	return nil, nil
}

func (r WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[w.ID]; !ok {
		return notFound("bodega", w.ID)
	}
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Warehouse, 0, len(r.s.warehouses))
	for _, w := range r.s.warehouses {
		w := w
		out = append(out, &w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Materiales
// ──────────────────────────────────────────────────────────────────────────────

// MaterialRepo implementa repository.MaterialRepository sobre Store.
type MaterialRepo struct{ s *Store }

var _ repository.MaterialRepository = MaterialRepo{}

func (r MaterialRepo) Create(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.materials {
		if x.Code == m.Code {
			return fmt.Errorf("%w: material %s", domain.ErrDuplicate, m.Code)
		}
	}
	r.s.materials[m.ID] = *m
	return nil
}

func (r MaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if m, ok := r.s.materials[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r MaterialRepo) GetByCode(_ context.Context, code string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.materials {
		if m.Code == code {
			return &m, nil
		}
	}
	return nil, nil
}

func (r MaterialRepo) Update(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.materials[m.ID]; !ok {
		return notFound("material", m.ID)
	}
	r.s.materials[m.ID] = *m
	return nil
}

func (r MaterialRepo) UpdatePrice(_ context.Context, id string, unitPrice decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("materials.UpdatePrice"); err != nil {
		return err
	}
	m, ok := r.s.materials[id]
	if !ok {
		return notFound("material", id)
	}
	m.UnitPrice = unitPrice
	r.s.materials[id] = m
	return nil
}

func (r MaterialRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Material
	for _, m := range r.s.materials {
		if activeOnly && !m.Active {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

func (r MaterialRepo) ListStockLevels(_ context.Context, belowReorder bool) ([]entity.MaterialStockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.MaterialStockLevel
	for _, m := range r.s.materials {
		if !m.Active {
			continue
		}
		total := decimal.Zero
		for _, st := range r.s.stock {
			if st.MaterialID == m.ID {
				total = total.Add(st.Quantity)
			}
		}
		if belowReorder && total.GreaterThan(m.ReorderPoint) {
			continue
		}
		out = append(out, entity.MaterialStockLevel{Material: m, CurrentStock: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Material.Code < out[j].Material.Code })
	return out, nil
}
