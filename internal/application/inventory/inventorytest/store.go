// Package inventorytest implementaciones en memoria de los puertos de inventario para tests.
// Store.Run serializa las transacciones y restaura el estado previo si la función falla.
package inventorytest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	warehouses map[string]entity.Warehouse
	locations  map[string]entity.StorageLocation
	materials  map[string]entity.Material
	stock      map[string]entity.Stock
	movements  []entity.StockMovement

	failures map[string]error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		warehouses: map[string]entity.Warehouse{},
		locations:  map[string]entity.StorageLocation{},
		materials:  map[string]entity.Material{},
		stock:      map[string]entity.Stock{},
		failures:   map[string]error{},
	}
}

// FailOn hace que la operación indicada (ej. "movements.Create") devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

// Repos devuelve los repositorios atados al store (fuera de transacción).
func (s *Store) Repos() inventory.TxRepos {
	return inventory.TxRepos{
		Stock:     StockRepo{s},
		Movements: MovementRepo{s},
		Locations: LocationRepo{s},
		Materials: MaterialRepo{s},
	}
}

// Warehouses repositorio de bodegas.
func (s *Store) Warehouses() repository.WarehouseRepository { return WarehouseRepo{s} }

// Run implementa inventory.TxRunner con rollback por snapshot.
func (s *Store) Run(_ context.Context, fn func(repos inventory.TxRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s.Repos()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	warehouses map[string]entity.Warehouse
	locations  map[string]entity.StorageLocation
	materials  map[string]entity.Material
	stock      map[string]entity.Stock
	movements  []entity.StockMovement
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		warehouses: make(map[string]entity.Warehouse, len(s.warehouses)),
		locations:  make(map[string]entity.StorageLocation, len(s.locations)),
		materials:  make(map[string]entity.Material, len(s.materials)),
		stock:      make(map[string]entity.Stock, len(s.stock)),
		movements:  append([]entity.StockMovement(nil), s.movements...),
	}
	for k, v := range s.warehouses {
		snap.warehouses[k] = v
	}
	for k, v := range s.locations {
		snap.locations[k] = v
	}
	for k, v := range s.materials {
		snap.materials[k] = v
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses = snap.warehouses
	s.locations = snap.locations
	s.materials = snap.materials
	s.stock = snap.stock
	s.movements = snap.movements
}

// ── Semillas ────────────────────────────────────────────────────────────────

// AddWarehouse registra una bodega.
func (s *Store) AddWarehouse(w entity.Warehouse) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[w.ID] = w
	return s
}

// AddLocation registra una ubicación.
func (s *Store) AddLocation(l entity.StorageLocation) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
	return s
}

// AddMaterial registra un material.
func (s *Store) AddMaterial(m entity.Material) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials[m.ID] = m
	return s
}

// AddStock registra un registro de stock (sin recalcular volúmenes).
func (s *Store) AddStock(st entity.Stock) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == "" {
		st.ID = fmt.Sprintf("stock-%d", len(s.stock)+1)
	}
	s.stock[st.ID] = st
	return s
}

// ── Lecturas directas para aserciones ───────────────────────────────────────

// Location devuelve una copia de la ubicación.
func (s *Store) Location(id string) entity.StorageLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locations[id]
}

// Material devuelve una copia del material.
func (s *Store) Material(id string) entity.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.materials[id]
}

// Quantity cantidad en el libro para la llave (cero si no existe).
func (s *Store) Quantity(key entity.StockKey) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.findStock(key); ok {
		return st.Quantity
	}
	return decimal.Zero
}

// HasStock indica si existe el registro para la llave.
func (s *Store) HasStock(key entity.StockKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.findStock(key)
	return ok
}

// TotalQuantity suma del material en todas las ubicaciones.
func (s *Store) TotalQuantity(materialID string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, st := range s.stock {
		if st.MaterialID == materialID {
			total = total.Add(st.Quantity)
		}
	}
	return total
}

// Movements copia de los movimientos registrados, en orden de inserción.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.StockMovement(nil), s.movements...)
}

func (s *Store) findStock(key entity.StockKey) (entity.Stock, bool) {
	for _, st := range s.stock {
		if st.Key() == key {
			return st, true
		}
	}
	return entity.Stock{}, false
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

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, what, id)
}

func sortByCreated[T any](items []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return id(items[i]) < id(items[j])
	})
}
