package inventorytest

import (
	"context"
	"sync"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
)

// Metrics registra las observaciones de movimientos por tipo y resultado.
type Metrics struct {
	mu     sync.Mutex
	counts map[[2]string]int
}

// Count número de observaciones para (tipo, resultado).
func (m *Metrics) Count(movementType, result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[[2]string{movementType, result}]
}

func (m *Metrics) ObserveMovement(movementType, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[[2]string]int{}
	}
	m.counts[[2]string{movementType, result}]++
}

// Publisher guarda los eventos publicados; Err simula un broker caído.
type Publisher struct {
	mu     sync.Mutex
	Err    error
	events []inventory.StockMovedEvent
}

func (p *Publisher) PublishStockMoved(_ context.Context, ev inventory.StockMovedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, ev)
	return nil
}

// Events copia de los eventos publicados.
func (p *Publisher) Events() []inventory.StockMovedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]inventory.StockMovedEvent(nil), p.events...)
}
