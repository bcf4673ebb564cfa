package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Fabrica-api/internal/application/analytics"
)

const reportQueueKey = "fabrica:reports:pending"

// ReportQueue implementa analytics.ReportQueue con una lista de Redis (LPUSH / BRPOP).
type ReportQueue struct {
	client goredis.Cmdable
	key    string
}

var _ analytics.ReportQueue = (*ReportQueue)(nil)

// NewReportQueue construye la cola sobre el cliente dado.
func NewReportQueue(client goredis.Cmdable) *ReportQueue {
	return &ReportQueue{client: client, key: reportQueueKey}
}

// Enqueue agrega el reporte al final de la cola.
func (q *ReportQueue) Enqueue(ctx context.Context, reportID string) error {
	if err := q.client.LPush(ctx, q.key, reportID).Err(); err != nil {
		return fmt.Errorf("redis lpush: %w", err)
	}
	return nil
}

// Dequeue bloquea hasta timeout; "" si no llegó nada.
func (q *ReportQueue) Dequeue(ctx context.Context, timeout time.Duration) (string, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis brpop: %w", err)
	}
	// BRPOP devuelve [clave, valor]
	if len(res) < 2 {
		return "", nil
	}
	return res[1], nil
}

// MemoryQueue cola en proceso para cuando Redis no está configurado.
type MemoryQueue struct {
	mu    sync.Mutex
	items []string
	ready chan struct{}
}

var _ analytics.ReportQueue = (*MemoryQueue)(nil)

// NewMemoryQueue construye la cola en memoria.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{ready: make(chan struct{}, 1)}
}

// Enqueue agrega el reporte y despierta al consumidor.
func (q *MemoryQueue) Enqueue(_ context.Context, reportID string) error {
	q.mu.Lock()
	q.items = append(q.items, reportID)
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// Dequeue espera hasta timeout o cancelación de ctx.
func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (string, error) {
	if id, ok := q.pop(); ok {
		return id, nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", nil
	case <-q.ready:
		id, _ := q.pop()
		return id, nil
	}
}

func (q *MemoryQueue) pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", false
	}
	id := q.items[0]
	q.items = q.items[1:]
	return id, true
}
