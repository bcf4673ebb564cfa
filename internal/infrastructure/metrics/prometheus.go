// Package metrics expone contadores e histogramas Prometheus del servicio.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
)

const namespace = "fabrica"

// Metrics agrupa los colectores registrados.
type Metrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	movements *prometheus.CounterVec
}

var _ inventory.MovementMetrics = (*Metrics)(nil)

// New crea los colectores y los registra en reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Movimientos de stock procesados por tipo y resultado.",
		}, []string{"type", "result"}),
	}
	reg.MustRegister(m.requests, m.latency, m.movements)
	return m
}

// ObserveRequest registra una petición HTTP.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveMovement registra el resultado de un movimiento de stock.
func (m *Metrics) ObserveMovement(movementType, result string) {
	m.movements.WithLabelValues(movementType, result).Inc()
}
