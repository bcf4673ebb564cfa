package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveMovement(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveMovement("receipt", "ok")
	m.ObserveMovement("receipt", "ok")
	m.ObserveMovement("issue", "insufficient_stock")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.movements.WithLabelValues("receipt", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.movements.WithLabelValues("issue", "insufficient_stock")))
}

func TestObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("GET", "/api/v1/materials", 200, 15*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/materials", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
}
