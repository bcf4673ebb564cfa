package analytics_test

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/analytics"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type kpiRepo struct {
	mu      sync.Mutex
	kpis    map[string]entity.KPI
	history []entity.KPIHistory
}

func newKPIRepo() *kpiRepo { return &kpiRepo{kpis: map[string]entity.KPI{}} }

var _ repository.KPIRepository = (*kpiRepo)(nil)

func (r *kpiRepo) Create(_ context.Context, k *entity.KPI) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kpis[k.ID] = *k
	return nil
}

func (r *kpiRepo) GetByID(_ context.Context, id string) (*entity.KPI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, ok := r.kpis[id]; ok {
		return &k, nil
	}
	return nil, nil
}

func (r *kpiRepo) UpdateValue(_ context.Context, id string, value float64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := r.kpis[id]
	k.CurrentValue = value
	k.UpdatedAt = at
	r.kpis[id] = k
	return nil
}

func (r *kpiRepo) List(_ context.Context, category string) ([]*entity.KPI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.KPI{}
	for _, k := range r.kpis {
		if category == "" || k.Category == category {
			k := k
			out = append(out, &k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *kpiRepo) AddHistory(_ context.Context, h *entity.KPIHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, *h)
	return nil
}

func (r *kpiRepo) History(_ context.Context, kpiID string, since time.Time) ([]*entity.KPIHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.KPIHistory{}
	for _, h := range r.history {
		if h.KPIID == kpiID && !h.Timestamp.Before(since) {
			h := h
			out = append(out, &h)
		}
	}
	return out, nil
}

type alertRepo struct {
	mu        sync.Mutex
	alerts    []entity.Alert
	createErr error
}

var _ repository.AlertRepository = (*alertRepo)(nil)

func (r *alertRepo) Create(_ context.Context, a *entity.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.alerts = append(r.alerts, *a)
	return nil
}

func (r *alertRepo) GetByID(_ context.Context, id string) (*entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *alertRepo) Update(_ context.Context, a *entity.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == a.ID {
			r.alerts[i] = *a
		}
	}
	return nil
}

func (r *alertRepo) List(_ context.Context, f repository.AlertFilter, limit, _ int) ([]*entity.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Alert{}
	for _, a := range r.alerts {
		if (f.KPIID == "" || a.KPIID == f.KPIID) && (f.Status == "" || a.Status == f.Status) &&
			(f.Severity == "" || a.Severity == f.Severity) {
			a := a
			out = append(out, &a)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// txRunner copia el estado de KPIs y alertas y lo restaura si fn falla.
type txRunner struct {
	mu     sync.Mutex
	kpis   *kpiRepo
	alerts *alertRepo
}

var _ analytics.TxRunner = (*txRunner)(nil)

func (t *txRunner) RunAnalytics(_ context.Context, fn func(repos analytics.TxRepos) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.kpis.mu.Lock()
	kpis, history := maps.Clone(t.kpis.kpis), slices.Clone(t.kpis.history)
	t.kpis.mu.Unlock()
	t.alerts.mu.Lock()
	alerts := slices.Clone(t.alerts.alerts)
	t.alerts.mu.Unlock()

	if err := fn(analytics.TxRepos{KPIs: t.kpis, Alerts: t.alerts}); err != nil {
		t.kpis.mu.Lock()
		t.kpis.kpis, t.kpis.history = kpis, history
		t.kpis.mu.Unlock()
		t.alerts.mu.Lock()
		t.alerts.alerts = alerts
		t.alerts.mu.Unlock()
		return err
	}
	return nil
}

type notifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (n *notifier) NotifyAlert(context.Context, *entity.Alert, *entity.KPI) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.err
}

type reportRepo struct {
	mu      sync.Mutex
	reports map[string]entity.Report
}

func newReportRepo() *reportRepo { return &reportRepo{reports: map[string]entity.Report{}} }

var _ repository.ReportRepository = (*reportRepo)(nil)

func (r *reportRepo) Create(_ context.Context, rep *entity.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[rep.ID] = *rep
	return nil
}

func (r *reportRepo) GetByID(_ context.Context, id string) (*entity.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rep, ok := r.reports[id]; ok {
		return &rep, nil
	}
	return nil, nil
}

func (r *reportRepo) Update(ctx context.Context, rep *entity.Report) error { return r.Create(ctx, rep) }

func (r *reportRepo) FailProcessing(_ context.Context, reason string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, rep := range r.reports {
		if rep.Status == entity.ReportStatusProcessing {
			rep.Status = entity.ReportStatusFailed
			rep.Error = reason
			r.reports[id] = rep
			n++
		}
	}
	return n, nil
}

func (r *reportRepo) List(_ context.Context, _, _ int) ([]*entity.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Report{}
	for _, rep := range r.reports {
		rep := rep
		out = append(out, &rep)
	}
	return out, nil
}

type queue struct {
	mu  sync.Mutex
	ids []string
	err error
}

var _ analytics.ReportQueue = (*queue)(nil)

func (q *queue) Enqueue(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.ids = append(q.ids, id)
	return nil
}

func (q *queue) Dequeue(_ context.Context, _ time.Duration) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ids) == 0 {
		return "", nil
	}
	id := q.ids[0]
	q.ids = q.ids[1:]
	return id, nil
}

// textRenderer escribe el documento como texto plano separado por "|".
type textRenderer struct{ fail bool }

func (r textRenderer) Extension() string { return "txt" }

func (r textRenderer) Render(w io.Writer, doc *analytics.ReportDocument) error {
	if r.fail {
		return errors.New("plantilla rota")
	}
	lines := []string{doc.Title, strings.Join(doc.Headers, "|")}
	for _, row := range doc.Rows {
		lines = append(lines, strings.Join(row, "|"))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

type dashRepo struct {
	value    decimal.Decimal
	low      int
	alerts   int
	moves    int
	since    time.Time
	valueErr error
}

func (d *dashRepo) StockValue(context.Context) (decimal.Decimal, error) { return d.value, d.valueErr }
func (d *dashRepo) CountLowStockMaterials(context.Context) (int, error) { return d.low, nil }
func (d *dashRepo) CountActiveAlerts(context.Context) (int, error)      { return d.alerts, nil }
func (d *dashRepo) CountMovementsSince(_ context.Context, since time.Time) (int, error) {
	d.since = since
	return d.moves, nil
}

// statusCounter responde CountByStatus para órdenes de producción y pedidos.
type statusCounter struct {
	counts map[string]int
}

func (c statusCounter) CountByStatus(_ context.Context, statuses ...string) (int, error) {
	n := 0
	for _, s := range statuses {
		n += c.counts[s]
	}
	return n, nil
}

type prodOrders struct {
	repository.ProductionOrderRepository
	statusCounter
}

func (p prodOrders) CountByStatus(ctx context.Context, statuses ...string) (int, error) {
	return p.statusCounter.CountByStatus(ctx, statuses...)
}

type custOrders struct {
	repository.OrderRepository
	statusCounter
}

func (o custOrders) CountByStatus(ctx context.Context, statuses ...string) (int, error) {
	return o.statusCounter.CountByStatus(ctx, statuses...)
}
