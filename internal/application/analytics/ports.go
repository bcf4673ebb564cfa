package analytics

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// TxRepos repositorios de KPIs y alertas atados a una misma transacción.
type TxRepos struct {
	KPIs   repository.KPIRepository
	Alerts repository.AlertRepository
}

// TxRunner ejecuta fn en una transacción; si fn devuelve error se revierte todo.
type TxRunner interface {
	RunAnalytics(ctx context.Context, fn func(repos TxRepos) error) error
}

// AlertNotifier avisa de una alerta abierta (e-mail).
type AlertNotifier interface {
	NotifyAlert(ctx context.Context, alert *entity.Alert, kpi *entity.KPI) error
}

// ReportQueue cola de reportes pendientes de generar.
type ReportQueue interface {
	Enqueue(ctx context.Context, reportID string) error
	// Dequeue espera hasta timeout; devuelve "" si no llegó nada.
	Dequeue(ctx context.Context, timeout time.Duration) (string, error)
}

// ReportDocument contenido tabular de un reporte, independiente del formato.
type ReportDocument struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Headers     []string
	Rows        [][]string
	Summary     []SummaryItem
}

// SummaryItem par etiqueta/valor al pie del reporte.
type SummaryItem struct {
	Label string
	Value string
}

// ReportRenderer escribe un ReportDocument en un formato concreto.
type ReportRenderer interface {
	Render(w io.Writer, doc *ReportDocument) error
	Extension() string
}
