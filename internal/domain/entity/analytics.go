package entity

import "time"

// Categorías de KPI.
const (
	KPICategoryEfficiency   = "efficiency"
	KPICategoryQuality      = "quality"
	KPICategoryProductivity = "productivity"
	KPICategorySafety       = "safety"
	KPICategoryCost         = "cost"
)

// Severidades y estados de alerta.
const (
	AlertSeverityWarning  = "warning"
	AlertSeverityCritical = "critical"

	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
)

// Tipos, formatos y estados de reporte.
const (
	ReportKPISummary       = "kpi_summary"
	ReportAlertSummary     = "alert_summary"
	ReportInventorySummary = "inventory_summary"
	ReportMovementAnalysis = "movement_analysis"
	ReportFormatPDF        = "pdf"
	ReportFormatExcel      = "excel"
	ReportFormatCSV        = "csv"
	ReportStatusPending    = "pending"
	ReportStatusProcessing = "processing"
	ReportStatusCompleted  = "completed"
	ReportStatusFailed     = "failed"
)

// KPI indicador con meta y umbrales de alerta.
type KPI struct {
	ID                string
	Name              string
	Description       string
	Category          string
	Unit              string
	TargetValue       float64
	CurrentValue      float64
	WarningThreshold  float64
	CriticalThreshold float64
	TrendPeriodDays   int
	UpdateFrequency   string // hourly, daily, weekly, monthly
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// KPIHistory valor histórico de un KPI.
type KPIHistory struct {
	ID        string
	KPIID     string
	Value     float64
	Timestamp time.Time
	Note      string
}

// Alert alerta generada al cruzar un umbral de KPI.
type Alert struct {
	ID             string
	KPIID          string
	Title          string
	Description    string
	Severity       string
	Status         string
	ThresholdValue float64
	CurrentValue   float64
	CreatedAt      time.Time
	AcknowledgedAt *time.Time
	ResolvedAt     *time.Time
	AcknowledgedBy string
	ResolutionNote string
}

// Report reporte generado en segundo plano.
type Report struct {
	ID          string
	Name        string
	ReportType  string
	Format      string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
	FilePath    string
	Error       string
	CreatedBy   string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// AuditLog registro de auditoría de una petición HTTP.
type AuditLog struct {
	ID         string
	UserID     string
	Action     string // VIEW, CREATE, UPDATE, DELETE
	Method     string
	Path       string
	StatusCode int
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}
