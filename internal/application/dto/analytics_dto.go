package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateKPIRequest entrada para crear un KPI.
type CreateKPIRequest struct {
	Name              string  `json:"name" validate:"required,max=100"`
	Description       string  `json:"description"`
	Category          string  `json:"category" validate:"required,oneof=efficiency quality productivity safety cost"`
	Unit              string  `json:"unit" validate:"required"`
	TargetValue       float64 `json:"target_value"`
	WarningThreshold  float64 `json:"warning_threshold"`
	CriticalThreshold float64 `json:"critical_threshold"`
	TrendPeriodDays   int     `json:"trend_period_days" validate:"omitempty,min=1"`
	UpdateFrequency   string  `json:"update_frequency" validate:"omitempty,oneof=hourly daily weekly monthly"`
}

// KPIResponse salida de un KPI con su estado y tendencia.
type KPIResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	Unit              string    `json:"unit"`
	TargetValue       float64   `json:"target_value"`
	CurrentValue      float64   `json:"current_value"`
	WarningThreshold  float64   `json:"warning_threshold"`
	CriticalThreshold float64   `json:"critical_threshold"`
	TrendPeriodDays   int       `json:"trend_period_days"`
	UpdateFrequency   string    `json:"update_frequency"`
	Status            string    `json:"status"`
	Completion        *float64  `json:"completion,omitempty"`
	Trend             string    `json:"trend,omitempty"`
	TrendChange       float64   `json:"trend_change"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RecordKPIValueRequest nuevo valor de un KPI.
type RecordKPIValueRequest struct {
	Value float64 `json:"value"`
	Note  string  `json:"note"`
}

// KPIHistoryDTO punto del historial.
type KPIHistoryDTO struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// RecordKPIValueResponse KPI actualizado y alerta abierta, si la hubo.
type RecordKPIValueResponse struct {
	KPI   KPIResponse    `json:"kpi"`
	Alert *AlertResponse `json:"alert,omitempty"`
}

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID             string     `json:"id"`
	KPIID          string     `json:"kpi_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Severity       string     `json:"severity"`
	Status         string     `json:"status"`
	ThresholdValue float64    `json:"threshold_value"`
	CurrentValue   float64    `json:"current_value"`
	CreatedAt      time.Time  `json:"created_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy string     `json:"acknowledged_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolutionNote string     `json:"resolution_note,omitempty"`
}

// AlertListResponse listado paginado de alertas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ResolveAlertRequest cierre de una alerta.
type ResolveAlertRequest struct {
	ResolutionNote string `json:"resolution_note"`
}

// DashboardResponse resumen operativo de la planta.
type DashboardResponse struct {
	StockValue           decimal.Decimal `json:"stock_value"`
	LowStockMaterials    int             `json:"low_stock_materials"`
	OpenProductionOrders int             `json:"open_production_orders"`
	PendingOrders        int             `json:"pending_orders"`
	ActiveAlerts         int             `json:"active_alerts"`
	MovementsLast7Days   int             `json:"movements_last_7_days"`
	DateLabel            string          `json:"date_label"`
	GeneratedAt          time.Time       `json:"generated_at"`
}

// CreateReportRequest solicitud de un reporte.
type CreateReportRequest struct {
	Name       string     `json:"name"`
	ReportType string     `json:"report_type" validate:"required,oneof=kpi_summary alert_summary inventory_summary movement_analysis"`
	Format     string     `json:"format" validate:"required,oneof=pdf excel csv"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// ReportResponse salida de un reporte.
type ReportResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ReportType  string     `json:"report_type"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ReportListResponse listado paginado de reportes.
type ReportListResponse struct {
	Items []ReportResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
