package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductionLineRequest entrada para crear una línea de producción.
type CreateProductionLineRequest struct {
	Name            string          `json:"name" validate:"required,max=100"`
	Description     string          `json:"description"`
	CapacityPerHour decimal.Decimal `json:"capacity_per_hour" validate:"gte=0"`
}

// UpdateLineStatusRequest cambio de estado de una línea.
type UpdateLineStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active maintenance inactive"`
}

// ProductionLineResponse salida de una línea.
type ProductionLineResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	CapacityPerHour     decimal.Decimal `json:"capacity_per_hour"`
	Status              string          `json:"status"`
	MaintenanceSchedule *time.Time      `json:"maintenance_schedule,omitempty"`
	LastMaintenance     *time.Time      `json:"last_maintenance,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// CreateProductionOrderRequest entrada para crear una orden de producción (queda en draft).
type CreateProductionOrderRequest struct {
	OrderNumber      string          `json:"order_number,omitempty"`
	ProductID        string          `json:"product_id" validate:"required"`
	Quantity         decimal.Decimal `json:"quantity" validate:"gt=0"`
	ProductionLineID string          `json:"production_line_id,omitempty"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	Priority         int             `json:"priority" validate:"min=1,max=5"`
	AssignedTo       string          `json:"assigned_to,omitempty"`
	Notes            string          `json:"notes"`
}

// UpdateStatusRequest cambio de estado genérico (órdenes de producción y pedidos).
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ProductionOrderResponse salida de una orden de producción.
type ProductionOrderResponse struct {
	ID               string          `json:"id"`
	OrderNumber      string          `json:"order_number"`
	ProductID        string          `json:"product_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	ProductionLineID string          `json:"production_line_id,omitempty"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	Status           string          `json:"status"`
	Priority         int             `json:"priority"`
	AssignedTo       string          `json:"assigned_to,omitempty"`
	Notes            string          `json:"notes"`
	CreatedBy        string          `json:"created_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProductionOrderListResponse listado paginado de órdenes.
type ProductionOrderListResponse struct {
	Items []ProductionOrderResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// RequirementLineDTO requerimiento de un material con su disponibilidad.
type RequirementLineDTO struct {
	MaterialID       string          `json:"material_id"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
	Available        decimal.Decimal `json:"available"`
	Shortage         decimal.Decimal `json:"shortage"`
}

// RequirementsResponse requerimientos de material de una orden.
type RequirementsResponse struct {
	OrderID      string               `json:"order_id"`
	ProductID    string               `json:"product_id"`
	Quantity     decimal.Decimal      `json:"quantity"`
	Requirements []RequirementLineDTO `json:"requirements"`
	CanStart     bool                 `json:"can_start"`
}

// StartProductionResponse orden iniciada y su primer lote.
type StartProductionResponse struct {
	Order ProductionOrderResponse `json:"order"`
	Batch BatchResponse           `json:"batch"`
}

// BatchResponse salida de un lote de producción.
type BatchResponse struct {
	ID                 string          `json:"id"`
	BatchNumber        string          `json:"batch_number"`
	ProductionOrderID  string          `json:"production_order_id"`
	StartTime          time.Time       `json:"start_time"`
	EndTime            *time.Time      `json:"end_time,omitempty"`
	QuantityProduced   decimal.Decimal `json:"quantity_produced"`
	DefectCount        int             `json:"defect_count"`
	QualityCheckPassed bool            `json:"quality_check_passed"`
	QualityNotes       string          `json:"quality_notes"`
	OperatorID         string          `json:"operator_id,omitempty"`
}

// RecordProductionRequest producción parcial de un lote.
type RecordProductionRequest struct {
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
	DefectCount int             `json:"defect_count" validate:"gte=0"`
}

// CompleteBatchResponse lote cerrado y estado resultante de la orden.
type CompleteBatchResponse struct {
	Batch          BatchResponse `json:"batch"`
	OrderStatus    string        `json:"order_status"`
	OrderCompleted bool          `json:"order_completed"`
}

// RecordConsumptionRequest consumo de material de un lote.
type RecordConsumptionRequest struct {
	MaterialID   string          `json:"material_id" validate:"required"`
	QuantityUsed decimal.Decimal `json:"quantity_used" validate:"gte=0"`
	Wastage      decimal.Decimal `json:"wastage" validate:"gte=0"`
	Notes        string          `json:"notes"`
}

// ConsumptionResponse salida de un consumo.
type ConsumptionResponse struct {
	ID           string          `json:"id"`
	BatchID      string          `json:"batch_id"`
	MaterialID   string          `json:"material_id"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
	Wastage      decimal.Decimal `json:"wastage"`
	RecordedBy   string          `json:"recorded_by,omitempty"`
	Notes        string          `json:"notes"`
	RecordedAt   time.Time       `json:"recorded_at"`
}

// MaterialEfficiencyDTO eficiencia de un material dentro de un lote.
type MaterialEfficiencyDTO struct {
	MaterialID        string          `json:"material_id"`
	QuantityUsed      decimal.Decimal `json:"quantity_used"`
	Wastage           decimal.Decimal `json:"wastage"`
	WastagePercentage decimal.Decimal `json:"wastage_percentage"`
}

// BatchEfficiencyResponse reporte de eficiencia de un lote.
type BatchEfficiencyResponse struct {
	BatchID           string                  `json:"batch_id"`
	Materials         []MaterialEfficiencyDTO `json:"materials"`
	TotalUsed         decimal.Decimal         `json:"total_used"`
	TotalWastage      decimal.Decimal         `json:"total_wastage"`
	WastagePercentage decimal.Decimal         `json:"wastage_percentage"`
}

// CreateQualityCheckRequest control de calidad de un lote.
type CreateQualityCheckRequest struct {
	Parameter     string `json:"parameter" validate:"required"`
	ExpectedValue string `json:"expected_value"`
	ActualValue   string `json:"actual_value"`
	Result        string `json:"result" validate:"required,oneof=passed failed pending"`
	Notes         string `json:"notes"`
}

// QualityCheckResponse salida de un control de calidad.
type QualityCheckResponse struct {
	ID            string    `json:"id"`
	BatchID       string    `json:"batch_id"`
	CheckTime     time.Time `json:"check_time"`
	Parameter     string    `json:"parameter"`
	ExpectedValue string    `json:"expected_value"`
	ActualValue   string    `json:"actual_value"`
	Result        string    `json:"result"`
	CheckedBy     string    `json:"checked_by,omitempty"`
	Notes         string    `json:"notes"`
	BatchPassed   bool      `json:"batch_passed"`
}

// QualityRateResponse tasa de aprobación de los controles de una orden.
type QualityRateResponse struct {
	OrderID     string  `json:"order_id"`
	TotalChecks int     `json:"total_checks"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	Pending     int     `json:"pending"`
	PassRate    float64 `json:"pass_rate"`
}

// StartMaintenanceRequest inicio de mantenimiento de una línea.
type StartMaintenanceRequest struct {
	MaintenanceType string `json:"maintenance_type" validate:"required,oneof=preventive corrective breakdown"`
	Description     string `json:"description"`
}

// CompleteMaintenanceRequest cierre de un mantenimiento.
type CompleteMaintenanceRequest struct {
	Cost           decimal.Decimal `json:"cost" validate:"gte=0"`
	SparePartsUsed string          `json:"spare_parts_used"`
	VerifiedBy     string          `json:"verified_by,omitempty"`
}

// MaintenanceResponse salida de un mantenimiento.
type MaintenanceResponse struct {
	ID               string          `json:"id"`
	ProductionLineID string          `json:"production_line_id"`
	MaintenanceType  string          `json:"maintenance_type"`
	StartTime        time.Time       `json:"start_time"`
	EndTime          *time.Time      `json:"end_time,omitempty"`
	Description      string          `json:"description"`
	Cost             decimal.Decimal `json:"cost"`
	SparePartsUsed   string          `json:"spare_parts_used"`
	PerformedBy      string          `json:"performed_by,omitempty"`
	VerifiedBy       string          `json:"verified_by,omitempty"`
	LineStatus       string          `json:"line_status"`
}

// LineScheduleResponse orden en curso y órdenes agendadas de una línea.
type LineScheduleResponse struct {
	LineID         string                    `json:"line_id"`
	CurrentOrder   *ProductionOrderResponse  `json:"current_order"`
	UpcomingOrders []ProductionOrderResponse `json:"upcoming_orders"`
}

// LinePerformanceResponse desempeño de una línea desde Since.
type LinePerformanceResponse struct {
	LineID               string           `json:"line_id"`
	Since                time.Time        `json:"since"`
	TotalProduced        decimal.Decimal  `json:"total_produced"`
	TotalDefects         int              `json:"total_defects"`
	DefectRate           decimal.Decimal  `json:"defect_rate"`
	Efficiency           *decimal.Decimal `json:"efficiency"`
	MaintenanceStatus    string           `json:"maintenance_status"`
	DaysUntilMaintenance *int             `json:"days_until_maintenance,omitempty"`
}

// MaintenanceScheduleResponse mantenimientos abiertos y líneas con mantenimiento vencido.
type MaintenanceScheduleResponse struct {
	Upcoming []MaintenanceResponse    `json:"upcoming_maintenance"`
	Overdue  []ProductionLineResponse `json:"overdue_maintenance"`
}

// MaterialConsumptionSummaryDTO consumo acumulado de un material.
type MaterialConsumptionSummaryDTO struct {
	MaterialID   string          `json:"material_id"`
	MaterialCode string          `json:"material_code"`
	MaterialName string          `json:"material_name"`
	TotalUsed    decimal.Decimal `json:"total_used"`
	TotalWastage decimal.Decimal `json:"total_wastage"`
	Efficiency   decimal.Decimal `json:"efficiency"`
}

// ConsumptionReportResponse consumo de materiales desde Since agrupado por material.
type ConsumptionReportResponse struct {
	Since     time.Time                       `json:"since"`
	Materials []MaterialConsumptionSummaryDTO `json:"materials"`
}

// QualityParameterDTO resultados de calidad de un parámetro.
type QualityParameterDTO struct {
	Parameter string  `json:"parameter"`
	Total     int     `json:"total"`
	Passed    int     `json:"passed"`
	Failed    int     `json:"failed"`
	PassRate  float64 `json:"pass_rate"`
}

// QualityMetricsResponse métricas de calidad de todos los controles desde Since.
type QualityMetricsResponse struct {
	Since       time.Time             `json:"since"`
	TotalChecks int                   `json:"total_checks"`
	Passed      int                   `json:"passed"`
	PassRate    float64               `json:"pass_rate"`
	Parameters  []QualityParameterDTO `json:"parameters"`
}
