package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de línea de producción.
const (
	LineStatusActive      = "active"
	LineStatusMaintenance = "maintenance"
	LineStatusInactive    = "inactive"
)

// Estados de orden de producción.
const (
	ProductionStatusDraft      = "draft"
	ProductionStatusScheduled  = "scheduled"
	ProductionStatusInProgress = "in_progress"
	ProductionStatusCompleted  = "completed"
	ProductionStatusCancelled  = "cancelled"
	ProductionStatusOnHold     = "on_hold"
)

// Resultados de control de calidad.
const (
	QualityPassed  = "passed"
	QualityFailed  = "failed"
	QualityPending = "pending"
)

// Tipos de mantenimiento.
const (
	MaintenancePreventive = "preventive"
	MaintenanceCorrective = "corrective"
	MaintenanceBreakdown  = "breakdown"
)

// ProductionLine línea de producción de la planta.
type ProductionLine struct {
	ID                  string
	Name                string
	Description         string
	CapacityPerHour     decimal.Decimal
	Status              string
	MaintenanceSchedule *time.Time
	LastMaintenance     *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ProductionOrder orden de fabricación de un producto.
type ProductionOrder struct {
	ID               string
	OrderNumber      string // único
	ProductID        string
	Quantity         decimal.Decimal
	ProductionLineID string
	StartDate        time.Time
	EndDate          time.Time
	Status           string
	Priority         int // 1 (baja) .. 5 (urgente)
	AssignedTo       string
	Notes            string
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MaterialRequirementLine cantidad de un material implicada por una orden.
type MaterialRequirementLine struct {
	MaterialID       string
	RequiredQuantity decimal.Decimal
}

// MaterialShortage faltante de un material al validar disponibilidad.
type MaterialShortage struct {
	MaterialID string
	Required   decimal.Decimal
	Available  decimal.Decimal
}

// ProductionBatch lote de producción de una orden.
type ProductionBatch struct {
	ID                 string
	BatchNumber        string // único
	ProductionOrderID  string
	StartTime          time.Time
	EndTime            *time.Time
	QuantityProduced   decimal.Decimal
	DefectCount        int
	QualityCheckPassed bool
	QualityNotes       string
	OperatorID         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsOpen indica si el lote sigue en curso.
func (b *ProductionBatch) IsOpen() bool { return b.EndTime == nil }

// MaterialConsumption consumo de material registrado para un lote.
type MaterialConsumption struct {
	ID           string
	BatchID      string
	MaterialID   string
	QuantityUsed decimal.Decimal
	Wastage      decimal.Decimal
	RecordedBy   string
	Notes        string
	RecordedAt   time.Time
}

// QualityCheck control de calidad sobre un lote.
type QualityCheck struct {
	ID            string
	BatchID       string
	CheckTime     time.Time
	Parameter     string
	ExpectedValue string
	ActualValue   string
	Result        string
	CheckedBy     string
	Notes         string
	CreatedAt     time.Time
}

// MaintenanceLog registro de mantenimiento de una línea.
type MaintenanceLog struct {
	ID               string
	ProductionLineID string
	MaintenanceType  string
	StartTime        time.Time
	EndTime          *time.Time
	Description      string
	Cost             decimal.Decimal
	SparePartsUsed   string
	PerformedBy      string
	VerifiedBy       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
