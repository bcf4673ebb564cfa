package production

import (
	"sort"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Estado del próximo mantenimiento de una línea.
const (
	MaintenanceNotScheduled = "not_scheduled"
	MaintenanceOverdue      = "overdue"
	MaintenanceDueSoon      = "due_soon"
	MaintenanceOnSchedule   = "scheduled"
)

// dueSoonDays ventana en la que un mantenimiento agendado se considera próximo.
const dueSoonDays = 7

// efficiencySample lotes cerrados más recientes que entran en la eficiencia de la línea.
const efficiencySample = 10

var hundred = decimal.NewFromInt(100)

// MaintenanceStatus clasifica el mantenimiento agendado respecto de now. days son los días
// completos que faltan; solo es significativo con due_soon o scheduled.
func MaintenanceStatus(schedule *time.Time, now time.Time) (status string, days int) {
	if schedule == nil {
		return MaintenanceNotScheduled, 0
	}
	if schedule.Before(now) {
		return MaintenanceOverdue, 0
	}
	days = int(schedule.Sub(now) / (24 * time.Hour))
	if days <= dueSoonDays {
		return MaintenanceDueSoon, days
	}
	return MaintenanceOnSchedule, days
}

// LineEfficiency ritmo real de los últimos lotes cerrados frente a la capacidad nominal:
// (producido / horas) / capacity_per_hour × 100. ok=false sin lotes cerrados, sin tiempo
// transcurrido o con capacidad cero.
func LineEfficiency(batches []*entity.ProductionBatch, capacityPerHour decimal.Decimal) (decimal.Decimal, bool) {
	if !capacityPerHour.IsPositive() {
		return decimal.Zero, false
	}
	closed := make([]*entity.ProductionBatch, 0, len(batches))
	for _, b := range batches {
		if b.EndTime != nil {
			closed = append(closed, b)
		}
	}
	sort.SliceStable(closed, func(i, j int) bool { return closed[i].EndTime.After(*closed[j].EndTime) })
	if len(closed) > efficiencySample {
		closed = closed[:efficiencySample]
	}

	var seconds float64
	produced := decimal.Zero
	for _, b := range closed {
		seconds += b.EndTime.Sub(b.StartTime).Seconds()
		produced = produced.Add(b.QuantityProduced)
	}
	if seconds <= 0 {
		return decimal.Zero, false
	}
	hours := decimal.NewFromFloat(seconds).Div(decimal.NewFromInt(3600))
	return produced.Div(hours).Div(capacityPerHour).Mul(hundred).Round(2), true
}

// DefectRate defectos / producido × 100 a dos decimales; 0 sin producción.
func DefectRate(produced decimal.Decimal, defects int) decimal.Decimal {
	if !produced.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(defects)).Div(produced).Mul(hundred).Round(2)
}
