// Package analytics reglas de KPIs: estado frente a la meta, tendencia y umbrales de alerta.
package analytics

import (
	"math"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// Estados de un KPI frente a su meta.
const (
	StatusUndefined      = "undefined"
	StatusAchieved       = "achieved"
	StatusOnTrack        = "on_track"
	StatusNeedsAttention = "needs_attention"
	StatusAtRisk         = "at_risk"
)

// Direcciones de tendencia.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Completion porcentaje de cumplimiento current/target × 100. ok=false con meta 0.
func Completion(current, target float64) (float64, bool) {
	if target == 0 {
		return 0, false
	}
	return current / target * 100, true
}

// KPIStatus clasifica el cumplimiento: ≥100 achieved, ≥75 on_track, ≥50 needs_attention, resto at_risk.
func KPIStatus(current, target float64) string {
	pct, ok := Completion(current, target)
	if !ok {
		return StatusUndefined
	}
	switch {
	case pct >= 100:
		return StatusAchieved
	case pct >= 75:
		return StatusOnTrack
	case pct >= 50:
		return StatusNeedsAttention
	default:
		return StatusAtRisk
	}
}

// Trend resultado de comparar el primer y el último valor del periodo.
type Trend struct {
	Direction string
	Change    float64 // % absoluto
}

// CalculateTrend compara el primer valor con el último de la serie (orden cronológico).
// Con menos de dos puntos la tendencia es estable. Si el primer valor es 0 el cambio es 0.
func CalculateTrend(history []*entity.KPIHistory) Trend {
	if len(history) < 2 {
		return Trend{Direction: TrendStable}
	}
	first, last := history[0].Value, history[len(history)-1].Value

	t := Trend{Direction: TrendStable}
	switch {
	case last > first:
		t.Direction = TrendUp
	case last < first:
		t.Direction = TrendDown
	}
	if first != 0 {
		t.Change = math.Abs((last - first) / first * 100)
	}
	return t
}

// EvaluateThreshold devuelve la severidad de alerta para value y el umbral cruzado.
// Si critical ≤ warning, un valor menor es peor (ej. eficiencia); si no, uno mayor es peor
// (ej. tasa de defectos). Sin cruce devuelve "".
func EvaluateThreshold(k *entity.KPI, value float64) (severity string, threshold float64) {
	if k.WarningThreshold == 0 && k.CriticalThreshold == 0 {
		return "", 0
	}
	if k.CriticalThreshold <= k.WarningThreshold {
		switch {
		case value <= k.CriticalThreshold:
			return entity.AlertSeverityCritical, k.CriticalThreshold
		case value <= k.WarningThreshold:
			return entity.AlertSeverityWarning, k.WarningThreshold
		}
		return "", 0
	}
	switch {
	case value >= k.CriticalThreshold:
		return entity.AlertSeverityCritical, k.CriticalThreshold
	case value >= k.WarningThreshold:
		return entity.AlertSeverityWarning, k.WarningThreshold
	}
	return "", 0
}
