package production

import (
	"fmt"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

var orderTransitions = map[string][]string{
	entity.ProductionStatusDraft:      {entity.ProductionStatusScheduled, entity.ProductionStatusCancelled},
	entity.ProductionStatusScheduled:  {entity.ProductionStatusInProgress, entity.ProductionStatusOnHold, entity.ProductionStatusCancelled},
	entity.ProductionStatusInProgress: {entity.ProductionStatusCompleted, entity.ProductionStatusOnHold},
	entity.ProductionStatusOnHold:     {entity.ProductionStatusScheduled, entity.ProductionStatusInProgress, entity.ProductionStatusCancelled},
}

// ValidOrderStatus indica si el estado de orden de producción es conocido.
func ValidOrderStatus(s string) bool {
	switch s {
	case entity.ProductionStatusDraft, entity.ProductionStatusScheduled, entity.ProductionStatusInProgress,
		entity.ProductionStatusCompleted, entity.ProductionStatusCancelled, entity.ProductionStatusOnHold:
		return true
	}
	return false
}

// CheckOrderTransition valida el paso de from a to. completed y cancelled son terminales.
func CheckOrderTransition(from, to string) error {
	if !ValidOrderStatus(to) {
		return fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, to)
	}
	for _, s := range orderTransitions[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
}

// ValidLineStatus indica si el estado de línea es conocido.
func ValidLineStatus(s string) bool {
	switch s {
	case entity.LineStatusActive, entity.LineStatusMaintenance, entity.LineStatusInactive:
		return true
	}
	return false
}

// BatchQualityPassed un lote aprueba calidad cuando tiene al menos un control y todos pasaron.
func BatchQualityPassed(checks []*entity.QualityCheck) bool {
	if len(checks) == 0 {
		return false
	}
	for _, c := range checks {
		if c.Result != entity.QualityPassed {
			return false
		}
	}
	return true
}
