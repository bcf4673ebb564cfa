package inventory

import (
	"fmt"

	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// QuantityScale decimales que admite una cantidad de stock; coincide con NUMERIC(14,3).
const QuantityScale = 3

// CheckQuantityScale rechaza cantidades con más decimales de los que guarda el libro.
func CheckQuantityScale(q decimal.Decimal) error {
	if !q.Equal(q.Round(QuantityScale)) {
		return invalid(fmt.Sprintf("la cantidad %s admite máximo %d decimales", q, QuantityScale))
	}
	return nil
}

// MovementPlan efecto de un movimiento sobre el libro de stock.
// Source vacío = no descuenta; Destination vacío = no suma. Quantity siempre positiva.
type MovementPlan struct {
	Source        string
	Destination   string
	Quantity      decimal.Decimal
	CheckCapacity bool
}

// Decrements indica si el movimiento descuenta de una ubicación.
func (p MovementPlan) Decrements() bool { return p.Source != "" }

// Increments indica si el movimiento suma en una ubicación.
func (p MovementPlan) Increments() bool { return p.Destination != "" }

// LocationIDs ubicaciones involucradas, sin repetir.
func (p MovementPlan) LocationIDs() []string {
	var ids []string
	if p.Source != "" {
		ids = append(ids, p.Source)
	}
	if p.Destination != "" && p.Destination != p.Source {
		ids = append(ids, p.Destination)
	}
	return ids
}

// PlanMovement valida los campos de un movimiento y decide su efecto según el tipo:
//
//	receipt    → suma en destino con control de capacidad
//	issue      → descuenta en origen
//	transfer   → descuenta en origen y suma en destino con control de capacidad
//	adjustment, return → cantidad con signo: positiva suma en destino, negativa descuenta en origen
//
// Más de QuantityScale decimales es inválido. Los errores envuelven domain.ErrInvalidInput.
func PlanMovement(movType string, quantity decimal.Decimal, source, destination string) (MovementPlan, error) {
	if err := CheckQuantityScale(quantity); err != nil {
		return MovementPlan{}, err
	}
	switch movType {
	case entity.MovementReceipt:
		if destination == "" {
			return MovementPlan{}, invalid("la recepción requiere ubicación destino")
		}
		if !quantity.IsPositive() {
			return MovementPlan{}, invalid("la cantidad debe ser mayor a cero")
		}
		return MovementPlan{Destination: destination, Quantity: quantity, CheckCapacity: true}, nil

	case entity.MovementIssue:
		if source == "" {
			return MovementPlan{}, invalid("la salida requiere ubicación origen")
		}
		if !quantity.IsPositive() {
			return MovementPlan{}, invalid("la cantidad debe ser mayor a cero")
		}
		return MovementPlan{Source: source, Quantity: quantity}, nil

	case entity.MovementTransfer:
		if source == "" || destination == "" {
			return MovementPlan{}, invalid("el traslado requiere ubicación origen y destino")
		}
		if source == destination {
			return MovementPlan{}, invalid("origen y destino deben ser distintos")
		}
		if !quantity.IsPositive() {
			return MovementPlan{}, invalid("la cantidad debe ser mayor a cero")
		}
		return MovementPlan{Source: source, Destination: destination, Quantity: quantity, CheckCapacity: true}, nil

	case entity.MovementAdjustment, entity.MovementReturn:
		if quantity.IsZero() {
			return MovementPlan{}, invalid("la cantidad no puede ser cero")
		}
		if quantity.IsPositive() {
			if destination == "" {
				return MovementPlan{}, invalid("una cantidad positiva requiere ubicación destino")
			}
			return MovementPlan{Destination: destination, Quantity: quantity}, nil
		}
		if source == "" {
			return MovementPlan{}, invalid("una cantidad negativa requiere ubicación origen")
		}
		return MovementPlan{Source: source, Quantity: quantity.Neg()}, nil
	}
	return MovementPlan{}, invalid(fmt.Sprintf("tipo de movimiento desconocido %q", movType))
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, msg)
}
