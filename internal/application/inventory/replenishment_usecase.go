package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const consumptionWindowDays = 90

// ReplenishmentUseCase genera la lista de reposición de materias primas.
// Combina el stock actual con el consumo reciente para priorizar los materiales críticos.
type ReplenishmentUseCase struct {
	materialRepo repository.MaterialRepository
	movementRepo repository.StockMovementRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	materialRepo repository.MaterialRepository,
	movementRepo repository.StockMovementRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{materialRepo: materialRepo, movementRepo: movementRepo}
}

// GenerateReplenishmentList devuelve los materiales en o bajo el punto de reorden con la
// cantidad sugerida (máximo - actual) y un ranking de prioridad.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Materiales en o bajo el punto de reorden
	levels, err := uc.materialRepo.ListStockLevels(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	end := time.Now()
	start := end.AddDate(0, 0, -consumptionWindowDays)

	// 2. Construir sugerencias con consumo reciente
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(levels))
	for _, lvl := range levels {
		m := lvl.Material
		suggestedQty := m.MaximumStock.Sub(lvl.CurrentStock)
		if suggestedQty.IsNegative() {
			suggestedQty = decimal.Zero
		}

		ratio := decimal.Zero
		if m.ReorderPoint.IsPositive() {
			ratio = m.ReorderPoint.Sub(lvl.CurrentStock).Div(m.ReorderPoint).Round(4)
		}

		consumed, err := uc.movementRepo.IssuedQuantity(ctx, m.ID, start, end)
		if err != nil {
			return nil, err
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			MaterialID:         m.ID,
			Code:               m.Code,
			Name:               m.Name,
			SupplierID:         m.SupplierID,
			CurrentStock:       lvl.CurrentStock,
			ReorderPoint:       m.ReorderPoint,
			MaximumStock:       m.MaximumStock,
			SuggestedOrderQty:  suggestedQty,
			UnitPrice:          m.UnitPrice,
			EstimatedOrderCost: suggestedQty.Mul(m.UnitPrice),
			ShortageRatio:      ratio,
			ConsumptionLast90d: consumed,
			LeadTimeDays:       m.LeadTimeDays,
		})
	}

	// 3. Ordenar: mayor déficit relativo, luego mayor consumo, luego mayor tiempo de entrega
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.ShortageRatio.Equal(b.ShortageRatio) {
			return a.ShortageRatio.GreaterThan(b.ShortageRatio)
		}
		if !a.ConsumptionLast90d.Equal(b.ConsumptionLast90d) {
			return a.ConsumptionLast90d.GreaterThan(b.ConsumptionLast90d)
		}
		return a.LeadTimeDays > b.LeadTimeDays
	})

	// 4. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
