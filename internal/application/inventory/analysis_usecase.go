package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockAnalysisUseCase análisis de stock por material y alertas de stock bajo.
type StockAnalysisUseCase struct {
	materialRepo repository.MaterialRepository
	stockRepo    repository.StockRepository
	movementRepo repository.StockMovementRepository
}

// NewStockAnalysisUseCase construye el caso de uso.
func NewStockAnalysisUseCase(
	materialRepo repository.MaterialRepository,
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
) *StockAnalysisUseCase {
	return &StockAnalysisUseCase{materialRepo: materialRepo, stockRepo: stockRepo, movementRepo: movementRepo}
}

// MaterialAnalysis stock actual, valor, consumo de 90 días, consumo diario y días hasta el reorden.
func (uc *StockAnalysisUseCase) MaterialAnalysis(ctx context.Context, materialID string) (*dto.MaterialStockAnalysisResponse, error) {
	m, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: material %s", domain.ErrNotFound, materialID)
	}
	current, err := uc.stockRepo.SumByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	end := time.Now()
	consumed, err := uc.movementRepo.IssuedQuantity(ctx, materialID, end.AddDate(0, 0, -consumptionWindowDays), end)
	if err != nil {
		return nil, err
	}
	daily := consumed.Div(decimal.NewFromInt(consumptionWindowDays)).Round(4)

	out := &dto.MaterialStockAnalysisResponse{
		MaterialID:         m.ID,
		Code:               m.Code,
		Name:               m.Name,
		CurrentStock:       current,
		StockValue:         current.Mul(m.UnitPrice).Round(2),
		ReorderPoint:       m.ReorderPoint,
		ConsumptionLast90d: consumed,
		DailyConsumption:   daily,
		NeedsReorder:       current.LessThanOrEqual(m.ReorderPoint),
	}
	if daily.IsPositive() {
		days := 0
		if above := current.Sub(m.ReorderPoint); above.IsPositive() {
			days = int(above.Div(daily).IntPart())
		}
		out.DaysUntilReorder = &days
	}
	return out, nil
}

// LowStock materiales activos con stock total en o bajo el punto de reorden.
func (uc *StockAnalysisUseCase) LowStock(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	levels, err := uc.materialRepo.ListStockLevels(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemDTO, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, dto.LowStockItemDTO{
			MaterialID:   lvl.Material.ID,
			Code:         lvl.Material.Code,
			Name:         lvl.Material.Name,
			Unit:         lvl.Material.Unit,
			CurrentStock: lvl.CurrentStock,
			ReorderPoint: lvl.Material.ReorderPoint,
			MinimumStock: lvl.Material.MinimumStock,
		})
	}
	return out, nil
}
