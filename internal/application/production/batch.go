package production

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	prodrules "github.com/jhoicas/Fabrica-api/internal/domain/production"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ListBatches lista los lotes de una orden.
func (uc *UseCase) ListBatches(ctx context.Context, orderID string) ([]dto.BatchResponse, error) {
	if _, err := getOrder(ctx, uc.repos.Orders, orderID); err != nil {
		return nil, err
	}
	list, err := uc.repos.Batches.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBatchResponse(b))
	}
	return out, nil
}

// OpenBatch abre el siguiente lote de una orden in_progress que no tiene lotes abiertos.
func (uc *UseCase) OpenBatch(ctx context.Context, orderID, operatorID string) (*dto.BatchResponse, error) {
	var batch *entity.ProductionBatch
	err := uc.txRunner.RunProduction(ctx, func(tx TxRepos) error {
		o, err := getOrder(ctx, tx.Orders, orderID)
		if err != nil {
			return err
		}
		if o.Status != entity.ProductionStatusInProgress {
			return fmt.Errorf("%w: la orden debe estar in_progress (está %s)", domain.ErrInvalidTransition, o.Status)
		}
		batches, err := tx.Batches.ListByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		for _, b := range batches {
			if b.IsOpen() {
				return fmt.Errorf("%w: el lote %s sigue abierto", domain.ErrConflict, b.BatchNumber)
			}
		}
		now := uc.now()
		batch = &entity.ProductionBatch{
			ID:                uuid.New().String(),
			BatchNumber:       batchNumber(o.OrderNumber, len(batches)+1),
			ProductionOrderID: o.ID,
			StartTime:         now,
			QuantityProduced:  decimal.Zero,
			OperatorID:        operatorID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return tx.Batches.Create(ctx, batch)
	})
	if err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// RecordProduction suma producción y defectos a un lote abierto.
func (uc *UseCase) RecordProduction(ctx context.Context, batchID string, in dto.RecordProductionRequest) (*dto.BatchResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if in.DefectCount < 0 {
		return nil, fmt.Errorf("%w: defect_count no puede ser negativo", domain.ErrInvalidInput)
	}
	var batch *entity.ProductionBatch
	err := uc.txRunner.RunProduction(ctx, func(tx TxRepos) error {
		b, err := getBatch(ctx, tx.Batches, batchID)
		if err != nil {
			return err
		}
		if !b.IsOpen() {
			return fmt.Errorf("%w: el lote %s ya está cerrado", domain.ErrConflict, b.BatchNumber)
		}
		b.QuantityProduced = b.QuantityProduced.Add(in.Quantity)
		b.DefectCount += in.DefectCount
		b.UpdatedAt = uc.now()
		batch = b
		return tx.Batches.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// CompleteBatch cierra un lote. Si lo producido en todos los lotes alcanza la cantidad
// de la orden, la orden pasa a completed.
func (uc *UseCase) CompleteBatch(ctx context.Context, batchID string) (*dto.CompleteBatchResponse, error) {
	var (
		batch *entity.ProductionBatch
		order *entity.ProductionOrder
		done  bool
	)
	err := uc.txRunner.RunProduction(ctx, func(tx TxRepos) error {
		b, err := getBatch(ctx, tx.Batches, batchID)
		if err != nil {
			return err
		}
		if !b.IsOpen() {
			return fmt.Errorf("%w: el lote %s ya está cerrado", domain.ErrConflict, b.BatchNumber)
		}
		now := uc.now()
		b.EndTime = &now
		b.UpdatedAt = now
		if err := tx.Batches.Update(ctx, b); err != nil {
			return err
		}
		batch = b

		o, err := getOrder(ctx, tx.Orders, b.ProductionOrderID)
		if err != nil {
			return err
		}
		order = o
		batches, err := tx.Batches.ListByOrder(ctx, o.ID)
		if err != nil {
			return err
		}
		produced := decimal.Zero
		for _, x := range batches {
			produced = produced.Add(x.QuantityProduced)
		}
		if o.Status == entity.ProductionStatusInProgress && produced.GreaterThanOrEqual(o.Quantity) {
			done = true
			return uc.completeOrder(ctx, tx, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if done {
		uc.log.Info().Str("order", order.OrderNumber).Msg("orden completada por producción acumulada")
	}
	return &dto.CompleteBatchResponse{
		Batch:          *toBatchResponse(batch),
		OrderStatus:    order.Status,
		OrderCompleted: done,
	}, nil
}

// ── Consumo de materiales ─────────────────────────────────────────────────────

// RecordConsumption registra material usado y desperdicio de un lote.
func (uc *UseCase) RecordConsumption(ctx context.Context, batchID, userID string, in dto.RecordConsumptionRequest) (*dto.ConsumptionResponse, error) {
	if in.QuantityUsed.IsNegative() || in.Wastage.IsNegative() {
		return nil, fmt.Errorf("%w: quantity_used y wastage no pueden ser negativos", domain.ErrInvalidInput)
	}
	if in.QuantityUsed.Add(in.Wastage).IsZero() {
		return nil, fmt.Errorf("%w: el consumo no puede ser cero", domain.ErrInvalidInput)
	}
	if _, err := getBatch(ctx, uc.repos.Batches, batchID); err != nil {
		return nil, err
	}
	m, err := uc.repos.Materials.GetByID(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: material %s", domain.ErrNotFound, in.MaterialID)
	}
	c := &entity.MaterialConsumption{
		ID:           uuid.New().String(),
		BatchID:      batchID,
		MaterialID:   in.MaterialID,
		QuantityUsed: in.QuantityUsed,
		Wastage:      in.Wastage,
		RecordedBy:   userID,
		Notes:        in.Notes,
		RecordedAt:   uc.now(),
	}
	if err := uc.repos.Consumption.Create(ctx, c); err != nil {
		return nil, err
	}
	return toConsumptionResponse(c), nil
}

// ListConsumption lista los consumos de un lote.
func (uc *UseCase) ListConsumption(ctx context.Context, batchID string) ([]dto.ConsumptionResponse, error) {
	list, err := uc.repos.Consumption.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConsumptionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toConsumptionResponse(c))
	}
	return out, nil
}

// BatchEfficiency agrupa los consumos del lote por material.
// wastage % = wastage / (usado + wastage) × 100.
func (uc *UseCase) BatchEfficiency(ctx context.Context, batchID string) (*dto.BatchEfficiencyResponse, error) {
	if _, err := getBatch(ctx, uc.repos.Batches, batchID); err != nil {
		return nil, err
	}
	list, err := uc.repos.Consumption.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	out := &dto.BatchEfficiencyResponse{BatchID: batchID, Materials: []dto.MaterialEfficiencyDTO{}}
	idx := map[string]int{}
	for _, c := range list {
		i, ok := idx[c.MaterialID]
		if !ok {
			i = len(out.Materials)
			idx[c.MaterialID] = i
			out.Materials = append(out.Materials, dto.MaterialEfficiencyDTO{MaterialID: c.MaterialID})
		}
		out.Materials[i].QuantityUsed = out.Materials[i].QuantityUsed.Add(c.QuantityUsed)
		out.Materials[i].Wastage = out.Materials[i].Wastage.Add(c.Wastage)
		out.TotalUsed = out.TotalUsed.Add(c.QuantityUsed)
		out.TotalWastage = out.TotalWastage.Add(c.Wastage)
	}
	for i := range out.Materials {
		out.Materials[i].WastagePercentage = WastagePercentage(out.Materials[i].QuantityUsed, out.Materials[i].Wastage)
	}
	out.WastagePercentage = WastagePercentage(out.TotalUsed, out.TotalWastage)
	return out, nil
}

// WastagePercentage wastage / (used + wastage) × 100 a dos decimales; 0 sin consumo.
func WastagePercentage(used, wastage decimal.Decimal) decimal.Decimal {
	total := used.Add(wastage)
	if total.IsZero() {
		return decimal.Zero
	}
	return wastage.Div(total).Mul(hundred).Round(2)
}

// ── Calidad ───────────────────────────────────────────────────────────────────

// AddQualityCheck registra un control y recalcula quality_check_passed del lote.
func (uc *UseCase) AddQualityCheck(ctx context.Context, batchID, userID string, in dto.CreateQualityCheckRequest) (*dto.QualityCheckResponse, error) {
	switch in.Result {
	case entity.QualityPassed, entity.QualityFailed, entity.QualityPending:
	default:
		return nil, fmt.Errorf("%w: resultado %q desconocido", domain.ErrInvalidInput, in.Result)
	}
	if strings.TrimSpace(in.Parameter) == "" {
		return nil, fmt.Errorf("%w: parameter es obligatorio", domain.ErrInvalidInput)
	}

	var (
		check  *entity.QualityCheck
		passed bool
	)
	err := uc.txRunner.RunProduction(ctx, func(tx TxRepos) error {
		b, err := getBatch(ctx, tx.Batches, batchID)
		if err != nil {
			return err
		}
		now := uc.now()
		check = &entity.QualityCheck{
			ID:            uuid.New().String(),
			BatchID:       batchID,
			CheckTime:     now,
			Parameter:     in.Parameter,
			ExpectedValue: in.ExpectedValue,
			ActualValue:   in.ActualValue,
			Result:        in.Result,
			CheckedBy:     userID,
			Notes:         in.Notes,
			CreatedAt:     now,
		}
		if err := tx.Quality.Create(ctx, check); err != nil {
			return err
		}
		checks, err := tx.Quality.ListByBatch(ctx, batchID)
		if err != nil {
			return err
		}
		passed = prodrules.BatchQualityPassed(checks)
		if b.QualityCheckPassed == passed {
			return nil
		}
		b.QualityCheckPassed = passed
		b.UpdatedAt = now
		return tx.Batches.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	resp := toQualityCheckResponse(check)
	resp.BatchPassed = passed
	return resp, nil
}

// ListQualityChecks lista los controles de un lote.
func (uc *UseCase) ListQualityChecks(ctx context.Context, batchID string) ([]dto.QualityCheckResponse, error) {
	list, err := uc.repos.Quality.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	passed := prodrules.BatchQualityPassed(list)
	out := make([]dto.QualityCheckResponse, 0, len(list))
	for _, c := range list {
		r := toQualityCheckResponse(c)
		r.BatchPassed = passed
		out = append(out, *r)
	}
	return out, nil
}

// QualityRate tasa de aprobación de todos los controles de la orden.
func (uc *UseCase) QualityRate(ctx context.Context, orderID string) (*dto.QualityRateResponse, error) {
	if _, err := getOrder(ctx, uc.repos.Orders, orderID); err != nil {
		return nil, err
	}
	checks, err := uc.repos.Quality.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := &dto.QualityRateResponse{OrderID: orderID, TotalChecks: len(checks)}
	for _, c := range checks {
		switch c.Result {
		case entity.QualityPassed:
			out.Passed++
		case entity.QualityFailed:
			out.Failed++
		default:
			out.Pending++
		}
	}
	out.PassRate = passRate(out.Passed, out.TotalChecks)
	return out, nil
}

func getBatch(ctx context.Context, repo repository.ProductionBatchRepository, id string) (*entity.ProductionBatch, error) {
	b, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
	}
	return b, nil
}

func toBatchResponse(b *entity.ProductionBatch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:                 b.ID,
		BatchNumber:        b.BatchNumber,
		ProductionOrderID:  b.ProductionOrderID,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		QuantityProduced:   b.QuantityProduced,
		DefectCount:        b.DefectCount,
		QualityCheckPassed: b.QualityCheckPassed,
		QualityNotes:       b.QualityNotes,
		OperatorID:         b.OperatorID,
	}
}

func toConsumptionResponse(c *entity.MaterialConsumption) *dto.ConsumptionResponse {
	return &dto.ConsumptionResponse{
		ID:           c.ID,
		BatchID:      c.BatchID,
		MaterialID:   c.MaterialID,
		QuantityUsed: c.QuantityUsed,
		Wastage:      c.Wastage,
		RecordedBy:   c.RecordedBy,
		Notes:        c.Notes,
		RecordedAt:   c.RecordedAt,
	}
}

func toQualityCheckResponse(c *entity.QualityCheck) *dto.QualityCheckResponse {
	return &dto.QualityCheckResponse{
		ID:            c.ID,
		BatchID:       c.BatchID,
		CheckTime:     c.CheckTime,
		Parameter:     c.Parameter,
		ExpectedValue: c.ExpectedValue,
		ActualValue:   c.ActualValue,
		Result:        c.Result,
		CheckedBy:     c.CheckedBy,
		Notes:         c.Notes,
	}
}
