package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

const topMaterialsLimit = 10

// MovementUseCase expone el procesador de movimientos y las consultas sobre stock y movimientos.
type MovementUseCase struct {
	processor    *MovementProcessor
	stockRepo    repository.StockRepository
	movementRepo repository.StockMovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	processor *MovementProcessor,
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
) *MovementUseCase {
	return &MovementUseCase{
		processor:    processor,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
	}
}

// ApplyFromRequest adapta el request HTTP a MovementProcessor.Apply.
func (uc *MovementUseCase) ApplyFromRequest(ctx context.Context, userID string, in dto.ApplyMovementRequest) (*dto.MovementResponse, error) {
	mov, err := uc.processor.Apply(ctx, MovementInput{
		MaterialID:            in.MaterialID,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		Type:                  in.Type,
		Quantity:              in.Quantity,
		BatchNumber:           in.BatchNumber,
		ReferenceNumber:       in.ReferenceNumber,
		UnitCost:              in.UnitCost,
		ExpiryDate:            in.ExpiryDate,
		PerformedBy:           userID,
		Notes:                 in.Notes,
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mov), nil
}

// GetMovement obtiene un movimiento por ID.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id string) (*dto.MovementResponse, error) {
	mov, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return toMovementResponse(mov), nil
}

// ListMovements lista movimientos con filtros, del más reciente al más antiguo.
func (uc *MovementUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter, limit, offset int) (*dto.MovementListResponse, error) {
	if filter.Type != "" && !validMovementType(filter.Type) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q desconocido", domain.ErrInvalidInput, filter.Type)
	}
	list, err := uc.movementRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Analysis agrega movimientos por tipo y los 10 materiales más movidos en los últimos days días.
func (uc *MovementUseCase) Analysis(ctx context.Context, days int) (*dto.MovementAnalysisResponse, error) {
	if days <= 0 {
		days = 30
	}
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	summary, err := uc.movementRepo.SummaryByType(ctx, from, to)
	if err != nil {
		return nil, err
	}
	top, err := uc.movementRepo.TopMaterials(ctx, from, to, topMaterialsLimit)
	if err != nil {
		return nil, err
	}

	out := &dto.MovementAnalysisResponse{
		From:         from,
		To:           to,
		ByType:       make([]dto.MovementTypeSummaryDTO, 0, len(summary)),
		TopMaterials: make([]dto.TopMaterialDTO, 0, len(top)),
	}
	for _, s := range summary {
		out.ByType = append(out.ByType, dto.MovementTypeSummaryDTO{Type: s.Type, Count: s.Count, TotalQuantity: s.TotalQuantity})
	}
	for _, m := range top {
		out.TopMaterials = append(out.TopMaterials, dto.TopMaterialDTO{
			MaterialID: m.MaterialID, Code: m.MaterialCode, Name: m.MaterialName, Movements: m.Count,
		})
	}
	return out, nil
}

// ListStock lista registros de stock con filtros.
func (uc *MovementUseCase) ListStock(ctx context.Context, filter repository.StockFilter, limit, offset int) (*dto.StockListResponse, error) {
	list, err := uc.stockRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toStockResponse(s))
	}
	return &dto.StockListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// ListExpiring lista el stock que vence dentro de los próximos days días (30 por defecto).
func (uc *MovementUseCase) ListExpiring(ctx context.Context, days int) ([]dto.StockResponse, error) {
	if days <= 0 {
		days = 30
	}
	list, err := uc.stockRepo.ListExpiringBefore(ctx, time.Now().AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toStockResponse(s))
	}
	return items, nil
}

func validMovementType(t string) bool {
	switch t {
	case entity.MovementReceipt, entity.MovementIssue, entity.MovementTransfer, entity.MovementAdjustment, entity.MovementReturn:
		return true
	}
	return false
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:                    m.ID,
		MaterialID:            m.MaterialID,
		SourceLocationID:      m.SourceLocationID,
		DestinationLocationID: m.DestinationLocationID,
		Type:                  m.Type,
		Quantity:              m.Quantity,
		BatchNumber:           m.BatchNumber,
		ReferenceNumber:       m.ReferenceNumber,
		UnitCost:              m.UnitCost,
		PerformedBy:           m.PerformedBy,
		Notes:                 m.Notes,
		CreatedAt:             m.CreatedAt,
	}
}

func toStockResponse(s *entity.Stock) dto.StockResponse {
	return dto.StockResponse{
		ID:          s.ID,
		MaterialID:  s.MaterialID,
		LocationID:  s.LocationID,
		BatchNumber: s.BatchNumber,
		Quantity:    s.Quantity,
		ExpiryDate:  s.ExpiryDate,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
