package production

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Días hasta el siguiente mantenimiento preventivo.
const preventiveIntervalDays = 30

// StartMaintenance abre un mantenimiento y pone la línea en maintenance.
func (uc *UseCase) StartMaintenance(ctx context.Context, lineID, userID string, in dto.StartMaintenanceRequest) (*dto.MaintenanceResponse, error) {
	switch in.MaintenanceType {
	case entity.MaintenancePreventive, entity.MaintenanceCorrective, entity.MaintenanceBreakdown:
	default:
		return nil, fmt.Errorf("%w: tipo de mantenimiento %q desconocido", domain.ErrInvalidInput, in.MaintenanceType)
	}

	var (
		log  *entity.MaintenanceLog
		line *entity.ProductionLine
	)
	err := uc.txRunner.RunProduction(ctx, func(tx TxRepos) error {
		l, err := getLine(ctx, tx.Lines, lineID)
		if err != nil {
			return err
		}
		if l.Status == entity.LineStatusMaintenance {
			return fmt.Errorf("%w: la línea %s ya está en mantenimiento", domain.ErrConflict, l.Name)
		}
		now := uc.now()
		log = &entity.MaintenanceLog{
			ID:               uuid.New().String(),
			ProductionLineID: lineID,
			MaintenanceType:  in.MaintenanceType,
			StartTime:        now,
			Description:      in.Description,
			Cost:             decimal.Zero,
			PerformedBy:      userID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.Maintenance.Create(ctx, log); err != nil {
			return err
		}
		l.Status = entity.LineStatusMaintenance
		l.UpdatedAt = now
		line = l
		return tx.Lines.Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return toMaintenanceResponse(log, line.Status), nil
}

// CompleteMaintenance cierra el mantenimiento y reactiva la línea. Un preventivo agenda
// el siguiente a +30 días del cierre.
func (uc *UseCase) CompleteMaintenance(ctx context.Context, logID string, in dto.CompleteMaintenanceRequest) (*dto.MaintenanceResponse, error) {
	if in.Cost.IsNegative() {
		return nil, fmt.Errorf("%w: cost no puede ser negativo", domain.ErrInvalidInput)
	}

	var (
		log  *entity.MaintenanceLog
		line *entity.ProductionLine
	)
	err := uc.txRunner.RunProduction(ctx, func(tx TxRepos) error {
		m, err := tx.Maintenance.GetByID(ctx, logID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("%w: mantenimiento %s", domain.ErrNotFound, logID)
		}
		if m.EndTime != nil {
			return fmt.Errorf("%w: el mantenimiento ya fue cerrado", domain.ErrConflict)
		}
		end := uc.now()
		m.EndTime = &end
		m.Cost = in.Cost
		m.SparePartsUsed = in.SparePartsUsed
		m.VerifiedBy = in.VerifiedBy
		m.UpdatedAt = end
		if err := tx.Maintenance.Update(ctx, m); err != nil {
			return err
		}
		log = m

		l, err := getLine(ctx, tx.Lines, m.ProductionLineID)
		if err != nil {
			return err
		}
		l.Status = entity.LineStatusActive
		l.LastMaintenance = &end
		if m.MaintenanceType == entity.MaintenancePreventive {
			next := end.AddDate(0, 0, preventiveIntervalDays)
			l.MaintenanceSchedule = &next
		}
		l.UpdatedAt = end
		line = l
		return tx.Lines.Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return toMaintenanceResponse(log, line.Status), nil
}

// ListMaintenance lista los mantenimientos de una línea.
func (uc *UseCase) ListMaintenance(ctx context.Context, lineID string) ([]dto.MaintenanceResponse, error) {
	l, err := getLine(ctx, uc.repos.Lines, lineID)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Maintenance.ListByLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaintenanceResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMaintenanceResponse(m, l.Status))
	}
	return out, nil
}

func toMaintenanceResponse(m *entity.MaintenanceLog, lineStatus string) *dto.MaintenanceResponse {
	return &dto.MaintenanceResponse{
		ID:               m.ID,
		ProductionLineID: m.ProductionLineID,
		MaintenanceType:  m.MaintenanceType,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		Description:      m.Description,
		Cost:             m.Cost,
		SparePartsUsed:   m.SparePartsUsed,
		PerformedBy:      m.PerformedBy,
		VerifiedBy:       m.VerifiedBy,
		LineStatus:       lineStatus,
	}
}
