package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Fabrica-api/internal/application/auth"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// UserUseCase consultas de usuarios y de la bitácora de auditoría.
type UserUseCase struct {
	repo      repository.UserRepository
	auditRepo repository.AuditLogRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, auditRepo repository.AuditLogRepository) *UserUseCase {
	return &UserUseCase{repo: repo, auditRepo: auditRepo}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrUserNotFound, id)
	}
	return auth.ToUserResponse(user), nil
}

// List lista usuarios.
func (uc *UserUseCase) List(ctx context.Context, limit, offset int) ([]dto.UserResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}

// RecordAudit persiste un registro de auditoría.
func (uc *UserUseCase) RecordAudit(ctx context.Context, log *entity.AuditLog) error {
	return uc.auditRepo.Create(ctx, log)
}

// ListAudit lista la bitácora, opcionalmente filtrada por usuario.
func (uc *UserUseCase) ListAudit(ctx context.Context, userID string, limit, offset int) ([]dto.AuditLogResponse, error) {
	list, err := uc.auditRepo.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditLogResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.AuditLogResponse{
			ID:         a.ID,
			UserID:     a.UserID,
			Action:     a.Action,
			Method:     a.Method,
			Path:       a.Path,
			StatusCode: a.StatusCode,
			IPAddress:  a.IPAddress,
			UserAgent:  a.UserAgent,
			CreatedAt:  a.CreatedAt,
		})
	}
	return out, nil
}
