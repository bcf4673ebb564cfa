package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

const reorderPointWarning = "el punto de reorden está fuera del rango [mínimo, máximo]"

// MaterialUseCase casos de uso CRUD para materias primas. El precio se actualiza también
// por promedio ponderado al recibir con costo.
type MaterialUseCase struct {
	repo         repository.MaterialRepository
	supplierRepo repository.SupplierRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository, supplierRepo repository.SupplierRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo, supplierRepo: supplierRepo}
}

// Create crea una materia prima. Un punto de reorden fuera de [mínimo, máximo] se acepta con advertencia.
func (uc *MaterialUseCase) Create(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	if in.Code == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: code y name son obligatorios", domain.ErrInvalidInput)
	}
	now := time.Now()
	m := &entity.Material{
		ID:            uuid.New().String(),
		Code:          in.Code,
		Name:          in.Name,
		Description:   in.Description,
		Unit:          in.Unit,
		UnitPrice:     in.UnitPrice,
		MinimumStock:  in.MinimumStock,
		MaximumStock:  in.MaximumStock,
		ReorderPoint:  in.ReorderPoint,
		LeadTimeDays:  in.LeadTimeDays,
		VolumePerUnit: in.VolumePerUnit,
		SupplierID:    in.SupplierID,
		Active:        true,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.validate(ctx, m); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, m.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: material %s", domain.ErrDuplicate, m.Code)
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// GetByID obtiene una materia prima.
func (uc *MaterialUseCase) GetByID(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// Update actualiza una materia prima.
func (uc *MaterialUseCase) Update(ctx context.Context, id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.UnitPrice != nil {
		m.UnitPrice = *in.UnitPrice
	}
	if in.MinimumStock != nil {
		m.MinimumStock = *in.MinimumStock
	}
	if in.MaximumStock != nil {
		m.MaximumStock = *in.MaximumStock
	}
	if in.ReorderPoint != nil {
		m.ReorderPoint = *in.ReorderPoint
	}
	if in.LeadTimeDays != nil {
		m.LeadTimeDays = *in.LeadTimeDays
	}
	if in.VolumePerUnit != nil {
		m.VolumePerUnit = *in.VolumePerUnit
	}
	if in.SupplierID != nil {
		m.SupplierID = *in.SupplierID
	}
	if in.Active != nil {
		m.Active = *in.Active
	}
	if in.Notes != nil {
		m.Notes = *in.Notes
	}
	if err := uc.validate(ctx, m); err != nil {
		return nil, err
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// List lista materias primas; activeOnly filtra las inactivas.
func (uc *MaterialUseCase) List(ctx context.Context, activeOnly bool, limit, offset int) (*dto.MaterialListResponse, error) {
	list, err := uc.repo.List(ctx, activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMaterialResponse(m))
	}
	return &dto.MaterialListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

func (uc *MaterialUseCase) validate(ctx context.Context, m *entity.Material) error {
	if !entity.ValidUnit(m.Unit) {
		return fmt.Errorf("%w: unidad %q desconocida", domain.ErrInvalidInput, m.Unit)
	}
	if m.UnitPrice.IsNegative() || m.VolumePerUnit.IsNegative() {
		return fmt.Errorf("%w: precio y volumen por unidad no pueden ser negativos", domain.ErrInvalidInput)
	}
	if m.MinimumStock.IsNegative() || m.MinimumStock.GreaterThan(m.MaximumStock) {
		return fmt.Errorf("%w: se requiere 0 ≤ stock mínimo ≤ stock máximo", domain.ErrInvalidInput)
	}
	if m.LeadTimeDays < 0 {
		return fmt.Errorf("%w: lead_time_days no puede ser negativo", domain.ErrInvalidInput)
	}
	if m.SupplierID != "" {
		s, err := uc.supplierRepo.GetByID(ctx, m.SupplierID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, m.SupplierID)
		}
	}
	return nil
}

func (uc *MaterialUseCase) get(ctx context.Context, id string) (*entity.Material, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: material %s", domain.ErrNotFound, id)
	}
	return m, nil
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	out := &dto.MaterialResponse{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		Description:   m.Description,
		Unit:          m.Unit,
		UnitPrice:     m.UnitPrice,
		MinimumStock:  m.MinimumStock,
		MaximumStock:  m.MaximumStock,
		ReorderPoint:  m.ReorderPoint,
		LeadTimeDays:  m.LeadTimeDays,
		VolumePerUnit: m.VolumePerUnit,
		SupplierID:    m.SupplierID,
		Active:        m.Active,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if !m.ReorderPointWithinLimits() {
		out.ReorderPointWarning = reorderPointWarning
	}
	return out
}
