package analytics

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
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

// ReportUseCase registra solicitudes de reporte y las encola para el worker.
type ReportUseCase struct {
	reportRepo repository.ReportRepository
	queue      ReportQueue
	log        *logger.Logger
	now        func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(reportRepo repository.ReportRepository, queue ReportQueue, log *logger.Logger) *ReportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{reportRepo: reportRepo, queue: queue, log: log.Component("reports"), now: time.Now}
}

// Request crea el reporte en pending y lo encola. Si no se puede encolar queda failed.
func (uc *ReportUseCase) Request(ctx context.Context, userID string, in dto.CreateReportRequest) (*dto.ReportResponse, error) {
	if !validReportType(in.ReportType) {
		return nil, fmt.Errorf("%w: tipo de reporte %q desconocido", domain.ErrInvalidInput, in.ReportType)
	}
	switch in.Format {
	case entity.ReportFormatPDF, entity.ReportFormatExcel, entity.ReportFormatCSV:
	default:
		return nil, fmt.Errorf("%w: formato %q desconocido", domain.ErrInvalidInput, in.Format)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, fmt.Errorf("%w: end_date no puede ser anterior a start_date", domain.ErrInvalidInput)
	}

	now := uc.now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = fmt.Sprintf("%s %s", in.ReportType, now.Format("2006-01-02 15:04"))
	}
	r := &entity.Report{
		ID:         uuid.New().String(),
		Name:       name,
		ReportType: in.ReportType,
		Format:     in.Format,
		Status:     entity.ReportStatusPending,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		CreatedBy:  userID,
		CreatedAt:  now,
	}
	if err := uc.reportRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	if err := uc.queue.Enqueue(ctx, r.ID); err != nil {
		r.Status = entity.ReportStatusFailed
		r.Error = "no se pudo encolar: " + err.Error()
		if uerr := uc.reportRepo.Update(ctx, r); uerr != nil {
			uc.log.Error().Err(uerr).Str("report_id", r.ID).Msg("no se pudo marcar el reporte como fallido")
		}
		return nil, fmt.Errorf("encolar reporte: %w", err)
	}
	return toReportResponse(r), nil
}

// Get obtiene un reporte.
func (uc *ReportUseCase) Get(ctx context.Context, id string) (*dto.ReportResponse, error) {
	r, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReportResponse(r), nil
}

// List lista reportes del más reciente al más antiguo.
func (uc *ReportUseCase) List(ctx context.Context, limit, offset int) (*dto.ReportListResponse, error) {
	list, err := uc.reportRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReportResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toReportResponse(r))
	}
	return &dto.ReportListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Download devuelve la ruta del archivo; solo para reportes completed.
func (uc *ReportUseCase) Download(ctx context.Context, id string) (*entity.Report, error) {
	r, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != entity.ReportStatusCompleted || r.FilePath == "" {
		return nil, fmt.Errorf("%w: el reporte está %s", domain.ErrConflict, r.Status)
	}
	return r, nil
}

func (uc *ReportUseCase) get(ctx context.Context, id string) (*entity.Report, error) {
	r, err := uc.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: reporte %s", domain.ErrNotFound, id)
	}
	return r, nil
}

func validReportType(t string) bool {
	switch t {
	case entity.ReportKPISummary, entity.ReportAlertSummary, entity.ReportInventorySummary, entity.ReportMovementAnalysis:
		return true
	}
	return false
}

func toReportResponse(r *entity.Report) *dto.ReportResponse {
	return &dto.ReportResponse{
		ID:          r.ID,
		Name:        r.Name,
		ReportType:  r.ReportType,
		Format:      r.Format,
		Status:      r.Status,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Error:       r.Error,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
	}
}
