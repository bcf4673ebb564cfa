package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	kpirules "github.com/jhoicas/Fabrica-api/internal/domain/analytics"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

const (
	defaultTrendPeriodDays = 30
	defaultUpdateFrequency = "daily"
)

// KPIUseCase gestiona KPIs, su historial y las alertas por umbral.
type KPIUseCase struct {
	kpiRepo   repository.KPIRepository
	alertRepo repository.AlertRepository
	txRunner  TxRunner
	notifier  AlertNotifier
	log       *logger.Logger
	now       func() time.Time
}

// NewKPIUseCase construye el caso de uso. notifier puede ser nil.
func NewKPIUseCase(kpiRepo repository.KPIRepository, alertRepo repository.AlertRepository, txRunner TxRunner, notifier AlertNotifier, log *logger.Logger) *KPIUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &KPIUseCase{
		kpiRepo:   kpiRepo,
		alertRepo: alertRepo,
		txRunner:  txRunner,
		notifier:  notifier,
		log:       log.Component("kpi"),
		now:       time.Now,
	}
}

// CreateKPI crea un KPI.
func (uc *KPIUseCase) CreateKPI(ctx context.Context, in dto.CreateKPIRequest) (*dto.KPIResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Unit) == "" {
		return nil, fmt.Errorf("%w: name y unit son obligatorios", domain.ErrInvalidInput)
	}
	switch in.Category {
	case entity.KPICategoryEfficiency, entity.KPICategoryQuality, entity.KPICategoryProductivity,
		entity.KPICategorySafety, entity.KPICategoryCost:
	default:
		return nil, fmt.Errorf("%w: categoría %q desconocida", domain.ErrInvalidInput, in.Category)
	}
	if in.TrendPeriodDays < 0 {
		return nil, fmt.Errorf("%w: trend_period_days no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.TrendPeriodDays == 0 {
		in.TrendPeriodDays = defaultTrendPeriodDays
	}
	switch in.UpdateFrequency {
	case "":
		in.UpdateFrequency = defaultUpdateFrequency
	case "hourly", "daily", "weekly", "monthly":
	default:
		return nil, fmt.Errorf("%w: frecuencia %q desconocida", domain.ErrInvalidInput, in.UpdateFrequency)
	}

	now := uc.now()
	k := &entity.KPI{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Description:       in.Description,
		Category:          in.Category,
		Unit:              in.Unit,
		TargetValue:       in.TargetValue,
		WarningThreshold:  in.WarningThreshold,
		CriticalThreshold: in.CriticalThreshold,
		TrendPeriodDays:   in.TrendPeriodDays,
		UpdateFrequency:   in.UpdateFrequency,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.kpiRepo.Create(ctx, k); err != nil {
		return nil, err
	}
	return toKPIResponse(k), nil
}

// ListKPIs lista KPIs con su estado, opcionalmente por categoría.
func (uc *KPIUseCase) ListKPIs(ctx context.Context, category string) ([]dto.KPIResponse, error) {
	list, err := uc.kpiRepo.List(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]dto.KPIResponse, 0, len(list))
	for _, k := range list {
		out = append(out, *toKPIResponse(k))
	}
	return out, nil
}

// GetKPI devuelve el KPI con estado y tendencia sobre trend_period_days.
func (uc *KPIUseCase) GetKPI(ctx context.Context, id string) (*dto.KPIResponse, error) {
	k, err := uc.getKPI(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toKPIResponse(k)
	if err := uc.withTrend(ctx, k, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// History devuelve el historial de los últimos days días (por defecto el periodo de tendencia).
func (uc *KPIUseCase) History(ctx context.Context, id string, days int) ([]dto.KPIHistoryDTO, error) {
	k, err := uc.getKPI(ctx, id)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = k.TrendPeriodDays
	}
	hist, err := uc.kpiRepo.History(ctx, id, uc.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	out := make([]dto.KPIHistoryDTO, 0, len(hist))
	for _, h := range hist {
		out = append(out, dto.KPIHistoryDTO{Value: h.Value, Timestamp: h.Timestamp, Note: h.Note})
	}
	return out, nil
}

// RecordValue agrega el valor al historial, actualiza current_value y abre una alerta si
// se cruzó un umbral y no hay otra activa de la misma severidad, todo en una transacción.
// El aviso por e-mail sale después del commit y nunca hace fallar la operación.
func (uc *KPIUseCase) RecordValue(ctx context.Context, id string, in dto.RecordKPIValueRequest) (*dto.RecordKPIValueResponse, error) {
	k, err := uc.getKPI(ctx, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	var alert *entity.Alert
	err = uc.txRunner.RunAnalytics(ctx, func(repos TxRepos) error {
		if err := repos.KPIs.AddHistory(ctx, &entity.KPIHistory{
			ID:        uuid.New().String(),
			KPIID:     id,
			Value:     in.Value,
			Timestamp: now,
			Note:      in.Note,
		}); err != nil {
			return err
		}
		if err := repos.KPIs.UpdateValue(ctx, id, in.Value, now); err != nil {
			return err
		}
		k.CurrentValue = in.Value
		k.UpdatedAt = now

		var err error
		alert, err = uc.openAlert(ctx, repos.Alerts, k)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.RecordKPIValueResponse{KPI: *toKPIResponse(k)}
	if err := uc.withTrend(ctx, k, &resp.KPI); err != nil {
		return nil, err
	}
	if alert != nil {
		uc.log.Warn().Str("kpi", k.Name).Str("severity", alert.Severity).Float64("value", k.CurrentValue).Msg("alerta abierta")
		if uc.notifier != nil {
			if err := uc.notifier.NotifyAlert(ctx, alert, k); err != nil {
				uc.log.Error().Err(err).Str("alert_id", alert.ID).Msg("no se pudo notificar la alerta")
			}
		}
		resp.Alert = toAlertResponse(alert)
	}
	return resp, nil
}

// openAlert crea la alerta del umbral cruzado salvo que ya haya una activa de esa severidad.
func (uc *KPIUseCase) openAlert(ctx context.Context, alerts repository.AlertRepository, k *entity.KPI) (*entity.Alert, error) {
	severity, threshold := kpirules.EvaluateThreshold(k, k.CurrentValue)
	if severity == "" {
		return nil, nil
	}
	open, err := alerts.List(ctx, repository.AlertFilter{
		KPIID: k.ID, Status: entity.AlertStatusActive, Severity: severity,
	}, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		return nil, nil
	}

	alert := &entity.Alert{
		ID:             uuid.New().String(),
		KPIID:          k.ID,
		Title:          fmt.Sprintf("%s: umbral %s cruzado", k.Name, severity),
		Description:    fmt.Sprintf("Valor %.2f %s frente al umbral %.2f", k.CurrentValue, k.Unit, threshold),
		Severity:       severity,
		Status:         entity.AlertStatusActive,
		ThresholdValue: threshold,
		CurrentValue:   k.CurrentValue,
		CreatedAt:      uc.now(),
	}
	if err := alerts.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (uc *KPIUseCase) withTrend(ctx context.Context, k *entity.KPI, resp *dto.KPIResponse) error {
	period := k.TrendPeriodDays
	if period <= 0 {
		period = defaultTrendPeriodDays
	}
	hist, err := uc.kpiRepo.History(ctx, k.ID, uc.now().AddDate(0, 0, -period))
	if err != nil {
		return err
	}
	t := kpirules.CalculateTrend(hist)
	resp.Trend = t.Direction
	resp.TrendChange = t.Change
	return nil
}

// ── Alertas ───────────────────────────────────────────────────────────────────

// ListAlerts lista alertas con filtros.
func (uc *KPIUseCase) ListAlerts(ctx context.Context, filter repository.AlertFilter, limit, offset int) (*dto.AlertListResponse, error) {
	list, err := uc.alertRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAlertResponse(a))
	}
	return &dto.AlertListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// AcknowledgeAlert marca una alerta activa como reconocida.
func (uc *KPIUseCase) AcknowledgeAlert(ctx context.Context, id, userID string) (*dto.AlertResponse, error) {
	a, err := uc.getAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != entity.AlertStatusActive {
		return nil, fmt.Errorf("%w: solo se reconocen alertas activas (está %s)", domain.ErrInvalidTransition, a.Status)
	}
	now := uc.now()
	a.Status = entity.AlertStatusAcknowledged
	a.AcknowledgedAt = &now
	a.AcknowledgedBy = userID
	if err := uc.alertRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toAlertResponse(a), nil
}

// ResolveAlert cierra una alerta activa o reconocida.
func (uc *KPIUseCase) ResolveAlert(ctx context.Context, id, userID, note string) (*dto.AlertResponse, error) {
	a, err := uc.getAlert(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == entity.AlertStatusResolved {
		return nil, fmt.Errorf("%w: la alerta ya está resuelta", domain.ErrInvalidTransition)
	}
	now := uc.now()
	if a.AcknowledgedAt == nil {
		a.AcknowledgedAt = &now
		a.AcknowledgedBy = userID
	}
	a.Status = entity.AlertStatusResolved
	a.ResolvedAt = &now
	a.ResolutionNote = note
	if err := uc.alertRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toAlertResponse(a), nil
}

func (uc *KPIUseCase) getKPI(ctx context.Context, id string) (*entity.KPI, error) {
	k, err := uc.kpiRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, fmt.Errorf("%w: kpi %s", domain.ErrNotFound, id)
	}
	return k, nil
}

func (uc *KPIUseCase) getAlert(ctx context.Context, id string) (*entity.Alert, error) {
	a, err := uc.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: alerta %s", domain.ErrNotFound, id)
	}
	return a, nil
}

func toKPIResponse(k *entity.KPI) *dto.KPIResponse {
	resp := &dto.KPIResponse{
		ID:                k.ID,
		Name:              k.Name,
		Description:       k.Description,
		Category:          k.Category,
		Unit:              k.Unit,
		TargetValue:       k.TargetValue,
		CurrentValue:      k.CurrentValue,
		WarningThreshold:  k.WarningThreshold,
		CriticalThreshold: k.CriticalThreshold,
		TrendPeriodDays:   k.TrendPeriodDays,
		UpdateFrequency:   k.UpdateFrequency,
		Status:            kpirules.KPIStatus(k.CurrentValue, k.TargetValue),
		UpdatedAt:         k.UpdatedAt,
	}
	if pct, ok := kpirules.Completion(k.CurrentValue, k.TargetValue); ok {
		resp.Completion = &pct
	}
	return resp
}

func toAlertResponse(a *entity.Alert) *dto.AlertResponse {
	return &dto.AlertResponse{
		ID:             a.ID,
		KPIID:          a.KPIID,
		Title:          a.Title,
		Description:    a.Description,
		Severity:       a.Severity,
		Status:         a.Status,
		ThresholdValue: a.ThresholdValue,
		CurrentValue:   a.CurrentValue,
		CreatedAt:      a.CreatedAt,
		AcknowledgedAt: a.AcknowledgedAt,
		AcknowledgedBy: a.AcknowledgedBy,
		ResolvedAt:     a.ResolvedAt,
		ResolutionNote: a.ResolutionNote,
	}
}
