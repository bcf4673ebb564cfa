package production

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	prodrules "github.com/jhoicas/Fabrica-api/internal/domain/production"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// reportWindowDays ventana por defecto de los reportes de planta.
const reportWindowDays = 30

// since devuelve from o, si es cero, el inicio de la ventana por defecto.
func (uc *UseCase) since(from time.Time) time.Time {
	if from.IsZero() {
		return uc.now().AddDate(0, 0, -reportWindowDays)
	}
	return from
}

// LineSchedule orden en curso de la línea y órdenes agendadas por fecha de inicio.
func (uc *UseCase) LineSchedule(ctx context.Context, lineID string) (*dto.LineScheduleResponse, error) {
	if _, err := getLine(ctx, uc.repos.Lines, lineID); err != nil {
		return nil, err
	}
	current, err := uc.repos.Orders.List(ctx, repository.ProductionOrderFilter{
		Status: entity.ProductionStatusInProgress, ProductionLineID: lineID,
	}, 0, 0)
	if err != nil {
		return nil, err
	}
	scheduled, err := uc.repos.Orders.List(ctx, repository.ProductionOrderFilter{
		Status: entity.ProductionStatusScheduled, ProductionLineID: lineID,
	}, 0, 0)
	if err != nil {
		return nil, err
	}

	out := &dto.LineScheduleResponse{LineID: lineID, UpcomingOrders: make([]dto.ProductionOrderResponse, 0, len(scheduled))}
	if len(current) > 0 {
		sort.SliceStable(current, func(i, j int) bool { return current[i].StartDate.Before(current[j].StartDate) })
		out.CurrentOrder = toOrderResponse(current[0])
	}
	sort.SliceStable(scheduled, func(i, j int) bool { return scheduled[i].StartDate.Before(scheduled[j].StartDate) })
	for _, o := range scheduled {
		out.UpcomingOrders = append(out.UpcomingOrders, *toOrderResponse(o))
	}
	return out, nil
}

// LinePerformance producción, tasa de defectos y eficiencia de los lotes de la línea
// iniciados desde from, más el estado del próximo mantenimiento.
func (uc *UseCase) LinePerformance(ctx context.Context, lineID string, from time.Time) (*dto.LinePerformanceResponse, error) {
	line, err := getLine(ctx, uc.repos.Lines, lineID)
	if err != nil {
		return nil, err
	}
	since := uc.since(from)
	batches, err := uc.repos.Batches.ListByLineSince(ctx, lineID, since)
	if err != nil {
		return nil, err
	}

	out := &dto.LinePerformanceResponse{LineID: lineID, Since: since, TotalProduced: decimal.Zero}
	for _, b := range batches {
		out.TotalProduced = out.TotalProduced.Add(b.QuantityProduced)
		out.TotalDefects += b.DefectCount
	}
	out.DefectRate = prodrules.DefectRate(out.TotalProduced, out.TotalDefects)
	if eff, ok := prodrules.LineEfficiency(batches, line.CapacityPerHour); ok {
		out.Efficiency = &eff
	}
	status, days := prodrules.MaintenanceStatus(line.MaintenanceSchedule, uc.now())
	out.MaintenanceStatus = status
	if status == prodrules.MaintenanceDueSoon || status == prodrules.MaintenanceOnSchedule {
		out.DaysUntilMaintenance = &days
	}
	return out, nil
}

// MaintenanceSchedule mantenimientos abiertos y líneas cuyo mantenimiento agendado ya venció.
func (uc *UseCase) MaintenanceSchedule(ctx context.Context) (*dto.MaintenanceScheduleResponse, error) {
	lines, err := uc.repos.Lines.List(ctx)
	if err != nil {
		return nil, err
	}
	open, err := uc.repos.Maintenance.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	status := make(map[string]string, len(lines))
	out := &dto.MaintenanceScheduleResponse{
		Upcoming: make([]dto.MaintenanceResponse, 0, len(open)),
		Overdue:  []dto.ProductionLineResponse{},
	}
	for _, l := range lines {
		status[l.ID] = l.Status
		if s, _ := prodrules.MaintenanceStatus(l.MaintenanceSchedule, now); s == prodrules.MaintenanceOverdue {
			out.Overdue = append(out.Overdue, *toLineResponse(l))
		}
	}
	for _, m := range open {
		out.Upcoming = append(out.Upcoming, *toMaintenanceResponse(m, status[m.ProductionLineID]))
	}
	return out, nil
}

// ConsumptionReport consumo y desperdicio por material desde from, en orden de primera
// aparición. efficiency = 100 − wastage %.
func (uc *UseCase) ConsumptionReport(ctx context.Context, from time.Time) (*dto.ConsumptionReportResponse, error) {
	since := uc.since(from)
	list, err := uc.repos.Consumption.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}

	out := &dto.ConsumptionReportResponse{Since: since, Materials: []dto.MaterialConsumptionSummaryDTO{}}
	idx := map[string]int{}
	for _, c := range list {
		i, ok := idx[c.MaterialID]
		if !ok {
			i = len(out.Materials)
			idx[c.MaterialID] = i
			out.Materials = append(out.Materials, dto.MaterialConsumptionSummaryDTO{MaterialID: c.MaterialID})
		}
		out.Materials[i].TotalUsed = out.Materials[i].TotalUsed.Add(c.QuantityUsed)
		out.Materials[i].TotalWastage = out.Materials[i].TotalWastage.Add(c.Wastage)
	}
	for i := range out.Materials {
		row := &out.Materials[i]
		row.Efficiency = hundred.Sub(WastagePercentage(row.TotalUsed, row.TotalWastage))
		m, err := uc.repos.Materials.GetByID(ctx, row.MaterialID)
		if err != nil {
			return nil, err
		}
		if m != nil {
			row.MaterialCode, row.MaterialName = m.Code, m.Name
		}
	}
	return out, nil
}

// QualityMetrics tasa de aprobación global y por parámetro de los controles desde from.
// Los controles pending cuentan en el total pero no como aprobados ni rechazados.
func (uc *UseCase) QualityMetrics(ctx context.Context, from time.Time) (*dto.QualityMetricsResponse, error) {
	since := uc.since(from)
	checks, err := uc.repos.Quality.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}

	out := &dto.QualityMetricsResponse{Since: since, TotalChecks: len(checks), Parameters: []dto.QualityParameterDTO{}}
	idx := map[string]int{}
	for _, c := range checks {
		i, ok := idx[c.Parameter]
		if !ok {
			i = len(out.Parameters)
			idx[c.Parameter] = i
			out.Parameters = append(out.Parameters, dto.QualityParameterDTO{Parameter: c.Parameter})
		}
		p := &out.Parameters[i]
		p.Total++
		switch c.Result {
		case entity.QualityPassed:
			p.Passed++
			out.Passed++
		case entity.QualityFailed:
			p.Failed++
		}
	}
	out.PassRate = passRate(out.Passed, out.TotalChecks)
	for i := range out.Parameters {
		out.Parameters[i].PassRate = passRate(out.Parameters[i].Passed, out.Parameters[i].Total)
	}
	sort.SliceStable(out.Parameters, func(i, j int) bool { return out.Parameters[i].Parameter < out.Parameters[j].Parameter })
	return out, nil
}

// passRate passed / total × 100 a dos decimales; 0 sin controles.
func passRate(passed, total int) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(passed)).Div(decimal.NewFromInt(int64(total))).Mul(hundred).Round(2).InexactFloat64()
}
