// Package analytics contiene los casos de uso de KPIs, alertas, el tablero de planta y
// la generación de reportes en segundo plano.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const dashboardMovementDays = 7

// DashboardUseCase genera el resumen operativo de la planta.
//
// Fuente de datos: DashboardRepository (consultas read-only) más los conteos por estado
// de órdenes de producción y pedidos.
type DashboardUseCase struct {
	dashRepo       repository.DashboardRepository
	productionRepo repository.ProductionOrderRepository
	orderRepo      repository.OrderRepository
	now            func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	dashRepo repository.DashboardRepository,
	productionRepo repository.ProductionOrderRepository,
	orderRepo repository.OrderRepository,
) *DashboardUseCase {
	return &DashboardUseCase{dashRepo: dashRepo, productionRepo: productionRepo, orderRepo: orderRepo, now: time.Now}
}

// GetSummary construye el DashboardResponse.
//
// Seis llamadas en paralelo:
//  1. StockValue                      → valor del inventario
//  2. CountLowStockMaterials          → materiales en o bajo punto de reorden
//  3. CountByStatus(producción)       → órdenes scheduled, in_progress u on_hold
//  4. CountByStatus(pedidos)          → pedidos pending
//  5. CountActiveAlerts               → alertas activas
//  6. CountMovementsSince(hoy − 7d)   → movimientos de la última semana
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	now := uc.now()
	since := now.AddDate(0, 0, -dashboardMovementDays)

	type valueResult struct {
		value decimal.Decimal
		err   error
	}
	type countResult struct {
		n   int
		err error
	}

	valueCh := make(chan valueResult, 1)
	lowCh := make(chan countResult, 1)
	prodCh := make(chan countResult, 1)
	ordersCh := make(chan countResult, 1)
	alertsCh := make(chan countResult, 1)
	movCh := make(chan countResult, 1)

	go func() {
		v, err := uc.dashRepo.StockValue(ctx)
		valueCh <- valueResult{v, err}
	}()
	go func() {
		n, err := uc.dashRepo.CountLowStockMaterials(ctx)
		lowCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.productionRepo.CountByStatus(ctx,
			entity.ProductionStatusScheduled, entity.ProductionStatusInProgress, entity.ProductionStatusOnHold)
		prodCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.orderRepo.CountByStatus(ctx, entity.OrderStatusPending)
		ordersCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.dashRepo.CountActiveAlerts(ctx)
		alertsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.dashRepo.CountMovementsSince(ctx, since)
		movCh <- countResult{n, err}
	}()

	value := <-valueCh
	low := <-lowCh
	prod := <-prodCh
	pending := <-ordersCh
	alerts := <-alertsCh
	movs := <-movCh

	if value.err != nil {
		return nil, fmt.Errorf("dashboard: valor de inventario: %w", value.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if prod.err != nil {
		return nil, fmt.Errorf("dashboard: órdenes de producción: %w", prod.err)
	}
	if pending.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos pendientes: %w", pending.err)
	}
	if alerts.err != nil {
		return nil, fmt.Errorf("dashboard: alertas activas: %w", alerts.err)
	}
	if movs.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos: %w", movs.err)
	}

	return &dto.DashboardResponse{
		StockValue:           value.value.Round(2),
		LowStockMaterials:    low.n,
		OpenProductionOrders: prod.n,
		PendingOrders:        pending.n,
		ActiveAlerts:         alerts.n,
		MovementsLast7Days:   movs.n,
		DateLabel:            monthLabel(now),
		GeneratedAt:          now,
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
