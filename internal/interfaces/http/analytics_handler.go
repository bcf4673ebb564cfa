package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Fabrica-api/internal/application/analytics"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// AnalyticsHandler maneja KPIs, alertas, reportes y el dashboard (protegido).
type AnalyticsHandler struct {
	kpis      *appanalytics.KPIUseCase
	reports   *appanalytics.ReportUseCase
	dashboard *appanalytics.DashboardUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(kpis *appanalytics.KPIUseCase, reports *appanalytics.ReportUseCase, dashboard *appanalytics.DashboardUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{kpis: kpis, reports: reports, dashboard: dashboard}
}

// GetDashboard godoc
// @Summary      Resumen operativo de la planta
// @Description  Valor de stock, materiales bajo mínimo, órdenes abiertas, alertas activas
//
//	y movimientos de la última semana. Cacheado en Redis cuando está habilitado.
//
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/analytics/dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateKPI godoc
// @Summary      Crear KPI
// @Tags         analytics
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateKPIRequest  true  "Definición del KPI"
// @Success      201   {object}  dto.KPIResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/analytics/kpis [post]
func (h *AnalyticsHandler) CreateKPI(c *fiber.Ctx) error {
	var in dto.CreateKPIRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.kpis.CreateKPI(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListKPIs godoc
// @Summary      Listar KPIs
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "Categoría"
// @Success      200  {array}  dto.KPIResponse
// @Router       /api/analytics/kpis [get]
func (h *AnalyticsHandler) ListKPIs(c *fiber.Ctx) error {
	out, err := h.kpis.ListKPIs(c.UserContext(), c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetKPI godoc
// @Summary      Obtener KPI con tendencia
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del KPI"
// @Success      200  {object}  dto.KPIResponse
// @Router       /api/analytics/kpis/{id} [get]
func (h *AnalyticsHandler) GetKPI(c *fiber.Ctx) error {
	out, err := h.kpis.GetKPI(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de valores del KPI
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del KPI"
// @Param        days  query  int     false  "Ventana en días (default 30)"
// @Success      200  {array}  dto.KPIHistoryDTO
// @Router       /api/analytics/kpis/{id}/history [get]
func (h *AnalyticsHandler) History(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days <= 0 {
		return badRequest(c, "VALIDATION", "days debe ser positivo")
	}
	out, err := h.kpis.History(c.UserContext(), c.Params("id"), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordValue godoc
// @Summary      Registrar valor del KPI
// @Description  Guarda el valor, actualiza el actual y genera una alerta si cruza un umbral.
// @Tags         analytics
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del KPI"
// @Param        body  body  dto.RecordKPIValueRequest  true  "Valor y nota"
// @Success      201   {object}  dto.RecordKPIValueResponse
// @Router       /api/analytics/kpis/{id}/values [post]
func (h *AnalyticsHandler) RecordValue(c *fiber.Ctx) error {
	var in dto.RecordKPIValueRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.kpis.RecordValue(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAlerts godoc
// @Summary      Listar alertas
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        kpi_id    query  string  false  "KPI"
// @Param        status    query  string  false  "active, acknowledged, resolved"
// @Param        severity  query  string  false  "warning, critical"
// @Param        limit     query  int     false  "Límite"
// @Param        offset    query  int     false  "Offset"
// @Success      200  {object}  dto.AlertListResponse
// @Router       /api/analytics/alerts [get]
func (h *AnalyticsHandler) ListAlerts(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repository.AlertFilter{
		KPIID:    c.Query("kpi_id"),
		Status:   c.Query("status"),
		Severity: c.Query("severity"),
	}
	out, err := h.kpis.ListAlerts(c.UserContext(), filter, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AcknowledgeAlert godoc
// @Summary      Reconocer alerta
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/analytics/alerts/{id}/acknowledge [post]
func (h *AnalyticsHandler) AcknowledgeAlert(c *fiber.Ctx) error {
	out, err := h.kpis.AcknowledgeAlert(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ResolveAlert godoc
// @Summary      Resolver alerta
// @Tags         analytics
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la alerta"
// @Param        body  body  dto.ResolveAlertRequest  false  "Nota de resolución"
// @Success      200   {object}  dto.AlertResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/analytics/alerts/{id}/resolve [post]
func (h *AnalyticsHandler) ResolveAlert(c *fiber.Ctx) error {
	var in dto.ResolveAlertRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.kpis.ResolveAlert(c.UserContext(), c.Params("id"), GetUserID(c), in.ResolutionNote)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RequestReport godoc
// @Summary      Solicitar reporte
// @Description  Crea el reporte en estado pending y lo encola para generación en segundo plano.
// @Tags         analytics
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReportRequest  true  "Tipo, formato y periodo"
// @Success      202   {object}  dto.ReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/analytics/reports [post]
func (h *AnalyticsHandler) RequestReport(c *fiber.Ctx) error {
	var in dto.CreateReportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.reports.Request(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// GetReport godoc
// @Summary      Estado del reporte
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del reporte"
// @Success      200  {object}  dto.ReportResponse
// @Router       /api/analytics/reports/{id} [get]
func (h *AnalyticsHandler) GetReport(c *fiber.Ctx) error {
	out, err := h.reports.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListReports godoc
// @Summary      Listar reportes
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.ReportListResponse
// @Router       /api/analytics/reports [get]
func (h *AnalyticsHandler) ListReports(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	out, err := h.reports.List(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DownloadReport godoc
// @Summary      Descargar reporte generado
// @Tags         analytics
// @Security     Bearer
// @Produce      octet-stream
// @Param        id  path  string  true  "ID del reporte"
// @Success      200  {file}  binary
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/analytics/reports/{id}/download [get]
func (h *AnalyticsHandler) DownloadReport(c *fiber.Ctx) error {
	r, err := h.reports.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Download(r.FilePath)
}
