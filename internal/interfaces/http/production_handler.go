package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/production"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// ProductionHandler maneja líneas, órdenes, lotes, consumo, calidad y mantenimiento (protegido).
type ProductionHandler struct {
	uc *production.UseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.UseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// CreateLine godoc
// @Summary      Crear línea de producción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionLineRequest  true  "Datos de la línea"
// @Success      201   {object}  dto.ProductionLineResponse
// @Router       /api/production/lines [post]
func (h *ProductionHandler) CreateLine(c *fiber.Ctx) error {
	var in dto.CreateProductionLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateLine(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetLine godoc
// @Summary      Obtener línea
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la línea"
// @Success      200  {object}  dto.ProductionLineResponse
// @Router       /api/production/lines/{id} [get]
func (h *ProductionHandler) GetLine(c *fiber.Ctx) error {
	out, err := h.uc.GetLine(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListLines godoc
// @Summary      Listar líneas
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductionLineResponse
// @Router       /api/production/lines [get]
func (h *ProductionHandler) ListLines(c *fiber.Ctx) error {
	out, err := h.uc.ListLines(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateLineStatus godoc
// @Summary      Cambiar estado de la línea
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la línea"
// @Param        body  body  dto.UpdateLineStatusRequest  true  "active, maintenance, inactive"
// @Success      200   {object}  dto.ProductionLineResponse
// @Router       /api/production/lines/{id}/status [patch]
func (h *ProductionHandler) UpdateLineStatus(c *fiber.Ctx) error {
	var in dto.UpdateLineStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateLineStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateOrder godoc
// @Summary      Crear orden de producción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionOrderRequest  true  "Producto, cantidad, línea y fechas"
// @Success      201   {object}  dto.ProductionOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/production/orders [post]
func (h *ProductionHandler) CreateOrder(c *fiber.Ctx) error {
	var in dto.CreateProductionOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateOrder(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetOrder godoc
// @Summary      Obtener orden de producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.ProductionOrderResponse
// @Router       /api/production/orders/{id} [get]
func (h *ProductionHandler) GetOrder(c *fiber.Ctx) error {
	out, err := h.uc.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListOrders godoc
// @Summary      Listar órdenes de producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        status   query  string  false  "Estado"
// @Param        line_id  query  string  false  "Línea de producción"
// @Param        limit    query  int     false  "Límite"
// @Param        offset   query  int     false  "Offset"
// @Success      200  {object}  dto.ProductionOrderListResponse
// @Router       /api/production/orders [get]
func (h *ProductionHandler) ListOrders(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repository.ProductionOrderFilter{
		Status:           c.Query("status"),
		ProductionLineID: c.Query("line_id"),
	}
	out, err := h.uc.ListOrders(c.UserContext(), filter, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateOrderStatus godoc
// @Summary      Cambiar estado de la orden
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden"
// @Param        body  body  dto.UpdateStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.ProductionOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id}/status [patch]
func (h *ProductionHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateOrderStatus(c.UserContext(), c.Params("id"), GetUserID(c), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Requirements godoc
// @Summary      Requerimiento de materiales de la orden
// @Description  Cantidad requerida, disponible y faltante por material según la lista de materiales.
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.RequirementsResponse
// @Router       /api/production/orders/{id}/requirements [get]
func (h *ProductionHandler) Requirements(c *fiber.Ctx) error {
	out, err := h.uc.Requirements(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Start godoc
// @Summary      Iniciar producción
// @Description  Verifica materiales, abre el primer lote y pasa la orden a in_progress.
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.StartProductionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id}/start [post]
func (h *ProductionHandler) Start(c *fiber.Ctx) error {
	out, err := h.uc.Start(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar orden de producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.ProductionOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id}/complete [post]
func (h *ProductionHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// QualityRate godoc
// @Summary      Tasa de aprobación de calidad de la orden
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.QualityRateResponse
// @Router       /api/production/orders/{id}/quality-rate [get]
func (h *ProductionHandler) QualityRate(c *fiber.Ctx) error {
	out, err := h.uc.QualityRate(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListBatches godoc
// @Summary      Lotes de la orden
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/production/orders/{id}/batches [get]
func (h *ProductionHandler) ListBatches(c *fiber.Ctx) error {
	out, err := h.uc.ListBatches(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// OpenBatch godoc
// @Summary      Abrir lote
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      201  {object}  dto.BatchResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production/orders/{id}/batches [post]
func (h *ProductionHandler) OpenBatch(c *fiber.Ctx) error {
	out, err := h.uc.OpenBatch(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordProduction godoc
// @Summary      Registrar unidades producidas en el lote
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del lote"
// @Param        body  body  dto.RecordProductionRequest  true  "Cantidad producida"
// @Success      200   {object}  dto.BatchResponse
// @Router       /api/production/batches/{id}/production [post]
func (h *ProductionHandler) RecordProduction(c *fiber.Ctx) error {
	var in dto.RecordProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RecordProduction(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CompleteBatch godoc
// @Summary      Cerrar lote
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.CompleteBatchResponse
// @Router       /api/production/batches/{id}/complete [post]
func (h *ProductionHandler) CompleteBatch(c *fiber.Ctx) error {
	out, err := h.uc.CompleteBatch(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordConsumption godoc
// @Summary      Registrar consumo de material
// @Description  Registra cantidad usada y desperdicio; no modifica el libro de stock.
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del lote"
// @Param        body  body  dto.RecordConsumptionRequest  true  "Material, cantidad usada y desperdicio"
// @Success      201   {object}  dto.ConsumptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/production/batches/{id}/consumption [post]
func (h *ProductionHandler) RecordConsumption(c *fiber.Ctx) error {
	var in dto.RecordConsumptionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RecordConsumption(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListConsumption godoc
// @Summary      Consumos del lote
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {array}  dto.ConsumptionResponse
// @Router       /api/production/batches/{id}/consumption [get]
func (h *ProductionHandler) ListConsumption(c *fiber.Ctx) error {
	out, err := h.uc.ListConsumption(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// BatchEfficiency godoc
// @Summary      Eficiencia de materiales del lote
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchEfficiencyResponse
// @Router       /api/production/batches/{id}/efficiency [get]
func (h *ProductionHandler) BatchEfficiency(c *fiber.Ctx) error {
	out, err := h.uc.BatchEfficiency(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddQualityCheck godoc
// @Summary      Registrar control de calidad
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del lote"
// @Param        body  body  dto.CreateQualityCheckRequest  true  "Resultado del control"
// @Success      201   {object}  dto.QualityCheckResponse
// @Router       /api/production/batches/{id}/quality-checks [post]
func (h *ProductionHandler) AddQualityCheck(c *fiber.Ctx) error {
	var in dto.CreateQualityCheckRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AddQualityCheck(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListQualityChecks godoc
// @Summary      Controles de calidad del lote
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {array}  dto.QualityCheckResponse
// @Router       /api/production/batches/{id}/quality-checks [get]
func (h *ProductionHandler) ListQualityChecks(c *fiber.Ctx) error {
	out, err := h.uc.ListQualityChecks(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// StartMaintenance godoc
// @Summary      Iniciar mantenimiento de la línea
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la línea"
// @Param        body  body  dto.StartMaintenanceRequest  true  "Tipo y descripción"
// @Success      201   {object}  dto.MaintenanceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production/lines/{id}/maintenance [post]
func (h *ProductionHandler) StartMaintenance(c *fiber.Ctx) error {
	var in dto.StartMaintenanceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.StartMaintenance(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMaintenance godoc
// @Summary      Historial de mantenimiento de la línea
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la línea"
// @Success      200  {array}  dto.MaintenanceResponse
// @Router       /api/production/lines/{id}/maintenance [get]
func (h *ProductionHandler) ListMaintenance(c *fiber.Ctx) error {
	out, err := h.uc.ListMaintenance(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CompleteMaintenance godoc
// @Summary      Cerrar mantenimiento
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del registro de mantenimiento"
// @Param        body  body  dto.CompleteMaintenanceRequest  true  "Costo y notas"
// @Success      200   {object}  dto.MaintenanceResponse
// @Router       /api/production/maintenance/{id}/complete [post]
func (h *ProductionHandler) CompleteMaintenance(c *fiber.Ctx) error {
	var in dto.CompleteMaintenanceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CompleteMaintenance(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LineSchedule godoc
// @Summary      Programación de la línea
// @Description  Orden en curso y órdenes agendadas por fecha de inicio.
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la línea"
// @Success      200  {object}  dto.LineScheduleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production/lines/{id}/schedule [get]
func (h *ProductionHandler) LineSchedule(c *fiber.Ctx) error {
	out, err := h.uc.LineSchedule(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LinePerformance godoc
// @Summary      Desempeño de la línea
// @Description  Producción, tasa de defectos, eficiencia y estado de mantenimiento. Por defecto últimos 30 días.
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id          path   string  true   "ID de la línea"
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Success      200  {object}  dto.LinePerformanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/production/lines/{id}/performance [get]
func (h *ProductionHandler) LinePerformance(c *fiber.Ctx) error {
	from, err := queryStartDate(c)
	if err != nil {
		return badRequest(c, "VALIDATION", "start_date inválido, use YYYY-MM-DD")
	}
	out, err := h.uc.LinePerformance(c.UserContext(), c.Params("id"), from)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MaintenanceSchedule godoc
// @Summary      Agenda de mantenimiento
// @Description  Mantenimientos abiertos y líneas con mantenimiento vencido.
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MaintenanceScheduleResponse
// @Router       /api/production/maintenance/schedule [get]
func (h *ProductionHandler) MaintenanceSchedule(c *fiber.Ctx) error {
	out, err := h.uc.MaintenanceSchedule(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ConsumptionReport godoc
// @Summary      Reporte de consumo de materiales
// @Description  Consumo y desperdicio agrupados por material. Por defecto últimos 30 días.
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Success      200  {object}  dto.ConsumptionReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/production/consumption/report [get]
func (h *ProductionHandler) ConsumptionReport(c *fiber.Ctx) error {
	from, err := queryStartDate(c)
	if err != nil {
		return badRequest(c, "VALIDATION", "start_date inválido, use YYYY-MM-DD")
	}
	out, err := h.uc.ConsumptionReport(c.UserContext(), from)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// QualityMetrics godoc
// @Summary      Métricas de calidad
// @Description  Tasa de aprobación global y por parámetro. Por defecto últimos 30 días.
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Success      200  {object}  dto.QualityMetricsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/production/quality/metrics [get]
func (h *ProductionHandler) QualityMetrics(c *fiber.Ctx) error {
	from, err := queryStartDate(c)
	if err != nil {
		return badRequest(c, "VALIDATION", "start_date inválido, use YYYY-MM-DD")
	}
	out, err := h.uc.QualityMetrics(c.UserContext(), from)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
