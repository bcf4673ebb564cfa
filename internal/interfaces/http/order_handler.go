package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/orders"
)

// OrderHandler maneja pedidos de clientes, pagos y requerimientos de material (protegido).
type OrderHandler struct {
	uc *orders.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Cliente, fechas e ítems"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if len(in.Items) == 0 {
		return badRequest(c, "VALIDATION", "el pedido debe tener al menos un ítem")
	}
	out, err := h.uc.CreateOrder(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido con ítems
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	out, err := h.uc.ListOrders(c.UserContext(), c.Query("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.UpdateStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Assign godoc
// @Summary      Asignar responsable del pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.AssignOrderRequest  true  "user_id"
// @Success      200   {object}  dto.OrderResponse
// @Router       /api/orders/{id}/assign [post]
func (h *OrderHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.UserID == "" {
		return badRequest(c, "VALIDATION", "user_id es requerido")
	}
	out, err := h.uc.Assign(c.UserContext(), c.Params("id"), in.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateItemProduction godoc
// @Summary      Actualizar avance de producción de un ítem
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  string                           true  "ID del ítem"
// @Param        body    body  dto.UpdateItemProductionRequest  true  "Cantidad producida / en producción"
// @Success      200     {object}  dto.OrderItemResponse
// @Router       /api/orders/items/{itemId}/production [patch]
func (h *OrderHandler) UpdateItemProduction(c *fiber.Ctx) error {
	var in dto.UpdateItemProductionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateItemProduction(c.UserContext(), c.Params("itemId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddPayment godoc
// @Summary      Registrar pago
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del pedido"
// @Param        body  body  dto.CreatePaymentRequest  true  "Monto, método y referencia"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/payments [post]
func (h *OrderHandler) AddPayment(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AddPayment(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPayments godoc
// @Summary      Pagos del pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {array}  dto.PaymentResponse
// @Router       /api/orders/{id}/payments [get]
func (h *OrderHandler) ListPayments(c *fiber.Ctx) error {
	out, err := h.uc.ListPayments(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdatePaymentStatus godoc
// @Summary      Cambiar estado de un pago
// @Description  Recalcula el monto pagado del pedido con los pagos completados.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        paymentId  path  string                   true  "ID del pago"
// @Param        body       body  dto.UpdateStatusRequest  true  "pending, completed, failed, refunded"
// @Success      200        {object}  dto.PaymentResponse
// @Router       /api/orders/payments/{paymentId}/status [patch]
func (h *OrderHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdatePaymentStatus(c.UserContext(), c.Params("paymentId"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GenerateRequirements godoc
// @Summary      Generar requerimientos de material del ítem
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del ítem"
// @Success      201  {array}  dto.MaterialRequirementResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/items/{itemId}/requirements [post]
func (h *OrderHandler) GenerateRequirements(c *fiber.Ctx) error {
	out, err := h.uc.GenerateRequirements(c.UserContext(), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRequirements godoc
// @Summary      Requerimientos de material del ítem
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del ítem"
// @Success      200  {array}  dto.MaterialRequirementResponse
// @Router       /api/orders/items/{itemId}/requirements [get]
func (h *OrderHandler) ListRequirements(c *fiber.Ctx) error {
	out, err := h.uc.ListRequirements(c.UserContext(), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Allocate godoc
// @Summary      Asignar cantidad a un requerimiento
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        reqId  path  string               true  "ID del requerimiento"
// @Param        body   body  dto.AllocateRequest  true  "Cantidad asignada"
// @Success      200    {object}  dto.MaterialRequirementResponse
// @Router       /api/orders/requirements/{reqId}/allocate [post]
func (h *OrderHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Allocate(c.UserContext(), c.Params("reqId"), in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
