package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// InventoryHandler maneja movimientos y consultas del libro de stock (protegido).
type InventoryHandler struct {
	uc *inventory.MovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.MovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// ApplyMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  receipt, issue, transfer, adjustment o return. Se aplica de forma atómica
//
//	sobre el libro de stock y el volumen ocupado de las ubicaciones.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "material_id, movement_type, quantity, ubicaciones"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) ApplyMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ApplyFromRequest(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetMovement godoc
// @Summary      Obtener movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	out, err := h.uc.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        material_id    query  string  false  "Material"
// @Param        movement_type  query  string  false  "Tipo de movimiento"
// @Param        from           query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to             query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit          query  int     false  "Límite"
// @Param        offset         query  int     false  "Offset"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return badRequest(c, "VALIDATION", "from inválido, use YYYY-MM-DD")
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return badRequest(c, "VALIDATION", "to inválido, use YYYY-MM-DD")
	}
	limit, offset := pagination(c)
	filter := repository.MovementFilter{
		MaterialID: c.Query("material_id"),
		Type:       c.Query("movement_type"),
		From:       from,
		To:         to,
	}
	out, err := h.uc.ListMovements(c.UserContext(), filter, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Analysis godoc
// @Summary      Análisis de movimientos
// @Description  Totales por tipo y materiales con más movimiento en los últimos N días.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (default 30)"
// @Success      200  {object}  dto.MovementAnalysisResponse
// @Router       /api/inventory/movements/analysis [get]
func (h *InventoryHandler) Analysis(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days <= 0 {
		return badRequest(c, "VALIDATION", "days debe ser positivo")
	}
	out, err := h.uc.Analysis(c.UserContext(), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListStock godoc
// @Summary      Consultar stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        material_id   query  string  false  "Material"
// @Param        location_id   query  string  false  "Ubicación"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        batch_number  query  string  false  "Lote"
// @Param        limit         query  int     false  "Límite"
// @Param        offset        query  int     false  "Offset"
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repository.StockFilter{
		MaterialID:  c.Query("material_id"),
		LocationID:  c.Query("location_id"),
		WarehouseID: c.Query("warehouse_id"),
		BatchNumber: c.Query("batch_number"),
	}
	out, err := h.uc.ListStock(c.UserContext(), filter, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListExpiring godoc
// @Summary      Stock próximo a vencer
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Horizonte en días (default 30)"
// @Success      200  {array}  dto.StockResponse
// @Router       /api/inventory/stock/expiring [get]
func (h *InventoryHandler) ListExpiring(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days < 0 {
		return badRequest(c, "VALIDATION", "days no puede ser negativo")
	}
	out, err := h.uc.ListExpiring(c.UserContext(), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
