package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/application/usecase"
)

// MaterialHandler maneja materiales y su análisis de stock (protegido).
type MaterialHandler struct {
	uc            *usecase.MaterialUseCase
	analysis      *inventory.StockAnalysisUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(uc *usecase.MaterialUseCase, analysis *inventory.StockAnalysisUseCase, replenishment *inventory.ReplenishmentUseCase) *MaterialHandler {
	return &MaterialHandler{uc: uc, analysis: analysis, replenishment: replenishment}
}

// Create godoc
// @Summary      Crear material
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "Datos del material"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener material
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del material"
// @Success      200  {object}  dto.MaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [get]
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar material
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del material"
// @Param        body  body  dto.UpdateMaterialRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.MaterialResponse
// @Router       /api/materials/{id} [put]
func (h *MaterialHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar materiales
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "Solo activos"
// @Param        limit   query  int   false  "Límite"
// @Param        offset  query  int   false  "Offset"
// @Success      200  {object}  dto.MaterialListResponse
// @Router       /api/materials [get]
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	out, err := h.uc.List(c.UserContext(), c.QueryBool("active", false), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Analysis godoc
// @Summary      Análisis de stock de un material
// @Description  Total, disponible, valor, punto de reorden y desglose por ubicación.
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del material"
// @Success      200  {object}  dto.MaterialStockAnalysisResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/stock-analysis [get]
func (h *MaterialHandler) Analysis(c *fiber.Ctx) error {
	out, err := h.analysis.MaterialAnalysis(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Materiales bajo el punto de reorden
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/materials/low-stock [get]
func (h *MaterialHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.analysis.LowStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición sugerida
// @Description  Materiales en o bajo el punto de reorden con la cantidad sugerida de compra.
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/materials/replenishment-list [get]
func (h *MaterialHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
