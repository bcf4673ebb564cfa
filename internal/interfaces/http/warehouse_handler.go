package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/application/usecase"
	"github.com/shopspring/decimal"
)

// WarehouseHandler maneja bodegas, ubicaciones y capacidad (protegido).
type WarehouseHandler struct {
	uc       *usecase.WarehouseUseCase
	capacity *inventory.CapacityUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *usecase.WarehouseUseCase, capacity *inventory.CapacityUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc, capacity: capacity}
}

// Create godoc
// @Summary      Crear bodega
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWarehouseRequest  true  "Datos de la bodega"
// @Success      201   {object}  dto.WarehouseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/warehouses [post]
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Name == "" {
		return badRequest(c, "VALIDATION", "name es requerido")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener bodega por ID
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la bodega"
// @Success      200  {object}  dto.WarehouseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar bodega
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la bodega"
// @Param        body  body  dto.UpdateWarehouseRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.WarehouseResponse
// @Router       /api/warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateWarehouseRequest
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
// @Summary      Listar bodegas
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.WarehouseListResponse
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	out, err := h.uc.List(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateLocation godoc
// @Summary      Crear ubicación de almacenamiento
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "Datos de la ubicación"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *WarehouseHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateLocation(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetLocation godoc
// @Summary      Obtener ubicación
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *WarehouseHandler) GetLocation(c *fiber.Ctx) error {
	out, err := h.uc.GetLocation(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateLocation godoc
// @Summary      Actualizar ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la ubicación"
// @Param        body  body  dto.UpdateLocationRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.LocationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [put]
func (h *WarehouseHandler) UpdateLocation(c *fiber.Ctx) error {
	var in dto.UpdateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateLocation(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListLocations godoc
// @Summary      Ubicaciones de una bodega
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la bodega"
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/warehouses/{id}/locations [get]
func (h *WarehouseHandler) ListLocations(c *fiber.Ctx) error {
	out, err := h.uc.ListLocations(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Utilization godoc
// @Summary      Utilización de capacidad de la bodega
// @Tags         capacity
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la bodega"
// @Success      200  {object}  dto.WarehouseUtilizationResponse
// @Router       /api/warehouses/{id}/utilization [get]
func (h *WarehouseHandler) Utilization(c *fiber.Ctx) error {
	out, err := h.capacity.Utilization(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// StorageAnalysis godoc
// @Summary      Uso de almacenamiento por tipo de ubicación
// @Tags         capacity
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la bodega"
// @Success      200  {object}  dto.StorageAnalysisResponse
// @Router       /api/warehouses/{id}/storage-analysis [get]
func (h *WarehouseHandler) StorageAnalysis(c *fiber.Ctx) error {
	out, err := h.capacity.StorageAnalysis(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AvailableLocations godoc
// @Summary      Ubicaciones con capacidad libre
// @Description  Ubicaciones activas de la bodega cuyo espacio libre alcanza el volumen pedido.
// @Tags         capacity
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la bodega"
// @Param        required_volume  query  number  false  "Volumen requerido (default 0)"
// @Success      200  {array}  dto.LocationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/available-locations [get]
func (h *WarehouseHandler) AvailableLocations(c *fiber.Ctx) error {
	volume, err := queryDecimal(c, "required_volume", decimal.Zero)
	if err != nil || volume.IsNegative() {
		return badRequest(c, "VALIDATION", "required_volume debe ser un número no negativo")
	}
	out, err := h.capacity.AvailableLocations(c.UserContext(), c.Params("id"), volume)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecomputeVolume godoc
// @Summary      Recalcular volumen ocupado de una ubicación
// @Tags         capacity
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.RecomputeVolumeResponse
// @Router       /api/locations/{id}/recompute-volume [post]
func (h *WarehouseHandler) RecomputeVolume(c *fiber.Ctx) error {
	out, err := h.capacity.RecomputeVolume(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
