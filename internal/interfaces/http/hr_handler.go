package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/hr"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// HRHandler maneja departamentos, empleados, permisos y asistencia (protegido).
type HRHandler struct {
	uc *hr.UseCase
}

// NewHRHandler construye el handler.
func NewHRHandler(uc *hr.UseCase) *HRHandler {
	return &HRHandler{uc: uc}
}

// CreateDepartment godoc
// @Summary      Crear departamento
// @Tags         hr
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDepartmentRequest  true  "Nombre y código"
// @Success      201   {object}  dto.DepartmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/hr/departments [post]
func (h *HRHandler) CreateDepartment(c *fiber.Ctx) error {
	var in dto.CreateDepartmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateDepartment(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListDepartments godoc
// @Summary      Listar departamentos
// @Tags         hr
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DepartmentResponse
// @Router       /api/hr/departments [get]
func (h *HRHandler) ListDepartments(c *fiber.Ctx) error {
	out, err := h.uc.ListDepartments(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateEmployee godoc
// @Summary      Crear empleado
// @Tags         hr
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEmployeeRequest  true  "Datos del empleado"
// @Success      201   {object}  dto.EmployeeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/hr/employees [post]
func (h *HRHandler) CreateEmployee(c *fiber.Ctx) error {
	var in dto.CreateEmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateEmployee(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetEmployee godoc
// @Summary      Obtener empleado
// @Tags         hr
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del empleado"
// @Success      200  {object}  dto.EmployeeResponse
// @Router       /api/hr/employees/{id} [get]
func (h *HRHandler) GetEmployee(c *fiber.Ctx) error {
	out, err := h.uc.GetEmployee(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListEmployees godoc
// @Summary      Listar empleados
// @Tags         hr
// @Security     Bearer
// @Produce      json
// @Param        department_id  query  string  false  "Departamento"
// @Param        status         query  string  false  "Estado de empleo"
// @Param        limit          query  int     false  "Límite"
// @Param        offset         query  int     false  "Offset"
// @Success      200  {array}  dto.EmployeeResponse
// @Router       /api/hr/employees [get]
func (h *HRHandler) ListEmployees(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repository.EmployeeFilter{
		DepartmentID: c.Query("department_id"),
		Status:       c.Query("status"),
	}
	out, err := h.uc.ListEmployees(c.UserContext(), filter, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateEmployeeStatus godoc
// @Summary      Cambiar estado de empleo
// @Tags         hr
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID del empleado"
// @Param        body  body  dto.UpdateEmployeeStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.EmployeeResponse
// @Router       /api/hr/employees/{id}/status [patch]
func (h *HRHandler) UpdateEmployeeStatus(c *fiber.Ctx) error {
	var in dto.UpdateEmployeeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateEmployeeStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateLeave godoc
// @Summary      Solicitar permiso
// @Tags         hr
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLeaveRequest  true  "Empleado, tipo y fechas"
// @Success      201   {object}  dto.LeaveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/hr/leaves [post]
func (h *HRHandler) CreateLeave(c *fiber.Ctx) error {
	var in dto.CreateLeaveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateLeave(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLeaves godoc
// @Summary      Listar solicitudes de permiso
// @Tags         hr
// @Security     Bearer
// @Produce      json
// @Param        employee_id  query  string  false  "Empleado"
// @Param        status       query  string  false  "Estado"
// @Param        limit        query  int     false  "Límite"
// @Param        offset       query  int     false  "Offset"
// @Success      200  {array}  dto.LeaveResponse
// @Router       /api/hr/leaves [get]
func (h *HRHandler) ListLeaves(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	out, err := h.uc.ListLeaves(c.UserContext(), c.Query("employee_id"), c.Query("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ApproveLeave godoc
// @Summary      Aprobar permiso
// @Tags         hr
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.LeaveResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/hr/leaves/{id}/approve [post]
func (h *HRHandler) ApproveLeave(c *fiber.Ctx) error {
	out, err := h.uc.ApproveLeave(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RejectLeave godoc
// @Summary      Rechazar permiso
// @Tags         hr
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.LeaveResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/hr/leaves/{id}/reject [post]
func (h *HRHandler) RejectLeave(c *fiber.Ctx) error {
	out, err := h.uc.RejectLeave(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CheckIn godoc
// @Summary      Registrar entrada
// @Tags         hr
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckInRequest  true  "employee_id"
// @Success      201   {object}  dto.AttendanceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/hr/attendance/check-in [post]
func (h *HRHandler) CheckIn(c *fiber.Ctx) error {
	var in dto.CheckInRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.EmployeeID == "" {
		return badRequest(c, "VALIDATION", "employee_id es requerido")
	}
	out, err := h.uc.CheckIn(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CheckOut godoc
// @Summary      Registrar salida
// @Tags         hr
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckInRequest  true  "employee_id"
// @Success      200   {object}  dto.AttendanceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/hr/attendance/check-out [post]
func (h *HRHandler) CheckOut(c *fiber.Ctx) error {
	var in dto.CheckInRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.EmployeeID == "" {
		return badRequest(c, "VALIDATION", "employee_id es requerido")
	}
	out, err := h.uc.CheckOut(c.UserContext(), in.EmployeeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListAttendance godoc
// @Summary      Asistencia de un empleado
// @Tags         hr
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del empleado"
// @Param        from  query  string  false  "Desde (YYYY-MM-DD, default hace 30 días)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD, default hoy)"
// @Success      200  {array}  dto.AttendanceResponse
// @Router       /api/hr/employees/{id}/attendance [get]
func (h *HRHandler) ListAttendance(c *fiber.Ctx) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return badRequest(c, "VALIDATION", "from inválido, use YYYY-MM-DD")
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return badRequest(c, "VALIDATION", "to inválido, use YYYY-MM-DD")
	}
	end := time.Now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -30)
	if from != nil {
		start = *from
	}
	out, err := h.uc.ListAttendance(c.UserContext(), c.Params("id"), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
