// Package hr casos de uso de recursos humanos: departamentos, empleados, permisos y asistencia.
package hr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// Hora de inicio de jornada; una entrada posterior queda como late.
const workdayStartHour = 9

// Estados de asistencia.
const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
)

// UseCase agrupa los casos de uso de RRHH.
type UseCase struct {
	deptRepo       repository.DepartmentRepository
	employeeRepo   repository.EmployeeRepository
	leaveRepo      repository.LeaveRequestRepository
	attendanceRepo repository.AttendanceRepository
	now            func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	deptRepo repository.DepartmentRepository,
	employeeRepo repository.EmployeeRepository,
	leaveRepo repository.LeaveRequestRepository,
	attendanceRepo repository.AttendanceRepository,
) *UseCase {
	return &UseCase{
		deptRepo:       deptRepo,
		employeeRepo:   employeeRepo,
		leaveRepo:      leaveRepo,
		attendanceRepo: attendanceRepo,
		now:            time.Now,
	}
}

// ── Departamentos ─────────────────────────────────────────────────────────────

// CreateDepartment crea un departamento con código único.
func (uc *UseCase) CreateDepartment(ctx context.Context, in dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if in.Code == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: code y name son obligatorios", domain.ErrInvalidInput)
	}
	existing, err := uc.deptRepo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: departamento %s", domain.ErrDuplicate, in.Code)
	}
	now := uc.now()
	d := &entity.Department{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Code:        in.Code,
		Description: in.Description,
		ManagerID:   in.ManagerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.deptRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	return toDepartmentResponse(d), nil
}

// ListDepartments lista departamentos.
func (uc *UseCase) ListDepartments(ctx context.Context) ([]dto.DepartmentResponse, error) {
	list, err := uc.deptRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepartmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *toDepartmentResponse(d))
	}
	return out, nil
}

// ── Empleados ─────────────────────────────────────────────────────────────────

// CreateEmployee registra un empleado activo.
func (uc *UseCase) CreateEmployee(ctx context.Context, in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	in.EmployeeCode = strings.TrimSpace(in.EmployeeCode)
	if in.EmployeeCode == "" || in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("%w: employee_code, first_name y last_name son obligatorios", domain.ErrInvalidInput)
	}
	if in.EmploymentType == "" {
		in.EmploymentType = entity.EmploymentFullTime
	}
	if !validEmploymentType(in.EmploymentType) {
		return nil, fmt.Errorf("%w: tipo de empleo %q desconocido", domain.ErrInvalidInput, in.EmploymentType)
	}
	if in.Salary.IsNegative() {
		return nil, fmt.Errorf("%w: el salario no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.DepartmentID != "" {
		d, err := uc.deptRepo.GetByID(ctx, in.DepartmentID)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, fmt.Errorf("%w: departamento %s", domain.ErrNotFound, in.DepartmentID)
		}
	}
	existing, err := uc.employeeRepo.GetByCode(ctx, in.EmployeeCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: empleado %s", domain.ErrDuplicate, in.EmployeeCode)
	}
	now := uc.now()
	hire := in.HireDate
	if hire.IsZero() {
		hire = now
	}
	e := &entity.Employee{
		ID:               uuid.New().String(),
		UserID:           in.UserID,
		EmployeeCode:     in.EmployeeCode,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		DepartmentID:     in.DepartmentID,
		Position:         in.Position,
		EmploymentType:   in.EmploymentType,
		EmploymentStatus: entity.EmploymentActive,
		NationalID:       in.NationalID,
		PhoneNumber:      in.PhoneNumber,
		HireDate:         hire,
		Salary:           in.Salary,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.employeeRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

// GetEmployee obtiene un empleado.
func (uc *UseCase) GetEmployee(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	e, err := uc.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

// ListEmployees lista empleados filtrando por departamento y estado.
func (uc *UseCase) ListEmployees(ctx context.Context, filter repository.EmployeeFilter, limit, offset int) ([]dto.EmployeeResponse, error) {
	list, err := uc.employeeRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toEmployeeResponse(e))
	}
	return out, nil
}

// UpdateEmployeeStatus cambia el estado laboral. terminated fija end_date (hoy si no se indica).
func (uc *UseCase) UpdateEmployeeStatus(ctx context.Context, id string, in dto.UpdateEmployeeStatusRequest) (*dto.EmployeeResponse, error) {
	switch in.Status {
	case entity.EmploymentActive, entity.EmploymentOnLeave, entity.EmploymentTerminated, entity.EmploymentSuspended:
	default:
		return nil, fmt.Errorf("%w: estado laboral %q desconocido", domain.ErrInvalidInput, in.Status)
	}
	e, err := uc.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.EmploymentStatus == entity.EmploymentTerminated {
		return nil, fmt.Errorf("%w: el empleado ya fue desvinculado", domain.ErrInvalidTransition)
	}
	e.EmploymentStatus = in.Status
	if in.Status == entity.EmploymentTerminated {
		end := uc.now()
		if in.EndDate != nil {
			end = *in.EndDate
		}
		e.EndDate = &end
	}
	e.UpdatedAt = uc.now()
	if err := uc.employeeRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

// ── Permisos ──────────────────────────────────────────────────────────────────

// CreateLeave registra una solicitud pendiente.
func (uc *UseCase) CreateLeave(ctx context.Context, in dto.CreateLeaveRequest) (*dto.LeaveResponse, error) {
	switch in.LeaveType {
	case entity.LeaveAnnual, entity.LeaveSick, entity.LeaveMaternity, entity.LeavePaternity, entity.LeaveUnpaid, entity.LeaveOther:
	default:
		return nil, fmt.Errorf("%w: tipo de permiso %q desconocido", domain.ErrInvalidInput, in.LeaveType)
	}
	if in.StartDate.IsZero() || in.EndDate.Before(in.StartDate) {
		return nil, fmt.Errorf("%w: se requiere start_date ≤ end_date", domain.ErrInvalidInput)
	}
	if _, err := uc.getEmployee(ctx, in.EmployeeID); err != nil {
		return nil, err
	}
	now := uc.now()
	l := &entity.LeaveRequest{
		ID:         uuid.New().String(),
		EmployeeID: in.EmployeeID,
		LeaveType:  in.LeaveType,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Reason:     in.Reason,
		Status:     entity.LeaveStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.leaveRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	return toLeaveResponse(l), nil
}

// ApproveLeave aprueba una solicitud pendiente.
func (uc *UseCase) ApproveLeave(ctx context.Context, id, approverID string) (*dto.LeaveResponse, error) {
	return uc.decideLeave(ctx, id, approverID, entity.LeaveStatusApproved)
}

// RejectLeave rechaza una solicitud pendiente.
func (uc *UseCase) RejectLeave(ctx context.Context, id, approverID string) (*dto.LeaveResponse, error) {
	return uc.decideLeave(ctx, id, approverID, entity.LeaveStatusRejected)
}

func (uc *UseCase) decideLeave(ctx context.Context, id, approverID, status string) (*dto.LeaveResponse, error) {
	l, err := uc.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	if l.Status != entity.LeaveStatusPending {
		return nil, fmt.Errorf("%w: la solicitud ya está %s", domain.ErrInvalidTransition, l.Status)
	}
	now := uc.now()
	l.Status = status
	l.ApprovedBy = approverID
	l.ApprovedAt = &now
	l.UpdatedAt = now
	if err := uc.leaveRepo.Update(ctx, l); err != nil {
		return nil, err
	}
	return toLeaveResponse(l), nil
}

// ListLeaves lista solicitudes filtrando por empleado y estado.
func (uc *UseCase) ListLeaves(ctx context.Context, employeeID, status string, limit, offset int) ([]dto.LeaveResponse, error) {
	list, err := uc.leaveRepo.List(ctx, employeeID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LeaveResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLeaveResponse(l))
	}
	return out, nil
}

// ── Asistencia ────────────────────────────────────────────────────────────────

// CheckIn registra la entrada del día; una sola por empleado y fecha.
func (uc *UseCase) CheckIn(ctx context.Context, in dto.CheckInRequest) (*dto.AttendanceResponse, error) {
	e, err := uc.getEmployee(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if e.EmploymentStatus != entity.EmploymentActive {
		return nil, fmt.Errorf("%w: el empleado no está activo", domain.ErrConflict)
	}
	now := uc.now()
	day := truncateDay(now)
	existing, err := uc.attendanceRepo.GetByEmployeeAndDate(ctx, in.EmployeeID, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya registró entrada hoy", domain.ErrDuplicate)
	}
	status := AttendancePresent
	if now.After(day.Add(workdayStartHour * time.Hour)) {
		status = AttendanceLate
	}
	a := &entity.Attendance{
		ID:         uuid.New().String(),
		EmployeeID: in.EmployeeID,
		Date:       day,
		CheckIn:    now,
		Status:     status,
		Notes:      in.Notes,
		CreatedAt:  now,
	}
	if err := uc.attendanceRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toAttendanceResponse(a), nil
}

// CheckOut registra la salida del día; requiere entrada previa y solo una vez.
func (uc *UseCase) CheckOut(ctx context.Context, employeeID string) (*dto.AttendanceResponse, error) {
	now := uc.now()
	a, err := uc.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, truncateDay(now))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: no hay entrada registrada hoy", domain.ErrNotFound)
	}
	if a.CheckOut != nil {
		return nil, fmt.Errorf("%w: ya registró salida hoy", domain.ErrDuplicate)
	}
	a.CheckOut = &now
	if err := uc.attendanceRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toAttendanceResponse(a), nil
}

// ListAttendance lista la asistencia del empleado en [from, to].
func (uc *UseCase) ListAttendance(ctx context.Context, employeeID string, from, to time.Time) ([]dto.AttendanceResponse, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: se requiere from ≤ to", domain.ErrInvalidInput)
	}
	list, err := uc.attendanceRepo.ListByEmployee(ctx, employeeID, truncateDay(from), truncateDay(to))
	if err != nil {
		return nil, err
	}
	out := make([]dto.AttendanceResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toAttendanceResponse(a))
	}
	return out, nil
}

func (uc *UseCase) getEmployee(ctx context.Context, id string) (*entity.Employee, error) {
	e, err := uc.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: empleado %s", domain.ErrNotFound, id)
	}
	return e, nil
}

func validEmploymentType(t string) bool {
	switch t {
	case entity.EmploymentFullTime, entity.EmploymentPartTime, entity.EmploymentContract, entity.EmploymentIntern:
		return true
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func toDepartmentResponse(d *entity.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID: d.ID, Name: d.Name, Code: d.Code, Description: d.Description, ManagerID: d.ManagerID, CreatedAt: d.CreatedAt,
	}
}

func toEmployeeResponse(e *entity.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:               e.ID,
		UserID:           e.UserID,
		EmployeeCode:     e.EmployeeCode,
		FullName:         e.FirstName + " " + e.LastName,
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		DepartmentID:     e.DepartmentID,
		Position:         e.Position,
		EmploymentType:   e.EmploymentType,
		EmploymentStatus: e.EmploymentStatus,
		NationalID:       e.NationalID,
		PhoneNumber:      e.PhoneNumber,
		HireDate:         e.HireDate,
		EndDate:          e.EndDate,
		Salary:           e.Salary,
		CreatedAt:        e.CreatedAt,
	}
}

func toLeaveResponse(l *entity.LeaveRequest) *dto.LeaveResponse {
	return &dto.LeaveResponse{
		ID:         l.ID,
		EmployeeID: l.EmployeeID,
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate,
		EndDate:    l.EndDate,
		Days:       l.Days(),
		Reason:     l.Reason,
		Status:     l.Status,
		ApprovedBy: l.ApprovedBy,
		ApprovedAt: l.ApprovedAt,
		CreatedAt:  l.CreatedAt,
	}
}

func toAttendanceResponse(a *entity.Attendance) *dto.AttendanceResponse {
	out := &dto.AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Date:       a.Date,
		CheckIn:    a.CheckIn,
		CheckOut:   a.CheckOut,
		Status:     a.Status,
		Notes:      a.Notes,
	}
	if a.CheckOut != nil {
		out.HoursWorked = a.CheckOut.Sub(a.CheckIn).Hours()
	}
	return out
}
