package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
)

// DepartmentRepository define el puerto de persistencia para departamentos.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *entity.Department) error
	GetByID(ctx context.Context, id string) (*entity.Department, error)
	GetByCode(ctx context.Context, code string) (*entity.Department, error)
	List(ctx context.Context) ([]*entity.Department, error)
}

// EmployeeFilter filtros opcionales para empleados.
type EmployeeFilter struct {
	DepartmentID string
	Status       string
}

// EmployeeRepository define el puerto de persistencia para empleados.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	GetByCode(ctx context.Context, code string) (*entity.Employee, error)
	Update(ctx context.Context, emp *entity.Employee) error
	List(ctx context.Context, filter EmployeeFilter, limit, offset int) ([]*entity.Employee, error)
}

// LeaveRequestRepository define el puerto de persistencia para solicitudes de permiso.
type LeaveRequestRepository interface {
	Create(ctx context.Context, req *entity.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*entity.LeaveRequest, error)
	Update(ctx context.Context, req *entity.LeaveRequest) error
	List(ctx context.Context, employeeID, status string, limit, offset int) ([]*entity.LeaveRequest, error)
}

// AttendanceRepository define el puerto de persistencia para asistencia.
type AttendanceRepository interface {
	Create(ctx context.Context, att *entity.Attendance) error
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*entity.Attendance, error)
	Update(ctx context.Context, att *entity.Attendance) error
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]*entity.Attendance, error)
}
