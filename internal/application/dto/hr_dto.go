package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDepartmentRequest entrada para crear un departamento.
type CreateDepartmentRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Code        string `json:"code" validate:"required,max=20"`
	Description string `json:"description"`
	ManagerID   string `json:"manager_id,omitempty"`
}

// DepartmentResponse salida de un departamento.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	ManagerID   string    `json:"manager_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateEmployeeRequest entrada para registrar un empleado.
type CreateEmployeeRequest struct {
	UserID         string          `json:"user_id,omitempty"`
	EmployeeCode   string          `json:"employee_code" validate:"required"`
	FirstName      string          `json:"first_name" validate:"required"`
	LastName       string          `json:"last_name" validate:"required"`
	DepartmentID   string          `json:"department_id,omitempty"`
	Position       string          `json:"position"`
	EmploymentType string          `json:"employment_type" validate:"oneof=full_time part_time contract intern"`
	NationalID     string          `json:"national_id"`
	PhoneNumber    string          `json:"phone_number"`
	HireDate       time.Time       `json:"hire_date"`
	Salary         decimal.Decimal `json:"salary"`
}

// UpdateEmployeeStatusRequest cambio de estado laboral.
type UpdateEmployeeStatusRequest struct {
	Status  string     `json:"status" validate:"required,oneof=active on_leave terminated suspended"`
	EndDate *time.Time `json:"end_date,omitempty"`
}

// EmployeeResponse salida de un empleado.
type EmployeeResponse struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id,omitempty"`
	EmployeeCode     string          `json:"employee_code"`
	FullName         string          `json:"full_name"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	DepartmentID     string          `json:"department_id,omitempty"`
	Position         string          `json:"position"`
	EmploymentType   string          `json:"employment_type"`
	EmploymentStatus string          `json:"employment_status"`
	NationalID       string          `json:"national_id"`
	PhoneNumber      string          `json:"phone_number"`
	HireDate         time.Time       `json:"hire_date"`
	EndDate          *time.Time      `json:"end_date,omitempty"`
	Salary           decimal.Decimal `json:"salary"`
	CreatedAt        time.Time       `json:"created_at"`
}

// CreateLeaveRequest solicitud de permiso.
type CreateLeaveRequest struct {
	EmployeeID string    `json:"employee_id" validate:"required"`
	LeaveType  string    `json:"leave_type" validate:"required,oneof=annual sick maternity paternity unpaid other"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Reason     string    `json:"reason"`
}

// LeaveResponse salida de una solicitud de permiso.
type LeaveResponse struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	LeaveType  string     `json:"leave_type"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`
	Days       int        `json:"days"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CheckInRequest marca de entrada.
type CheckInRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Notes      string `json:"notes"`
}

// AttendanceResponse salida de asistencia.
type AttendanceResponse struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employee_id"`
	Date        time.Time  `json:"date"`
	CheckIn     time.Time  `json:"check_in"`
	CheckOut    *time.Time `json:"check_out,omitempty"`
	Status      string     `json:"status"`
	HoursWorked float64    `json:"hours_worked"`
	Notes       string     `json:"notes"`
}
