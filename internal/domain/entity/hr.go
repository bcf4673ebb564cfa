package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados y tipos de empleo.
const (
	EmploymentActive     = "active"
	EmploymentOnLeave    = "on_leave"
	EmploymentTerminated = "terminated"
	EmploymentSuspended  = "suspended"

	EmploymentFullTime = "full_time"
	EmploymentPartTime = "part_time"
	EmploymentContract = "contract"
	EmploymentIntern   = "intern"
)

// Tipos y estados de solicitudes de permiso.
const (
	LeaveAnnual    = "annual"
	LeaveSick      = "sick"
	LeaveMaternity = "maternity"
	LeavePaternity = "paternity"
	LeaveUnpaid    = "unpaid"
	LeaveOther     = "other"

	LeaveStatusPending   = "pending"
	LeaveStatusApproved  = "approved"
	LeaveStatusRejected  = "rejected"
	LeaveStatusCancelled = "cancelled"
)

// Department área de la empresa.
type Department struct {
	ID          string
	Name        string
	Code        string // único
	Description string
	ManagerID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Employee empleado de planta u oficina.
type Employee struct {
	ID               string
	UserID           string
	EmployeeCode     string // único
	FirstName        string
	LastName         string
	DepartmentID     string
	Position         string
	EmploymentType   string
	EmploymentStatus string
	NationalID       string // único
	PhoneNumber      string
	HireDate         time.Time
	EndDate          *time.Time
	Salary           decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LeaveRequest solicitud de permiso o vacaciones.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Status     string
	ApprovedBy string
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Days duración en días calendario (ambos extremos incluidos).
func (l *LeaveRequest) Days() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

// Attendance registro de asistencia diario (una fila por empleado y día).
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	CheckIn    time.Time
	CheckOut   *time.Time
	Status     string // present, late
	Notes      string
	CreatedAt  time.Time
}
