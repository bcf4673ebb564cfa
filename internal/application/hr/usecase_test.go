package hr

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestUseCase(at time.Time) (*UseCase, *clock) {
	m := newMemRepos()
	uc := NewUseCase(deptRepo{m}, employeeRepo{m}, leaveRepo{m}, attendanceRepo{m})
	c := &clock{t: at}
	uc.now = c.now
	return uc, c
}

func day(h, m int) time.Time { return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC) }

func hire(t *testing.T, uc *UseCase, code string) *dto.EmployeeResponse {
	t.Helper()
	e, err := uc.CreateEmployee(context.Background(), dto.CreateEmployeeRequest{
		EmployeeCode: code, FirstName: "Ana", LastName: "Rojas", Salary: decimal.NewFromInt(1800),
	})
	require.NoError(t, err)
	return e
}

func TestCreateDepartment_CodigoUnico(t *testing.T) {
	uc, _ := newTestUseCase(day(8, 0))
	ctx := context.Background()

	d, err := uc.CreateDepartment(ctx, dto.CreateDepartmentRequest{Name: "Producción", Code: " prod "})
	require.NoError(t, err)
	assert.Equal(t, "PROD", d.Code)

	_, err = uc.CreateDepartment(ctx, dto.CreateDepartmentRequest{Name: "Otra", Code: "PROD"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.CreateDepartment(ctx, dto.CreateDepartmentRequest{Code: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateEmployee(t *testing.T) {
	uc, now := newTestUseCase(day(8, 0))
	ctx := context.Background()

	e := hire(t, uc, "E-001")
	assert.Equal(t, "Ana Rojas", e.FullName)
	assert.Equal(t, entity.EmploymentFullTime, e.EmploymentType)
	assert.Equal(t, entity.EmploymentActive, e.EmploymentStatus)
	assert.Equal(t, now.t, e.HireDate)

	_, err := uc.CreateEmployee(ctx, dto.CreateEmployeeRequest{EmployeeCode: "E-001", FirstName: "B", LastName: "C"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.CreateEmployee(ctx, dto.CreateEmployeeRequest{EmployeeCode: "E-2", FirstName: "B", LastName: "C", EmploymentType: "freelance"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreateEmployee(ctx, dto.CreateEmployeeRequest{EmployeeCode: "E-3", FirstName: "B", LastName: "C", Salary: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreateEmployee(ctx, dto.CreateEmployeeRequest{EmployeeCode: "E-4", FirstName: "B", LastName: "C", DepartmentID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateEmployeeStatus_Desvinculacion(t *testing.T) {
	uc, now := newTestUseCase(day(8, 0))
	ctx := context.Background()
	e := hire(t, uc, "E-001")

	got, err := uc.UpdateEmployeeStatus(ctx, e.ID, dto.UpdateEmployeeStatusRequest{Status: entity.EmploymentTerminated})
	require.NoError(t, err)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, now.t, *got.EndDate)

	_, err = uc.UpdateEmployeeStatus(ctx, e.ID, dto.UpdateEmployeeStatusRequest{Status: entity.EmploymentActive})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	list, err := uc.ListEmployees(ctx, repository.EmployeeFilter{Status: entity.EmploymentActive}, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLeave_AprobarUnaSolaVez(t *testing.T) {
	uc, _ := newTestUseCase(day(8, 0))
	ctx := context.Background()
	e := hire(t, uc, "E-001")

	l, err := uc.CreateLeave(ctx, dto.CreateLeaveRequest{
		EmployeeID: e.ID, LeaveType: entity.LeaveAnnual,
		StartDate: day(0, 0), EndDate: day(0, 0).AddDate(0, 0, 4),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, l.Days)
	assert.Equal(t, entity.LeaveStatusPending, l.Status)

	approved, err := uc.ApproveLeave(ctx, l.ID, "jefe")
	require.NoError(t, err)
	assert.Equal(t, entity.LeaveStatusApproved, approved.Status)
	assert.Equal(t, "jefe", approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	_, err = uc.RejectLeave(ctx, l.ID, "jefe")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.CreateLeave(ctx, dto.CreateLeaveRequest{
		EmployeeID: e.ID, LeaveType: entity.LeaveSick, StartDate: day(0, 0), EndDate: day(0, 0).AddDate(0, 0, -1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckIn_PuntualYTarde(t *testing.T) {
	uc, now := newTestUseCase(day(8, 55))
	ctx := context.Background()
	a := hire(t, uc, "E-001")
	b := hire(t, uc, "E-002")

	in, err := uc.CheckIn(ctx, dto.CheckInRequest{EmployeeID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, AttendancePresent, in.Status)

	now.t = day(9, 20)
	late, err := uc.CheckIn(ctx, dto.CheckInRequest{EmployeeID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, AttendanceLate, late.Status)

	_, err = uc.CheckIn(ctx, dto.CheckInRequest{EmployeeID: a.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCheckOut(t *testing.T) {
	uc, now := newTestUseCase(day(8, 0))
	ctx := context.Background()
	e := hire(t, uc, "E-001")

	_, err := uc.CheckOut(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "sin entrada previa")

	_, err = uc.CheckIn(ctx, dto.CheckInRequest{EmployeeID: e.ID})
	require.NoError(t, err)

	now.t = day(16, 30)
	out, err := uc.CheckOut(ctx, e.ID)
	require.NoError(t, err)
	assert.InDelta(t, 8.5, out.HoursWorked, 1e-9)

	_, err = uc.CheckOut(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.ListAttendance(ctx, e.ID, day(0, 0), day(23, 0))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].CheckOut)

	_, err = uc.ListAttendance(ctx, e.ID, day(10, 0), day(9, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckIn_EmpleadoInactivo(t *testing.T) {
	uc, _ := newTestUseCase(day(8, 0))
	ctx := context.Background()
	e := hire(t, uc, "E-001")
	_, err := uc.UpdateEmployeeStatus(ctx, e.ID, dto.UpdateEmployeeStatusRequest{Status: entity.EmploymentSuspended})
	require.NoError(t, err)

	_, err = uc.CheckIn(ctx, dto.CheckInRequest{EmployeeID: e.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
