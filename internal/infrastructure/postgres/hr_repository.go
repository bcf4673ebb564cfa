package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Fabrica-api/internal/domain"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

var (
	_ repository.DepartmentRepository   = (*DepartmentRepo)(nil)
	_ repository.EmployeeRepository     = (*EmployeeRepo)(nil)
	_ repository.LeaveRequestRepository = (*LeaveRequestRepo)(nil)
	_ repository.AttendanceRepository   = (*AttendanceRepo)(nil)
)

// ── Departamentos ─────────────────────────────────────────────────────────────

const departmentColumns = `id, name, code, description, manager_id, created_at, updated_at`

// DepartmentRepo departamentos.
type DepartmentRepo struct {
	q Querier
}

// NewDepartmentRepository construye el adaptador.
func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

// Create persiste un departamento. Código repetido → ErrDuplicate.
func (r *DepartmentRepo) Create(ctx context.Context, d *entity.Department) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO departments (`+departmentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.Name, d.Code, d.Description, nullString(d.ManagerID), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: departamento %s", domain.ErrDuplicate, d.Code)
		}
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// GetByID obtiene un departamento.
func (r *DepartmentRepo) GetByID(ctx context.Context, id string) (*entity.Department, error) {
	return scanDepartment(r.q.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = $1`, id))
}

// GetByCode obtiene un departamento por código.
func (r *DepartmentRepo) GetByCode(ctx context.Context, code string) (*entity.Department, error) {
	return scanDepartment(r.q.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE code = $1`, code))
}

// List departamentos por nombre.
func (r *DepartmentRepo) List(ctx context.Context) ([]*entity.Department, error) {
	rows, err := r.q.Query(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDepartment(row pgx.Row) (*entity.Department, error) {
	var d entity.Department
	var manager *string
	if err := row.Scan(&d.ID, &d.Name, &d.Code, &d.Description, &manager, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan department: %w", err)
	}
	d.ManagerID = fromNull(manager)
	return &d, nil
}

// ── Empleados ─────────────────────────────────────────────────────────────────

const employeeColumns = `id, user_id, employee_code, first_name, last_name, department_id, position,
	employment_type, employment_status, national_id, phone_number, hire_date, end_date, salary, created_at, updated_at`

// EmployeeRepo empleados.
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador.
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

// Create persiste un empleado. Código o documento repetido → ErrDuplicate.
func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		e.ID, nullString(e.UserID), e.EmployeeCode, e.FirstName, e.LastName, nullString(e.DepartmentID), e.Position,
		e.EmploymentType, e.EmploymentStatus, nullString(e.NationalID), e.PhoneNumber, e.HireDate, e.EndDate,
		e.Salary, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: empleado %s", domain.ErrDuplicate, e.EmployeeCode)
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// GetByID obtiene un empleado.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	return scanEmployee(r.q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
}

// GetByCode obtiene un empleado por código.
func (r *EmployeeRepo) GetByCode(ctx context.Context, code string) (*entity.Employee, error) {
	return scanEmployee(r.q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE employee_code = $1`, code))
}

// Update actualiza los datos laborales del empleado.
func (r *EmployeeRepo) Update(ctx context.Context, e *entity.Employee) error {
	_, err := r.q.Exec(ctx, `
		UPDATE employees SET first_name = $2, last_name = $3, department_id = $4, position = $5,
			employment_type = $6, employment_status = $7, phone_number = $8, end_date = $9, salary = $10, updated_at = $11
		WHERE id = $1`,
		e.ID, e.FirstName, e.LastName, nullString(e.DepartmentID), e.Position, e.EmploymentType,
		e.EmploymentStatus, e.PhoneNumber, e.EndDate, e.Salary, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

// List lista empleados por apellido con filtros opcionales.
func (r *EmployeeRepo) List(ctx context.Context, f repository.EmployeeFilter, limit, offset int) ([]*entity.Employee, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+employeeColumns+` FROM employees
		WHERE ($1 = '' OR department_id::text = $1)
		  AND ($2 = '' OR employment_status = $2)
		ORDER BY last_name, first_name
		LIMIT $3 OFFSET $4`, f.DepartmentID, f.Status, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	var e entity.Employee
	var user, dept, national *string
	err := row.Scan(&e.ID, &user, &e.EmployeeCode, &e.FirstName, &e.LastName, &dept, &e.Position,
		&e.EmploymentType, &e.EmploymentStatus, &national, &e.PhoneNumber, &e.HireDate, &e.EndDate,
		&e.Salary, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	e.UserID = fromNull(user)
	e.DepartmentID = fromNull(dept)
	e.NationalID = fromNull(national)
	return &e, nil
}

// ── Permisos ──────────────────────────────────────────────────────────────────

const leaveColumns = `id, employee_id, leave_type, start_date, end_date, reason, status, approved_by, approved_at, created_at, updated_at`

// LeaveRequestRepo solicitudes de permiso.
type LeaveRequestRepo struct {
	q Querier
}

// NewLeaveRequestRepository construye el adaptador.
func NewLeaveRequestRepository(q Querier) *LeaveRequestRepo {
	return &LeaveRequestRepo{q: q}
}

// Create registra una solicitud.
func (r *LeaveRequestRepo) Create(ctx context.Context, l *entity.LeaveRequest) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO leave_requests (`+leaveColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		l.ID, l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate, l.Reason, l.Status,
		nullString(l.ApprovedBy), l.ApprovedAt, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert leave request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud.
func (r *LeaveRequestRepo) GetByID(ctx context.Context, id string) (*entity.LeaveRequest, error) {
	return scanLeave(r.q.QueryRow(ctx, `SELECT `+leaveColumns+` FROM leave_requests WHERE id = $1`, id))
}

// Update guarda la decisión sobre la solicitud.
func (r *LeaveRequestRepo) Update(ctx context.Context, l *entity.LeaveRequest) error {
	_, err := r.q.Exec(ctx, `
		UPDATE leave_requests SET status = $2, approved_by = $3, approved_at = $4, updated_at = $5 WHERE id = $1`,
		l.ID, l.Status, nullString(l.ApprovedBy), l.ApprovedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update leave request: %w", err)
	}
	return nil
}

// List solicitudes más recientes primero.
func (r *LeaveRequestRepo) List(ctx context.Context, employeeID, status string, limit, offset int) ([]*entity.LeaveRequest, error) {
	lim, off := pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `
		SELECT `+leaveColumns+` FROM leave_requests
		WHERE ($1 = '' OR employee_id::text = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, employeeID, status, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	defer rows.Close()

	var list []*entity.LeaveRequest
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanLeave(row pgx.Row) (*entity.LeaveRequest, error) {
	var l entity.LeaveRequest
	var approvedBy *string
	err := row.Scan(&l.ID, &l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.Reason, &l.Status,
		&approvedBy, &l.ApprovedAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan leave request: %w", err)
	}
	l.ApprovedBy = fromNull(approvedBy)
	return &l, nil
}

// ── Asistencia ────────────────────────────────────────────────────────────────

const attendanceColumns = `id, employee_id, date, check_in, check_out, status, notes, created_at`

// AttendanceRepo registros de asistencia.
type AttendanceRepo struct {
	q Querier
}

// NewAttendanceRepository construye el adaptador.
func NewAttendanceRepository(q Querier) *AttendanceRepo {
	return &AttendanceRepo{q: q}
}

// Create registra la entrada del día. Segundo registro del mismo día → ErrDuplicate.
func (r *AttendanceRepo) Create(ctx context.Context, a *entity.Attendance) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO attendance (`+attendanceColumns+`) VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8)`,
		a.ID, a.EmployeeID, a.Date, a.CheckIn, a.CheckOut, a.Status, a.Notes, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: asistencia ya registrada", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// GetByEmployeeAndDate obtiene el registro del día.
func (r *AttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*entity.Attendance, error) {
	return scanAttendance(r.q.QueryRow(ctx, `
		SELECT `+attendanceColumns+` FROM attendance WHERE employee_id = $1 AND date = $2::date`, employeeID, date))
}

// Update registra la salida.
func (r *AttendanceRepo) Update(ctx context.Context, a *entity.Attendance) error {
	_, err := r.q.Exec(ctx, `UPDATE attendance SET check_out = $2, status = $3, notes = $4 WHERE id = $1`,
		a.ID, a.CheckOut, a.Status, a.Notes)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return nil
}

// ListByEmployee registros entre from y to (inclusive) en orden cronológico.
func (r *AttendanceRepo) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]*entity.Attendance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+attendanceColumns+` FROM attendance
		WHERE employee_id = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date`, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var list []*entity.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAttendance(row pgx.Row) (*entity.Attendance, error) {
	var a entity.Attendance
	err := row.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.CheckIn, &a.CheckOut, &a.Status, &a.Notes, &a.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan attendance: %w", err)
	}
	return &a, nil
}
