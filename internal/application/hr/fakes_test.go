package hr

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
)

// memRepos repositorios en memoria para los casos de uso de RRHH.
type memRepos struct {
	mu         sync.Mutex
	depts      map[string]entity.Department
	employees  map[string]entity.Employee
	leaves     map[string]entity.LeaveRequest
	attendance []entity.Attendance
}

func newMemRepos() *memRepos {
	return &memRepos{
		depts:     map[string]entity.Department{},
		employees: map[string]entity.Employee{},
		leaves:    map[string]entity.LeaveRequest{},
	}
}

type deptRepo struct{ m *memRepos }
type employeeRepo struct{ m *memRepos }
type leaveRepo struct{ m *memRepos }
type attendanceRepo struct{ m *memRepos }

var (
	_ repository.DepartmentRepository   = deptRepo{}
	_ repository.EmployeeRepository     = employeeRepo{}
	_ repository.LeaveRequestRepository = leaveRepo{}
	_ repository.AttendanceRepository   = attendanceRepo{}
)

func (r deptRepo) Create(_ context.Context, d *entity.Department) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.depts[d.ID] = *d
	return nil
}

func (r deptRepo) GetByID(_ context.Context, id string) (*entity.Department, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if d, ok := r.m.depts[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (r deptRepo) GetByCode(_ context.Context, code string) (*entity.Department, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, d := range r.m.depts {
		if d.Code == code {
			return &d, nil
		}
	}
	return nil, nil
}

func (r deptRepo) List(_ context.Context) ([]*entity.Department, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*entity.Department{}
	for _, d := range r.m.depts {
		d := d
		out = append(out, &d)
	}
	return out, nil
}

func (r employeeRepo) Create(_ context.Context, e *entity.Employee) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.employees[e.ID] = *e
	return nil
}

func (r employeeRepo) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if e, ok := r.m.employees[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (r employeeRepo) GetByCode(_ context.Context, code string) (*entity.Employee, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, e := range r.m.employees {
		if e.EmployeeCode == code {
			return &e, nil
		}
	}
	return nil, nil
}

func (r employeeRepo) Update(ctx context.Context, e *entity.Employee) error { return r.Create(ctx, e) }

func (r employeeRepo) List(_ context.Context, f repository.EmployeeFilter, _, _ int) ([]*entity.Employee, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*entity.Employee{}
	for _, e := range r.m.employees {
		if (f.DepartmentID == "" || e.DepartmentID == f.DepartmentID) && (f.Status == "" || e.EmploymentStatus == f.Status) {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r leaveRepo) Create(_ context.Context, l *entity.LeaveRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.leaves[l.ID] = *l
	return nil
}

func (r leaveRepo) GetByID(_ context.Context, id string) (*entity.LeaveRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if l, ok := r.m.leaves[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r leaveRepo) Update(ctx context.Context, l *entity.LeaveRequest) error { return r.Create(ctx, l) }

func (r leaveRepo) List(_ context.Context, employeeID, status string, _, _ int) ([]*entity.LeaveRequest, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*entity.LeaveRequest{}
	for _, l := range r.m.leaves {
		if (employeeID == "" || l.EmployeeID == employeeID) && (status == "" || l.Status == status) {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

func (r attendanceRepo) Create(_ context.Context, a *entity.Attendance) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.attendance = append(r.m.attendance, *a)
	return nil
}

func (r attendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*entity.Attendance, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.attendance {
		if a.EmployeeID == employeeID && a.Date.Equal(date) {
			return &a, nil
		}
	}
	return nil, nil
}

func (r attendanceRepo) Update(_ context.Context, a *entity.Attendance) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.attendance {
		if r.m.attendance[i].ID == a.ID {
			r.m.attendance[i] = *a
		}
	}
	return nil
}

func (r attendanceRepo) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]*entity.Attendance, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*entity.Attendance{}
	for _, a := range r.m.attendance {
		if a.EmployeeID == employeeID && !a.Date.Before(from) && !a.Date.After(to) {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}
