package payroll

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/compensation"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/grade"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/tax"
)

// In-memory repository fakes mirroring the storage layer's concurrency
// contracts: tuple uniqueness on payroll insert, compare-and-swap on item
// usage.

type fakePayrollRepo struct {
	mu      sync.Mutex
	records map[string]payroll.Record

	// failCreateOnce makes the next CreateRecord call fail with this error
	// without inserting.
	failCreateOnce error
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{records: make(map[string]payroll.Record)}
}

func (r *fakePayrollRepo) CreateRecord(_ context.Context, rec payroll.Record) (payroll.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreateOnce != nil {
		err := r.failCreateOnce
		r.failCreateOnce = nil
		return payroll.Record{}, err
	}
	for _, existing := range r.records {
		if existing.EmployeeID == rec.EmployeeID &&
			existing.PeriodMonth == rec.PeriodMonth &&
			existing.PeriodYear == rec.PeriodYear &&
			existing.Frequency == rec.Frequency &&
			existing.Scope == rec.Scope {
			return payroll.Record{}, payroll.ErrPayrollRecordAlreadyExists
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now()
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *fakePayrollRepo) GetRecordByID(_ context.Context, id string, companyID string) (payroll.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.CompanyID != companyID {
		return payroll.Record{}, payroll.ErrPayrollRecordNotFound
	}
	return rec, nil
}

func (r *fakePayrollRepo) FindRecord(_ context.Context, companyID string, employeeID string, month, year int, freq compensation.Frequency, scope compensation.Scope) (payroll.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.CompanyID == companyID && rec.EmployeeID == employeeID &&
			rec.PeriodMonth == month && rec.PeriodYear == year &&
			rec.Frequency == freq && rec.Scope == scope {
			return rec, nil
		}
	}
	return payroll.Record{}, payroll.ErrPayrollRecordNotFound
}

func (r *fakePayrollRepo) ListRecords(_ context.Context, companyID string, _ payroll.RecordFilter) ([]payroll.Record, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.Record
	for _, rec := range r.records {
		if rec.CompanyID == companyID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(emps ...employee.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, e := range emps {
		r.employees[e.ID] = e
	}
	return r
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok || emp.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByIDs(_ context.Context, ids []string, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		if emp, ok := r.employees[id]; ok && emp.CompanyID == companyID {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) GetActiveOnboarded(_ context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.CompanyID == companyID &&
			emp.EmploymentStatus == employee.EmploymentStatusActive &&
			emp.OnboardingCompleted {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) GetActiveByDepartments(_ context.Context, departmentIDs []string, companyID string) ([]employee.Employee, error) {
	depts := make(map[string]struct{}, len(departmentIDs))
	for _, id := range departmentIDs {
		depts[id] = struct{}{}
	}
	var out []employee.Employee
	for _, emp := range r.employees {
		if _, ok := depts[emp.DepartmentID]; ok &&
			emp.CompanyID == companyID &&
			emp.EmploymentStatus == employee.EmploymentStatusActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeGradeRepo struct {
	mu       sync.Mutex
	grades   map[string]grade.SalaryGrade
	mappings map[string]grade.RoleGradeMapping // by role ID, active only
}

func newFakeGradeRepo() *fakeGradeRepo {
	return &fakeGradeRepo{
		grades:   make(map[string]grade.SalaryGrade),
		mappings: make(map[string]grade.RoleGradeMapping),
	}
}

func (r *fakeGradeRepo) addGrade(g grade.SalaryGrade) {
	r.grades[g.ID] = g
}

func (r *fakeGradeRepo) mapRole(roleID, gradeID, companyID string) {
	r.mappings[roleID] = grade.RoleGradeMapping{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		RoleID:    roleID,
		GradeID:   gradeID,
		IsActive:  true,
	}
}

func (r *fakeGradeRepo) CreateGrade(_ context.Context, g grade.SalaryGrade) (grade.SalaryGrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	r.grades[g.ID] = g
	return g, nil
}

func (r *fakeGradeRepo) GetGradeByID(_ context.Context, id string, companyID string) (grade.SalaryGrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grades[id]
	if !ok || g.CompanyID != companyID {
		return grade.SalaryGrade{}, grade.ErrGradeNotFound
	}
	return g, nil
}

func (r *fakeGradeRepo) ListGrades(_ context.Context, companyID string, _ bool) ([]grade.SalaryGrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []grade.SalaryGrade
	for _, g := range r.grades {
		if g.CompanyID == companyID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGradeRepo) UpdateGrade(_ context.Context, _ string, _ grade.UpdateGradeRequest) error {
	return nil
}

func (r *fakeGradeRepo) LockGrade(_ context.Context, id string, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grades[id]
	if !ok || g.CompanyID != companyID {
		return grade.ErrGradeNotFound
	}
	g.IsLocked = true
	r.grades[id] = g
	return nil
}

func (r *fakeGradeRepo) ActivateMapping(_ context.Context, m grade.RoleGradeMapping) (grade.RoleGradeMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.IsActive = true
	r.mappings[m.RoleID] = m
	return m, nil
}

func (r *fakeGradeRepo) GetActiveMappingByRole(_ context.Context, roleID string, companyID string) (grade.RoleGradeMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.mappings[roleID]
	if !ok || m.CompanyID != companyID {
		return grade.RoleGradeMapping{}, grade.ErrMappingNotFound
	}
	return m, nil
}

func (r *fakeGradeRepo) ListMappings(_ context.Context, companyID string) ([]grade.RoleGradeMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []grade.RoleGradeMapping
	for _, m := range r.mappings {
		if m.CompanyID == companyID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[string]compensation.Item

	// conflictOnCall makes the Nth MarkUsed call (1-based) fail with
	// ErrUsageConflict without mutating, to exercise the commit retry path.
	// Zero disables it; the knob clears after firing.
	conflictOnCall int
	markCalls      int
}

func newFakeItemRepo(items ...compensation.Item) *fakeItemRepo {
	r := &fakeItemRepo{items: make(map[string]compensation.Item)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *fakeItemRepo) Create(_ context.Context, item compensation.Item) (compensation.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	r.items[item.ID] = item
	return item, nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string, companyID string) (compensation.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.CompanyID != companyID {
		return compensation.Item{}, compensation.ErrItemNotFound
	}
	return it, nil
}

func (r *fakeItemRepo) ListByKind(_ context.Context, companyID string, kind compensation.Kind, activeOnly bool) ([]compensation.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []compensation.Item
	for _, it := range r.items {
		if it.CompanyID != companyID || it.Kind != kind {
			continue
		}
		if activeOnly && it.Status != compensation.StatusActive {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *fakeItemRepo) Update(_ context.Context, _ string, _ compensation.UpdateItemRequest) error {
	return nil
}

func (r *fakeItemRepo) Deactivate(_ context.Context, id string, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.CompanyID != companyID {
		return compensation.ErrItemNotFound
	}
	it.Status = compensation.StatusInactive
	r.items[id] = it
	return nil
}

func (r *fakeItemRepo) MarkUsed(_ context.Context, id string, usageVersion int64, usedAt time.Time, payrollID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markCalls++
	if r.conflictOnCall > 0 && r.markCalls == r.conflictOnCall {
		r.conflictOnCall = 0
		return compensation.ErrUsageConflict
	}
	it, ok := r.items[id]
	if !ok {
		return compensation.ErrItemNotFound
	}
	if it.UsageVersion != usageVersion {
		return compensation.ErrUsageConflict
	}
	it.IsUsed = true
	it.UsageCount++
	it.LastUsedDate = &usedAt
	if payrollID != "" {
		it.LastUsedInPayrollID = &payrollID
	}
	it.UsageVersion++
	r.items[id] = it
	return nil
}

func (r *fakeItemRepo) RestoreUsage(_ context.Context, snapshot compensation.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[snapshot.ID]
	if !ok {
		return compensation.ErrItemNotFound
	}
	if it.UsageVersion != snapshot.UsageVersion+1 {
		return compensation.ErrUsageConflict
	}
	it.IsUsed = snapshot.IsUsed
	it.UsageCount = snapshot.UsageCount
	it.LastUsedDate = snapshot.LastUsedDate
	it.LastUsedInPayrollID = snapshot.LastUsedInPayrollID
	it.UsageVersion++
	r.items[snapshot.ID] = it
	return nil
}

func (r *fakeItemRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, it := range r.items {
		if it.Status == compensation.StatusActive && it.EndDate != nil && it.EndDate.Before(now) {
			it.Status = compensation.StatusExpired
			r.items[id] = it
			n++
		}
	}
	return n, nil
}

type fakeBracketRepo struct {
	brackets []tax.Bracket
}

func (r *fakeBracketRepo) ListByCompany(_ context.Context, _ string) ([]tax.Bracket, error) {
	return r.brackets, nil
}

func (r *fakeBracketRepo) ReplaceAll(_ context.Context, _ string, brackets []tax.Bracket) ([]tax.Bracket, error) {
	r.brackets = brackets
	return brackets, nil
}

type fakeAuditRepo struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *fakeAuditRepo) Record(_ context.Context, event audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, _ string, _ audit.Filter, _ int, _ int) ([]audit.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Event(nil), r.events...), nil
}

func (r *fakeAuditRepo) byAction(action string) []audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []audit.Event
	for _, e := range r.events {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
