package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"brewery_backend/internal/models"
	"brewery_backend/internal/repositories"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func strPtr(s string) *string { return &s }
func int64Ptr(i int64) *int64 { return &i }

// --- employees ---

type fakeEmployeeRepo struct {
	employees []models.Employee
	nextID    int64
}

func newFakeEmployeeRepo(emps ...models.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{employees: emps, nextID: 100}
	return r
}

func (r *fakeEmployeeRepo) CreateEmployee(_ context.Context, _ repositories.SQLExecutor, emp *models.Employee) (*models.Employee, error) {
	for _, e := range r.employees {
		if e.Email != nil && emp.Email != nil && strings.EqualFold(*e.Email, *emp.Email) {
			return nil, repositories.ErrDuplicateKey
		}
	}
	r.nextID++
	emp.ID = r.nextID
	r.employees = append(r.employees, *emp)
	return emp, nil
}

func (r *fakeEmployeeRepo) GetEmployeeByID(_ context.Context, id int64) (*models.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeEmployeeRepo) GetEmployeeByEmail(_ context.Context, email string) (*models.Employee, error) {
	for _, e := range r.employees {
		if e.Email != nil && strings.EqualFold(*e.Email, email) {
			cp := e
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeEmployeeRepo) GetEmployees(context.Context) ([]models.Employee, error) {
	return append([]models.Employee(nil), r.employees...), nil
}

func (r *fakeEmployeeRepo) UpdateEmployee(_ context.Context, _ repositories.SQLExecutor, emp *models.Employee) (*models.Employee, error) {
	for i, e := range r.employees {
		if e.ID == emp.ID {
			r.employees[i] = *emp
			return emp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeEmployeeRepo) SetPasswordHash(_ context.Context, _ repositories.SQLExecutor, id int64, hash string) error {
	for i, e := range r.employees {
		if e.ID == id {
			r.employees[i].PasswordHash = &hash
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeEmployeeRepo) DeleteEmployee(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	for i, e := range r.employees {
		if e.ID == id {
			r.employees = append(r.employees[:i], r.employees[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// --- schedules ---

type fakeScheduleRepo struct {
	shifts    []models.Shift
	nextID    int64
	insertErr error

	deletedRange [2]string
	linked       map[int64]int64
}

func (r *fakeScheduleRepo) CreateShift(_ context.Context, _ repositories.SQLExecutor, s *models.Shift) (*models.Shift, error) {
	r.nextID++
	s.ID = r.nextID
	r.shifts = append(r.shifts, *s)
	return s, nil
}

func (r *fakeScheduleRepo) GetShiftByID(_ context.Context, id int64) (*models.Shift, error) {
	for _, s := range r.shifts {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeScheduleRepo) GetShifts(_ context.Context, f models.ShiftFilters) ([]models.Shift, error) {
	out := []models.Shift{}
	for _, s := range r.shifts {
		if f.DateFrom != "" && s.Date < f.DateFrom {
			continue
		}
		if f.DateTo != "" && s.Date > f.DateTo {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeScheduleRepo) UpdateShift(_ context.Context, _ repositories.SQLExecutor, s *models.Shift) (*models.Shift, error) {
	for i := range r.shifts {
		if r.shifts[i].ID == s.ID {
			r.shifts[i] = *s
			return s, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeScheduleRepo) DeleteShift(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	for i := range r.shifts {
		if r.shifts[i].ID == id {
			r.shifts = append(r.shifts[:i], r.shifts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeScheduleRepo) DeleteShiftsInRange(_ context.Context, _ repositories.SQLExecutor, from, to string) (int64, error) {
	r.deletedRange = [2]string{from, to}
	kept := r.shifts[:0]
	var n int64
	for _, s := range r.shifts {
		if s.Date >= from && s.Date <= to {
			n++
			continue
		}
		kept = append(kept, s)
	}
	r.shifts = kept
	return n, nil
}

func (r *fakeScheduleRepo) BulkInsertShifts(ctx context.Context, exec repositories.SQLExecutor, shifts []models.Shift) (int, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	for i := range shifts {
		s := shifts[i]
		r.CreateShift(ctx, exec, &s)
	}
	return len(shifts), nil
}

func (r *fakeScheduleRepo) DeleteShiftsByEvent(_ context.Context, _ repositories.SQLExecutor, eventID int64) (int64, error) {
	kept := r.shifts[:0]
	var n int64
	for _, s := range r.shifts {
		if s.EventID != nil && *s.EventID == eventID {
			n++
			continue
		}
		kept = append(kept, s)
	}
	r.shifts = kept
	return n, nil
}

func (r *fakeScheduleRepo) GetUnlinkedShifts(context.Context, repositories.SQLExecutor) ([]models.Shift, error) {
	out := []models.Shift{}
	for _, s := range r.shifts {
		if s.EmployeeID == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) SetShiftEmployee(_ context.Context, _ repositories.SQLExecutor, id, employeeID int64) error {
	if r.linked == nil {
		r.linked = map[int64]int64{}
	}
	r.linked[id] = employeeID
	for i := range r.shifts {
		if r.shifts[i].ID == id {
			r.shifts[i].EmployeeID = int64Ptr(employeeID)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// --- templates ---

type fakeTemplateRepo struct {
	templates map[int64]models.Template
	nextID    int64
}

func newFakeTemplateRepo(tpls ...models.Template) *fakeTemplateRepo {
	r := &fakeTemplateRepo{templates: map[int64]models.Template{}}
	for _, t := range tpls {
		r.templates[t.ID] = t
		if t.ID > r.nextID {
			r.nextID = t.ID
		}
	}
	return r
}

func (r *fakeTemplateRepo) CreateTemplate(_ context.Context, _ repositories.SQLExecutor, t *models.Template) (*models.Template, error) {
	for _, existing := range r.templates {
		if existing.Name == t.Name {
			return nil, repositories.ErrDuplicateKey
		}
	}
	r.nextID++
	t.ID = r.nextID
	r.templates[t.ID] = *t
	return t, nil
}

func (r *fakeTemplateRepo) GetTemplateByID(_ context.Context, id int64) (*models.Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}

func (r *fakeTemplateRepo) GetTemplates(context.Context) ([]models.Template, error) {
	out := []models.Template{}
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTemplateRepo) UpdateTemplate(_ context.Context, _ repositories.SQLExecutor, t *models.Template) (*models.Template, error) {
	if _, ok := r.templates[t.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	r.templates[t.ID] = *t
	return t, nil
}

func (r *fakeTemplateRepo) DeleteTemplate(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := r.templates[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}

// --- events ---

type fakeEventRepo struct {
	events      map[int64]models.Event
	supplies    map[int64]models.EventSupplies
	beers       map[int64][]models.EventBeer
	notes       map[int64]models.EventNotes
	assignments map[int64][]int64
	names       map[int64]string
	nextID      int64

	added, removed []int64
}

func newFakeEventRepo(roster ...models.Employee) *fakeEventRepo {
	r := &fakeEventRepo{
		events:      map[int64]models.Event{},
		supplies:    map[int64]models.EventSupplies{},
		beers:       map[int64][]models.EventBeer{},
		notes:       map[int64]models.EventNotes{},
		assignments: map[int64][]int64{},
		names:       map[int64]string{},
	}
	for _, e := range roster {
		r.names[e.ID] = e.Name
	}
	return r
}

func (r *fakeEventRepo) CreateEvent(_ context.Context, _ repositories.SQLExecutor, ev *models.Event) (*models.Event, error) {
	r.nextID++
	ev.ID = r.nextID
	r.events[ev.ID] = *ev
	return ev, nil
}

func (r *fakeEventRepo) GetEventByID(_ context.Context, id int64) (*models.Event, error) {
	ev, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &ev, nil
}

func (r *fakeEventRepo) GetEvents(_ context.Context, f models.EventFilters) ([]models.Event, error) {
	out := []models.Event{}
	for _, ev := range r.events {
		if f.DateFrom != "" && ev.EventDate < f.DateFrom {
			continue
		}
		if f.DateTo != "" && ev.EventDate > f.DateTo {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) UpdateEvent(_ context.Context, _ repositories.SQLExecutor, ev *models.Event) (*models.Event, error) {
	if _, ok := r.events[ev.ID]; !ok {
		return nil, repositories.ErrNotFound
	}
	r.events[ev.ID] = *ev
	return ev, nil
}

func (r *fakeEventRepo) DeleteEvent(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := r.events[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) GetSupplies(_ context.Context, id int64) (*models.EventSupplies, error) {
	s, ok := r.supplies[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (r *fakeEventRepo) UpsertSupplies(_ context.Context, _ repositories.SQLExecutor, s *models.EventSupplies) error {
	r.supplies[s.EventID] = *s
	return nil
}

func (r *fakeEventRepo) DeleteSupplies(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	delete(r.supplies, id)
	return nil
}

func (r *fakeEventRepo) GetBeers(_ context.Context, id int64) ([]models.EventBeer, error) {
	return append([]models.EventBeer{}, r.beers[id]...), nil
}

func (r *fakeEventRepo) ReplaceBeers(_ context.Context, _ repositories.SQLExecutor, id int64, beers []models.EventBeer) error {
	if len(beers) == 0 {
		delete(r.beers, id)
		return nil
	}
	r.beers[id] = append([]models.EventBeer(nil), beers...)
	return nil
}

func (r *fakeEventRepo) GetNotes(_ context.Context, id int64) (*models.EventNotes, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &n, nil
}

func (r *fakeEventRepo) UpsertNotes(_ context.Context, _ repositories.SQLExecutor, n *models.EventNotes) error {
	r.notes[n.EventID] = *n
	return nil
}

func (r *fakeEventRepo) DeleteNotes(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	delete(r.notes, id)
	return nil
}

func (r *fakeEventRepo) assignmentsOf(eventID int64) []models.EventAssignment {
	out := []models.EventAssignment{}
	for _, empID := range r.assignments[eventID] {
		out = append(out, models.EventAssignment{EventID: eventID, EmployeeID: empID, EmployeeName: r.names[empID]})
	}
	return out
}

func (r *fakeEventRepo) GetAssignments(_ context.Context, _ repositories.SQLExecutor, eventID int64) ([]models.EventAssignment, error) {
	return r.assignmentsOf(eventID), nil
}

func (r *fakeEventRepo) GetAssignmentsForEvents(_ context.Context, ids []int64) (map[int64][]models.EventAssignment, error) {
	out := map[int64][]models.EventAssignment{}
	for _, id := range ids {
		out[id] = r.assignmentsOf(id)
	}
	return out, nil
}

func (r *fakeEventRepo) AddAssignment(_ context.Context, _ repositories.SQLExecutor, eventID, employeeID int64) error {
	if _, ok := r.names[employeeID]; !ok {
		return repositories.ErrForeignKey
	}
	for _, id := range r.assignments[eventID] {
		if id == employeeID {
			return nil
		}
	}
	r.added = append(r.added, employeeID)
	r.assignments[eventID] = append(r.assignments[eventID], employeeID)
	return nil
}

func (r *fakeEventRepo) RemoveAssignment(_ context.Context, _ repositories.SQLExecutor, eventID, employeeID int64) error {
	ids := r.assignments[eventID]
	for i, id := range ids {
		if id == employeeID {
			r.removed = append(r.removed, employeeID)
			r.assignments[eventID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeEventRepo) DeleteAssignments(_ context.Context, _ repositories.SQLExecutor, eventID int64) (int64, error) {
	n := int64(len(r.assignments[eventID]))
	delete(r.assignments, eventID)
	return n, nil
}
