package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewery_backend/internal/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var shiftCols = []string{"id", "employee_id", "employee_name", "day", "date", "shift",
	"category", "event_id", "event_title", "notes", "created_at", "updated_at"}

func TestGetShiftsAppliesFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewScheduleRepository(db)
	now := time.Now()
	employeeID := int64(2)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM schedules WHERE date >= $1 AND date <= $2 AND employee_id = $3 ORDER BY date ASC`)).
		WithArgs("2024-07-01", "2024-07-07", employeeID).
		WillReturnRows(sqlmock.NewRows(shiftCols).
			AddRow(1, 2, "Sarah Brewer", "MON", "2024-07-01", "12:00 PM - 8:00 PM", "tasting-room", nil, nil, nil, now, now).
			AddRow(2, nil, "Matt", "TUE", "2024-07-02", "9:00 AM - 5:00 PM", nil, 9, "Fest", "bring ice", now, now))

	shifts, err := repo.GetShifts(context.Background(), models.ShiftFilters{DateFrom: "2024-07-01", DateTo: "2024-07-07", EmployeeID: &employeeID})
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, int64(2), *shifts[0].EmployeeID)
	assert.Equal(t, "tasting-room", *shifts[0].Category)
	assert.Nil(t, shifts[1].EmployeeID)
	assert.Equal(t, int64(9), *shifts[1].EventID)
	assert.Equal(t, "bring ice", *shifts[1].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetShiftByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM schedules WHERE id = $1`)).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetShiftByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBulkInsertShifts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewScheduleRepository(db)
	id := int64(1)
	category := "packaging"
	shifts := []models.Shift{
		{EmployeeID: &id, EmployeeName: "Matt L.", Day: "MON", Date: "2024-07-01", Label: "12:00 PM - 8:00 PM", Category: &category},
		{EmployeeID: &id, EmployeeName: "Matt L.", Day: "TUE", Date: "2024-07-02", Label: "12:00 PM - 8:00 PM", Category: &category},
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schedules (employee_id, employee_name, day, date, shift, category, notes, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9), ($10, $11, $12, $13, $14, $15, $16, $17, $18)`)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.BulkInsertShifts(context.Background(), db, shifts)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.BulkInsertShifts(context.Background(), db, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteShiftsInRangeInsideTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM schedules WHERE date >= $1 AND date <= $2`)).
		WithArgs("2024-07-01", "2024-07-07").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	n, err := repo.DeleteShiftsInRange(context.Background(), tx, "2024-07-01", "2024-07-07")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteShiftMissingRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM schedules WHERE id = $1`)).WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteShift(context.Background(), db, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateMalformedDaysReadAsEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTemplateRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM templates ORDER BY name ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "kind", "holiday_date", "days", "created_at", "updated_at"}).
			AddRow(1, "Broken", "seasonal", nil, []byte("{not json"), now, now).
			AddRow(2, "July 4th", "holiday", "2024-07-04", []byte(`{"Monday":[{"employee_id":1,"shift_type":"Packaging"}]}`), now, now))

	templates, err := repo.GetTemplates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.NotNil(t, templates[0].Days)
	assert.Empty(t, templates[0].Days)
	assert.Equal(t, "2024-07-04", *templates[1].HolidayDate)
	assert.Equal(t, []models.TemplateAssignment{{EmployeeID: 1, ShiftType: "Packaging"}}, templates[1].Days["Monday"])
}

func TestCreateTemplateDuplicateName(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTemplateRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO templates`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "templates_name_key"})

	_, err := repo.CreateTemplate(context.Background(), db, &models.Template{Name: "Summer", Kind: "seasonal"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestReplaceBeers(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM event_beers WHERE event_id = $1`)).WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO event_beers`)).WithArgs(int64(7), "IPA", "1/2 bbl", 2).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO event_beers`)).WithArgs(int64(7), "Lager", "case", 4).
		WillReturnResult(sqlmock.NewResult(2, 1))

	err := repo.ReplaceBeers(context.Background(), db, 7, []models.EventBeer{
		{Style: "IPA", Packaging: "1/2 bbl", Quantity: 2},
		{Style: "Lager", Packaging: "case", Quantity: 4},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAssignmentsForEvents(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE a.event_id = ANY($1)`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "employee_id", "name"}).
			AddRow(1, 7, 1, "Matt L.").
			AddRow(2, 7, 2, "Sarah Brewer").
			AddRow(3, 8, 1, "Matt L."))

	got, err := repo.GetAssignmentsForEvents(context.Background(), []int64{7, 8})
	require.NoError(t, err)
	assert.Len(t, got[7], 2)
	assert.Equal(t, "Matt L.", got[8][0].EmployeeName)

	empty, err := repo.GetAssignmentsForEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateEventForeignKeyAndGenericErrors(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO event_assignments`)).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "event_assignments_employee_id_fkey"})
	err := repo.AddAssignment(context.Background(), db, 7, 99)
	assert.ErrorIs(t, err, ErrForeignKey)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO events`)).WillReturnError(errors.New("connection reset"))
	_, err = repo.CreateEvent(context.Background(), db, &models.Event{Title: "Fest", EventDate: "2024-07-04", Category: "festival"})
	assert.ErrorIs(t, err, ErrDatabaseError)
}

func TestGetEmployeeByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEmployeeRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM employees WHERE LOWER(email) = LOWER($1)`)).WithArgs("matt@brewery.test").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "is_admin", "password_hash", "created_at", "updated_at"}).
			AddRow(1, "Matt L.", "matt@brewery.test", nil, true, "$2a$10$hash", now, now))

	emp, err := repo.GetEmployeeByEmail(context.Background(), "matt@brewery.test")
	require.NoError(t, err)
	assert.True(t, emp.IsAdmin)
	assert.Nil(t, emp.Phone)
	assert.Equal(t, "$2a$10$hash", *emp.PasswordHash)
}
