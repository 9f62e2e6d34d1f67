package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"brewery_backend/internal/models"
)

// ScheduleRepository defines the database operations on weekly shift rows.
type ScheduleRepository interface {
	CreateShift(ctx context.Context, executor SQLExecutor, shift *models.Shift) (*models.Shift, error)
	GetShiftByID(ctx context.Context, id int64) (*models.Shift, error)
	GetShifts(ctx context.Context, filters models.ShiftFilters) ([]models.Shift, error)
	UpdateShift(ctx context.Context, executor SQLExecutor, shift *models.Shift) (*models.Shift, error)
	DeleteShift(ctx context.Context, executor SQLExecutor, id int64) error

	// DeleteShiftsInRange removes every row dated within [from, to], whatever its origin.
	DeleteShiftsInRange(ctx context.Context, executor SQLExecutor, from, to string) (int64, error)
	BulkInsertShifts(ctx context.Context, executor SQLExecutor, shifts []models.Shift) (int, error)
	DeleteShiftsByEvent(ctx context.Context, executor SQLExecutor, eventID int64) (int64, error)

	GetUnlinkedShifts(ctx context.Context, executor SQLExecutor) ([]models.Shift, error)
	SetShiftEmployee(ctx context.Context, executor SQLExecutor, id, employeeID int64) error
}

type scheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new instance of ScheduleRepository.
func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

const shiftColumns = `id, employee_id, employee_name, day, to_char(date, 'YYYY-MM-DD'), shift,
	category, event_id, event_title, notes, created_at, updated_at`

func scanShift(row scanner) (*models.Shift, error) {
	var s models.Shift
	var employeeID, eventID sql.NullInt64
	var category, eventTitle, notes sql.NullString
	err := row.Scan(&s.ID, &employeeID, &s.EmployeeName, &s.Day, &s.Date, &s.Label,
		&category, &eventID, &eventTitle, &notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.EmployeeID = int64Ptr(employeeID)
	s.EventID = int64Ptr(eventID)
	s.Category = stringPtr(category)
	s.EventTitle = stringPtr(eventTitle)
	s.Notes = stringPtr(notes)
	return &s, nil
}

func (r *scheduleRepository) CreateShift(ctx context.Context, executor SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	query := `INSERT INTO schedules (employee_id, employee_name, day, date, shift, category, event_id, event_title, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id, created_at, updated_at`

	now := time.Now()
	err := executor.QueryRowContext(ctx, query,
		nullInt64(shift.EmployeeID), shift.EmployeeName, shift.Day, shift.Date, shift.Label,
		nullString(shift.Category), nullInt64(shift.EventID), nullString(shift.EventTitle), nullString(shift.Notes),
		now, now,
	).Scan(&shift.ID, &shift.CreatedAt, &shift.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "creating shift")
	}
	return shift, nil
}

func (r *scheduleRepository) GetShiftByID(ctx context.Context, id int64) (*models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM schedules WHERE id = $1`
	s, err := scanShift(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "getting shift by id")
	}
	return s, nil
}

func (r *scheduleRepository) GetShifts(ctx context.Context, filters models.ShiftFilters) ([]models.Shift, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + shiftColumns + ` FROM schedules`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argCount))
		args = append(args, filters.DateFrom)
		argCount++
	}
	if filters.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argCount))
		args = append(args, filters.DateTo)
		argCount++
	}
	if filters.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argCount))
		args = append(args, *filters.EmployeeID)
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY date ASC, employee_name ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying shifts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	return collectShifts(rows)
}

func collectShifts(rows *sql.Rows) ([]models.Shift, error) {
	shifts := []models.Shift{}
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
		}
		shifts = append(shifts, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shifts: %v", ErrDatabaseError, err)
	}
	return shifts, nil
}

func (r *scheduleRepository) UpdateShift(ctx context.Context, executor SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	query := `UPDATE schedules SET employee_id = $1, employee_name = $2, day = $3, date = $4, shift = $5,
	            category = $6, notes = $7, updated_at = $8
	          WHERE id = $9
	          RETURNING created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		nullInt64(shift.EmployeeID), shift.EmployeeName, shift.Day, shift.Date, shift.Label,
		nullString(shift.Category), nullString(shift.Notes), time.Now(), shift.ID,
	).Scan(&shift.CreatedAt, &shift.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "updating shift")
	}
	return shift, nil
}

func (r *scheduleRepository) DeleteShift(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting shift")
	}
	return requireAffected(res, "deleting shift")
}

func (r *scheduleRepository) DeleteShiftsInRange(ctx context.Context, executor SQLExecutor, from, to string) (int64, error) {
	res, err := executor.ExecContext(ctx, `DELETE FROM schedules WHERE date >= $1 AND date <= $2`, from, to)
	if err != nil {
		return 0, translateError(err, "deleting shifts in range")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: deleting shifts in range: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// BulkInsertShifts writes all rows in a single statement.
func (r *scheduleRepository) BulkInsertShifts(ctx context.Context, executor SQLExecutor, shifts []models.Shift) (int, error) {
	if len(shifts) == 0 {
		return 0, nil
	}
	const cols = 9
	now := time.Now()

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`INSERT INTO schedules (employee_id, employee_name, day, date, shift, category, notes, created_at, updated_at) VALUES `)
	args := make([]interface{}, 0, len(shifts)*cols)
	for i, s := range shifts {
		if i > 0 {
			queryBuilder.WriteString(", ")
		}
		base := i * cols
		placeholders := make([]string, cols)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		queryBuilder.WriteString("(" + strings.Join(placeholders, ", ") + ")")
		args = append(args, nullInt64(s.EmployeeID), s.EmployeeName, s.Day, s.Date, s.Label,
			nullString(s.Category), nullString(s.Notes), now, now)
	}

	res, err := executor.ExecContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return 0, translateError(err, "bulk inserting shifts")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: bulk inserting shifts: %v", ErrDatabaseError, err)
	}
	return int(n), nil
}

func (r *scheduleRepository) DeleteShiftsByEvent(ctx context.Context, executor SQLExecutor, eventID int64) (int64, error) {
	res, err := executor.ExecContext(ctx, `DELETE FROM schedules WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, translateError(err, "deleting event shifts")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: deleting event shifts: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// GetUnlinkedShifts lists rows that still carry only an employee name.
func (r *scheduleRepository) GetUnlinkedShifts(ctx context.Context, executor SQLExecutor) ([]models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM schedules WHERE employee_id IS NULL ORDER BY id ASC`
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying unlinked shifts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	return collectShifts(rows)
}

func (r *scheduleRepository) SetShiftEmployee(ctx context.Context, executor SQLExecutor, id, employeeID int64) error {
	res, err := executor.ExecContext(ctx, `UPDATE schedules SET employee_id = $1, updated_at = $2 WHERE id = $3`, employeeID, time.Now(), id)
	if err != nil {
		return translateError(err, "linking shift to employee")
	}
	return requireAffected(res, "linking shift to employee")
}
