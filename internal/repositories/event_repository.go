package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"brewery_backend/internal/models"
)

// EventRepository defines the database operations on events and the records they own.
type EventRepository interface {
	CreateEvent(ctx context.Context, executor SQLExecutor, ev *models.Event) (*models.Event, error)
	GetEventByID(ctx context.Context, id int64) (*models.Event, error)
	GetEvents(ctx context.Context, filters models.EventFilters) ([]models.Event, error)
	UpdateEvent(ctx context.Context, executor SQLExecutor, ev *models.Event) (*models.Event, error)
	DeleteEvent(ctx context.Context, executor SQLExecutor, id int64) error

	GetSupplies(ctx context.Context, eventID int64) (*models.EventSupplies, error)
	UpsertSupplies(ctx context.Context, executor SQLExecutor, supplies *models.EventSupplies) error
	DeleteSupplies(ctx context.Context, executor SQLExecutor, eventID int64) error

	GetBeers(ctx context.Context, eventID int64) ([]models.EventBeer, error)
	// ReplaceBeers deletes every beer line of the event and inserts beers in order.
	ReplaceBeers(ctx context.Context, executor SQLExecutor, eventID int64, beers []models.EventBeer) error

	GetNotes(ctx context.Context, eventID int64) (*models.EventNotes, error)
	UpsertNotes(ctx context.Context, executor SQLExecutor, notes *models.EventNotes) error
	DeleteNotes(ctx context.Context, executor SQLExecutor, eventID int64) error

	GetAssignments(ctx context.Context, executor SQLExecutor, eventID int64) ([]models.EventAssignment, error)
	GetAssignmentsForEvents(ctx context.Context, eventIDs []int64) (map[int64][]models.EventAssignment, error)
	AddAssignment(ctx context.Context, executor SQLExecutor, eventID, employeeID int64) error
	RemoveAssignment(ctx context.Context, executor SQLExecutor, eventID, employeeID int64) error
	DeleteAssignments(ctx context.Context, executor SQLExecutor, eventID int64) (int64, error)
}

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, title, to_char(event_date, 'YYYY-MM-DD'), setup_time, start_time, end_time, duration,
	contact_name, contact_phone, contact_email, attendees, category, category_other, off_premise,
	instructions, created_at, updated_at`

func scanEvent(row scanner) (*models.Event, error) {
	var ev models.Event
	var setup, start, end, duration, contactName, contactPhone, contactEmail, categoryOther, instructions sql.NullString
	var attendees sql.NullInt64
	err := row.Scan(&ev.ID, &ev.Title, &ev.EventDate, &setup, &start, &end, &duration,
		&contactName, &contactPhone, &contactEmail, &attendees, &ev.Category, &categoryOther, &ev.OffPremise,
		&instructions, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ev.SetupTime = stringPtr(setup)
	ev.StartTime = stringPtr(start)
	ev.EndTime = stringPtr(end)
	ev.Duration = stringPtr(duration)
	ev.ContactName = stringPtr(contactName)
	ev.ContactPhone = stringPtr(contactPhone)
	ev.ContactEmail = stringPtr(contactEmail)
	ev.Attendees = intPtr(attendees)
	ev.CategoryOther = stringPtr(categoryOther)
	ev.Instructions = stringPtr(instructions)
	return &ev, nil
}

func (r *eventRepository) CreateEvent(ctx context.Context, executor SQLExecutor, ev *models.Event) (*models.Event, error) {
	query := `INSERT INTO events (title, event_date, setup_time, start_time, end_time, duration,
	            contact_name, contact_phone, contact_email, attendees, category, category_other,
	            off_premise, instructions, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	          RETURNING id, created_at, updated_at`

	now := time.Now()
	err := executor.QueryRowContext(ctx, query,
		ev.Title, ev.EventDate, nullString(ev.SetupTime), nullString(ev.StartTime), nullString(ev.EndTime),
		nullString(ev.Duration), nullString(ev.ContactName), nullString(ev.ContactPhone), nullString(ev.ContactEmail),
		nullInt(ev.Attendees), ev.Category, nullString(ev.CategoryOther), ev.OffPremise, nullString(ev.Instructions),
		now, now,
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "creating event")
	}
	return ev, nil
}

func (r *eventRepository) GetEventByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	ev, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "getting event by id")
	}
	return ev, nil
}

func (r *eventRepository) GetEvents(ctx context.Context, filters models.EventFilters) ([]models.Event, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + eventColumns + ` FROM events`)

	var conditions []string
	var args []interface{}
	argCount := 1
	if filters.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("event_date >= $%d", argCount))
		args = append(args, filters.DateFrom)
		argCount++
	}
	if filters.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("event_date <= $%d", argCount))
		args = append(args, filters.DateTo)
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY event_date ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying events: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning event: %v", ErrDatabaseError, err)
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating events: %v", ErrDatabaseError, err)
	}
	return events, nil
}

func (r *eventRepository) UpdateEvent(ctx context.Context, executor SQLExecutor, ev *models.Event) (*models.Event, error) {
	query := `UPDATE events SET title = $1, event_date = $2, setup_time = $3, start_time = $4, end_time = $5,
	            duration = $6, contact_name = $7, contact_phone = $8, contact_email = $9, attendees = $10,
	            category = $11, category_other = $12, off_premise = $13, instructions = $14, updated_at = $15
	          WHERE id = $16
	          RETURNING created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		ev.Title, ev.EventDate, nullString(ev.SetupTime), nullString(ev.StartTime), nullString(ev.EndTime),
		nullString(ev.Duration), nullString(ev.ContactName), nullString(ev.ContactPhone), nullString(ev.ContactEmail),
		nullInt(ev.Attendees), ev.Category, nullString(ev.CategoryOther), ev.OffPremise, nullString(ev.Instructions),
		time.Now(), ev.ID,
	).Scan(&ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "updating event")
	}
	return ev, nil
}

func (r *eventRepository) DeleteEvent(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting event")
	}
	return requireAffected(res, "deleting event")
}

// --- Supplies ---

func (r *eventRepository) GetSupplies(ctx context.Context, eventID int64) (*models.EventSupplies, error) {
	query := `SELECT event_id, tent, tables, chairs, jockey_box, kegs, ice, cups, banner, tokens, notes
	          FROM event_supplies WHERE event_id = $1`
	var s models.EventSupplies
	var notes sql.NullString
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(&s.EventID, &s.Tent, &s.Tables, &s.Chairs,
		&s.JockeyBox, &s.Kegs, &s.Ice, &s.Cups, &s.Banner, &s.Tokens, &notes)
	if err != nil {
		return nil, translateError(err, "getting event supplies")
	}
	s.Notes = stringPtr(notes)
	return &s, nil
}

func (r *eventRepository) UpsertSupplies(ctx context.Context, executor SQLExecutor, s *models.EventSupplies) error {
	query := `INSERT INTO event_supplies (event_id, tent, tables, chairs, jockey_box, kegs, ice, cups, banner, tokens, notes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          ON CONFLICT (event_id) DO UPDATE SET
	            tent = EXCLUDED.tent, tables = EXCLUDED.tables, chairs = EXCLUDED.chairs,
	            jockey_box = EXCLUDED.jockey_box, kegs = EXCLUDED.kegs, ice = EXCLUDED.ice,
	            cups = EXCLUDED.cups, banner = EXCLUDED.banner, tokens = EXCLUDED.tokens, notes = EXCLUDED.notes`
	_, err := executor.ExecContext(ctx, query, s.EventID, s.Tent, s.Tables, s.Chairs, s.JockeyBox,
		s.Kegs, s.Ice, s.Cups, s.Banner, s.Tokens, nullString(s.Notes))
	if err != nil {
		return translateError(err, "upserting event supplies")
	}
	return nil
}

func (r *eventRepository) DeleteSupplies(ctx context.Context, executor SQLExecutor, eventID int64) error {
	if _, err := executor.ExecContext(ctx, `DELETE FROM event_supplies WHERE event_id = $1`, eventID); err != nil {
		return translateError(err, "deleting event supplies")
	}
	return nil
}

// --- Beers ---

func (r *eventRepository) GetBeers(ctx context.Context, eventID int64) ([]models.EventBeer, error) {
	query := `SELECT id, event_id, style, COALESCE(packaging, ''), quantity FROM event_beers WHERE event_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying event beers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	beers := []models.EventBeer{}
	for rows.Next() {
		var b models.EventBeer
		if err := rows.Scan(&b.ID, &b.EventID, &b.Style, &b.Packaging, &b.Quantity); err != nil {
			return nil, fmt.Errorf("%w: scanning event beer: %v", ErrDatabaseError, err)
		}
		beers = append(beers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating event beers: %v", ErrDatabaseError, err)
	}
	return beers, nil
}

func (r *eventRepository) ReplaceBeers(ctx context.Context, executor SQLExecutor, eventID int64, beers []models.EventBeer) error {
	if _, err := executor.ExecContext(ctx, `DELETE FROM event_beers WHERE event_id = $1`, eventID); err != nil {
		return translateError(err, "clearing event beers")
	}
	query := `INSERT INTO event_beers (event_id, style, packaging, quantity) VALUES ($1, $2, $3, $4)`
	for _, b := range beers {
		if _, err := executor.ExecContext(ctx, query, eventID, b.Style, b.Packaging, b.Quantity); err != nil {
			return translateError(err, "inserting event beer")
		}
	}
	return nil
}

// --- Notes ---

func (r *eventRepository) GetNotes(ctx context.Context, eventID int64) (*models.EventNotes, error) {
	query := `SELECT event_id, notes, actual_attendance, follow_up, updated_at FROM event_notes WHERE event_id = $1`
	var n models.EventNotes
	var notes, followUp sql.NullString
	var attendance sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(&n.EventID, &notes, &attendance, &followUp, &n.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "getting event notes")
	}
	n.Notes = stringPtr(notes)
	n.ActualAttendance = intPtr(attendance)
	n.FollowUp = stringPtr(followUp)
	return &n, nil
}

func (r *eventRepository) UpsertNotes(ctx context.Context, executor SQLExecutor, n *models.EventNotes) error {
	query := `INSERT INTO event_notes (event_id, notes, actual_attendance, follow_up, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (event_id) DO UPDATE SET
	            notes = EXCLUDED.notes, actual_attendance = EXCLUDED.actual_attendance,
	            follow_up = EXCLUDED.follow_up, updated_at = EXCLUDED.updated_at`
	n.UpdatedAt = time.Now()
	_, err := executor.ExecContext(ctx, query, n.EventID, nullString(n.Notes), nullInt(n.ActualAttendance), nullString(n.FollowUp), n.UpdatedAt)
	if err != nil {
		return translateError(err, "upserting event notes")
	}
	return nil
}

func (r *eventRepository) DeleteNotes(ctx context.Context, executor SQLExecutor, eventID int64) error {
	if _, err := executor.ExecContext(ctx, `DELETE FROM event_notes WHERE event_id = $1`, eventID); err != nil {
		return translateError(err, "deleting event notes")
	}
	return nil
}

// --- Assignments ---

const assignmentQuery = `SELECT a.id, a.event_id, a.employee_id, COALESCE(e.name, '')
	FROM event_assignments a
	LEFT JOIN employees e ON e.id = a.employee_id`

func collectAssignments(rows *sql.Rows) ([]models.EventAssignment, error) {
	assignments := []models.EventAssignment{}
	for rows.Next() {
		var a models.EventAssignment
		if err := rows.Scan(&a.ID, &a.EventID, &a.EmployeeID, &a.EmployeeName); err != nil {
			return nil, fmt.Errorf("%w: scanning event assignment: %v", ErrDatabaseError, err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating event assignments: %v", ErrDatabaseError, err)
	}
	return assignments, nil
}

func (r *eventRepository) GetAssignments(ctx context.Context, executor SQLExecutor, eventID int64) ([]models.EventAssignment, error) {
	if executor == nil {
		executor = r.db
	}
	rows, err := executor.QueryContext(ctx, assignmentQuery+` WHERE a.event_id = $1 ORDER BY e.name ASC, a.id ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying event assignments: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	return collectAssignments(rows)
}

// GetAssignmentsForEvents loads the assignments of many events in one query, keyed by event id.
func (r *eventRepository) GetAssignmentsForEvents(ctx context.Context, eventIDs []int64) (map[int64][]models.EventAssignment, error) {
	out := make(map[int64][]models.EventAssignment, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, assignmentQuery+` WHERE a.event_id = ANY($1) ORDER BY a.event_id ASC, e.name ASC, a.id ASC`, pq.Array(eventIDs))
	if err != nil {
		return nil, fmt.Errorf("%w: querying assignments for events: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	assignments, err := collectAssignments(rows)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		out[a.EventID] = append(out[a.EventID], a)
	}
	return out, nil
}

// AddAssignment is idempotent; the (event_id, employee_id) pair is unique.
func (r *eventRepository) AddAssignment(ctx context.Context, executor SQLExecutor, eventID, employeeID int64) error {
	query := `INSERT INTO event_assignments (event_id, employee_id, created_at) VALUES ($1, $2, $3)
	          ON CONFLICT (event_id, employee_id) DO NOTHING`
	if _, err := executor.ExecContext(ctx, query, eventID, employeeID, time.Now()); err != nil {
		return translateError(err, "adding event assignment")
	}
	return nil
}

func (r *eventRepository) RemoveAssignment(ctx context.Context, executor SQLExecutor, eventID, employeeID int64) error {
	query := `DELETE FROM event_assignments WHERE event_id = $1 AND employee_id = $2`
	if _, err := executor.ExecContext(ctx, query, eventID, employeeID); err != nil {
		return translateError(err, "removing event assignment")
	}
	return nil
}

func (r *eventRepository) DeleteAssignments(ctx context.Context, executor SQLExecutor, eventID int64) (int64, error) {
	res, err := executor.ExecContext(ctx, `DELETE FROM event_assignments WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, translateError(err, "deleting event assignments")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: deleting event assignments: %v", ErrDatabaseError, err)
	}
	return n, nil
}
