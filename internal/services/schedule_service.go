package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"brewery_backend/internal/models"
	"brewery_backend/internal/repositories"
	"brewery_backend/internal/scheduling"
	"brewery_backend/pkg/utils"
)

// --- Custom Service Errors for Schedules ---
var (
	ErrInvalidDate     = errors.New("invalid date, please use YYYY-MM-DD")
	ErrShiftNotFound   = errors.New("shift not found")
	ErrShiftValidation = errors.New("shift validation error")
	// ErrDerivedShift is returned when editing a row that belongs to an event.
	ErrDerivedShift = errors.New("shift is derived from an event; edit the event instead")
)

// --- Shift DTOs ---
type ShiftRequest struct {
	EmployeeID   *int64  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date" binding:"required"`
	Shift        string  `json:"shift" binding:"required"`
	Category     *string `json:"category"`
	Notes        *string `json:"notes"`
}

// WeekView is the assembled week returned to clients.
type WeekView struct {
	*scheduling.WeekGrid
	Unscheduled []string `json:"unscheduled"`
	TemplateID  *int64   `json:"preview_template_id,omitempty"`
}

// --- ScheduleService Interface ---
type ScheduleService interface {
	GetWeek(ctx context.Context, start string, previewTemplateID *int64) (*WeekView, error)
	ExportWeek(ctx context.Context, start string) ([]byte, string, error)

	CreateShift(ctx context.Context, req ShiftRequest) (*models.Shift, error)
	GetShiftByID(ctx context.Context, id int64) (*models.Shift, error)
	GetShifts(ctx context.Context, filters models.ShiftFilters) ([]models.Shift, error)
	UpdateShift(ctx context.Context, id int64, req ShiftRequest) (*models.Shift, error)
	DeleteShift(ctx context.Context, id int64) error

	ReconcileEmployees(ctx context.Context, dryRun bool) (*models.ReconcileResult, error)
}

type scheduleService struct {
	scheduleRepo repositories.ScheduleRepository
	employeeRepo repositories.EmployeeRepository
	eventRepo    repositories.EventRepository
	templateRepo repositories.TemplateRepository
	db           *sql.DB
	nameFallback bool
}

// NewScheduleService creates a new instance of ScheduleService.
// nameFallback enables substring name matching for shift rows without an employee id.
func NewScheduleService(
	sr repositories.ScheduleRepository,
	er repositories.EmployeeRepository,
	evr repositories.EventRepository,
	tr repositories.TemplateRepository,
	db *sql.DB,
	nameFallback bool,
) ScheduleService {
	return &scheduleService{
		scheduleRepo: sr,
		employeeRepo: er,
		eventRepo:    evr,
		templateRepo: tr,
		db:           db,
		nameFallback: nameFallback,
	}
}

func parseDay(s string) (time.Time, error) {
	d, err := scheduling.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// weekFor resolves the Monday of the requested week; an empty start means this week.
func weekFor(start string) (time.Time, error) {
	if strings.TrimSpace(start) == "" {
		now := time.Now()
		return scheduling.WeekStart(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)), nil
	}
	d, err := parseDay(start)
	if err != nil {
		return time.Time{}, err
	}
	return scheduling.WeekStart(d), nil
}

func (s *scheduleService) GetWeek(ctx context.Context, start string, previewTemplateID *int64) (*WeekView, error) {
	weekStart, err := weekFor(start)
	if err != nil {
		return nil, err
	}
	from, to := scheduling.WeekRange(weekStart)
	fromStr, toStr := scheduling.FormatDate(from), scheduling.FormatDate(to)

	roster, err := s.employeeRepo.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	shifts, err := s.scheduleRepo.GetShifts(ctx, models.ShiftFilters{DateFrom: fromStr, DateTo: toStr})
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}
	events, err := s.eventsWithAssignments(ctx, fromStr, toStr)
	if err != nil {
		return nil, err
	}

	opts := scheduling.AssembleOptions{NameFallback: s.nameFallback}
	if previewTemplateID != nil {
		tpl, err := s.templateRepo.GetTemplateByID(ctx, *previewTemplateID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrTemplateNotFound
			}
			return nil, fmt.Errorf("failed to load preview template: %w", err)
		}
		opts.Preview = tpl
	}

	grid := scheduling.Assemble(weekStart, roster, shifts, events, opts)
	if grid.DroppedShifts > 0 || grid.DroppedAssignments > 0 {
		utils.LogDebug("Unattributed rows dropped from week", map[string]interface{}{
			"week_start":          grid.WeekStart,
			"dropped_shifts":      grid.DroppedShifts,
			"dropped_assignments": grid.DroppedAssignments,
		})
	}

	view := &WeekView{WeekGrid: grid, Unscheduled: []string{}, TemplateID: previewTemplateID}
	for _, emp := range grid.Unscheduled() {
		view.Unscheduled = append(view.Unscheduled, emp.Name)
	}
	return view, nil
}

func (s *scheduleService) eventsWithAssignments(ctx context.Context, from, to string) ([]models.Event, error) {
	events, err := s.eventRepo.GetEvents(ctx, models.EventFilters{DateFrom: from, DateTo: to})
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	assignments, err := s.eventRepo.GetAssignmentsForEvents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load event assignments: %w", err)
	}
	for i := range events {
		events[i].Assignments = assignments[events[i].ID]
	}
	return events, nil
}

func (s *scheduleService) ExportWeek(ctx context.Context, start string) ([]byte, string, error) {
	view, err := s.GetWeek(ctx, start, nil)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := writeWeekWorkbook(&buf, view); err != nil {
		return nil, "", fmt.Errorf("failed to build schedule workbook: %w", err)
	}
	return buf.Bytes(), fmt.Sprintf("schedule-%s.xlsx", view.WeekStart), nil
}

// --- Shift CRUD ---

func validCategory(c *string) bool {
	if c == nil {
		return true
	}
	switch *c {
	case scheduling.CategoryTastingRoom, scheduling.CategoryOffsite, scheduling.CategoryPackaging, scheduling.CategoryOff:
		return true
	}
	return false
}

// resolveEmployee fills the shift's employee reference, by id when given and otherwise by name.
func (s *scheduleService) resolveEmployee(ctx context.Context, shift *models.Shift, id *int64, name string) error {
	if id != nil {
		emp, err := s.employeeRepo.GetEmployeeByID(ctx, *id)
		if err != nil {
			return mapEmployeeRepoError(err)
		}
		shift.EmployeeID = &emp.ID
		shift.EmployeeName = emp.Name
		return nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: employee_id or employee_name is required", ErrShiftValidation)
	}
	roster, err := s.employeeRepo.GetEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	emp, ok := scheduling.NewMatcher(roster, s.nameFallback).ByName(name)
	if !ok {
		return fmt.Errorf("%w: no employee matches %q", ErrEmployeeNotFound, name)
	}
	shift.EmployeeID = &emp.ID
	shift.EmployeeName = emp.Name
	return nil
}

func (s *scheduleService) applyShiftRequest(ctx context.Context, shift *models.Shift, req ShiftRequest) error {
	date, err := parseDay(req.Date)
	if err != nil {
		return err
	}
	label := strings.TrimSpace(req.Shift)
	if label == "" {
		return fmt.Errorf("%w: shift label is required", ErrShiftValidation)
	}
	if !validCategory(req.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrShiftValidation, *req.Category)
	}
	if err := s.resolveEmployee(ctx, shift, req.EmployeeID, req.EmployeeName); err != nil {
		return err
	}
	shift.Date = scheduling.FormatDate(date)
	shift.Day = scheduling.DayCodeForDate(date)
	shift.Label = label
	shift.Category = req.Category
	shift.Notes = utils.NewNullString(utils.DerefString(req.Notes))
	return nil
}

func (s *scheduleService) CreateShift(ctx context.Context, req ShiftRequest) (*models.Shift, error) {
	shift := &models.Shift{}
	if err := s.applyShiftRequest(ctx, shift, req); err != nil {
		return nil, err
	}
	created, err := s.scheduleRepo.CreateShift(ctx, s.db, shift)
	if err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}
	return created, nil
}

func (s *scheduleService) GetShiftByID(ctx context.Context, id int64) (*models.Shift, error) {
	shift, err := s.scheduleRepo.GetShiftByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return shift, nil
}

func (s *scheduleService) GetShifts(ctx context.Context, filters models.ShiftFilters) ([]models.Shift, error) {
	for _, d := range []string{filters.DateFrom, filters.DateTo} {
		if d == "" {
			continue
		}
		if _, err := parseDay(d); err != nil {
			return nil, err
		}
	}
	return s.scheduleRepo.GetShifts(ctx, filters)
}

func (s *scheduleService) UpdateShift(ctx context.Context, id int64, req ShiftRequest) (*models.Shift, error) {
	shift, err := s.GetShiftByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.IsEventLinked() {
		return nil, ErrDerivedShift
	}
	if err := s.applyShiftRequest(ctx, shift, req); err != nil {
		return nil, err
	}
	updated, err := s.scheduleRepo.UpdateShift(ctx, s.db, shift)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to update shift: %w", err)
	}
	return updated, nil
}

func (s *scheduleService) DeleteShift(ctx context.Context, id int64) error {
	shift, err := s.GetShiftByID(ctx, id)
	if err != nil {
		return err
	}
	if shift.IsEventLinked() {
		return ErrDerivedShift
	}
	if err := s.scheduleRepo.DeleteShift(ctx, s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrShiftNotFound
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}

// ReconcileEmployees backfills employee_id on name-only rows using exact, then
// substring, name matching. A dry run reports without writing.
func (s *scheduleService) ReconcileEmployees(ctx context.Context, dryRun bool) (*models.ReconcileResult, error) {
	roster, err := s.employeeRepo.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	result := &models.ReconcileResult{DryRun: dryRun, Unmatched: []string{}}
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		rows, err := s.scheduleRepo.GetUnlinkedShifts(ctx, tx)
		if err != nil {
			return err
		}
		unmatched := map[string]bool{}
		for _, row := range rows {
			result.Scanned++
			emp, ok := scheduling.ReconcileName(roster, row.EmployeeName)
			if !ok {
				unmatched[row.EmployeeName] = true
				continue
			}
			result.Matched++
			if dryRun {
				continue
			}
			if err := s.scheduleRepo.SetShiftEmployee(ctx, tx, row.ID, emp.ID); err != nil {
				return err
			}
		}
		for name := range unmatched {
			result.Unmatched = append(result.Unmatched, name)
		}
		sort.Strings(result.Unmatched)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile shifts: %w", err)
	}

	utils.LogInfo("Shift employee reconciliation finished", map[string]interface{}{
		"dry_run":   dryRun,
		"scanned":   result.Scanned,
		"matched":   result.Matched,
		"unmatched": len(result.Unmatched),
	})
	return result, nil
}
