package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"brewery_backend/internal/models"
	"brewery_backend/internal/repositories"
	"brewery_backend/pkg/utils"
)

// --- Custom Service Errors for Events ---
var (
	ErrEventNotFound   = errors.New("event not found")
	ErrEventValidation = errors.New("event validation error")
)

// --- Event DTOs ---
type EventRequest struct {
	Title         string                `json:"title" binding:"required"`
	EventDate     string                `json:"event_date" binding:"required"`
	SetupTime     *string               `json:"setup_time"`
	StartTime     *string               `json:"start_time"`
	EndTime       *string               `json:"end_time"`
	Duration      *string               `json:"duration"`
	ContactName   *string               `json:"contact_name"`
	ContactPhone  *string               `json:"contact_phone"`
	ContactEmail  *string               `json:"contact_email"`
	Attendees     *int                  `json:"attendees"`
	Category      string                `json:"category"`
	CategoryOther *string               `json:"category_other"`
	OffPremise    bool                  `json:"off_premise"`
	Instructions  *string               `json:"instructions"`
	Supplies      *models.EventSupplies `json:"supplies"`
	Beers         []models.EventBeer    `json:"beers"`
	Notes         *models.EventNotes    `json:"notes"`
	// EmployeeIDs is the desired assignment set; nil leaves assignments untouched on update.
	EmployeeIDs []int64 `json:"employee_ids"`
}

// --- EventService Interface ---
type EventService interface {
	CreateEvent(ctx context.Context, req EventRequest) (*models.Event, error)
	GetEventDetail(ctx context.Context, id int64) (*models.Event, error)
	GetEvents(ctx context.Context, filters models.EventFilters) ([]models.Event, error)
	UpdateEvent(ctx context.Context, id int64, req EventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
}

type eventService struct {
	eventRepo    repositories.EventRepository
	scheduleRepo repositories.ScheduleRepository
	db           *sql.DB
}

// NewEventService creates a new instance of EventService.
func NewEventService(evr repositories.EventRepository, sr repositories.ScheduleRepository, db *sql.DB) EventService {
	return &eventService{eventRepo: evr, scheduleRepo: sr, db: db}
}

func validClock(s *string) bool {
	if s == nil || strings.TrimSpace(*s) == "" {
		return true
	}
	_, err := time.Parse("15:04", strings.TrimSpace(*s))
	return err == nil
}

func buildEvent(req EventRequest) (*models.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrEventValidation)
	}
	date, err := parseDay(req.EventDate)
	if err != nil {
		return nil, err
	}
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category == "" {
		category = string(models.EventCategoryOther)
	}
	if !models.IsValidEventCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrEventValidation, req.Category)
	}
	for name, t := range map[string]*string{"setup_time": req.SetupTime, "start_time": req.StartTime, "end_time": req.EndTime} {
		if !validClock(t) {
			return nil, fmt.Errorf("%w: %s must be HH:MM", ErrEventValidation, name)
		}
	}
	if req.Attendees != nil && *req.Attendees < 0 {
		return nil, fmt.Errorf("%w: attendees cannot be negative", ErrEventValidation)
	}
	for i, b := range req.Beers {
		if strings.TrimSpace(b.Style) == "" {
			return nil, fmt.Errorf("%w: beer %d needs a style", ErrEventValidation, i+1)
		}
		if b.Quantity < 0 {
			return nil, fmt.Errorf("%w: beer %d has a negative quantity", ErrEventValidation, i+1)
		}
	}
	if email := utils.DerefString(req.ContactEmail); strings.TrimSpace(email) != "" && !utils.IsValidEmail(strings.TrimSpace(email)) {
		return nil, fmt.Errorf("%w: invalid contact email", ErrEventValidation)
	}

	return &models.Event{
		Title:         title,
		EventDate:     date.Format("2006-01-02"),
		SetupTime:     utils.NewNullString(utils.DerefString(req.SetupTime)),
		StartTime:     utils.NewNullString(utils.DerefString(req.StartTime)),
		EndTime:       utils.NewNullString(utils.DerefString(req.EndTime)),
		Duration:      utils.NewNullString(utils.DerefString(req.Duration)),
		ContactName:   utils.NewNullString(utils.DerefString(req.ContactName)),
		ContactPhone:  utils.NewNullString(utils.DerefString(req.ContactPhone)),
		ContactEmail:  utils.NewNullString(utils.DerefString(req.ContactEmail)),
		Attendees:     req.Attendees,
		Category:      category,
		CategoryOther: utils.NewNullString(utils.DerefString(req.CategoryOther)),
		OffPremise:    req.OffPremise,
		Instructions:  utils.NewNullString(utils.DerefString(req.Instructions)),
	}, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func mapEventRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrForeignKey):
		return fmt.Errorf("%w: %v", ErrEmployeeNotFound, err)
	}
	return err
}

// writeOwned stores the records an event owns. Nil parts of req are left as they are.
func (s *eventService) writeOwned(ctx context.Context, tx *sql.Tx, eventID int64, req EventRequest) error {
	if req.Supplies != nil {
		supplies := *req.Supplies
		supplies.EventID = eventID
		if err := s.eventRepo.UpsertSupplies(ctx, tx, &supplies); err != nil {
			return err
		}
	}
	if req.Beers != nil {
		if err := s.eventRepo.ReplaceBeers(ctx, tx, eventID, req.Beers); err != nil {
			return err
		}
	}
	if req.Notes != nil {
		notes := *req.Notes
		notes.EventID = eventID
		if err := s.eventRepo.UpsertNotes(ctx, tx, &notes); err != nil {
			return err
		}
	}
	if req.EmployeeIDs != nil {
		if err := s.syncAssignments(ctx, tx, eventID, uniqueIDs(req.EmployeeIDs)); err != nil {
			return err
		}
	}
	return nil
}

// syncAssignments diffs the stored assignment set against desired.
func (s *eventService) syncAssignments(ctx context.Context, tx *sql.Tx, eventID int64, desired []int64) error {
	current, err := s.eventRepo.GetAssignments(ctx, tx, eventID)
	if err != nil {
		return err
	}
	want := make(map[int64]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}
	have := make(map[int64]bool, len(current))
	for _, a := range current {
		have[a.EmployeeID] = true
		if !want[a.EmployeeID] {
			if err := s.eventRepo.RemoveAssignment(ctx, tx, eventID, a.EmployeeID); err != nil {
				return err
			}
		}
	}
	for _, id := range desired {
		if have[id] {
			continue
		}
		if err := s.eventRepo.AddAssignment(ctx, tx, eventID, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, req EventRequest) (*models.Event, error) {
	ev, err := buildEvent(req)
	if err != nil {
		return nil, err
	}
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.eventRepo.CreateEvent(ctx, tx, ev); err != nil {
			return err
		}
		return s.writeOwned(ctx, tx, ev.ID, req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", mapEventRepoError(err))
	}
	utils.LogInfo("Event created", map[string]interface{}{"event_id": ev.ID, "event_date": ev.EventDate})
	return s.GetEventDetail(ctx, ev.ID)
}

// GetEventDetail loads an event and everything it owns concurrently.
func (s *eventService) GetEventDetail(ctx context.Context, id int64) (*models.Event, error) {
	var (
		ev          *models.Event
		supplies    *models.EventSupplies
		beers       []models.EventBeer
		notes       *models.EventNotes
		assignments []models.EventAssignment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ev, err = s.eventRepo.GetEventByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		supplies, err = s.eventRepo.GetSupplies(gctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		beers, err = s.eventRepo.GetBeers(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = s.eventRepo.GetNotes(gctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = s.eventRepo.GetAssignments(gctx, nil, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapEventRepoError(err)
	}

	ev.Supplies = supplies
	ev.Beers = beers
	ev.Notes = notes
	ev.Assignments = assignments
	return ev, nil
}

func (s *eventService) GetEvents(ctx context.Context, filters models.EventFilters) ([]models.Event, error) {
	for _, d := range []string{filters.DateFrom, filters.DateTo} {
		if d == "" {
			continue
		}
		if _, err := parseDay(d); err != nil {
			return nil, err
		}
	}
	return s.eventRepo.GetEvents(ctx, filters)
}

func (s *eventService) UpdateEvent(ctx context.Context, id int64, req EventRequest) (*models.Event, error) {
	ev, err := buildEvent(req)
	if err != nil {
		return nil, err
	}
	ev.ID = id
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.eventRepo.UpdateEvent(ctx, tx, ev); err != nil {
			return err
		}
		return s.writeOwned(ctx, tx, id, req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", mapEventRepoError(err))
	}
	return s.GetEventDetail(ctx, id)
}

// DeleteEvent removes the event with its assignments, beers, supplies, notes
// and any schedule rows tied to it.
func (s *eventService) DeleteEvent(ctx context.Context, id int64) error {
	var removedShifts, removedAssignments int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if removedAssignments, err = s.eventRepo.DeleteAssignments(ctx, tx, id); err != nil {
			return err
		}
		if err := s.eventRepo.ReplaceBeers(ctx, tx, id, nil); err != nil {
			return err
		}
		if err := s.eventRepo.DeleteSupplies(ctx, tx, id); err != nil {
			return err
		}
		if err := s.eventRepo.DeleteNotes(ctx, tx, id); err != nil {
			return err
		}
		if removedShifts, err = s.scheduleRepo.DeleteShiftsByEvent(ctx, tx, id); err != nil {
			return err
		}
		return s.eventRepo.DeleteEvent(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	utils.LogInfo("Event deleted", map[string]interface{}{
		"event_id":    id,
		"assignments": removedAssignments,
		"shifts":      removedShifts,
	})
	return nil
}
