package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"brewery_backend/internal/models"
	"brewery_backend/internal/repositories"
	"brewery_backend/internal/scheduling"
	"brewery_backend/pkg/utils"
)

// --- Custom Service Errors for Templates ---
var (
	ErrTemplateNotFound     = errors.New("template not found")
	ErrTemplateValidation   = errors.New("template validation error")
	ErrTemplateNameExists   = errors.New("a template with this name already exists")
	ErrTemplateWeekRequired = errors.New("week start is required for seasonal templates")
)

// --- Template DTOs ---
type TemplateRequest struct {
	Name        string              `json:"name" binding:"required"`
	Kind        string              `json:"kind"`
	HolidayDate *string             `json:"holiday_date"`
	Days        models.TemplateDays `json:"days"`
}

// TemplateListItem pairs a template with its per-day summary.
type TemplateListItem struct {
	models.Template
	Summary []string `json:"summary"`
}

// --- TemplateService Interface ---
type TemplateService interface {
	CreateTemplate(ctx context.Context, req TemplateRequest) (*models.Template, error)
	GetTemplateByID(ctx context.Context, id int64) (*models.Template, error)
	GetTemplates(ctx context.Context) ([]TemplateListItem, error)
	UpdateTemplate(ctx context.Context, id int64, req TemplateRequest) (*models.Template, error)
	DeleteTemplate(ctx context.Context, id int64) error

	// ApplyTemplate replaces every schedule row of the target week with the
	// template's expansion. An empty weekStart is only valid for holiday templates.
	ApplyTemplate(ctx context.Context, id int64, weekStart string) (*models.ApplyTemplateResult, error)
}

type templateService struct {
	templateRepo repositories.TemplateRepository
	scheduleRepo repositories.ScheduleRepository
	employeeRepo repositories.EmployeeRepository
	db           *sql.DB
}

// NewTemplateService creates a new instance of TemplateService.
func NewTemplateService(tr repositories.TemplateRepository, sr repositories.ScheduleRepository, er repositories.EmployeeRepository, db *sql.DB) TemplateService {
	return &templateService{templateRepo: tr, scheduleRepo: sr, employeeRepo: er, db: db}
}

func mapTemplateRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return ErrTemplateNotFound
	case errors.Is(err, repositories.ErrDuplicateKey):
		return ErrTemplateNameExists
	}
	return err
}

// buildTemplate validates a request and normalizes day keys to canonical day names.
func buildTemplate(req TemplateRequest) (*models.Template, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrTemplateValidation)
	}
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if kind == "" {
		kind = models.TemplateKindSeasonal
	}
	if kind != models.TemplateKindSeasonal && kind != models.TemplateKindHoliday {
		return nil, fmt.Errorf("%w: kind must be %q or %q", ErrTemplateValidation, models.TemplateKindSeasonal, models.TemplateKindHoliday)
	}

	tpl := &models.Template{Name: name, Kind: kind, Days: models.TemplateDays{}}
	if holiday := utils.NewNullString(utils.DerefString(req.HolidayDate)); holiday != nil {
		d, err := scheduling.ParseDate(*holiday)
		if err != nil {
			return nil, fmt.Errorf("%w: holiday_date must be YYYY-MM-DD", ErrTemplateValidation)
		}
		formatted := scheduling.FormatDate(d)
		tpl.HolidayDate = &formatted
	}
	if kind == models.TemplateKindHoliday && tpl.HolidayDate == nil {
		return nil, fmt.Errorf("%w: holiday templates need a holiday_date", ErrTemplateValidation)
	}

	for key, entries := range req.Days {
		day, ok := canonicalDayName(key)
		if !ok {
			return nil, fmt.Errorf("%w: unknown day %q", ErrTemplateValidation, key)
		}
		for _, e := range entries {
			if e.EmployeeID <= 0 {
				return nil, fmt.Errorf("%w: %s has an entry without employee_id", ErrTemplateValidation, day)
			}
			if !models.IsValidShiftType(e.ShiftType) {
				return nil, fmt.Errorf("%w: unknown shift type %q", ErrTemplateValidation, e.ShiftType)
			}
		}
		tpl.Days[day] = append(tpl.Days[day], entries...)
	}
	return tpl, nil
}

func canonicalDayName(key string) (string, bool) {
	key = strings.TrimSpace(key)
	for _, day := range scheduling.DayNames {
		if strings.EqualFold(day, key) {
			return day, true
		}
	}
	return "", false
}

func (s *templateService) CreateTemplate(ctx context.Context, req TemplateRequest) (*models.Template, error) {
	tpl, err := buildTemplate(req)
	if err != nil {
		return nil, err
	}
	created, err := s.templateRepo.CreateTemplate(ctx, s.db, tpl)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", mapTemplateRepoError(err))
	}
	return created, nil
}

func (s *templateService) GetTemplateByID(ctx context.Context, id int64) (*models.Template, error) {
	tpl, err := s.templateRepo.GetTemplateByID(ctx, id)
	if err != nil {
		return nil, mapTemplateRepoError(err)
	}
	return tpl, nil
}

func (s *templateService) GetTemplates(ctx context.Context) ([]TemplateListItem, error) {
	templates, err := s.templateRepo.GetTemplates(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]TemplateListItem, 0, len(templates))
	for _, t := range templates {
		items = append(items, TemplateListItem{Template: t, Summary: scheduling.TemplateSummary(t)})
	}
	return items, nil
}

func (s *templateService) UpdateTemplate(ctx context.Context, id int64, req TemplateRequest) (*models.Template, error) {
	tpl, err := buildTemplate(req)
	if err != nil {
		return nil, err
	}
	tpl.ID = id
	updated, err := s.templateRepo.UpdateTemplate(ctx, s.db, tpl)
	if err != nil {
		return nil, fmt.Errorf("failed to update template: %w", mapTemplateRepoError(err))
	}
	return updated, nil
}

func (s *templateService) DeleteTemplate(ctx context.Context, id int64) error {
	if err := s.templateRepo.DeleteTemplate(ctx, s.db, id); err != nil {
		return mapTemplateRepoError(err)
	}
	return nil
}

func (s *templateService) ApplyTemplate(ctx context.Context, id int64, weekStart string) (*models.ApplyTemplateResult, error) {
	tpl, err := s.GetTemplateByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var requested *time.Time
	if strings.TrimSpace(weekStart) != "" {
		d, err := parseDay(weekStart)
		if err != nil {
			return nil, err
		}
		requested = &d
	}
	start, ok := scheduling.TemplateWeekStart(*tpl, requested)
	if !ok {
		return nil, ErrTemplateWeekRequired
	}
	from, to := scheduling.WeekRange(start)

	roster, err := s.employeeRepo.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	exp := scheduling.ExpandTemplate(*tpl, start, roster)
	if len(exp.UnknownDays) > 0 {
		utils.LogWarn("Template has unknown day keys", map[string]interface{}{
			"template_id": tpl.ID,
			"days":        exp.UnknownDays,
		})
	}

	result := &models.ApplyTemplateResult{
		TemplateID: tpl.ID,
		WeekStart:  scheduling.FormatDate(from),
		WeekEnd:    scheduling.FormatDate(to),
		Dropped:    exp.Dropped,
	}
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		deleted, err := s.scheduleRepo.DeleteShiftsInRange(ctx, tx, result.WeekStart, result.WeekEnd)
		if err != nil {
			return err
		}
		inserted, err := s.scheduleRepo.BulkInsertShifts(ctx, tx, exp.Rows)
		if err != nil {
			return err
		}
		result.Deleted = deleted
		result.Inserted = inserted
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply template: %w", err)
	}

	utils.LogInfo("Template applied", map[string]interface{}{
		"template_id": tpl.ID,
		"week_start":  result.WeekStart,
		"deleted":     result.Deleted,
		"inserted":    result.Inserted,
		"dropped":     result.Dropped,
	})
	return result, nil
}
