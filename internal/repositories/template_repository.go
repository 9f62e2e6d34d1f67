package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"brewery_backend/internal/models"
	"brewery_backend/pkg/utils"
)

// TemplateRepository defines the database operations on schedule templates.
type TemplateRepository interface {
	CreateTemplate(ctx context.Context, executor SQLExecutor, tpl *models.Template) (*models.Template, error)
	GetTemplateByID(ctx context.Context, id int64) (*models.Template, error)
	GetTemplates(ctx context.Context) ([]models.Template, error)
	UpdateTemplate(ctx context.Context, executor SQLExecutor, tpl *models.Template) (*models.Template, error)
	DeleteTemplate(ctx context.Context, executor SQLExecutor, id int64) error
}

type templateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new instance of TemplateRepository.
func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &templateRepository{db: db}
}

const templateColumns = `id, name, kind, to_char(holiday_date, 'YYYY-MM-DD'), days, created_at, updated_at`

func scanTemplate(row scanner) (*models.Template, error) {
	var tpl models.Template
	var holiday sql.NullString
	var days []byte
	if err := row.Scan(&tpl.ID, &tpl.Name, &tpl.Kind, &holiday, &days, &tpl.CreatedAt, &tpl.UpdatedAt); err != nil {
		return nil, err
	}
	tpl.HolidayDate = stringPtr(holiday)
	tpl.Days = decodeDays(tpl.ID, days)
	return &tpl, nil
}

// decodeDays never fails: stored JSON that does not parse reads as an empty week.
func decodeDays(templateID int64, raw []byte) models.TemplateDays {
	days := models.TemplateDays{}
	if len(raw) == 0 {
		return days
	}
	if err := json.Unmarshal(raw, &days); err != nil {
		utils.LogWarn("Malformed template days, treating as empty", map[string]interface{}{
			"template_id": templateID,
			"error":       err.Error(),
		})
		return models.TemplateDays{}
	}
	if days == nil {
		days = models.TemplateDays{}
	}
	return days
}

func encodeDays(days models.TemplateDays) ([]byte, error) {
	if days == nil {
		days = models.TemplateDays{}
	}
	return json.Marshal(days)
}

func (r *templateRepository) CreateTemplate(ctx context.Context, executor SQLExecutor, tpl *models.Template) (*models.Template, error) {
	days, err := encodeDays(tpl.Days)
	if err != nil {
		return nil, fmt.Errorf("encoding template days: %w", err)
	}
	query := `INSERT INTO templates (name, kind, holiday_date, days, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`

	now := time.Now()
	err = executor.QueryRowContext(ctx, query,
		tpl.Name, tpl.Kind, nullString(tpl.HolidayDate), days, now, now,
	).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "creating template")
	}
	return tpl, nil
}

func (r *templateRepository) GetTemplateByID(ctx context.Context, id int64) (*models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id = $1`
	tpl, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "getting template by id")
	}
	return tpl, nil
}

func (r *templateRepository) GetTemplates(ctx context.Context) ([]models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying templates: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	templates := []models.Template{}
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning template: %v", ErrDatabaseError, err)
		}
		templates = append(templates, *tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating templates: %v", ErrDatabaseError, err)
	}
	return templates, nil
}

func (r *templateRepository) UpdateTemplate(ctx context.Context, executor SQLExecutor, tpl *models.Template) (*models.Template, error) {
	days, err := encodeDays(tpl.Days)
	if err != nil {
		return nil, fmt.Errorf("encoding template days: %w", err)
	}
	query := `UPDATE templates SET name = $1, kind = $2, holiday_date = $3, days = $4, updated_at = $5
	          WHERE id = $6
	          RETURNING created_at, updated_at`

	err = executor.QueryRowContext(ctx, query,
		tpl.Name, tpl.Kind, nullString(tpl.HolidayDate), days, time.Now(), tpl.ID,
	).Scan(&tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return nil, translateError(err, "updating template")
	}
	return tpl, nil
}

func (r *templateRepository) DeleteTemplate(ctx context.Context, executor SQLExecutor, id int64) error {
	res, err := executor.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "deleting template")
	}
	return requireAffected(res, "deleting template")
}
