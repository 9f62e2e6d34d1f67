package models

import "time"

// Shift is one row of the weekly schedule.
//
// EmployeeName is denormalised; EmployeeID is the persisted reference and is nil only
// for legacy rows that have not been reconciled. A row with a non-nil EventID is derived
// from an event and may only change through that event.
type Shift struct {
	ID           int64     `json:"id,omitempty" db:"id"`
	EmployeeID   *int64    `json:"employee_id,omitempty" db:"employee_id"`
	EmployeeName string    `json:"employee_name" db:"employee_name"`
	Day          string    `json:"day" db:"day"`
	Date         string    `json:"date" db:"date"`
	Label        string    `json:"shift" db:"shift"`
	Category     *string   `json:"category,omitempty" db:"category"`
	EventID      *int64    `json:"event_id,omitempty" db:"event_id"`
	EventTitle   *string   `json:"event_title,omitempty" db:"event_title"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Derived marks rows synthesized from event assignments at read time.
	Derived bool `json:"derived,omitempty"`
	// Preview marks rows expanded from a template that has not been applied.
	Preview bool `json:"preview,omitempty"`
}

// IsEventLinked reports whether the row belongs to an event.
func (s Shift) IsEventLinked() bool {
	return s.EventID != nil || s.Derived
}

// ShiftFilters narrows shift listings.
type ShiftFilters struct {
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	EmployeeID *int64 `form:"employee_id"`
}

// ApplyTemplateResult reports the outcome of replacing a week with a template.
type ApplyTemplateResult struct {
	TemplateID int64  `json:"template_id"`
	WeekStart  string `json:"week_start"`
	WeekEnd    string `json:"week_end"`
	Deleted    int64  `json:"deleted"`
	Inserted   int    `json:"inserted"`
	Dropped    int    `json:"dropped"`
}

// ReconcileResult reports a backfill of employee_id on legacy shift rows.
type ReconcileResult struct {
	DryRun    bool     `json:"dry_run"`
	Scanned   int      `json:"scanned"`
	Matched   int      `json:"matched"`
	Unmatched []string `json:"unmatched"`
}
