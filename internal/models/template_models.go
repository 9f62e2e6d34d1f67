package models

import "time"

const (
	TemplateKindSeasonal = "seasonal"
	TemplateKindHoliday  = "holiday"
)

// Shift types a template entry may carry. An empty type means the employee is off.
const (
	ShiftTypeTastingRoom = "Tasting Room"
	ShiftTypeOffsite     = "Offsite"
	ShiftTypePackaging   = "Packaging"
	ShiftTypeOff         = ""
)

// IsValidShiftType checks a template entry's shift type.
func IsValidShiftType(t string) bool {
	switch t {
	case ShiftTypeTastingRoom, ShiftTypeOffsite, ShiftTypePackaging, ShiftTypeOff, "Off":
		return true
	default:
		return false
	}
}

// TemplateAssignment places one employee on one shift type for a day.
type TemplateAssignment struct {
	EmployeeID int64  `json:"employee_id"`
	ShiftType  string `json:"shift_type"`
}

// TemplateDays maps full English day names (Monday first) to the day's assignments.
type TemplateDays map[string][]TemplateAssignment

// Template is a reusable weekly shift pattern.
type Template struct {
	ID          int64        `json:"id" db:"id"`
	Name        string       `json:"name" db:"name" binding:"required"`
	Kind        string       `json:"kind" db:"kind"`
	HolidayDate *string      `json:"holiday_date,omitempty" db:"holiday_date"`
	Days        TemplateDays `json:"days" db:"days"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}
