package models

import (
	"strings"
	"time"
)

// EventCategory is the fixed event classification; "other" carries free text.
type EventCategory string

const (
	EventCategoryFestival   EventCategory = "festival"
	EventCategoryTasting    EventCategory = "tasting"
	EventCategoryPrivate    EventCategory = "private"
	EventCategoryFundraiser EventCategory = "fundraiser"
	EventCategoryOther      EventCategory = "other"
)

// IsValidEventCategory checks if the provided category string is a known EventCategory.
func IsValidEventCategory(category string) bool {
	switch EventCategory(category) {
	case EventCategoryFestival,
		EventCategoryTasting,
		EventCategoryPrivate,
		EventCategoryFundraiser,
		EventCategoryOther:
		return true
	default:
		return false
	}
}

// Event is a brewery event with its owned collections.
type Event struct {
	ID            int64             `json:"id" db:"id"`
	Title         string            `json:"title" db:"title"`
	EventDate     string            `json:"event_date" db:"event_date"`
	SetupTime     *string           `json:"setup_time,omitempty" db:"setup_time"`
	StartTime     *string           `json:"start_time,omitempty" db:"start_time"`
	EndTime       *string           `json:"end_time,omitempty" db:"end_time"`
	Duration      *string           `json:"duration,omitempty" db:"duration"`
	ContactName   *string           `json:"contact_name,omitempty" db:"contact_name"`
	ContactPhone  *string           `json:"contact_phone,omitempty" db:"contact_phone"`
	ContactEmail  *string           `json:"contact_email,omitempty" db:"contact_email"`
	Attendees     *int              `json:"attendees,omitempty" db:"attendees"`
	Category      string            `json:"category" db:"category"`
	CategoryOther *string           `json:"category_other,omitempty" db:"category_other"`
	OffPremise    bool              `json:"off_premise" db:"off_premise"`
	Instructions  *string           `json:"instructions,omitempty" db:"instructions"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
	Supplies      *EventSupplies    `json:"supplies,omitempty"`
	Beers         []EventBeer       `json:"beers,omitempty"`
	Notes         *EventNotes       `json:"notes,omitempty"`
	Assignments   []EventAssignment `json:"assignments,omitempty"`
}

// CategoryLabel returns the display category, preferring free text for "other".
func (e Event) CategoryLabel() string {
	if EventCategory(e.Category) == EventCategoryOther && e.CategoryOther != nil && strings.TrimSpace(*e.CategoryOther) != "" {
		return strings.TrimSpace(*e.CategoryOther)
	}
	return e.Category
}

// EventSupplies holds the supply checklist for an event.
type EventSupplies struct {
	EventID   int64   `json:"event_id" db:"event_id"`
	Tent      bool    `json:"tent" db:"tent"`
	Tables    bool    `json:"tables" db:"tables"`
	Chairs    bool    `json:"chairs" db:"chairs"`
	JockeyBox bool    `json:"jockey_box" db:"jockey_box"`
	Kegs      bool    `json:"kegs" db:"kegs"`
	Ice       bool    `json:"ice" db:"ice"`
	Cups      bool    `json:"cups" db:"cups"`
	Banner    bool    `json:"banner" db:"banner"`
	Tokens    bool    `json:"tokens" db:"tokens"`
	Notes     *string `json:"notes,omitempty" db:"notes"`
}

// Flag looks up a supply flag by its json name. ok is false for unknown names.
func (s EventSupplies) Flag(name string) (value bool, ok bool) {
	switch name {
	case "tent":
		return s.Tent, true
	case "tables":
		return s.Tables, true
	case "chairs":
		return s.Chairs, true
	case "jockey_box":
		return s.JockeyBox, true
	case "kegs":
		return s.Kegs, true
	case "ice":
		return s.Ice, true
	case "cups":
		return s.Cups, true
	case "banner":
		return s.Banner, true
	case "tokens":
		return s.Tokens, true
	default:
		return false, false
	}
}

// EventBeer is one beer-product line item.
type EventBeer struct {
	ID        int64  `json:"id,omitempty" db:"id"`
	EventID   int64  `json:"event_id,omitempty" db:"event_id"`
	Style     string `json:"style" db:"style"`
	Packaging string `json:"packaging" db:"packaging"`
	Quantity  int    `json:"quantity" db:"quantity"`
}

// EventNotes is the single post-event notes record.
type EventNotes struct {
	EventID          int64     `json:"event_id" db:"event_id"`
	Notes            *string   `json:"notes,omitempty" db:"notes"`
	ActualAttendance *int      `json:"actual_attendance,omitempty" db:"actual_attendance"`
	FollowUp         *string   `json:"follow_up,omitempty" db:"follow_up"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// EventAssignment links one employee to one event.
type EventAssignment struct {
	ID           int64  `json:"id,omitempty" db:"id"`
	EventID      int64  `json:"event_id" db:"event_id"`
	EmployeeID   int64  `json:"employee_id" db:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
}

// EventFilters defines the available filters for querying events.
type EventFilters struct {
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}
