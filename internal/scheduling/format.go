package scheduling

import (
	"fmt"
	"sort"
	"strings"

	"brewery_backend/internal/models"
)

// DefaultShiftLabel is the time label given to rows expanded from a template.
const DefaultShiftLabel = "12:00 PM - 8:00 PM"

// Category tags stored on shift rows.
const (
	CategoryTastingRoom = "tasting-room"
	CategoryOffsite     = "offsite"
	CategoryPackaging   = "packaging"
	CategoryOff         = "off"
)

// CategoryForShiftType derives the category tag of a template shift type.
func CategoryForShiftType(shiftType string) string {
	switch strings.TrimSpace(shiftType) {
	case models.ShiftTypeTastingRoom:
		return CategoryTastingRoom
	case models.ShiftTypeOffsite:
		return CategoryOffsite
	case models.ShiftTypePackaging:
		return CategoryPackaging
	default:
		return CategoryOff
	}
}

// ShiftTypeForCategory is the inverse of CategoryForShiftType.
func ShiftTypeForCategory(category string) string {
	switch category {
	case CategoryTastingRoom:
		return models.ShiftTypeTastingRoom
	case CategoryOffsite:
		return models.ShiftTypeOffsite
	case CategoryPackaging:
		return models.ShiftTypePackaging
	default:
		return ""
	}
}

// ShiftLabel renders a shift for display in the weekly grid.
func ShiftLabel(s models.Shift) string {
	if s.IsEventLinked() {
		title := "Event"
		if s.EventTitle != nil && strings.TrimSpace(*s.EventTitle) != "" {
			title = strings.TrimSpace(*s.EventTitle)
		}
		return "Event: " + title
	}
	label := strings.TrimSpace(s.Label)
	if s.Category == nil {
		return label
	}
	if *s.Category == CategoryOff {
		return "Off"
	}
	if t := ShiftTypeForCategory(*s.Category); t != "" {
		if label == "" {
			return t
		}
		return t + " " + label
	}
	return label
}

// ShiftClass returns the CSS-like tag for a shift cell.
func ShiftClass(s models.Shift) string {
	switch {
	case s.Preview:
		return "shift-preview"
	case s.IsEventLinked():
		return "shift-event"
	case s.Category != nil && *s.Category != "":
		return "shift-" + *s.Category
	case strings.EqualFold(strings.TrimSpace(s.Label), "off"):
		return "shift-off"
	default:
		return "shift-default"
	}
}

// TemplateSummary lists "Monday: 3 shifts" style lines for every day in the template,
// Monday first. Days without working shifts are omitted.
func TemplateSummary(t models.Template) []string {
	var lines []string
	for _, day := range DayNames {
		entries, ok := lookupDay(t.Days, day)
		if !ok {
			continue
		}
		working := 0
		for _, e := range entries {
			if CategoryForShiftType(e.ShiftType) != CategoryOff {
				working++
			}
		}
		if working == 0 {
			continue
		}
		noun := "shifts"
		if working == 1 {
			noun = "shift"
		}
		lines = append(lines, fmt.Sprintf("%s: %d %s", day, working, noun))
	}
	return lines
}

// lookupDay finds a day's entries, tolerating case differences in stored day names.
// Case-insensitive matches are tried in sorted key order.
func lookupDay(days models.TemplateDays, name string) ([]models.TemplateAssignment, bool) {
	if entries, ok := days[name]; ok {
		return entries, true
	}
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return days[k], true
		}
	}
	return nil, false
}

// SortShifts orders shifts by date, then ordinary shifts before event-derived ones, then label.
func SortShifts(shifts []models.Shift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		a, b := shifts[i], shifts[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.IsEventLinked() != b.IsEventLinked() {
			return !a.IsEventLinked()
		}
		return a.Label < b.Label
	})
}
