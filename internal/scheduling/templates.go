package scheduling

import (
	"sort"
	"strings"
	"time"

	"brewery_backend/internal/models"
)

// Expansion is the concrete week produced from a template.
type Expansion struct {
	Rows []models.Shift
	// Dropped counts entries whose employee is no longer on the roster.
	Dropped int
	// UnknownDays lists template keys that are not day names.
	UnknownDays []string
}

// ExpandTemplate turns a template into dated shift rows for the week beginning at weekStart.
// Entries for employees missing from roster are dropped; "Off" entries produce no row.
func ExpandTemplate(t models.Template, weekStart time.Time, roster []models.Employee) Expansion {
	var exp Expansion
	matcher := NewMatcher(roster, false)

	known := make(map[string]bool, len(DayNames))
	for _, day := range DayNames {
		known[strings.ToLower(day)] = true
	}
	for key := range t.Days {
		if !known[strings.ToLower(strings.TrimSpace(key))] {
			exp.UnknownDays = append(exp.UnknownDays, key)
		}
	}
	sort.Strings(exp.UnknownDays)

	for _, day := range DayNames {
		entries, ok := lookupDay(t.Days, day)
		if !ok {
			continue
		}
		code, _ := DayNameToCode(day)
		date, _ := DateForDay(weekStart, day)
		for _, entry := range entries {
			category := CategoryForShiftType(entry.ShiftType)
			if category == CategoryOff {
				continue
			}
			emp, ok := matcher.ByID(entry.EmployeeID)
			if !ok {
				exp.Dropped++
				continue
			}
			id := emp.ID
			cat := category
			exp.Rows = append(exp.Rows, models.Shift{
				EmployeeID:   &id,
				EmployeeName: emp.Name,
				Day:          code,
				Date:         FormatDate(date),
				Label:        DefaultShiftLabel,
				Category:     &cat,
			})
		}
	}
	return exp
}

// TemplateWeekStart picks the week a template applies to. An explicit week wins;
// otherwise a holiday template targets the week containing its holiday date.
func TemplateWeekStart(t models.Template, requested *time.Time) (time.Time, bool) {
	if requested != nil {
		return WeekStart(*requested), true
	}
	if t.Kind == models.TemplateKindHoliday && t.HolidayDate != nil {
		d, err := ParseDate(*t.HolidayDate)
		if err == nil {
			return WeekStart(d), true
		}
	}
	return time.Time{}, false
}
