package scheduling

import (
	"sort"
	"strings"
	"time"

	"brewery_backend/internal/models"
)

// AssembleOptions tunes week assembly.
type AssembleOptions struct {
	// NameFallback enables substring name matching for rows without an employee id.
	NameFallback bool
	// Preview merges an unapplied template into the grid as preview rows.
	Preview *models.Template
}

// EmployeeWeek is one roster row of the grid: seven day buckets.
type EmployeeWeek struct {
	Employee models.Employee          `json:"employee"`
	Days     map[string][]models.Shift `json:"days"`
}

// WeekGrid is the per-employee, per-day view of one week.
type WeekGrid struct {
	WeekStart          string         `json:"week_start"`
	WeekEnd            string         `json:"week_end"`
	Days               []string       `json:"days"`
	Rows               []EmployeeWeek `json:"rows"`
	Scheduled          []string       `json:"scheduled"`
	DroppedShifts      int            `json:"dropped_shifts"`
	DroppedAssignments int            `json:"dropped_assignments"`

	rowByID   map[int64]int
	scheduled map[string]bool
}

// Assemble merges persisted shifts, event assignments and an optional template preview
// into a grid with one bucket per (employee, day code).
//
// Inputs are expected to be pre-filtered to the week; events outside it are ignored.
// Rows that cannot be attributed to an employee are dropped and counted, never errors.
func Assemble(weekStart time.Time, roster []models.Employee, shifts []models.Shift, events []models.Event, opts AssembleOptions) *WeekGrid {
	start, end := WeekRange(WeekStart(weekStart))
	g := &WeekGrid{
		WeekStart: FormatDate(start),
		WeekEnd:   FormatDate(end),
		Days:      append([]string(nil), DayCodes...),
		Rows:      make([]EmployeeWeek, 0, len(roster)),
		rowByID:   make(map[int64]int, len(roster)),
		scheduled: make(map[string]bool),
	}
	for _, e := range roster {
		if _, dup := g.rowByID[e.ID]; dup {
			continue
		}
		days := make(map[string][]models.Shift, len(DayCodes))
		for _, code := range DayCodes {
			days[code] = []models.Shift{}
		}
		g.rowByID[e.ID] = len(g.Rows)
		g.Rows = append(g.Rows, EmployeeWeek{Employee: e, Days: days})
	}

	matcher := NewMatcher(roster, opts.NameFallback)

	for _, s := range shifts {
		emp, ok := matcher.Match(s.EmployeeID, s.EmployeeName)
		if !ok {
			g.DroppedShifts++
			continue
		}
		code := s.Day
		if !IsDayCode(code) {
			d, err := ParseDate(s.Date)
			if err != nil {
				g.DroppedShifts++
				continue
			}
			code = DayCodeForDate(d)
		}
		g.add(emp, code, s)
	}

	for _, ev := range events {
		date, err := ParseDate(ev.EventDate)
		if err != nil || date.Before(start) || date.After(end) {
			continue
		}
		code := DayCodeForDate(date)
		for _, a := range ev.Assignments {
			var id *int64
			if a.EmployeeID != 0 {
				id = &a.EmployeeID
			}
			emp, ok := matcher.Match(id, a.EmployeeName)
			if !ok {
				g.DroppedAssignments++
				continue
			}
			g.add(emp, code, EventShift(ev, emp))
		}
	}

	if opts.Preview != nil {
		exp := ExpandTemplate(*opts.Preview, start, roster)
		for _, s := range exp.Rows {
			s.Preview = true
			emp, _ := matcher.ByID(*s.EmployeeID)
			g.add(emp, s.Day, s)
		}
	}

	for _, row := range g.Rows {
		for _, code := range DayCodes {
			SortShifts(row.Days[code])
		}
	}
	g.Scheduled = make([]string, 0, len(g.scheduled))
	for name := range g.scheduled {
		g.Scheduled = append(g.Scheduled, name)
	}
	sort.Strings(g.Scheduled)
	return g
}

// EventShift synthesizes the read-time shift for an employee assigned to an event.
func EventShift(ev models.Event, emp models.Employee) models.Shift {
	id := emp.ID
	eventID := ev.ID
	title := ev.Title
	label := "Event"
	if ev.StartTime != nil && strings.TrimSpace(*ev.StartTime) != "" {
		label = FormatTime12(*ev.StartTime)
		if ev.EndTime != nil && strings.TrimSpace(*ev.EndTime) != "" {
			label += " - " + FormatTime12(*ev.EndTime)
		}
	}
	date, _ := ParseDate(ev.EventDate)
	return models.Shift{
		EmployeeID:   &id,
		EmployeeName: emp.Name,
		Day:          DayCodeForDate(date),
		Date:         ev.EventDate,
		Label:        label,
		EventID:      &eventID,
		EventTitle:   &title,
		Derived:      true,
	}
}

func (g *WeekGrid) add(emp models.Employee, code string, s models.Shift) {
	i, ok := g.rowByID[emp.ID]
	if !ok {
		return
	}
	row := g.Rows[i]
	row.Days[code] = append(row.Days[code], s)
	g.scheduled[row.Employee.Name] = true
}

// Shifts returns the bucket for an employee and day code.
func (g *WeekGrid) Shifts(employeeID int64, code string) []models.Shift {
	i, ok := g.rowByID[employeeID]
	if !ok {
		return nil
	}
	return g.Rows[i].Days[code]
}

// ByName exposes the grid as employee name -> day code -> shifts.
// Employees sharing a name are merged.
func (g *WeekGrid) ByName() map[string]map[string][]models.Shift {
	out := make(map[string]map[string][]models.Shift, len(g.Rows))
	for _, row := range g.Rows {
		days, ok := out[row.Employee.Name]
		if !ok {
			days = make(map[string][]models.Shift, len(DayCodes))
			out[row.Employee.Name] = days
		}
		for code, shifts := range row.Days {
			days[code] = append(days[code], shifts...)
		}
	}
	return out
}

// IsScheduled reports whether the named employee received at least one shift.
func (g *WeekGrid) IsScheduled(name string) bool {
	return g.scheduled[name]
}

// Unscheduled lists roster employees with no shift this week, in roster order.
func (g *WeekGrid) Unscheduled() []models.Employee {
	var out []models.Employee
	for _, row := range g.Rows {
		if !g.scheduled[row.Employee.Name] {
			out = append(out, row.Employee)
		}
	}
	return out
}

// TotalShifts counts every shift across all buckets.
func (g *WeekGrid) TotalShifts() int {
	total := 0
	for _, row := range g.Rows {
		for _, shifts := range row.Days {
			total += len(shifts)
		}
	}
	return total
}
