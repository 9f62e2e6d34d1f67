package eventpdf

import (
	"fmt"
	"strconv"
	"strings"

	"brewery_backend/internal/models"
	"brewery_backend/internal/scheduling"
)

// Sheet is the event data printed on one event sheet.
type Sheet struct {
	Event    models.Event
	Supplies models.EventSupplies
	Beers    []models.EventBeer
	Staff    []string
}

// SheetFromEvent builds a sheet from a fully loaded event.
func SheetFromEvent(ev models.Event) Sheet {
	s := Sheet{Event: ev, Beers: ev.Beers}
	if ev.Supplies != nil {
		s.Supplies = *ev.Supplies
	}
	for _, a := range ev.Assignments {
		if name := strings.TrimSpace(a.EmployeeName); name != "" {
			s.Staff = append(s.Staff, name)
		}
	}
	return s
}

// FieldValue is one logical text value.
type FieldValue struct {
	Key   string
	Value string
}

// TextValues renders the sheet into logical text fields, beer triples last.
// Beers past MaxBeerRows are not rendered.
func (s Sheet) TextValues() []FieldValue {
	ev := s.Event
	values := []FieldValue{
		{FieldEventName, strings.TrimSpace(ev.Title)},
		{FieldEventDate, scheduling.FormatDisplayDate(ev.EventDate)},
		{FieldSetupTime, formatClock(ev.SetupTime)},
		{FieldDuration, s.duration()},
		{FieldStaff, strings.Join(s.Staff, ", ")},
		{FieldContact, s.contact()},
		{FieldAttendees, formatInt(ev.Attendees)},
		{FieldInstructions, trimmed(ev.Instructions)},
	}
	for i, b := range s.Beers {
		if i >= MaxBeerRows {
			break
		}
		row := i + 1
		values = append(values,
			FieldValue{BeerFieldKey(FieldBeerStyle, row), strings.TrimSpace(b.Style)},
			FieldValue{BeerFieldKey(FieldBeerPackaging, row), strings.TrimSpace(b.Packaging)},
			FieldValue{BeerFieldKey(FieldBeerQuantity, row), quantity(b.Quantity)},
		)
	}
	return values
}

// Checked evaluates a checkbox predicate against the sheet.
func (s Sheet) Checked(predicate string) bool {
	kind, arg, _ := strings.Cut(strings.TrimSpace(predicate), ":")
	switch kind {
	case "category":
		return strings.EqualFold(s.Event.Category, arg)
	case "supply":
		v, _ := s.Supplies.Flag(arg)
		return v
	case "off_premise":
		return s.Event.OffPremise
	}
	return false
}

func validatePredicate(predicate string) error {
	kind, arg, hasArg := strings.Cut(strings.TrimSpace(predicate), ":")
	switch kind {
	case "category":
		if !models.IsValidEventCategory(arg) {
			return fmt.Errorf("unknown category %q", arg)
		}
	case "supply":
		if _, ok := (models.EventSupplies{}).Flag(arg); !ok {
			return fmt.Errorf("unknown supply flag %q", arg)
		}
	case "off_premise":
		if hasArg {
			return fmt.Errorf("off_premise takes no argument")
		}
	default:
		return fmt.Errorf("unknown predicate %q", predicate)
	}
	return nil
}

func (s Sheet) duration() string {
	if d := trimmed(s.Event.Duration); d != "" {
		return d
	}
	start, end := formatClock(s.Event.StartTime), formatClock(s.Event.EndTime)
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	}
	return end
}

func (s Sheet) contact() string {
	parts := make([]string, 0, 3)
	for _, p := range []*string{s.Event.ContactName, s.Event.ContactPhone, s.Event.ContactEmail} {
		if v := trimmed(p); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func formatClock(s *string) string {
	v := trimmed(s)
	if v == "" {
		return ""
	}
	return scheduling.FormatTime12(v)
}

func formatInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func quantity(q int) string {
	if q <= 0 {
		return ""
	}
	return strconv.Itoa(q)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
