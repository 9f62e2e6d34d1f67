// Package scheduling holds the pure week model and schedule transforms: day codes,
// civil-date parsing, shift display helpers, weekly grid assembly and template expansion.
package scheduling

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned for calendar dates not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

const dateLayout = "2006-01-02"

// DayCodes lists the day codes in the application's Monday-first week order.
var DayCodes = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// DayNames lists the full day names used by templates, Monday first.
var DayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// weekdayCodes is indexed by time.Weekday (Sunday=0 .. Saturday=6).
var weekdayCodes = [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// ParseDate builds a civil date from a YYYY-MM-DD string by splitting on '-'.
// The result is midnight UTC so that formatting never shifts the day.
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 || len(parts[0]) != 4 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		// time.Date normalised an overflow such as Feb 30.
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDisplayDate renders a stored YYYY-MM-DD date as M/D/YYYY.
// Unparseable input is returned unchanged.
func FormatDisplayDate(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// FormatTime12 converts a 24-hour HH:MM string to h:MM AM/PM.
// Unparseable input is returned unchanged.
func FormatTime12(s string) string {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return s
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return s
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return s
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, minute, suffix)
}

// WeekStart returns the Monday of the week containing t, at midnight UTC.
func WeekStart(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekRange returns the first and last day of the week beginning at start.
func WeekRange(start time.Time) (time.Time, time.Time) {
	return start, start.AddDate(0, 0, 6)
}

// WeekDates returns the seven dates of the week beginning at start.
func WeekDates(start time.Time) []time.Time {
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// DayCodeForDate maps a date to its day code through the Sunday=0 weekday table.
func DayCodeForDate(t time.Time) string {
	return weekdayCodes[t.Weekday()]
}

// IsDayCode reports whether code is one of the seven day codes.
func IsDayCode(code string) bool {
	for _, c := range DayCodes {
		if c == code {
			return true
		}
	}
	return false
}

// DayNameToCode maps a full day name to its code: the first three letters, upper-cased.
func DayNameToCode(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return "", false
	}
	code := strings.ToUpper(name[:3])
	if !IsDayCode(code) {
		return "", false
	}
	return code, true
}

// DayOffset returns a day name's offset from Monday (Monday=0 .. Sunday=6).
func DayOffset(name string) (int, bool) {
	code, ok := DayNameToCode(name)
	if !ok {
		return 0, false
	}
	for i, c := range DayCodes {
		if c == code {
			return i, true
		}
	}
	return 0, false
}

// DateForDay returns the date of the named day in the week beginning at weekStart.
func DateForDay(weekStart time.Time, name string) (time.Time, bool) {
	offset, ok := DayOffset(name)
	if !ok {
		return time.Time{}, false
	}
	return weekStart.AddDate(0, 0, offset), true
}
