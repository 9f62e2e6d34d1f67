package scheduling

import (
	"testing"
	"time"

	"brewery_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var week = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

func roster() []models.Employee {
	return []models.Employee{
		{ID: 1, Name: "Matt L."},
		{ID: 2, Name: "Sarah Brewer"},
		{ID: 3, Name: "Jo"},
	}
}

func TestAssembleBucketsEveryEmployeeAndDay(t *testing.T) {
	g := Assemble(week, roster(), nil, nil, AssembleOptions{})

	require.Len(t, g.Rows, 3)
	for _, row := range g.Rows {
		assert.Len(t, row.Days, 7)
		for _, code := range DayCodes {
			shifts, ok := row.Days[code]
			assert.True(t, ok)
			assert.Empty(t, shifts)
		}
	}
	assert.Equal(t, "2024-07-01", g.WeekStart)
	assert.Equal(t, "2024-07-07", g.WeekEnd)
	assert.Empty(t, g.Scheduled)
	assert.Len(t, g.Unscheduled(), 3)
}

func TestAssembleMergesShiftsAndEvents(t *testing.T) {
	shifts := []models.Shift{
		{ID: 10, EmployeeID: int64Ptr(2), EmployeeName: "Sarah Brewer", Day: "MON", Date: "2024-07-01", Label: "10-6"},
		{ID: 11, EmployeeName: "Sarah Brewer", Day: "TUE", Date: "2024-07-02", Label: "10-6"},
		{ID: 12, EmployeeName: "Nobody", Day: "TUE", Date: "2024-07-02", Label: "10-6"},
	}
	events := []models.Event{
		{
			ID: 7, Title: "Fourth of July Fest", EventDate: "2024-07-04",
			StartTime: strPtr("13:00"), EndTime: strPtr("18:30"),
			Assignments: []models.EventAssignment{{EventID: 7, EmployeeID: 1}, {EventID: 7, EmployeeID: 99}},
		},
		{
			ID: 8, Title: "Next week", EventDate: "2024-07-09",
			Assignments: []models.EventAssignment{{EventID: 8, EmployeeID: 3}},
		},
	}

	g := Assemble(week, roster(), shifts, events, AssembleOptions{})

	assert.Len(t, g.Shifts(2, "MON"), 1)
	assert.Len(t, g.Shifts(2, "TUE"), 1)
	assert.Equal(t, 1, g.DroppedShifts)
	assert.Equal(t, 1, g.DroppedAssignments)

	thu := g.Shifts(1, "THU")
	require.Len(t, thu, 1)
	assert.True(t, thu[0].Derived)
	assert.Equal(t, int64(7), *thu[0].EventID)
	assert.Equal(t, "Fourth of July Fest", *thu[0].EventTitle)
	assert.Equal(t, "1:00 PM - 6:30 PM", thu[0].Label)

	// 2 persisted matched + 1 assignment matched; the out-of-week event is ignored.
	assert.Equal(t, 3, g.TotalShifts())
	assert.Equal(t, []string{"Matt L.", "Sarah Brewer"}, g.Scheduled)

	unscheduled := g.Unscheduled()
	require.Len(t, unscheduled, 1)
	assert.Equal(t, "Jo", unscheduled[0].Name)
}

func TestAssembleNameFallback(t *testing.T) {
	shifts := []models.Shift{{EmployeeName: "Matt", Day: "WED", Date: "2024-07-03", Label: "Open"}}

	strict := Assemble(week, roster(), shifts, nil, AssembleOptions{})
	assert.Equal(t, 0, strict.TotalShifts())
	assert.Equal(t, 1, strict.DroppedShifts)

	lenient := Assemble(week, roster(), shifts, nil, AssembleOptions{NameFallback: true})
	require.Len(t, lenient.Shifts(1, "WED"), 1)
	assert.True(t, lenient.IsScheduled("Matt L."))
}

func TestAssembleExactMatchBeatsSubstring(t *testing.T) {
	team := []models.Employee{{ID: 1, Name: "Jo Anne"}, {ID: 2, Name: "Jo"}}
	shifts := []models.Shift{{EmployeeName: "Jo", Day: "FRI", Date: "2024-07-05", Label: "Close"}}

	g := Assemble(week, team, shifts, nil, AssembleOptions{NameFallback: true})

	assert.Len(t, g.Shifts(2, "FRI"), 1)
	assert.Empty(t, g.Shifts(1, "FRI"))
}

func TestAssembleDerivesDayFromDateWhenCodeMissing(t *testing.T) {
	shifts := []models.Shift{{EmployeeID: int64Ptr(3), EmployeeName: "Jo", Date: "2024-07-07", Label: "Brunch"}}

	g := Assemble(week, roster(), shifts, nil, AssembleOptions{})

	assert.Len(t, g.Shifts(3, "SUN"), 1)
}

func TestAssembleTemplatePreview(t *testing.T) {
	tpl := &models.Template{Name: "Summer", Days: models.TemplateDays{
		"Saturday": {{EmployeeID: 3, ShiftType: "Tasting Room"}, {EmployeeID: 42, ShiftType: "Offsite"}},
	}}

	g := Assemble(week, roster(), nil, nil, AssembleOptions{Preview: tpl})

	sat := g.Shifts(3, "SAT")
	require.Len(t, sat, 1)
	assert.True(t, sat[0].Preview)
	assert.Equal(t, "2024-07-06", sat[0].Date)
	assert.Equal(t, 1, g.TotalShifts())
}

func TestByNameMergesBuckets(t *testing.T) {
	shifts := []models.Shift{{EmployeeID: int64Ptr(1), EmployeeName: "Matt L.", Day: "MON", Date: "2024-07-01", Label: "Open"}}

	byName := Assemble(week, roster(), shifts, nil, AssembleOptions{}).ByName()

	require.Contains(t, byName, "Matt L.")
	assert.Len(t, byName["Matt L."]["MON"], 1)
	assert.Len(t, byName["Jo"], 7)
}
