package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewery_backend/internal/models"
)

func intPtr(i int) *int { return &i }

func festRequest() EventRequest {
	return EventRequest{
		Title:        "Summer Fest",
		EventDate:    "2024-07-04",
		StartTime:    strPtr("13:00"),
		EndTime:      strPtr("18:00"),
		ContactName:  strPtr("Dana"),
		ContactEmail: strPtr("dana@example.com"),
		Attendees:    intPtr(250),
		Category:     "Festival",
		OffPremise:   true,
		Supplies:     &models.EventSupplies{Tent: true, Kegs: true},
		Beers: []models.EventBeer{
			{Style: "Pale Ale", Packaging: "1/2 bbl", Quantity: 2},
			{Style: "Lager", Packaging: "1/6 bbl", Quantity: 4},
		},
		EmployeeIDs: []int64{1, 2, 2},
	}
}

func TestCreateEventWritesOwnedRecordsInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	events := newFakeEventRepo(testRoster()...)
	svc := NewEventService(events, &fakeScheduleRepo{}, db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	ev, err := svc.CreateEvent(context.Background(), festRequest())
	require.NoError(t, err)
	assert.Equal(t, "festival", ev.Category)
	require.NotNil(t, ev.Supplies)
	assert.True(t, ev.Supplies.Tent)
	assert.Len(t, ev.Beers, 2)
	assert.Nil(t, ev.Notes)
	require.Len(t, ev.Assignments, 2)
	assert.Equal(t, "Matt L.", ev.Assignments[0].EmployeeName)
	assert.Equal(t, []int64{1, 2}, events.added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEventValidation(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewEventService(newFakeEventRepo(), &fakeScheduleRepo{}, db)

	tests := []struct {
		name   string
		mutate func(*EventRequest)
		want   error
	}{
		{"missing title", func(r *EventRequest) { r.Title = " " }, ErrEventValidation},
		{"bad date", func(r *EventRequest) { r.EventDate = "7/4/2024" }, ErrInvalidDate},
		{"bad category", func(r *EventRequest) { r.Category = "wedding" }, ErrEventValidation},
		{"bad clock", func(r *EventRequest) { r.SetupTime = strPtr("1pm") }, ErrEventValidation},
		{"negative attendees", func(r *EventRequest) { r.Attendees = intPtr(-1) }, ErrEventValidation},
		{"beer without style", func(r *EventRequest) { r.Beers = []models.EventBeer{{Quantity: 1}} }, ErrEventValidation},
		{"bad contact email", func(r *EventRequest) { r.ContactEmail = strPtr("dana") }, ErrEventValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := festRequest()
			tt.mutate(&req)
			_, err := svc.CreateEvent(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateEventUnknownEmployeeRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewEventService(newFakeEventRepo(testRoster()...), &fakeScheduleRepo{}, db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	req := festRequest()
	req.EmployeeIDs = []int64{1, 77}
	_, err := svc.CreateEvent(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEventDiffsAssignments(t *testing.T) {
	db, mock := newMockDB(t)
	events := newFakeEventRepo(testRoster()...)
	svc := NewEventService(events, &fakeScheduleRepo{}, db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	created, err := svc.CreateEvent(ctx, festRequest())
	require.NoError(t, err)
	events.added, events.removed = nil, nil

	mock.ExpectBegin()
	mock.ExpectCommit()
	req := festRequest()
	req.Title = "Summer Fest 2"
	req.Beers = nil
	req.Supplies = nil
	req.Notes = &models.EventNotes{Notes: strPtr("Sold out by 4")}
	req.EmployeeIDs = []int64{2, 3}
	updated, err := svc.UpdateEvent(ctx, created.ID, req)
	require.NoError(t, err)

	assert.Equal(t, "Summer Fest 2", updated.Title)
	assert.Equal(t, []int64{3}, events.added)
	assert.Equal(t, []int64{1}, events.removed)
	assert.Len(t, updated.Beers, 2, "nil beers leave the stored list untouched")
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "Sold out by 4", *updated.Notes.Notes)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.UpdateEvent(ctx, 404, festRequest())
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEventRemovesOwnedRowsAndShifts(t *testing.T) {
	db, mock := newMockDB(t)
	events := newFakeEventRepo(testRoster()...)
	shifts := &fakeScheduleRepo{shifts: []models.Shift{
		{ID: 1, EmployeeName: "Sarah Brewer", Date: "2024-07-04", EventID: int64Ptr(1)},
		{ID: 2, EmployeeName: "Matt L.", Date: "2024-07-04"},
	}}
	svc := NewEventService(events, shifts, db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	created, err := svc.CreateEvent(ctx, festRequest())
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, svc.DeleteEvent(ctx, created.ID))

	assert.Empty(t, events.events)
	assert.Empty(t, events.assignments)
	assert.Empty(t, events.beers)
	assert.Empty(t, events.supplies)
	require.Len(t, shifts.shifts, 1)
	assert.Equal(t, int64(2), shifts.shifts[0].ID)

	mock.ExpectBegin()
	mock.ExpectRollback()
	assert.ErrorIs(t, svc.DeleteEvent(ctx, created.ID), ErrEventNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEvents(t *testing.T) {
	db, _ := newMockDB(t)
	events := newFakeEventRepo()
	events.events[1] = models.Event{ID: 1, Title: "A", EventDate: "2024-07-04"}
	events.events[2] = models.Event{ID: 2, Title: "B", EventDate: "2024-08-01"}
	svc := NewEventService(events, &fakeScheduleRepo{}, db)

	list, err := svc.GetEvents(context.Background(), models.EventFilters{DateFrom: "2024-07-01", DateTo: "2024-07-31"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Title)

	_, err = svc.GetEvents(context.Background(), models.EventFilters{DateFrom: "July"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.GetEventDetail(context.Background(), 3)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
