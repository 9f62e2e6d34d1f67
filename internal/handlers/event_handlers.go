package handlers

import (
	"errors"
	"net/http"

	"brewery_backend/internal/models"
	"brewery_backend/internal/services"
	"brewery_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// EventHandler holds the event service.
type EventHandler struct {
	eventService services.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(es services.EventService) *EventHandler {
	return &EventHandler{eventService: es}
}

func respondEventError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Event not found.", err.Error()))
	case errors.Is(err, services.ErrEventValidation), errors.Is(err, services.ErrInvalidDate):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrEmployeeNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Assigned employee not found.", err.Error()))
	case errors.Is(err, services.ErrPDFUnavailable):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeServiceUnavailable, "PDF generation is not available.", err.Error()))
	default:
		utils.RespondInternal(c, err, message)
	}
}

// CreateEvent handles the creation of an event with its owned records.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "CreateEvent", err)
		return
	}
	ev, err := h.eventService.CreateEvent(c.Request.Context(), req)
	if err != nil {
		respondEventError(c, err, "Failed to create event.")
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// GetEvents lists events, optionally within date_from and date_to.
func (h *EventHandler) GetEvents(c *gin.Context) {
	var filters models.EventFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	events, err := h.eventService.GetEvents(c.Request.Context(), filters)
	if err != nil {
		respondEventError(c, err, "Failed to fetch events.")
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"data": events, "total": len(events)})
}

// GetEventByID returns the event with supplies, beers, notes and assignments.
func (h *EventHandler) GetEventByID(c *gin.Context) {
	id, ok := parseIDParam(c, "event")
	if !ok {
		return
	}
	ev, err := h.eventService.GetEventDetail(c.Request.Context(), id)
	if err != nil {
		respondEventError(c, err, "Failed to fetch event.")
		return
	}
	c.JSON(http.StatusOK, ev)
}

// UpdateEvent handles updating an event.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "event")
	if !ok {
		return
	}
	var req services.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "UpdateEvent", err)
		return
	}
	ev, err := h.eventService.UpdateEvent(c.Request.Context(), id, req)
	if err != nil {
		respondEventError(c, err, "Failed to update event.")
		return
	}
	c.JSON(http.StatusOK, ev)
}

// DeleteEvent handles deleting an event.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "event")
	if !ok {
		return
	}
	if err := h.eventService.DeleteEvent(c.Request.Context(), id); err != nil {
		respondEventError(c, err, "Failed to delete event.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
