package handlers

import (
	"errors"
	"net/http"

	"brewery_backend/internal/models"
	"brewery_backend/internal/services"
	"brewery_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ScheduleHandler holds the schedule service.
type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(ss services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: ss}
}

func respondScheduleError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrInvalidDate), errors.Is(err, services.ErrShiftValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrShiftNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Shift not found.", err.Error()))
	case errors.Is(err, services.ErrTemplateNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Template not found.", err.Error()))
	case errors.Is(err, services.ErrEmployeeNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Employee for shift not found.", err.Error()))
	case errors.Is(err, services.ErrDerivedShift):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Event shifts are edited through their event.", err.Error()))
	default:
		utils.RespondInternal(c, err, message)
	}
}

// GetWeek returns the assembled week grid. template_id adds a preview of that template.
func (h *ScheduleHandler) GetWeek(c *gin.Context) {
	templateID, ok := parseOptionalID(c, "template_id")
	if !ok {
		return
	}
	view, err := h.scheduleService.GetWeek(c.Request.Context(), c.Query("start"), templateID)
	if err != nil {
		respondScheduleError(c, err, "Failed to load schedule week.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ExportWeek downloads the week as an xlsx workbook.
func (h *ScheduleHandler) ExportWeek(c *gin.Context) {
	data, filename, err := h.scheduleService.ExportWeek(c.Request.Context(), c.Query("start"))
	if err != nil {
		respondScheduleError(c, err, "Failed to export schedule week.")
		return
	}
	sendAttachment(c, xlsxContentType, filename, data)
}

// CreateShift handles the creation of a persisted shift row.
func (h *ScheduleHandler) CreateShift(c *gin.Context) {
	var req services.ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "CreateShift", err)
		return
	}

	shift, err := h.scheduleService.CreateShift(c.Request.Context(), req)
	if err != nil {
		respondScheduleError(c, err, "Failed to create shift.")
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// GetShifts lists persisted shift rows.
func (h *ScheduleHandler) GetShifts(c *gin.Context) {
	var filters models.ShiftFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	shifts, err := h.scheduleService.GetShifts(c.Request.Context(), filters)
	if err != nil {
		respondScheduleError(c, err, "Failed to fetch shifts.")
		return
	}
	if shifts == nil {
		shifts = []models.Shift{}
	}
	c.JSON(http.StatusOK, gin.H{"data": shifts, "total": len(shifts)})
}

// GetShiftByID handles fetching a single shift by ID.
func (h *ScheduleHandler) GetShiftByID(c *gin.Context) {
	id, ok := parseIDParam(c, "shift")
	if !ok {
		return
	}
	shift, err := h.scheduleService.GetShiftByID(c.Request.Context(), id)
	if err != nil {
		respondScheduleError(c, err, "Failed to fetch shift.")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// UpdateShift handles updating a shift.
func (h *ScheduleHandler) UpdateShift(c *gin.Context) {
	id, ok := parseIDParam(c, "shift")
	if !ok {
		return
	}
	var req services.ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "UpdateShift", err)
		return
	}

	shift, err := h.scheduleService.UpdateShift(c.Request.Context(), id, req)
	if err != nil {
		respondScheduleError(c, err, "Failed to update shift.")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// DeleteShift handles deleting a shift.
func (h *ScheduleHandler) DeleteShift(c *gin.Context) {
	id, ok := parseIDParam(c, "shift")
	if !ok {
		return
	}
	if err := h.scheduleService.DeleteShift(c.Request.Context(), id); err != nil {
		respondScheduleError(c, err, "Failed to delete shift.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted successfully"})
}

// ReconcileEmployees backfills employee_id on legacy rows. dry_run=true only reports.
func (h *ScheduleHandler) ReconcileEmployees(c *gin.Context) {
	result, err := h.scheduleService.ReconcileEmployees(c.Request.Context(), parseBoolQuery(c, "dry_run"))
	if err != nil {
		utils.RespondInternal(c, err, "Failed to reconcile schedule rows.")
		return
	}
	c.JSON(http.StatusOK, result)
}
