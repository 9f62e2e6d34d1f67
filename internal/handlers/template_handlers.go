package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"brewery_backend/internal/services"
	"brewery_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TemplateHandler holds the template service.
type TemplateHandler struct {
	templateService services.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(ts services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: ts}
}

// ApplyTemplateRequest names the week a template is applied to.
type ApplyTemplateRequest struct {
	WeekStart string `json:"week_start" form:"week_start"`
}

func respondTemplateError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrTemplateNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Template not found.", err.Error()))
	case errors.Is(err, services.ErrTemplateValidation), errors.Is(err, services.ErrInvalidDate), errors.Is(err, services.ErrTemplateWeekRequired):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrTemplateNameExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "A template with this name already exists.", err.Error()))
	default:
		utils.RespondInternal(c, err, message)
	}
}

// CreateTemplate handles the creation of a new template.
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req services.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "CreateTemplate", err)
		return
	}
	tpl, err := h.templateService.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		respondTemplateError(c, err, "Failed to create template.")
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

// GetTemplates lists templates with their per-day summaries.
func (h *TemplateHandler) GetTemplates(c *gin.Context) {
	items, err := h.templateService.GetTemplates(c.Request.Context())
	if err != nil {
		respondTemplateError(c, err, "Failed to fetch templates.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
}

// GetTemplateByID handles fetching a single template by ID.
func (h *TemplateHandler) GetTemplateByID(c *gin.Context) {
	id, ok := parseIDParam(c, "template")
	if !ok {
		return
	}
	tpl, err := h.templateService.GetTemplateByID(c.Request.Context(), id)
	if err != nil {
		respondTemplateError(c, err, "Failed to fetch template.")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// UpdateTemplate handles updating a template.
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "template")
	if !ok {
		return
	}
	var req services.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "UpdateTemplate", err)
		return
	}
	tpl, err := h.templateService.UpdateTemplate(c.Request.Context(), id, req)
	if err != nil {
		respondTemplateError(c, err, "Failed to update template.")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// DeleteTemplate handles deleting a template.
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "template")
	if !ok {
		return
	}
	if err := h.templateService.DeleteTemplate(c.Request.Context(), id); err != nil {
		respondTemplateError(c, err, "Failed to delete template.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// ApplyTemplate replaces every row of the target week. It refuses to run without confirm=true.
func (h *TemplateHandler) ApplyTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "template")
	if !ok {
		return
	}
	if !parseBoolQuery(c, "confirm") {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest,
			"Applying a template replaces every shift in the target week. Repeat the request with confirm=true.", ""))
		return
	}

	var req ApplyTemplateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, "ApplyTemplate", err)
			return
		}
	}
	if req.WeekStart == "" {
		req.WeekStart = c.Query("week_start")
	}

	result, err := h.templateService.ApplyTemplate(c.Request.Context(), id, req.WeekStart)
	if err != nil {
		respondTemplateError(c, err, "Failed to apply template.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":  result,
		"message": fmt.Sprintf("Replaced %d shift(s) with %d from the template for the week of %s.", result.Deleted, result.Inserted, result.WeekStart),
	})
}
