package handlers

import (
	"net/http"

	"brewery_backend/internal/services"

	"github.com/gin-gonic/gin"
)

const pdfContentType = "application/pdf"

// PDFHandler holds the PDF service.
type PDFHandler struct {
	pdfService services.PDFService
}

// NewPDFHandler creates a new PDFHandler.
func NewPDFHandler(ps services.PDFService) *PDFHandler {
	return &PDFHandler{pdfService: ps}
}

// Analyze reports the template's form fields and how the field map resolves against them.
func (h *PDFHandler) Analyze(c *gin.Context) {
	analysis, err := h.pdfService.Analyze(c.Request.Context())
	if err != nil {
		respondEventError(c, err, "Failed to analyze the PDF template.")
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// RenderSheet fills the template from a posted event.
func (h *PDFHandler) RenderSheet(c *gin.Context) {
	var req services.EventSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "RenderSheet", err)
		return
	}
	data, filename, err := h.pdfService.RenderSheet(c.Request.Context(), req)
	if err != nil {
		respondEventError(c, err, "Failed to generate the event sheet.")
		return
	}
	sendAttachment(c, pdfContentType, filename, data)
}

// RenderEvent fills the template from a stored event.
func (h *PDFHandler) RenderEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "event")
	if !ok {
		return
	}
	data, filename, err := h.pdfService.RenderEvent(c.Request.Context(), id)
	if err != nil {
		respondEventError(c, err, "Failed to generate the event sheet.")
		return
	}
	sendAttachment(c, pdfContentType, filename, data)
}
