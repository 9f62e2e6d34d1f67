package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"brewery_backend/internal/eventpdf"
	"brewery_backend/internal/models"
	"brewery_backend/pkg/utils"
)

// ErrPDFUnavailable is returned when the server started without a usable PDF template.
var ErrPDFUnavailable = errors.New("pdf template is not loaded")

// EventSheetRequest is an event posted for PDF rendering. Staff lists names
// printed on the sheet in addition to any assignments carried by the event.
type EventSheetRequest struct {
	models.Event
	Staff []string `json:"staff"`
}

// --- PDFService Interface ---
type PDFService interface {
	Analyze(ctx context.Context) (*eventpdf.Analysis, error)
	RenderEvent(ctx context.Context, eventID int64) ([]byte, string, error)
	RenderSheet(ctx context.Context, req EventSheetRequest) ([]byte, string, error)
}

type pdfService struct {
	generator *eventpdf.Generator
	events    EventService
}

// NewPDFService creates a new instance of PDFService. A nil generator
// makes every operation fail with ErrPDFUnavailable.
func NewPDFService(generator *eventpdf.Generator, events EventService) PDFService {
	return &pdfService{generator: generator, events: events}
}

func (s *pdfService) Analyze(ctx context.Context) (*eventpdf.Analysis, error) {
	if s.generator == nil {
		return nil, ErrPDFUnavailable
	}
	analysis, err := s.generator.Analyze()
	if err != nil {
		return nil, fmt.Errorf("failed to analyze pdf template: %w", err)
	}
	return analysis, nil
}

func (s *pdfService) RenderEvent(ctx context.Context, eventID int64) ([]byte, string, error) {
	if s.generator == nil {
		return nil, "", ErrPDFUnavailable
	}
	ev, err := s.events.GetEventDetail(ctx, eventID)
	if err != nil {
		return nil, "", err
	}
	return s.render(eventpdf.SheetFromEvent(*ev))
}

func (s *pdfService) RenderSheet(ctx context.Context, req EventSheetRequest) ([]byte, string, error) {
	if s.generator == nil {
		return nil, "", ErrPDFUnavailable
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, "", fmt.Errorf("%w: title is required", ErrEventValidation)
	}
	if strings.TrimSpace(req.EventDate) != "" {
		if _, err := parseDay(req.EventDate); err != nil {
			return nil, "", err
		}
	}
	sheet := eventpdf.SheetFromEvent(req.Event)
	for _, name := range req.Staff {
		if name = strings.TrimSpace(name); name != "" {
			sheet.Staff = append(sheet.Staff, name)
		}
	}
	return s.render(sheet)
}

func (s *pdfService) render(sheet eventpdf.Sheet) ([]byte, string, error) {
	out, report, err := s.generator.Generate(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render event sheet: %w", err)
	}
	if len(report.Unresolved) > 0 || report.DroppedBeers > 0 {
		utils.LogDebug("Event sheet rendered with gaps", map[string]interface{}{
			"event_id":      sheet.Event.ID,
			"unresolved":    report.Unresolved,
			"dropped_beers": report.DroppedBeers,
		})
	}
	return out, sheetFilename(sheet.Event), nil
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

func sheetFilename(ev models.Event) string {
	slug := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(ev.Title), "-"), "-")
	if slug == "" {
		slug = "event"
	}
	if ev.EventDate != "" {
		return fmt.Sprintf("%s-%s.pdf", slug, ev.EventDate)
	}
	return slug + ".pdf"
}
