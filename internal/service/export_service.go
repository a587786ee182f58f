package service

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/pkg/calendar"
	"github.com/noah-isme/campus-events-api/pkg/export"
)

// ExportConfig tunes rendered documents.
type ExportConfig struct {
	CalendarName string
	Domain       string
	Location     *time.Location
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
}

// ExportService renders enrollments and events as CSV, PDF and iCalendar.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	cfg    ExportConfig
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.CalendarName == "" {
		cfg.CalendarName = "Eventos del campus"
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger, cfg: cfg, now: time.Now}
}

var enrollmentColumns = []export.Column{
	{Key: "event_id", Label: "ID", Width: 1},
	{Key: "title", Label: "Evento", Width: 4},
	{Key: "date", Label: "Fecha", Width: 1.5},
	{Key: "time", Label: "Horario", Width: 1.5},
	{Key: "location", Label: "Lugar", Width: 2.5},
	{Key: "category", Label: "Categoría", Width: 1.5},
	{Key: "audience", Label: "Público", Width: 1.5},
	{Key: "attendee", Label: "Asistente", Width: 2.5},
	{Key: "enrolled_at", Label: "Inscrito", Width: 2},
}

// EnrollmentsCSV renders records as CSV.
func (s *ExportService) EnrollmentsCSV(records []models.EnrollmentRecord) ([]byte, error) {
	payload, err := s.csv.Render(s.enrollmentDataset(records))
	if err != nil {
		return nil, fmt.Errorf("render enrollments csv: %w", err)
	}
	return payload, nil
}

// EnrollmentsPDF renders records as a PDF table headed by owner.
func (s *ExportService) EnrollmentsPDF(records []models.EnrollmentRecord, owner string) ([]byte, error) {
	subtitle := fmt.Sprintf("Generado %s", s.now().In(s.cfg.Location).Format("02 Jan 2006 15:04"))
	if owner != "" {
		subtitle = owner + " · " + subtitle
	}
	payload, err := s.pdf.Render(s.enrollmentDataset(records), "Mis eventos", subtitle)
	if err != nil {
		return nil, fmt.Errorf("render enrollments pdf: %w", err)
	}
	return payload, nil
}

// EventsCalendar renders events as an iCalendar feed.
func (s *ExportService) EventsCalendar(name string, events []models.Event) []byte {
	entries := make([]calendar.Entry, 0, len(events))
	for _, ev := range events {
		entries = append(entries, calendarEntry(ev))
	}
	return []byte(s.render(name, entries))
}

// EnrollmentsCalendar renders the events behind records as an iCalendar feed.
func (s *ExportService) EnrollmentsCalendar(records []models.EnrollmentRecord) []byte {
	entries := make([]calendar.Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, calendarEntry(r.Event))
	}
	return []byte(s.render("Mis eventos", entries))
}

func (s *ExportService) render(name string, entries []calendar.Entry) string {
	if name == "" {
		name = s.cfg.CalendarName
	}
	return calendar.Render(calendar.Feed{
		Name:      name,
		ProductID: "-//campus-events-api//ES",
		Domain:    s.cfg.Domain,
		Stamp:     s.now(),
	}, entries)
}

func (s *ExportService) enrollmentDataset(records []models.EnrollmentRecord) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		attendee := r.AttendeeEmail
		if r.AttendeeName != "" {
			attendee = r.AttendeeName + " <" + r.AttendeeEmail + ">"
		}
		enrolledAt := ""
		if !r.EnrolledAt.IsZero() {
			enrolledAt = r.EnrolledAt.In(s.cfg.Location).Format("2006-01-02 15:04")
		}
		rows = append(rows, map[string]string{
			"event_id":    r.EventID,
			"title":       r.Event.Title,
			"date":        r.Event.Date.Display(),
			"time":        r.Event.Time,
			"location":    r.Event.Location,
			"category":    categoryLabels[r.Event.Category],
			"audience":    audienceLabels[r.Event.AudienceType],
			"attendee":    attendee,
			"enrolled_at": enrolledAt,
		})
	}
	return export.Dataset{Columns: enrollmentColumns, Rows: rows}
}

func calendarEntry(ev models.Event) calendar.Entry {
	entry := calendar.Entry{
		UID:         "event-" + ev.ID,
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Organizer:   ev.Organizer,
		Category:    string(ev.Category),
		Time:        ev.Time,
	}
	if !ev.Date.IsZero() {
		entry.Day = ev.Date.In(time.UTC)
	}
	if ev.MaxAttendees != nil {
		entry.Description = joinLines(entry.Description, "Cupos: "+strconv.Itoa(ev.Attendees)+"/"+strconv.Itoa(*ev.MaxAttendees))
	}
	return entry
}

func joinLines(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}
