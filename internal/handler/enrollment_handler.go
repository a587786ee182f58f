package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/service"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/response"
)

type enrollmentService interface {
	Enroll(ctx context.Context, session *models.Session, eventID string, attendee *models.Attendee) (*models.EnrollmentRecord, bool, error)
	Unenroll(ctx context.Context, session *models.Session, eventID string) (bool, error)
	Get(ctx context.Context, session *models.Session, eventID string) (*models.EnrollmentRecord, error)
	List(ctx context.Context, session *models.Session) ([]models.EnrollmentRecord, error)
}

type enrollmentExporter interface {
	EnrollmentsCSV(records []models.EnrollmentRecord) ([]byte, error)
	EnrollmentsPDF(records []models.EnrollmentRecord, owner string) ([]byte, error)
	EnrollmentsCalendar(records []models.EnrollmentRecord) []byte
}

type ticketIssuer interface {
	Issue(ctx context.Context, session *models.Session, eventID string) (*service.TicketImage, error)
}

// EnrollmentHandler manages the caller's enrollment set.
type EnrollmentHandler struct {
	service  enrollmentService
	exporter enrollmentExporter
	tickets  ticketIssuer
}

// NewEnrollmentHandler builds a new handler.
func NewEnrollmentHandler(svc enrollmentService, exporter enrollmentExporter, tickets ticketIssuer) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc, exporter: exporter, tickets: tickets}
}

// Enroll godoc
// @Summary Enroll in an event
// @Description Anonymous sessions may only join public events and must name the attendee. Repeating an enrollment returns the existing record.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.EnrollRequest false "Attendee details"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events/{id}/enrollment [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.EnrollRequest
	if !bindJSON(c, &req, "invalid enrollment payload", true) {
		return
	}

	record, created, err := h.service.Enroll(c.Request.Context(), session, c.Param("id"), req.Attendee())
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, record)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Unenroll godoc
// @Summary Leave an event
// @Tags Enrollments
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/enrollment [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	eventID := c.Param("id")
	removed, err := h.service.Unenroll(c.Request.Context(), session, eventID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"eventId": eventID, "enrolled": false, "removed": removed}, nil)
}

// List godoc
// @Summary List my enrollments
// @Description format=csv or format=pdf downloads the list instead.
// @Tags Enrollments
// @Produce json
// @Param format query string false "json, csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /me/enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	records, err := h.service.List(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		response.JSON(c, http.StatusOK, records, nil)
	case "csv":
		payload, err := h.exporter.EnrollmentsCSV(records)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.File(c, "text/csv; charset=utf-8", "mis-eventos.csv", payload)
	case "pdf":
		owner := ""
		if session.Identity != nil {
			owner = session.Identity.Email
		}
		payload, err := h.exporter.EnrollmentsPDF(records, owner)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.File(c, "application/pdf", "mis-eventos.pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be json, csv or pdf"))
	}
}

// Get godoc
// @Summary Get one of my enrollments
// @Tags Enrollments
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /me/enrollments/{eventId} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	record, err := h.service.Get(c.Request.Context(), session, c.Param("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Ticket godoc
// @Summary Entry ticket QR code
// @Tags Enrollments
// @Produce png
// @Param eventId path string true "Event ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /me/enrollments/{eventId}/ticket.png [get]
func (h *EnrollmentHandler) Ticket(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	img, err := h.tickets.Issue(c.Request.Context(), session, c.Param("eventId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("X-Ticket-Token", img.Token)
	c.Header("Expires", img.ExpiresAt.UTC().Format(http.TimeFormat))
	response.File(c, "image/png", "", img.PNG)
}

// Calendar godoc
// @Summary Export my enrollments as iCalendar
// @Tags Enrollments
// @Produce text/calendar
// @Success 200 {string} string "ICS document"
// @Router /me/calendar.ics [get]
func (h *EnrollmentHandler) Calendar(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	records, err := h.service.List(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, contentTypeCalendar, "mis-eventos.ics", h.exporter.EnrollmentsCalendar(records))
}
