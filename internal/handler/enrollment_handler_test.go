package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/middleware"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/service"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

type enrollmentServiceMock struct {
	created      bool
	enrollErr    error
	lastAttendee *models.Attendee
	records      []models.EnrollmentRecord
}

func (m *enrollmentServiceMock) Enroll(_ context.Context, _ *models.Session, eventID string, attendee *models.Attendee) (*models.EnrollmentRecord, bool, error) {
	m.lastAttendee = attendee
	if m.enrollErr != nil {
		return nil, false, m.enrollErr
	}
	return &models.EnrollmentRecord{EventID: eventID}, m.created, nil
}

func (m *enrollmentServiceMock) Unenroll(context.Context, *models.Session, string) (bool, error) {
	return true, nil
}

func (m *enrollmentServiceMock) Get(context.Context, *models.Session, string) (*models.EnrollmentRecord, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
}

func (m *enrollmentServiceMock) List(context.Context, *models.Session) ([]models.EnrollmentRecord, error) {
	return m.records, nil
}

type exporterMock struct {
	owner string
}

func (e *exporterMock) EnrollmentsCSV([]models.EnrollmentRecord) ([]byte, error) {
	return []byte("ID\n"), nil
}

func (e *exporterMock) EnrollmentsPDF(_ []models.EnrollmentRecord, owner string) ([]byte, error) {
	e.owner = owner
	return []byte("%PDF-1.3"), nil
}

func (e *exporterMock) EnrollmentsCalendar([]models.EnrollmentRecord) []byte {
	return []byte("BEGIN:VCALENDAR")
}

type ticketIssuerMock struct{}

func (ticketIssuerMock) Issue(context.Context, *models.Session, string) (*service.TicketImage, error) {
	return &service.TicketImage{Token: "tok", PNG: []byte{0x89, 'P', 'N', 'G'}}, nil
}

var anonymousSession = &models.Session{ID: "s-anon"}

func TestEnrollStatusReflectsCreation(t *testing.T) {
	mockSvc := &enrollmentServiceMock{created: true}
	h := NewEnrollmentHandler(mockSvc, &exporterMock{}, ticketIssuerMock{})

	c, w := newContext(http.MethodPost, "/events/2/enrollment", `{"email":"dora@gmail.com","name":"Dora"}`)
	c.Set(middleware.ContextSessionKey, anonymousSession)
	h.Enroll(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, &models.Attendee{Email: "dora@gmail.com", Name: "Dora"}, mockSvc.lastAttendee)

	mockSvc.created = false
	c, w = newContext(http.MethodPost, "/events/2/enrollment", "")
	c.Set(middleware.ContextSessionKey, anonymousSession)
	h.Enroll(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, mockSvc.lastAttendee)
}

func TestEnrollMapsDeclinedActions(t *testing.T) {
	cases := map[error]int{
		appErrors.ErrLoginRequired:     http.StatusUnauthorized,
		appErrors.ErrEnrollmentRefused: http.StatusForbidden,
		appErrors.ErrEventFull:         http.StatusConflict,
		appErrors.ErrStoreUnavailable:  http.StatusServiceUnavailable,
	}
	for err, status := range cases {
		h := NewEnrollmentHandler(&enrollmentServiceMock{enrollErr: err}, &exporterMock{}, ticketIssuerMock{})
		c, w := newContext(http.MethodPost, "/events/1/enrollment", "")
		c.Set(middleware.ContextSessionKey, anonymousSession)
		h.Enroll(c)
		assert.Equal(t, status, w.Code, err.Error())
	}
}

func TestEnrollRequiresSession(t *testing.T) {
	h := NewEnrollmentHandler(&enrollmentServiceMock{}, &exporterMock{}, ticketIssuerMock{})
	c, w := newContext(http.MethodPost, "/events/1/enrollment", "")
	h.Enroll(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListFormats(t *testing.T) {
	exporter := &exporterMock{}
	h := NewEnrollmentHandler(&enrollmentServiceMock{}, exporter, ticketIssuerMock{})
	session := &models.Session{ID: "s1", Identity: &models.Identity{Email: "ana@alumnos.usm.cl", Role: models.RoleStudent}}

	c, w := newContext(http.MethodGet, "/me/enrollments?format=pdf", "")
	c.Set(middleware.ContextSessionKey, session)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "mis-eventos.pdf")
	assert.Equal(t, "ana@alumnos.usm.cl", exporter.owner)

	c, w = newContext(http.MethodGet, "/me/enrollments", "")
	c.Set(middleware.ContextSessionKey, session)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestTicketPNG(t *testing.T) {
	h := NewEnrollmentHandler(&enrollmentServiceMock{}, &exporterMock{}, ticketIssuerMock{})
	c, w := newContext(http.MethodGet, "/me/enrollments/1/ticket.png", "")
	c.Set(middleware.ContextSessionKey, anonymousSession)
	h.Ticket(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "tok", w.Header().Get("X-Ticket-Token"))
}
