package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/service"
	"github.com/noah-isme/campus-events-api/pkg/config"
	"github.com/noah-isme/campus-events-api/pkg/kvstore"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Pagination *struct {
		Page       int `json:"page"`
		PageSize   int `json:"page_size"`
		TotalCount int `json:"total_count"`
	} `json:"pagination"`
	Meta map[string]json.RawMessage `json:"meta"`
}

type sessionToken struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
	Identity  *struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"identity"`
}

func testConfig() *config.Config {
	return &config.Config{
		Env:       "test",
		APIPrefix: "/api/v1",
		Session:   config.SessionConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "campus-events-test"},
		Roles: config.RolesConfig{
			StudentDomains: []string{"alumnos.usm.cl"},
			StaffDomains:   []string{"usm.cl"},
		},
		Events:  config.EventsConfig{SeedSamples: true, DefaultLimit: 50, MaxLimit: 100},
		Tickets: config.TicketsConfig{Secret: "ticket-secret", TTL: time.Hour, Size: 128},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

type testClient struct {
	t      *testing.T
	router http.Handler
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	metrics := service.NewMetricsService()
	store := kvstore.WithObserver(kvstore.NewMemoryStore(), metrics)
	srv := NewServer(cfg, BuildServices(cfg, store, metrics, nil), nil)
	return &testClient{t: t, router: srv.Router}
}

func (tc *testClient) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	tc.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(tc.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error, w.Body.String())
	return env.Error.Code
}

func (tc *testClient) startSession() string {
	tc.t.Helper()
	w := tc.do(http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(tc.t, http.StatusCreated, w.Code)
	var token sessionToken
	require.NoError(tc.t, json.Unmarshal(decodeEnvelope(tc.t, w).Data, &token))
	require.NotEmpty(tc.t, token.Token)
	return token.Token
}

func (tc *testClient) login(email, token string) sessionToken {
	tc.t.Helper()
	w := tc.do(http.MethodPost, "/api/v1/auth/login", token, map[string]string{"email": email})
	require.Equal(tc.t, http.StatusOK, w.Code, w.Body.String())
	var out sessionToken
	require.NoError(tc.t, json.Unmarshal(decodeEnvelope(tc.t, w).Data, &out))
	return out
}

func TestHealthEndpoints(t *testing.T) {
	tc := newTestClient(t)

	assert.Equal(t, http.StatusOK, tc.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, tc.do(http.MethodGet, "/ready", "", nil).Code)

	tc.do(http.MethodGet, "/api/v1/events", "", nil)
	w := tc.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
	assert.Contains(t, w.Body.String(), "store_operation_duration_seconds")
}

func TestListSeededEvents(t *testing.T) {
	tc := newTestClient(t)

	w := tc.do(http.MethodGet, "/api/v1/events?limit=4", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var events []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &events))
	assert.Len(t, events, 4)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 6, env.Pagination.TotalCount)
	assert.Equal(t, "1", events[0]["id"])
	assert.NotEmpty(t, events[0]["displayDate"])

	w = tc.do(http.MethodGet, "/api/v1/events?category=cultural&category=deportivo&audience=publico", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w)
	var filters []map[string]string
	require.NoError(t, json.Unmarshal(env.Meta["filters"], &filters))
	assert.Equal(t, []map[string]string{
		{"type": "category", "value": "cultural"},
		{"type": "category", "value": "sports"},
		{"type": "audience", "value": "public"},
	}, filters)

	w = tc.do(http.MethodGet, "/api/v1/events?filter=colour:red", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	w = tc.do(http.MethodGet, "/api/v1/events?filter=nonsense", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = tc.do(http.MethodGet, "/api/v1/events/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnonymousEnrollment(t *testing.T) {
	tc := newTestClient(t)
	token := tc.startSession()

	w := tc.do(http.MethodPost, "/api/v1/events/1/enrollment", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "LOGIN_REQUIRED", errorCode(t, w))

	w = tc.do(http.MethodPost, "/api/v1/events/2/enrollment", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "anonymous sign-ups must name the attendee")

	w = tc.do(http.MethodPost, "/api/v1/events/2/enrollment", token, map[string]string{"email": "dora"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = tc.do(http.MethodPost, "/api/v1/events/2/enrollment", token, map[string]string{"email": "dora@gmail.com", "name": "Dora"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &record))
	assert.Equal(t, "external", record["attendeeRole"])

	w = tc.do(http.MethodGet, "/api/v1/me/enrollments", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "2", records[0]["eventId"])

	assert.Equal(t, http.StatusUnauthorized, tc.do(http.MethodGet, "/api/v1/me/enrollments", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, tc.do(http.MethodGet, "/api/v1/me/enrollments", "forged", nil).Code)
}

func TestSignedInEnrollmentFlow(t *testing.T) {
	tc := newTestClient(t)
	anon := tc.startSession()
	session := tc.login("ana@alumnos.usm.cl", anon)
	require.NotNil(t, session.Identity)
	assert.Equal(t, "student", session.Identity.Role)

	w := tc.do(http.MethodGet, "/api/v1/auth/me", session.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = tc.do(http.MethodPost, "/api/v1/events/1/enrollment", session.Token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = tc.do(http.MethodPost, "/api/v1/events/1/enrollment", session.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, "repeat enrollment is idempotent")

	w = tc.do(http.MethodGet, "/api/v1/events/1", "", nil)
	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &event))
	assert.EqualValues(t, 157, event["attendees"])

	w = tc.do(http.MethodGet, "/api/v1/me/enrollments/1", session.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = tc.do(http.MethodGet, "/api/v1/me/enrollments/2", session.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = tc.do(http.MethodGet, "/api/v1/me/enrollments?format=csv", session.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "Evento")

	w = tc.do(http.MethodGet, "/api/v1/me/enrollments?format=xml", session.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = tc.do(http.MethodGet, "/api/v1/me/calendar.ics", session.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), "BEGIN:VEVENT"))

	w = tc.do(http.MethodGet, "/api/v1/me/enrollments/1/ticket.png", session.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	ticketToken := w.Header().Get("X-Ticket-Token")
	require.NotEmpty(t, ticketToken)

	w = tc.do(http.MethodPost, "/api/v1/tickets/verify", "", map[string]string{"token": ticketToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = tc.do(http.MethodPost, "/api/v1/tickets/verify", "", map[string]string{"token": ticketToken + "0"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = tc.do(http.MethodDelete, "/api/v1/events/1/enrollment", session.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = tc.do(http.MethodPost, "/api/v1/tickets/verify", "", map[string]string{"token": ticketToken})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, tc.do(http.MethodGet, "/api/v1/me/enrollments/1/ticket.png", session.Token, nil).Code)
}

func TestLogoutKeepsEnrollments(t *testing.T) {
	tc := newTestClient(t)
	session := tc.login("bob@usm.cl", "")

	require.Equal(t, http.StatusCreated, tc.do(http.MethodPost, "/api/v1/events/2/enrollment", session.Token, nil).Code)
	require.Equal(t, http.StatusNoContent, tc.do(http.MethodPost, "/api/v1/auth/logout", session.Token, nil).Code)

	w := tc.do(http.MethodGet, "/api/v1/auth/me", session.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = tc.do(http.MethodGet, "/api/v1/me/enrollments", session.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &records))
	assert.Len(t, records, 1)
}

func TestRefusedEnrollments(t *testing.T) {
	tc := newTestClient(t)
	staff := tc.login("bob@usm.cl", "")
	external := tc.login("eve@gmail.com", "")

	w := tc.do(http.MethodPost, "/api/v1/events/1/enrollment", staff.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ENROLLMENT_REFUSED", errorCode(t, w))

	w = tc.do(http.MethodPost, "/api/v1/events/1/enrollment", external.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = tc.do(http.MethodPost, "/api/v1/events/missing/enrollment", staff.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = tc.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventAuthoring(t *testing.T) {
	tc := newTestClient(t)
	staff := tc.login("bob@usm.cl", "")
	student := tc.login("ana@alumnos.usm.cl", "")
	payload := map[string]interface{}{
		"title":        "Taller de robótica",
		"date":         "2024-12-10",
		"time":         "15:00 - 17:00",
		"location":     "Laboratorio 3",
		"category":     "academic",
		"audienceType": "students",
		"maxAttendees": 1,
	}

	assert.Equal(t, http.StatusUnauthorized, tc.do(http.MethodPost, "/api/v1/events", "", payload).Code)
	assert.Equal(t, http.StatusForbidden, tc.do(http.MethodPost, "/api/v1/events", student.Token, payload).Code)

	invalid := map[string]interface{}{"title": "Sin fecha"}
	assert.Equal(t, http.StatusBadRequest, tc.do(http.MethodPost, "/api/v1/events", staff.Token, invalid).Code)

	w := tc.do(http.MethodPost, "/api/v1/events", staff.Token, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))
	id := created["id"].(string)
	assert.EqualValues(t, 0, created["attendees"])
	assert.Equal(t, false, created["isHighlighted"])

	require.Equal(t, http.StatusCreated, tc.do(http.MethodPost, "/api/v1/events/"+id+"/enrollment", student.Token, nil).Code)
	other := tc.login("carla@alumnos.usm.cl", "")
	w = tc.do(http.MethodPost, "/api/v1/events/"+id+"/enrollment", other.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EVENT_FULL", errorCode(t, w))

	w = tc.do(http.MethodPut, "/api/v1/events/"+id, staff.Token, map[string]interface{}{"title": "Taller avanzado", "clearMaxAttendees": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, http.StatusCreated, tc.do(http.MethodPost, "/api/v1/events/"+id+"/enrollment", other.Token, nil).Code)

	require.Equal(t, http.StatusNoContent, tc.do(http.MethodDelete, "/api/v1/events/"+id, staff.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, tc.do(http.MethodDelete, "/api/v1/events/"+id, staff.Token, nil).Code)

	w = tc.do(http.MethodGet, "/api/v1/me/enrollments", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &records))
	assert.Empty(t, records, "enrollments in deleted events are dropped")
}

func TestFilterOptionsAndCalendar(t *testing.T) {
	tc := newTestClient(t)

	w := tc.do(http.MethodGet, "/api/v1/filters/options", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Público General")

	w = tc.do(http.MethodGet, "/api/v1/calendar/events.ics?audience=public", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Equal(t, 3, strings.Count(w.Body.String(), "BEGIN:VEVENT"))
}
