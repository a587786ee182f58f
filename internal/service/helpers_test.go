package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/repository"
	"github.com/noah-isme/campus-events-api/pkg/kvstore"
)

var (
	testStudentDomains = []string{"alumnos.usm.cl", "estudiantes.usm.cl"}
	testStaffDomains   = []string{"usm.cl", "funcionarios.usm.cl"}
	testNow            = time.Date(2024, time.November, 20, 10, 0, 0, 0, time.UTC)
)

func testRoles() *RoleInferrer {
	return NewRoleInferrer(testStudentDomains, testStaffDomains)
}

type recordingMetrics struct {
	calls []string
}

func (m *recordingMetrics) RecordEnrollment(action, outcome string) {
	m.calls = append(m.calls, action+":"+outcome)
}

type testEnv struct {
	store       *kvstore.MemoryStore
	events      *repository.EventRepository
	enrollments *repository.EnrollmentRepository
	sessions    *repository.SessionRepository
	metrics     *recordingMetrics
	service     *EnrollmentService
}

func newTestEnv(t *testing.T, catalog ...models.Event) *testEnv {
	t.Helper()
	store := kvstore.NewMemoryStore()
	events := repository.NewEventRepository(store, nil, nil)
	if len(catalog) > 0 {
		_, err := events.Update(context.Background(), func([]models.Event) ([]models.Event, bool, error) {
			return catalog, true, nil
		})
		require.NoError(t, err)
	}
	enrollments := repository.NewEnrollmentRepository(store, nil)
	metrics := &recordingMetrics{}
	svc := NewEnrollmentService(enrollments, events, NewEligibility(testRoles()), metrics, nil)
	svc.now = func() time.Time { return testNow }
	return &testEnv{
		store:       store,
		events:      events,
		enrollments: enrollments,
		sessions:    repository.NewSessionRepository(store, nil),
		metrics:     metrics,
		service:     svc,
	}
}

func (e *testEnv) event(t *testing.T, id string) models.Event {
	t.Helper()
	ev, err := e.events.FindByID(context.Background(), id)
	require.NoError(t, err)
	return *ev
}

func intPtr(n int) *int { return &n }

func anonymous(id string) *models.Session {
	return &models.Session{ID: id}
}

func signedIn(id, email string) *models.Session {
	return &models.Session{ID: id, Identity: &models.Identity{Email: email, Role: testRoles().InferRole(email)}}
}
