package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

type fakeResolver struct {
	sessions map[string]*models.Session
}

func (f fakeResolver) Resolve(_ context.Context, token string) (*models.Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token")
}

var resolver = fakeResolver{sessions: map[string]*models.Session{
	"anon":  {ID: "s-anon"},
	"staff": {ID: "s-staff", Identity: &models.Identity{Email: "bob@usm.cl", Role: models.RoleStaff}},
	"ana":   {ID: "s-ana", Identity: &models.Identity{Email: "ana@alumnos.usm.cl", Role: models.RoleStudent}},
}}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		session := SessionFromContext(c)
		if session == nil {
			c.String(http.StatusOK, "none")
			return
		}
		c.String(http.StatusOK, session.ID)
	})
	r.GET("/probe", handlers...)
	return r
}

func serve(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionRequiresToken(t *testing.T) {
	r := newRouter(Session(resolver))

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "forged").Code)

	w := serve(r, "anon")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s-anon", w.Body.String())
}

func TestOptionalSessionNeverBlocks(t *testing.T) {
	r := newRouter(OptionalSession(resolver))

	assert.Equal(t, "none", serve(r, "").Body.String())
	assert.Equal(t, "none", serve(r, "forged").Body.String())
	assert.Equal(t, "s-ana", serve(r, "ana").Body.String())
}

func TestRequireRolesStaffOnly(t *testing.T) {
	r := newRouter(Session(resolver), RequireRoles(models.RoleStaff))

	assert.Equal(t, http.StatusUnauthorized, serve(r, "anon").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "ana").Code)
	assert.Equal(t, http.StatusOK, serve(r, "staff").Code)
}

type observed struct {
	method, path string
	status       int
}

type observerFunc func(method, path string, status int, d time.Duration)

func (f observerFunc) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	f(method, path, status, d)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got []observed
	r := gin.New()
	r.Use(Metrics(observerFunc(func(method, path string, status int, _ time.Duration) {
		got = append(got, observed{method, path, status})
	})))
	r.GET("/events/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/events/1", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, []observed{
		{http.MethodGet, "/events/:id", http.StatusNoContent},
		{http.MethodGet, "unmatched", http.StatusNotFound},
	}, got)
}
