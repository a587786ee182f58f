package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/pkg/kvstore"
)

// HealthHandler exposes liveness, readiness and Prometheus endpoints.
type HealthHandler struct {
	store   kvstore.Store
	metrics http.Handler
}

// NewHealthHandler constructs the handler. metrics may be nil when disabled.
func NewHealthHandler(store kvstore.Store, metrics http.Handler) *HealthHandler {
	return &HealthHandler{store: store, metrics: metrics}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *HealthHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.ServeHTTP(c.Writer, c.Request)
}

// Health reports that the process is up.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the store answers a read.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if _, err := h.store.Get(ctx, readinessKey); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

const readinessKey = "readiness-probe"
