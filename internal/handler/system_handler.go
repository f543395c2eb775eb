package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/arcade-hub-api/internal/models"
	"github.com/noah-isme/arcade-hub-api/pkg/response"
)

type systemMetrics interface {
	Handler() http.Handler
	Snapshot() models.SystemMetrics
}

// ReadinessCheck pings one dependency.
type ReadinessCheck func(ctx context.Context) error

// SystemHandler exposes observability endpoints.
type SystemHandler struct {
	metrics     systemMetrics
	checks      map[string]ReadinessCheck
	storeDriver string
	timeout     time.Duration
}

// NewSystemHandler constructs a system handler. checks are keyed by dependency name.
func NewSystemHandler(metrics systemMetrics, checks map[string]ReadinessCheck, storeDriver string) *SystemHandler {
	return &SystemHandler{metrics: metrics, checks: checks, storeDriver: storeDriver, timeout: 2 * time.Second}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *SystemHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary Readiness probe
// @Description Pings every configured dependency
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": results})
}

// System godoc
// @Summary Runtime metrics summary
// @Tags System
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.SystemMetrics}
// @Router /admin/system [get]
func (h *SystemHandler) System(c *gin.Context) {
	var snapshot models.SystemMetrics
	if h.metrics != nil {
		snapshot = h.metrics.Snapshot()
	}
	snapshot.StoreDriver = h.storeDriver
	if snapshot.GeneratedAt.IsZero() {
		snapshot.GeneratedAt = time.Now().UTC()
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}
