package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-directory/pkg/response"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Checks map[string]Pinger
	Logger *logrus.Logger
}

func NewHealthHandler(logger *logrus.Logger, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{Checks: checks, Logger: logger}
}

// Live GET /api/healthz
func (h *HealthHandler) Live(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "alive", nil)
}

// Ready GET /api/readyz
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.Checks))
	ready := true
	for name, p := range h.Checks {
		if err := p.Ping(ctx); err != nil {
			ready = false
			status[name] = "down"
			if h.Logger != nil {
				h.Logger.WithError(err).WithField("dependency", name).Warn("readiness check failed")
			}
			continue
		}
		status[name] = "up"
	}

	if !ready {
		response.Error[any](c, http.StatusServiceUnavailable, "not ready", status)
		return
	}
	response.Success(c, http.StatusOK, status, "ready", nil)
}
