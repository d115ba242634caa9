package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything whose liveness /health reports (database, redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	deps map[string]Pinger
}

func NewHealthHandler(deps map[string]Pinger) *HealthHandler { return &HealthHandler{deps: deps} }

func (h *HealthHandler) Priority() int { return 0 }

func (h *HealthHandler) MountAPI(api *gin.RouterGroup) {
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Server is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}

// Probe is the ops endpoint: 503 when any dependency fails its ping.
func (h *HealthHandler) Probe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	status, checks := http.StatusOK, gin.H{}
	for name, p := range h.deps {
		if err := p.Ping(ctx); err != nil {
			status, checks[name] = http.StatusServiceUnavailable, err.Error()
			continue
		}
		checks[name] = "ok"
	}
	c.JSON(status, gin.H{"success": status == http.StatusOK, "data": checks})
}
