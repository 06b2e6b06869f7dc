package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler exposes liveness and readiness probes
type HealthHandler struct {
	serviceName string
	db          *sql.DB
}

// NewHealthHandler creates a new HealthHandler. db may be nil, in which
// case readiness only reports process liveness.
func NewHealthHandler(serviceName string, db *sql.DB) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, db: db}
}

// RegisterOn attaches the probes directly to the engine, outside the
// versioned API prefix
func (h *HealthHandler) RegisterOn(engine *gin.Engine) {
	engine.GET("/health", h.Live)
	engine.GET("/ready", h.Ready)
}

// Live reports process liveness
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.serviceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready reports whether the service can reach its database
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"reason": "database unreachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
