package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huddlesocial/huddle/internal/app/models/dto"
	"github.com/rs/zerolog"
)

// Pinger is a dependency the health check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck names one checked dependency. A failing required check makes the
// service unhealthy; a failing optional one only degrades it.
type HealthCheck struct {
	Name     string
	Target   Pinger
	Required bool
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks"`
}

// HealthController reports the state of the backing services
type HealthController struct {
	checks  []HealthCheck
	timeout time.Duration
	logger  zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(logger zerolog.Logger, checks ...HealthCheck) *HealthController {
	return &HealthController{checks: checks, timeout: 2 * time.Second, logger: logger}
}

// Health godoc
// @Summary Health check
// @Description Pings the database and the cache. Status is ok, degraded (cache down) or unavailable.
// @Tags operational
// @Produce json
// @Success 200 {object} dto.APIResponse{data=HealthResponse}
// @Failure 503 {object} dto.APIResponse{data=HealthResponse}
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(c.checks))}
	status := http.StatusOK
	for _, check := range c.checks {
		if err := check.Target.Ping(pingCtx); err != nil {
			c.logger.Warn().Err(err).Str("check", check.Name).Msg("Health check failed")
			resp.Checks[check.Name] = "down"
			if check.Required {
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
			} else if resp.Status == "ok" {
				resp.Status = "degraded"
			}
			continue
		}
		resp.Checks[check.Name] = "ok"
	}

	body := dto.NewSuccessResponse(resp)
	body.Success = status == http.StatusOK
	ctx.JSON(status, body)
}
