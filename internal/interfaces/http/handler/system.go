package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotel/backend/internal/interfaces/http/dto"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the health endpoint
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	storeName string
	store     Pinger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. storeName is the configured
// store driver.
func NewSystemHandler(name, version, storeName string, store Pinger) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		storeName: storeName,
		store:     store,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Name      string `json:"name" example:"hotel-backend"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Store     string `json:"store" example:"memory"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports whether the document store is reachable
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Store:     h.storeName,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	status := http.StatusOK
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
