package handler

import (
	"github.com/gin-gonic/gin"
	activityapp "github.com/hotel/backend/internal/application/activity"
	"github.com/hotel/backend/internal/interfaces/http/middleware"
)

// ActivityHandler serves the audit trail
type ActivityHandler struct {
	BaseHandler
	activityService *activityapp.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *activityapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List godoc
// @Summary      Recent activity
// @Description  Newest first. limit defaults to 50 and is capped at 500.
// @Tags         activity
// @Produce      json
// @Param        limit query int false "Maximum entries"
// @Param        entityType query string false "Entity type filter"
// @Param        entityId query string false "Entity ID filter"
// @Success      200 {object} APIResponse[[]activityapp.ActivityLogResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /activity-logs [get]
func (h *ActivityHandler) List(c *gin.Context) {
	var req activityapp.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	logs, err := h.activityService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, logs, len(logs))
}
