package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jfsc-dain/audit-system/internal/core/domain"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
)

const (
	defaultTrailLimit = 50
	maxTrailLimit     = 200
)

// AuditTrailHandler lists recorded session lifecycle events. A nil
// repository means the trail is disabled.
type AuditTrailHandler struct {
	repo ports.SessionEventRepository
}

func NewAuditTrailHandler(repo ports.SessionEventRepository) *AuditTrailHandler {
	return &AuditTrailHandler{repo: repo}
}

type auditTrailResponse struct {
	Events []*domain.SessionEvent `json:"events"`
}

// List handles GET /audit-trail.
//
// @Summary      Session audit trail
// @Tags         audit-trail
// @Produce      json
// @Param        user_id  query     string  false  "Filter by user ID"
// @Param        limit    query     int     false  "Maximum events (default 50, max 200)"
// @Success      200      {object}  auditTrailResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Failure      503      {object}  ErrorResponse
// @Router       /audit-trail [get]
func (h *AuditTrailHandler) List(c echo.Context) error {
	if h.repo == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "audit trail disabled")
	}

	limit := defaultTrailLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return &ValidationError{Message: "limit must be a positive integer"}
		}
		limit = min(n, maxTrailLimit)
	}

	events, err := h.repo.ListRecent(c.Request().Context(), c.QueryParam("user_id"), limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*domain.SessionEvent{}
	}
	return c.JSON(http.StatusOK, auditTrailResponse{Events: events})
}
