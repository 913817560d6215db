package xp

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/core/internal/middleware"
	"github.com/studybuddy/core/internal/modules/leveling"
	"github.com/studybuddy/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/xp", authMW)
	g.GET("", h.getXPCenter)
	g.GET("/events", h.listEvents)
}

// GET /xp — level info, award rules and recent ledger entries.
func (h *Handler) getXPCenter(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	total, err := h.svc.TotalFor(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	events, err := h.svc.RecentEvents(c.Request.Context(), userID, 25)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"xp":     total,
		"level":  leveling.ForXP(total),
		"rules":  Rules(),
		"events": events,
	})
}

// GET /xp/events?limit=
func (h *Handler) listEvents(c *gin.Context) {
	limit := clampLimit(c.DefaultQuery("limit", "20"))
	events, err := h.svc.RecentEvents(c.Request.Context(), middleware.CurrentUserID(c), limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, events)
}

func clampLimit(raw string) int {
	limit := 20
	if n, err := strconv.Atoi(raw); err == nil {
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}
