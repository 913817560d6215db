package leaderboard

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/leaderboard", authMW, h.getLeaderboard)
}

// GET /leaderboard?limit=
func (h *Handler) getLeaderboard(c *gin.Context) {
	limit := 20
	if n, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	entries, err := h.svc.Top(c.Request.Context(), limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, entries)
}
