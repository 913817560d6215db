package score

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/core/internal/middleware"
	"github.com/studybuddy/core/internal/modules/xp"
	"github.com/studybuddy/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/scores", authMW)
	g.POST("", h.save)
	g.GET("/history", h.history)
	g.GET("/stats", h.stats)
	g.GET("/export", h.export)
}

type saveDTO struct {
	Topic      string `json:"topic"`
	Score      int    `json:"score"`
	Total      int    `json:"total" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
	Provider   string `json:"provider"`
}

// POST /scores
func (h *Handler) save(c *gin.Context) {
	var dto saveDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.svc.Save(c.Request.Context(), middleware.CurrentUserID(c),
		dto.Topic, dto.Difficulty, dto.Provider, dto.Score, dto.Total)
	switch {
	case errors.Is(err, ErrInvalidDifficulty), errors.Is(err, ErrInvalidScoreRange):
		response.UnprocessableEntity(c, err.Error())
		return
	case errors.Is(err, xp.ErrUserNotFound):
		response.NotFoundMsg(c, "user not found")
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}
	response.Created(c, res)
}

// GET /scores/history?q=&limit=
func (h *Handler) history(c *gin.Context) {
	limit := 20
	if n, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		limit = n
	}
	rows, err := h.svc.History(c.Request.Context(), middleware.CurrentUserID(c), c.Query("q"), limit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, rows)
}

// GET /scores/stats
func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.StatsFor(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, stats)
}

// GET /scores/export — plain-text quiz report for download.
func (h *Handler) export(c *gin.Context) {
	rows, err := h.svc.Export(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	var b strings.Builder
	b.WriteString("StudyBuddy quiz history\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "[%s] %s | %s | %d/%d (%s)\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Topic, r.Difficulty, r.Score, r.Total, r.Provider)
	}

	c.Header("Content-Disposition", `attachment; filename="quiz_history.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}
