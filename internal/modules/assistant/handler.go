package assistant

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/core/internal/middleware"
	"github.com/studybuddy/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/assistant", authMW, h.answer)
}

type messageDTO struct {
	Message string `json:"message" binding:"required"`
}

// POST /assistant
func (h *Handler) answer(c *gin.Context) {
	var dto messageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "message is required")
		return
	}

	reply, err := h.svc.Answer(c.Request.Context(), middleware.CurrentUserID(c), dto.Message)
	switch {
	case errors.Is(err, ErrEmptyMessage):
		response.BadRequest(c, err.Error())
		return
	case err != nil:
		response.InternalError(c, err)
		return
	}
	response.OK(c, reply)
}
