package ai

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/core/internal/config"
	"github.com/studybuddy/core/internal/middleware"
	"github.com/studybuddy/core/internal/modules/leveling"
	"github.com/studybuddy/core/internal/modules/xp"
	"github.com/studybuddy/core/internal/pkg/response"
	"go.uber.org/zap"
)

const unavailableMessage = "AI service temporarily unavailable. Please try again in a moment."

type Handler struct {
	gw     *Gateway
	ledger *xp.Service
	cfg    *config.AppConfig
	logger *zap.Logger
}

func NewHandler(gw *Gateway, ledger *xp.Service, cfg *config.AppConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{gw: gw, ledger: ledger, cfg: cfg, logger: logger.Named("ai")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/ai", authMW)
	g.POST("/generate", h.generate)
	g.GET("/providers", h.listProviders)
}

type generateDTO struct {
	Topic      string `json:"topic" binding:"required"`
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	Provider   string `json:"provider"`
	Action     string `json:"action"` // "generate" (default) or "pdf"
}

const (
	ActionGenerate = "generate"
	ActionPDF      = "pdf"
)

// NormalizeAction returns action if known, ActionGenerate otherwise.
func NormalizeAction(action string) string {
	if action == ActionPDF {
		return ActionPDF
	}
	return ActionGenerate
}

// awardFor returns the points and ledger label for one chat request. PDF
// analysis earns a bonus on top of the mode award.
func awardFor(mode, action string) (int, string) {
	points := xp.PointsForMode(mode)
	if action == ActionPDF {
		points += xp.PointsPDFBonus
	}
	return points, fmt.Sprintf("chat_%s_%s", mode, action)
}

// POST /ai/generate
func (h *Handler) generate(c *gin.Context) {
	var dto generateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "topic is required")
		return
	}

	topic := TruncateTopic(dto.Topic, config.MaxTopicLength)
	if topic == "" {
		response.BadRequest(c, "please enter prompt text to analyze")
		return
	}

	mode := NormalizeMode(dto.Mode)
	result, err := h.gw.Generate(c.Request.Context(), GenerateRequest{
		Topic:      topic,
		Mode:       mode,
		Difficulty: NormalizeDifficulty(dto.Difficulty),
		Provider:   dto.Provider,
		Timeout:    time.Duration(h.cfg.RequestTimeout) * time.Second,
	})
	if err != nil {
		if !errors.Is(err, ErrAllProvidersFailed) {
			h.logger.Error("generation failed", zap.Error(err))
		}
		response.ServiceUnavailable(c, unavailableMessage)
		return
	}

	userID := middleware.CurrentUserID(c)
	earned, action := awardFor(mode, NormalizeAction(dto.Action))
	total, err := h.ledger.Award(c.Request.Context(), userID, earned, action)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"output":    result.Output,
		"raw":       result.RawText,
		"provider":  result.Provider,
		"warning":   result.Warning,
		"mode":      mode,
		"xp_gained": earned,
		"total_xp":  total,
		"level":     leveling.ForXP(total),
	})
}

// GET /ai/providers — backend ids the client can offer as a preference.
func (h *Handler) listProviders(c *gin.Context) {
	type providerInfo struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Configured bool   `json:"configured"`
	}

	providers := make([]providerInfo, 0, len(h.cfg.AI.Providers))
	for _, p := range h.cfg.AI.Providers {
		providers = append(providers, providerInfo{ID: p.ID, Name: p.Name, Configured: p.Configured()})
	}
	response.OK(c, providers)
}
