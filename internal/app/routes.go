package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/studybuddy/core/internal/middleware"
	"github.com/studybuddy/core/internal/modules/ai"
	"github.com/studybuddy/core/internal/modules/assistant"
	"github.com/studybuddy/core/internal/modules/health"
	"github.com/studybuddy/core/internal/modules/leaderboard"
	"github.com/studybuddy/core/internal/modules/markdown"
	"github.com/studybuddy/core/internal/modules/score"
	"github.com/studybuddy/core/internal/modules/user"
	"github.com/studybuddy/core/internal/modules/xp"
	pkgredis "github.com/studybuddy/core/internal/pkg/redis"
	"github.com/studybuddy/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	var raw *goredis.Client
	if rc != nil {
		raw = rc.Raw()
	}
	r.Use(middleware.RateLimit(raw, a.cfg.RateLimitPerMinute))

	// Shared services
	ledger := xp.NewService(db)
	gateway := ai.NewGateway(ai.BuildBackends(a.cfg.AI.Providers), markdown.Sanitize, a.logger)

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth())

	health.RegisterRoutes(api, db, a.cfg)
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	requestTimeout := time.Duration(a.cfg.RequestTimeout) * time.Second
	user.NewHandler(user.NewService(db, requestTimeout)).RegisterRoutes(api, authMW)
	ai.NewHandler(gateway, ledger, a.cfg, a.logger).RegisterRoutes(api, authMW)
	xp.NewHandler(ledger).RegisterRoutes(api, authMW)
	score.NewHandler(score.NewService(db, ledger)).RegisterRoutes(api, authMW)
	leaderboard.NewHandler(leaderboard.NewService(db)).RegisterRoutes(api, authMW)
	assistant.NewHandler(assistant.NewService(db)).RegisterRoutes(api, authMW)
}
