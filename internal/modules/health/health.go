// Package health exposes the readiness endpoint used by uptime checks.
package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studybuddy/core/internal/config"
	"gorm.io/gorm"
)

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.AppConfig) {
	rg.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		dbOK := err == nil && sqlDB.PingContext(c.Request.Context()) == nil

		providers := make(map[string]bool, len(cfg.AI.Providers))
		anyProvider := false
		for _, p := range cfg.AI.Providers {
			providers[p.ID] = p.Configured()
			anyProvider = anyProvider || p.Configured()
		}

		status := "ok"
		code := http.StatusOK
		if !dbOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else if !anyProvider {
			status = "degraded"
		}

		c.JSON(code, gin.H{
			"status":    status,
			"database":  dbOK,
			"providers": providers,
		})
	})
}
