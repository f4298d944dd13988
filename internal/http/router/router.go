package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"claimcountdown.app/server/internal/http/handler"
	"claimcountdown.app/server/internal/http/middleware"
	"claimcountdown.app/server/internal/service"
)

type RouterConfig struct {
	MaxUploadBytes int64
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(services.Auth())

	api := router.Group("/api")
	{
		authHandler := handler.NewAuthHandler(services.Auth())
		inviteHandler := handler.NewInviteHandler(services.Invites())
		AuthRouter(api.Group("/auth"), requireAuth, authHandler, inviteHandler)

		claimHandler := handler.NewClaimHandler(services.Claims(), cfg.MaxUploadBytes)
		ClaimRouter(api.Group("/claims", requireAuth), claimHandler)

		settingsHandler := handler.NewSettingsHandler(services.Preferences(), services.Notifications())
		SettingsRouter(api.Group("/settings", requireAuth), settingsHandler)
	}
}
