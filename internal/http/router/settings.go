package router

import (
	"github.com/gin-gonic/gin"

	"claimcountdown.app/server/internal/http/handler"
)

func SettingsRouter(rg *gin.RouterGroup, h *handler.SettingsHandler) {
	rg.GET("/preferences", h.GetPreferences)
	rg.PUT("/preferences", h.UpdatePreferences)
	rg.POST("/test-email", h.SendTestEmail)
}
