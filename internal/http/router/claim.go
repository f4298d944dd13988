package router

import (
	"github.com/gin-gonic/gin"

	"claimcountdown.app/server/internal/http/handler"
)

func ClaimRouter(rg *gin.RouterGroup, h *handler.ClaimHandler) {
	rg.POST("/upload", h.Upload)
	rg.GET("", h.List)
	rg.GET("/stats", h.Stats)
	rg.GET("/export", h.Export)
	rg.PATCH("/status", h.BulkUpdateStatus)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/bulk-delete", h.BulkDelete)
}
