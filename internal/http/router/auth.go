package router

import (
	"github.com/gin-gonic/gin"

	"claimcountdown.app/server/internal/http/handler"
)

// AuthRouter mounts account and team routes. Register, login and the invite
// redemption pair are public.
func AuthRouter(rg *gin.RouterGroup, requireAuth gin.HandlerFunc, auth *handler.AuthHandler, invites *handler.InviteHandler) {
	rg.POST("/register", auth.Register)
	rg.POST("/login", auth.Login)
	rg.GET("/invites/validate", invites.Validate)
	rg.POST("/accept-invite", invites.Accept)

	protected := rg.Group("", requireAuth)
	{
		protected.POST("/logout", auth.Logout)
		protected.GET("/me", auth.Me)
		protected.POST("/invite", invites.Create)
		protected.GET("/invites", invites.List)
		protected.GET("/members", invites.Members)
	}
}
