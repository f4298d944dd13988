package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"claimcountdown.app/server/internal/http/dto"
	"claimcountdown.app/server/internal/http/middleware"
	"claimcountdown.app/server/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	session, err := h.authService.Register(c.Request.Context(), service.RegisterParams{
		Email:            req.Email,
		Password:         req.Password,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		respondError(c, err, "register")
		return
	}

	c.JSON(http.StatusCreated, dto.ToSessionResponse(session))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "log in")
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.authService.Logout(ctx, middleware.GetToken(ctx)); err != nil {
		respondError(c, err, "log out")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "get user info")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
