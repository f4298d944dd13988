package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"claimcountdown.app/server/internal/http/dto"
	"claimcountdown.app/server/internal/service"
)

type SettingsHandler struct {
	preferenceService   service.PreferenceService
	notificationService service.NotificationService
}

func NewSettingsHandler(preferenceService service.PreferenceService, notificationService service.NotificationService) *SettingsHandler {
	return &SettingsHandler{
		preferenceService:   preferenceService,
		notificationService: notificationService,
	}
}

func (h *SettingsHandler) GetPreferences(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	pref, err := h.preferenceService.Get(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "get preferences")
		return
	}

	c.JSON(http.StatusOK, dto.ToPreferenceResponse(pref))
}

func (h *SettingsHandler) UpdatePreferences(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	pref, err := h.preferenceService.Update(c.Request.Context(), identity, req.ToUpdate())
	if err != nil {
		respondError(c, err, "update preferences")
		return
	}

	c.JSON(http.StatusOK, dto.ToPreferenceResponse(pref))
}

func (h *SettingsHandler) SendTestEmail(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	if err := h.notificationService.SendTest(c.Request.Context(), identity); err != nil {
		respondError(c, err, "send test email")
		return
	}

	c.JSON(http.StatusOK, dto.TestEmailResponse{
		Message: "Test email sent successfully!",
		Email:   identity.Email,
	})
}
