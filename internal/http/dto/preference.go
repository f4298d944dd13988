package dto

import (
	"time"

	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/service"
)

type PreferenceResponse struct {
	EmailAlertsEnabled bool                 `json:"email_alerts_enabled"`
	AlertFrequency     model.AlertFrequency `json:"alert_frequency"`
	UpdatedAt          *time.Time           `json:"updated_at,omitempty"`
}

type UpdatePreferenceRequest struct {
	EmailAlertsEnabled *bool                 `json:"email_alerts_enabled"`
	AlertFrequency     *model.AlertFrequency `json:"alert_frequency"`
}

type TestEmailResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

func ToPreferenceResponse(p *model.Preference) PreferenceResponse {
	resp := PreferenceResponse{
		EmailAlertsEnabled: p.EmailAlertsEnabled,
		AlertFrequency:     p.AlertFrequency,
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = &p.UpdatedAt
	}
	return resp
}

func (r UpdatePreferenceRequest) ToUpdate() service.PreferenceUpdate {
	return service.PreferenceUpdate{
		EmailAlertsEnabled: r.EmailAlertsEnabled,
		AlertFrequency:     r.AlertFrequency,
	}
}
