package model

import "time"

type AlertFrequency string

const (
	AlertFrequencyWeekly AlertFrequency = "weekly"
	AlertFrequencyDaily  AlertFrequency = "daily"
)

func (f AlertFrequency) IsValid() bool {
	return f == AlertFrequencyWeekly || f == AlertFrequencyDaily
}

type Preference struct {
	UserID             int64          `json:"user_id"`
	EmailAlertsEnabled bool           `json:"email_alerts_enabled"`
	AlertFrequency     AlertFrequency `json:"alert_frequency"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// DefaultPreference is what a user without a stored row gets: alerts on, weekly.
func DefaultPreference(userID int64) Preference {
	return Preference{
		UserID:             userID,
		EmailAlertsEnabled: true,
		AlertFrequency:     AlertFrequencyWeekly,
	}
}

// WantsDigest applies the lazy-default rule: a missing preference row behaves
// exactly like DefaultPreference.
func WantsDigest(p *Preference, freq AlertFrequency) bool {
	if p == nil {
		d := DefaultPreference(0)
		p = &d
	}
	return p.EmailAlertsEnabled && p.AlertFrequency == freq
}

// DigestRecipient is a user eligible for a digest run, with their stored
// preference if one exists.
type DigestRecipient struct {
	UserID         int64
	Email          string
	OrganizationID int64
	Preference     *Preference
}
