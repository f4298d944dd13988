package model

import "time"

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
)

// Invite binds an email to a pending membership of an organization.
// Expiry is derived from ExpiresAt; an expired invite stays pending in storage.
type Invite struct {
	ID             int64        `json:"id"`
	OrganizationID int64        `json:"organization_id"`
	Email          string       `json:"email"`
	Token          string       `json:"-"`
	InvitedBy      int64        `json:"invited_by"`
	Status         InviteStatus `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	ExpiresAt      time.Time    `json:"expires_at"`
}

func (i *Invite) IsExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
