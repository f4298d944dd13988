package store

import (
	"context"

	"cloud.google.com/go/civil"

	"claimcountdown.app/server/internal/model"
)

// OrganizationStore defines the contract for organization data access
type OrganizationStore interface {
	Create(ctx context.Context, org *model.Organization) error
	GetByID(ctx context.Context, id int64) (*model.Organization, error)
}

// UserStore defines the contract for user data access. Users are looked up
// across tenants during registration, login and invite acceptance.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// ClaimStore is bound to one organization. Derived fields are computed
// relative to the today argument.
type ClaimStore interface {
	InsertBatch(ctx context.Context, uploadedBy int64, candidates []model.ClaimCandidate) (int64, error)
	List(ctx context.Context, today civil.Date) ([]model.Claim, error)
	ListAtRisk(ctx context.Context, today civil.Date) ([]model.Claim, error)
	Stats(ctx context.Context, today civil.Date) (model.ClaimStats, error)
	SetStatus(ctx context.Context, id int64, status model.ClaimStatus) (*model.Claim, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// InviteStore is bound to one organization.
type InviteStore interface {
	Create(ctx context.Context, invite *model.Invite) error
	GetPendingByEmail(ctx context.Context, email string) (*model.Invite, error)
	List(ctx context.Context) ([]model.Invite, error)
}

// InviteRedemptionStore resolves invites by token, before the caller has an
// organization.
type InviteRedemptionStore interface {
	GetPendingByToken(ctx context.Context, token string) (*model.Invite, error)
	// LockPendingByToken must run inside a transaction.
	LockPendingByToken(ctx context.Context, token string) (*model.Invite, error)
	MarkAccepted(ctx context.Context, id int64) (int64, error)
}

// MemberStore is bound to one organization.
type MemberStore interface {
	List(ctx context.Context) ([]model.User, error)
}

// PreferenceStore is bound to one organization; users outside it read as
// not found.
type PreferenceStore interface {
	Get(ctx context.Context, userID int64) (*model.Preference, error)
	CreateDefault(ctx context.Context, userID int64) (*model.Preference, error)
	Upsert(ctx context.Context, pref *model.Preference) error
}

// DigestStore selects digest recipients across all organizations.
type DigestStore interface {
	ListRecipients(ctx context.Context, freq model.AlertFrequency, today civil.Date) ([]model.DigestRecipient, error)
}
