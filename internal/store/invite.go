package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"claimcountdown.app/server/core/db"
	"claimcountdown.app/server/internal/model"
)

const inviteColumns = `id, organization_id, email, token, invited_by, status, created_at, expires_at`

type inviteStore struct {
	db tenantDB
}

func newInviteStore(db tenantDB) InviteStore {
	return &inviteStore{db: db}
}

// Create inserts a pending invite. A second pending invite for the same email
// in the organization fails with ErrDuplicate.
func (s *inviteStore) Create(ctx context.Context, inv *model.Invite) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO invites (organization_id, id, email, token, invited_by, status, expires_at)
		 VALUES ($1, $2, $3, $4, $5, 'pending', $6)
		 RETURNING `+inviteColumns,
		inv.ID, inv.Email, inv.Token, inv.InvitedBy, inv.ExpiresAt)
	created, err := scanInvite(row)
	if err != nil {
		return mapErr(err)
	}
	*inv = *created
	return nil
}

func (s *inviteStore) GetPendingByEmail(ctx context.Context, email string) (*model.Invite, error) {
	inv, err := scanInvite(s.db.QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM invites
		 WHERE organization_id = $1 AND email = $2 AND status = 'pending'`,
		email))
	if err != nil {
		return nil, mapErr(err)
	}
	return inv, nil
}

func (s *inviteStore) List(ctx context.Context) ([]model.Invite, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+inviteColumns+` FROM invites
		 WHERE organization_id = $1
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var invites []model.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invite: %w", err)
		}
		invites = append(invites, *inv)
	}
	return invites, rows.Err()
}

type inviteRedemptionStore struct {
	db db.DBTX
}

func newInviteRedemptionStore(conn db.DBTX) InviteRedemptionStore {
	return &inviteRedemptionStore{db: conn}
}

func (s *inviteRedemptionStore) GetPendingByToken(ctx context.Context, token string) (*model.Invite, error) {
	inv, err := scanInvite(s.db.QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token = $1 AND status = 'pending'`,
		token))
	if err != nil {
		return nil, mapErr(err)
	}
	return inv, nil
}

func (s *inviteRedemptionStore) LockPendingByToken(ctx context.Context, token string) (*model.Invite, error) {
	inv, err := scanInvite(s.db.QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token = $1 AND status = 'pending' FOR UPDATE`,
		token))
	if err != nil {
		return nil, mapErr(err)
	}
	return inv, nil
}

// MarkAccepted flips a pending invite to accepted. Zero rows means it was
// already accepted.
func (s *inviteRedemptionStore) MarkAccepted(ctx context.Context, inviteID int64) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE invites SET status = 'accepted' WHERE id = $1 AND status = 'pending'`,
		inviteID)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}

func scanInvite(row pgx.Row) (*model.Invite, error) {
	var inv model.Invite
	var status string
	err := row.Scan(
		&inv.ID,
		&inv.OrganizationID,
		&inv.Email,
		&inv.Token,
		&inv.InvitedBy,
		&status,
		&inv.CreatedAt,
		&inv.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = model.InviteStatus(status)
	return &inv, nil
}
