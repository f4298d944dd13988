package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"claimcountdown.app/server/common/id"
	"claimcountdown.app/server/common/logger"
	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/store"
)

const (
	InviteTokenLength = 32
	InviteExpiryDays  = 7
)

type CreatedInvite struct {
	Invite *model.Invite
	Link   string
}

// InvitePreview is what an unauthenticated visitor learns from a valid token.
type InvitePreview struct {
	Email            string
	OrganizationName string
	ExpiresAt        time.Time
}

type InviteSummary struct {
	model.Invite
	Expired bool
}

type InviteService interface {
	Create(ctx context.Context, identity model.Identity, email string) (*CreatedInvite, error)
	Validate(ctx context.Context, token string) (*InvitePreview, error)
	Accept(ctx context.Context, token, password string) (*Session, error)
	List(ctx context.Context, identity model.Identity) ([]InviteSummary, error)
	ListMembers(ctx context.Context, identity model.Identity) ([]model.User, error)
}

type inviteService struct {
	stores      StoreProvider
	txRunner    TxRunner
	tokens      *TokenIssuer
	frontendURL string
	now         func() time.Time
}

func NewInviteService(stores StoreProvider, txRunner TxRunner, tokens *TokenIssuer, frontendURL string, now func() time.Time) InviteService {
	if now == nil {
		now = time.Now
	}
	return &inviteService{
		stores:      stores,
		txRunner:    txRunner,
		tokens:      tokens,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		now:         now,
	}
}

func (s *inviteService) Create(ctx context.Context, identity model.Identity, email string) (*CreatedInvite, error) {
	if !identity.IsOwner() {
		return nil, ErrOwnerRequired
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, validationf("email is required")
	}

	scope, err := scopeOf(identity)
	if err != nil {
		return nil, err
	}

	if _, err := s.stores.Users().GetByEmail(ctx, email); err == nil {
		return nil, ErrInviteEmailRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	invites := s.stores.Invites(scope)

	// An expired invite still blocks a new one until it is accepted.
	if _, err := invites.GetPendingByEmail(ctx, email); err == nil {
		return nil, ErrInvitePendingExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("looking up pending invite: %w", err)
	}

	token, err := generateSecureToken(InviteTokenLength)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	inv := &model.Invite{
		ID:        id.New(),
		Email:     email,
		Token:     token,
		InvitedBy: identity.UserID,
		Status:    model.InviteStatusPending,
		ExpiresAt: s.now().Add(InviteExpiryDays * 24 * time.Hour),
	}

	if err := invites.Create(ctx, inv); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrInvitePendingExists
		}
		return nil, fmt.Errorf("creating invite: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{InviteID: &inv.ID})
	slog.InfoContext(ctx, "invite created",
		"email", logger.MaskEmail(email),
		"expires_at", inv.ExpiresAt)

	return &CreatedInvite{
		Invite: inv,
		Link:   fmt.Sprintf("%s/accept-invite?token=%s", s.frontendURL, token),
	}, nil
}

func (s *inviteService) Validate(ctx context.Context, token string) (*InvitePreview, error) {
	if token == "" {
		return nil, ErrInviteNotFound
	}

	inv, err := s.stores.InviteRedemptions().GetPendingByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("getting invite: %w", err)
	}

	if inv.IsExpiredAt(s.now()) {
		return nil, ErrInviteExpired
	}

	org, err := s.stores.Organizations().GetByID(ctx, inv.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("getting organization: %w", err)
	}

	return &InvitePreview{
		Email:            inv.Email,
		OrganizationName: org.Name,
		ExpiresAt:        inv.ExpiresAt,
	}, nil
}

// Accept redeems a pending invite exactly once. The lookup, member creation and
// status flip share one transaction; the row lock serializes concurrent accepts.
func (s *inviteService) Accept(ctx context.Context, token, password string) (*Session, error) {
	if token == "" {
		return nil, ErrInviteNotFound
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	var (
		user *model.User
		org  *model.Organization
	)
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		inv, err := stores.InviteRedemptions().LockPendingByToken(ctx, token)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteNotFound
			}
			return fmt.Errorf("locking invite: %w", err)
		}

		if inv.IsExpiredAt(s.now()) {
			return ErrInviteExpired
		}

		if _, err := stores.Users().GetByEmail(ctx, inv.Email); err == nil {
			return ErrInviteEmailRegistered
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("looking up user: %w", err)
		}

		user = &model.User{
			ID:             id.New(),
			Email:          inv.Email,
			PasswordHash:   hash,
			OrganizationID: inv.OrganizationID,
			Role:           model.RoleMember,
		}
		if err := stores.Users().Create(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrInviteEmailRegistered
			}
			return fmt.Errorf("creating member: %w", err)
		}

		n, err := stores.InviteRedemptions().MarkAccepted(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("accepting invite: %w", err)
		}
		if n == 0 {
			return ErrInviteNotFound
		}

		org, err = stores.Organizations().GetByID(ctx, inv.OrganizationID)
		if err != nil {
			return fmt.Errorf("getting organization: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:         &user.ID,
		OrganizationID: &user.OrganizationID,
	})
	slog.InfoContext(ctx, "invite accepted", "email", logger.MaskEmail(user.Email))

	return issueSession(s.tokens, user, org)
}

func (s *inviteService) List(ctx context.Context, identity model.Identity) ([]InviteSummary, error) {
	if !identity.IsOwner() {
		return nil, ErrOwnerRequired
	}

	scope, err := scopeOf(identity)
	if err != nil {
		return nil, err
	}

	invites, err := s.stores.Invites(scope).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing invites: %w", err)
	}

	now := s.now()
	out := make([]InviteSummary, 0, len(invites))
	for _, inv := range invites {
		out = append(out, InviteSummary{
			Invite:  inv,
			Expired: inv.Status == model.InviteStatusPending && inv.IsExpiredAt(now),
		})
	}
	return out, nil
}

func (s *inviteService) ListMembers(ctx context.Context, identity model.Identity) ([]model.User, error) {
	if !identity.IsOwner() {
		return nil, ErrOwnerRequired
	}

	scope, err := scopeOf(identity)
	if err != nil {
		return nil, err
	}

	members, err := s.stores.Members(scope).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return members, nil
}

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
