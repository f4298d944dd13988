package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"claimcountdown.app/server/common/id"
	"claimcountdown.app/server/common/logger"
	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/store"
)

const MinPasswordLength = 6

type RegisterParams struct {
	Email            string
	Password         string
	OrganizationName string
}

// UserView is the caller-facing profile: the user plus its organization name.
type UserView struct {
	ID               int64
	Email            string
	OrganizationID   int64
	OrganizationName string
	Role             model.Role
}

type Session struct {
	Token string
	User  UserView
}

type AuthService interface {
	Register(ctx context.Context, params RegisterParams) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (model.Identity, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, identity model.Identity) (*UserView, error)
}

type authService struct {
	stores   StoreProvider
	txRunner TxRunner
	tokens   *TokenIssuer
	denylist TokenDenylist
}

func NewAuthService(stores StoreProvider, txRunner TxRunner, tokens *TokenIssuer, denylist TokenDenylist) AuthService {
	return &authService{
		stores:   stores,
		txRunner: txRunner,
		tokens:   tokens,
		denylist: denylist,
	}
}

func (s *authService) Register(ctx context.Context, params RegisterParams) (*Session, error) {
	email := strings.TrimSpace(params.Email)
	if email == "" || params.Password == "" {
		return nil, ErrCredentialsRequired
	}
	if len(params.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.stores.Users().GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	hash, err := hashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	orgName := strings.TrimSpace(params.OrganizationName)
	if orgName == "" {
		orgName = defaultOrganizationName(email)
	}

	org := &model.Organization{ID: id.New(), Name: orgName}
	user := &model.User{
		ID:             id.New(),
		Email:          email,
		PasswordHash:   hash,
		OrganizationID: org.ID,
		Role:           model.RoleOwner,
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Organizations().Create(ctx, org); err != nil {
			return fmt.Errorf("creating organization: %w", err)
		}
		if err := stores.Users().Create(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrEmailTaken
			}
			return fmt.Errorf("creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:         &user.ID,
		OrganizationID: &org.ID,
	})
	slog.InfoContext(ctx, "user registered", "email", logger.MaskEmail(email))

	return s.session(user, org)
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	user, err := s.stores.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	org, err := s.stores.Organizations().GetByID(ctx, user.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("getting organization: %w", err)
	}

	return s.session(user, org)
}

func (s *authService) Authenticate(ctx context.Context, token string) (model.Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		slog.DebugContext(ctx, "rejected session token", "error", err)
		return model.Identity{}, ErrInvalidToken
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return model.Identity{}, fmt.Errorf("checking token revocation: %w", err)
	}
	if revoked {
		return model.Identity{}, ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return model.Identity{}, ErrInvalidToken
	}

	user, err := s.stores.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Identity{}, ErrInvalidToken
		}
		return model.Identity{}, fmt.Errorf("getting user: %w", err)
	}

	return model.IdentityOf(user), nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	slog.InfoContext(ctx, "session revoked", "jti", claims.ID)
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, identity model.Identity) (*UserView, error) {
	user, err := s.stores.Users().GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	org, err := s.stores.Organizations().GetByID(ctx, user.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("getting organization: %w", err)
	}

	view := userView(user, org)
	return &view, nil
}

func (s *authService) session(user *model.User, org *model.Organization) (*Session, error) {
	return issueSession(s.tokens, user, org)
}

func issueSession(tokens *TokenIssuer, user *model.User, org *model.Organization) (*Session, error) {
	token, err := tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: userView(user, org)}, nil
}

func userView(user *model.User, org *model.Organization) UserView {
	return UserView{
		ID:               user.ID,
		Email:            user.Email,
		OrganizationID:   user.OrganizationID,
		OrganizationName: org.Name,
		Role:             user.Role,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func defaultOrganizationName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local + "'s Team"
}

// scopeOf builds the tenant scope for an authenticated caller.
func scopeOf(identity model.Identity) (store.Scope, error) {
	scope, err := store.NewScope(identity.OrganizationID)
	if err != nil {
		return store.Scope{}, fmt.Errorf("scoping caller %d: %w", identity.UserID, err)
	}
	return scope, nil
}
