package service

import (
	"time"

	"claimcountdown.app/server/internal/digest"
	"claimcountdown.app/server/internal/mailer"
)

type Services struct {
	stores      StoreProvider
	txRunner    TxRunner
	tokens      *TokenIssuer
	denylist    TokenDenylist
	mailer      mailer.Mailer
	digests     *digest.Builder
	frontendURL string
	now         func() time.Time
}

func NewServices(
	stores StoreProvider,
	txRunner TxRunner,
	tokens *TokenIssuer,
	denylist TokenDenylist,
	m mailer.Mailer,
	frontendURL string,
) *Services {
	return &Services{
		stores:      stores,
		txRunner:    txRunner,
		tokens:      tokens,
		denylist:    denylist,
		mailer:      m,
		digests:     digest.NewBuilder(frontendURL),
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores, s.txRunner, s.tokens, s.denylist)
}

func (s *Services) Invites() InviteService {
	return NewInviteService(s.stores, s.txRunner, s.tokens, s.frontendURL, s.now)
}

func (s *Services) Claims() ClaimService {
	return NewClaimService(s.stores, s.now)
}

func (s *Services) Preferences() PreferenceService {
	return NewPreferenceService(s.stores)
}

func (s *Services) Notifications() NotificationService {
	return NewNotificationService(s.Claims(), s.digests, s.mailer)
}
