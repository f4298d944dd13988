package service

import (
	"context"

	"claimcountdown.app/server/core/db"
	"claimcountdown.app/server/internal/store"
)

// StoreProvider is the store surface the services use. *store.Stores
// implements it, both on the pool and inside a transaction.
type StoreProvider interface {
	Organizations() store.OrganizationStore
	Users() store.UserStore
	InviteRedemptions() store.InviteRedemptionStore
	Digests() store.DigestStore
	Claims(scope store.Scope) store.ClaimStore
	Invites(scope store.Scope) store.InviteStore
	Members(scope store.Scope) store.MemberStore
	Preferences(scope store.Scope) store.PreferenceStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(tx db.DBTX) error {
		return fn(store.NewStores(tx))
	})
}
