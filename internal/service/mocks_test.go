package service_test

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"claimcountdown.app/server/internal/mailer"
	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/service"
	"claimcountdown.app/server/internal/store"
)

type mockStores struct {
	orgs        *mockOrganizationStore
	users       *mockUserStore
	redemptions *mockInviteRedemptionStore
	claims      *mockClaimStore
	invites     *mockInviteStore
	members     *mockMemberStore
	prefs       *mockPreferenceStore
	scopes      []store.Scope
}

func newMockStores() *mockStores {
	return &mockStores{
		orgs:        &mockOrganizationStore{},
		users:       &mockUserStore{},
		redemptions: &mockInviteRedemptionStore{},
		claims:      &mockClaimStore{},
		invites:     &mockInviteStore{},
		members:     &mockMemberStore{},
		prefs:       &mockPreferenceStore{},
	}
}

func (m *mockStores) Organizations() store.OrganizationStore {
	return m.orgs
}

func (m *mockStores) Users() store.UserStore {
	return m.users
}

func (m *mockStores) InviteRedemptions() store.InviteRedemptionStore {
	return m.redemptions
}

func (m *mockStores) Digests() store.DigestStore {
	return nil
}

func (m *mockStores) Claims(scope store.Scope) store.ClaimStore {
	m.scopes = append(m.scopes, scope)
	return m.claims
}

func (m *mockStores) Invites(scope store.Scope) store.InviteStore {
	m.scopes = append(m.scopes, scope)
	return m.invites
}

func (m *mockStores) Members(scope store.Scope) store.MemberStore {
	m.scopes = append(m.scopes, scope)
	return m.members
}

func (m *mockStores) Preferences(scope store.Scope) store.PreferenceStore {
	m.scopes = append(m.scopes, scope)
	return m.prefs
}

type mockTxRunner struct {
	stores service.StoreProvider
	calls  int
}

func (m *mockTxRunner) WithTx(_ context.Context, fn func(stores service.StoreProvider) error) error {
	m.calls++
	return fn(m.stores)
}

type mockOrganizationStore struct {
	createFn    func(ctx context.Context, org *model.Organization) error
	getByIDFn   func(ctx context.Context, id int64) (*model.Organization, error)
	createCalls int
}

func (m *mockOrganizationStore) Create(ctx context.Context, org *model.Organization) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, org)
	}
	return nil
}

func (m *mockOrganizationStore) GetByID(ctx context.Context, id int64) (*model.Organization, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &model.Organization{ID: id, Name: "Acme"}, nil
}

type mockUserStore struct {
	createFn     func(ctx context.Context, user *model.User) error
	getByIDFn    func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn func(ctx context.Context, email string) (*model.User, error)
	created      []*model.User
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, user); err != nil {
			return err
		}
	}
	m.created = append(m.created, user)
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrNotFound
}

type mockInviteRedemptionStore struct {
	getPendingByTokenFn  func(ctx context.Context, token string) (*model.Invite, error)
	lockPendingByTokenFn func(ctx context.Context, token string) (*model.Invite, error)
	markAcceptedFn       func(ctx context.Context, id int64) (int64, error)
}

func (m *mockInviteRedemptionStore) GetPendingByToken(ctx context.Context, token string) (*model.Invite, error) {
	if m.getPendingByTokenFn != nil {
		return m.getPendingByTokenFn(ctx, token)
	}
	return nil, store.ErrNotFound
}

func (m *mockInviteRedemptionStore) LockPendingByToken(ctx context.Context, token string) (*model.Invite, error) {
	if m.lockPendingByTokenFn != nil {
		return m.lockPendingByTokenFn(ctx, token)
	}
	return nil, store.ErrNotFound
}

func (m *mockInviteRedemptionStore) MarkAccepted(ctx context.Context, id int64) (int64, error) {
	if m.markAcceptedFn != nil {
		return m.markAcceptedFn(ctx, id)
	}
	return 1, nil
}

type mockClaimStore struct {
	insertBatchFn func(ctx context.Context, uploadedBy int64, candidates []model.ClaimCandidate) (int64, error)
	listFn        func(ctx context.Context, today civil.Date) ([]model.Claim, error)
	listAtRiskFn  func(ctx context.Context, today civil.Date) ([]model.Claim, error)
	statsFn       func(ctx context.Context, today civil.Date) (model.ClaimStats, error)
	setStatusFn   func(ctx context.Context, id int64, status model.ClaimStatus) (*model.Claim, error)
	deleteFn      func(ctx context.Context, id int64) (int64, error)
	insertCalls   int
}

func (m *mockClaimStore) InsertBatch(ctx context.Context, uploadedBy int64, candidates []model.ClaimCandidate) (int64, error) {
	m.insertCalls++
	if m.insertBatchFn != nil {
		return m.insertBatchFn(ctx, uploadedBy, candidates)
	}
	return int64(len(candidates)), nil
}

func (m *mockClaimStore) List(ctx context.Context, today civil.Date) ([]model.Claim, error) {
	if m.listFn != nil {
		return m.listFn(ctx, today)
	}
	return []model.Claim{}, nil
}

func (m *mockClaimStore) ListAtRisk(ctx context.Context, today civil.Date) ([]model.Claim, error) {
	if m.listAtRiskFn != nil {
		return m.listAtRiskFn(ctx, today)
	}
	return []model.Claim{}, nil
}

func (m *mockClaimStore) Stats(ctx context.Context, today civil.Date) (model.ClaimStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, today)
	}
	return model.ClaimStats{}, nil
}

func (m *mockClaimStore) SetStatus(ctx context.Context, id int64, status model.ClaimStatus) (*model.Claim, error) {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, id, status)
	}
	return &model.Claim{ID: id, Status: status}, nil
}

func (m *mockClaimStore) Delete(ctx context.Context, id int64) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return 1, nil
}

type mockInviteStore struct {
	createFn            func(ctx context.Context, invite *model.Invite) error
	getPendingByEmailFn func(ctx context.Context, email string) (*model.Invite, error)
	listFn              func(ctx context.Context) ([]model.Invite, error)
}

func (m *mockInviteStore) Create(ctx context.Context, invite *model.Invite) error {
	if m.createFn != nil {
		return m.createFn(ctx, invite)
	}
	return nil
}

func (m *mockInviteStore) GetPendingByEmail(ctx context.Context, email string) (*model.Invite, error) {
	if m.getPendingByEmailFn != nil {
		return m.getPendingByEmailFn(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *mockInviteStore) List(ctx context.Context) ([]model.Invite, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockMemberStore struct {
	listFn func(ctx context.Context) ([]model.User, error)
}

func (m *mockMemberStore) List(ctx context.Context) ([]model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockPreferenceStore struct {
	getFn           func(ctx context.Context, userID int64) (*model.Preference, error)
	createDefaultFn func(ctx context.Context, userID int64) (*model.Preference, error)
	upsertFn        func(ctx context.Context, pref *model.Preference) error
}

func (m *mockPreferenceStore) Get(ctx context.Context, userID int64) (*model.Preference, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, store.ErrNotFound
}

func (m *mockPreferenceStore) CreateDefault(ctx context.Context, userID int64) (*model.Preference, error) {
	if m.createDefaultFn != nil {
		return m.createDefaultFn(ctx, userID)
	}
	p := model.DefaultPreference(userID)
	return &p, nil
}

func (m *mockPreferenceStore) Upsert(ctx context.Context, pref *model.Preference) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, pref)
	}
	return nil
}

type mockDenylist struct {
	revoked map[string]time.Time
	err     error
}

func newMockDenylist() *mockDenylist {
	return &mockDenylist{revoked: map[string]time.Time{}}
}

func (m *mockDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.revoked[jti] = until
	return nil
}

func (m *mockDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[jti]
	return ok, nil
}

type mockMailer struct {
	sendFn func(ctx context.Context, msg mailer.Message) error
	sent   []mailer.Message
}

func (m *mockMailer) Send(ctx context.Context, msg mailer.Message) error {
	if m.sendFn != nil {
		if err := m.sendFn(ctx, msg); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

// fixedClock is a controllable time source.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.t
}
