package store

import (
	"claimcountdown.app/server/core/db"
)

type Stores struct {
	db db.DBTX
}

func NewStores(conn db.DBTX) *Stores {
	return &Stores{db: conn}
}

func (s *Stores) Organizations() OrganizationStore {
	return newOrganizationStore(s.db)
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.db)
}

func (s *Stores) InviteRedemptions() InviteRedemptionStore {
	return newInviteRedemptionStore(s.db)
}

func (s *Stores) Digests() DigestStore {
	return newDigestStore(s.db)
}

func (s *Stores) Claims(scope Scope) ClaimStore {
	return newClaimStore(tenantDB{db: s.db, scope: scope})
}

func (s *Stores) Invites(scope Scope) InviteStore {
	return newInviteStore(tenantDB{db: s.db, scope: scope})
}

func (s *Stores) Members(scope Scope) MemberStore {
	return newMemberStore(tenantDB{db: s.db, scope: scope})
}

func (s *Stores) Preferences(scope Scope) PreferenceStore {
	return newPreferenceStore(tenantDB{db: s.db, scope: scope})
}
