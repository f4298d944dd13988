package store

import (
	"context"
	"fmt"

	"claimcountdown.app/server/internal/model"
)

type memberStore struct {
	db tenantDB
}

func newMemberStore(db tenantDB) MemberStore {
	return &memberStore{db: db}
}

func (s *memberStore) List(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE organization_id = $1
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var members []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, *u)
	}
	return members, rows.Err()
}
