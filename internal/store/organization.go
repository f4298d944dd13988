package store

import (
	"context"

	"claimcountdown.app/server/core/db"
	"claimcountdown.app/server/internal/model"
)

type organizationStore struct {
	db db.DBTX
}

func newOrganizationStore(conn db.DBTX) OrganizationStore {
	return &organizationStore{db: conn}
}

func (s *organizationStore) Create(ctx context.Context, org *model.Organization) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO organizations (id, name) VALUES ($1, $2) RETURNING created_at`,
		org.ID, org.Name,
	).Scan(&org.CreatedAt)
	return mapErr(err)
}

func (s *organizationStore) GetByID(ctx context.Context, id int64) (*model.Organization, error) {
	var org model.Organization
	err := s.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM organizations WHERE id = $1`,
		id,
	).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &org, nil
}
