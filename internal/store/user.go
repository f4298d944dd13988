package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"claimcountdown.app/server/core/db"
	"claimcountdown.app/server/internal/model"
)

const userColumns = `id, email, password_hash, organization_id, role, created_at`

type userStore struct {
	db db.DBTX
}

func newUserStore(conn db.DBTX) UserStore {
	return &userStore{db: conn}
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, organization_id, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		user.ID, user.Email, user.PasswordHash, user.OrganizationID, string(user.Role),
	)
	created, err := scanUser(row)
	if err != nil {
		return mapErr(err)
	}
	*user = *created
	return nil
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.OrganizationID, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}
