package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"claimcountdown.app/server/internal/model"
)

const preferenceColumns = `user_id, email_alerts_enabled, alert_frequency, created_at, updated_at`

type preferenceStore struct {
	db tenantDB
}

func newPreferenceStore(db tenantDB) PreferenceStore {
	return &preferenceStore{db: db}
}

func (s *preferenceStore) Get(ctx context.Context, userID int64) (*model.Preference, error) {
	p, err := scanPreference(s.db.QueryRow(ctx,
		`SELECT p.user_id, p.email_alerts_enabled, p.alert_frequency, p.created_at, p.updated_at
		 FROM user_preferences p
		 JOIN users u ON u.id = p.user_id
		 WHERE u.organization_id = $1 AND p.user_id = $2`,
		userID))
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

// CreateDefault inserts the default row. If another request created it first,
// ErrNotFound is returned and the caller should read it again.
func (s *preferenceStore) CreateDefault(ctx context.Context, userID int64) (*model.Preference, error) {
	p, err := scanPreference(s.db.QueryRow(ctx,
		`INSERT INTO user_preferences (user_id)
		 SELECT u.id FROM users u WHERE u.organization_id = $1 AND u.id = $2
		 ON CONFLICT (user_id) DO NOTHING
		 RETURNING `+preferenceColumns,
		userID))
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *preferenceStore) Upsert(ctx context.Context, pref *model.Preference) error {
	p, err := scanPreference(s.db.QueryRow(ctx,
		`INSERT INTO user_preferences (user_id, email_alerts_enabled, alert_frequency)
		 SELECT u.id, $3, $4 FROM users u WHERE u.organization_id = $1 AND u.id = $2
		 ON CONFLICT (user_id) DO UPDATE
		    SET email_alerts_enabled = EXCLUDED.email_alerts_enabled,
		        alert_frequency = EXCLUDED.alert_frequency,
		        updated_at = now()
		 RETURNING `+preferenceColumns,
		pref.UserID, pref.EmailAlertsEnabled, string(pref.AlertFrequency)))
	if err != nil {
		return mapErr(err)
	}
	*pref = *p
	return nil
}

func scanPreference(row pgx.Row) (*model.Preference, error) {
	var p model.Preference
	var freq string
	if err := row.Scan(&p.UserID, &p.EmailAlertsEnabled, &freq, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.AlertFrequency = model.AlertFrequency(freq)
	return &p, nil
}
