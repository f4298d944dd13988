package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"claimcountdown.app/server/core/db"
	"claimcountdown.app/server/internal/model"
)

type digestStore struct {
	db db.DBTX
}

func newDigestStore(conn db.DBTX) DigestStore {
	return &digestStore{db: conn}
}

// ListRecipients returns users whose organization has at least one at-risk
// claim and whose preference (or the default, when no row exists) asks for
// this frequency.
func (s *digestStore) ListRecipients(ctx context.Context, freq model.AlertFrequency, today civil.Date) ([]model.DigestRecipient, error) {
	rows, err := s.db.Query(ctx,
		`SELECT u.id, u.email, u.organization_id,
		        p.user_id, p.email_alerts_enabled, p.alert_frequency, p.created_at, p.updated_at
		 FROM users u
		 LEFT JOIN user_preferences p ON p.user_id = u.id
		 WHERE EXISTS (
		     SELECT 1 FROM claims c
		     WHERE c.organization_id = u.organization_id
		       AND c.deadline_date BETWEEN $1 AND $2
		       AND c.status <> 'approved'
		 )
		 ORDER BY u.organization_id, u.id`,
		dateArg(today), dateArg(today.AddDays(model.AtRiskWindowDays)))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var recipients []model.DigestRecipient
	for rows.Next() {
		var (
			r         model.DigestRecipient
			prefUser  *int64
			enabled   *bool
			frequency *string
			createdAt *time.Time
			updatedAt *time.Time
		)
		if err := rows.Scan(&r.UserID, &r.Email, &r.OrganizationID,
			&prefUser, &enabled, &frequency, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning recipient: %w", err)
		}
		if prefUser != nil {
			r.Preference = &model.Preference{
				UserID:             *prefUser,
				EmailAlertsEnabled: deref(enabled),
				AlertFrequency:     model.AlertFrequency(deref(frequency)),
				CreatedAt:          deref(createdAt),
				UpdatedAt:          deref(updatedAt),
			}
		}
		if !model.WantsDigest(r.Preference, freq) {
			continue
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
