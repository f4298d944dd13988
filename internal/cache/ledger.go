package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"claimcountdown.app/server/internal/model"
)

// Ledger records which digests went out so a repeated trigger for the same
// period does not mail a user twice.
type Ledger interface {
	// Reserve claims the (frequency, period, user) slot. It returns false when
	// the slot was already taken.
	Reserve(ctx context.Context, freq model.AlertFrequency, period string, userID int64) (bool, error)
	// Release frees a slot after a failed send so the next trigger retries.
	Release(ctx context.Context, freq model.AlertFrequency, period string, userID int64) error
}

type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

func (l *RedisLedger) Reserve(ctx context.Context, freq model.AlertFrequency, period string, userID int64) (bool, error) {
	ok, err := l.client.SetNX(ctx, ledgerKey(freq, period, userID), time.Now().UTC().Format(time.RFC3339), ledgerTTL(freq)).Result()
	if err != nil {
		return false, fmt.Errorf("reserving digest slot: %w", err)
	}
	return ok, nil
}

func (l *RedisLedger) Release(ctx context.Context, freq model.AlertFrequency, period string, userID int64) error {
	if err := l.client.Del(ctx, ledgerKey(freq, period, userID)).Err(); err != nil {
		return fmt.Errorf("releasing digest slot: %w", err)
	}
	return nil
}

// NoopLedger always grants the slot.
type NoopLedger struct{}

func (NoopLedger) Reserve(context.Context, model.AlertFrequency, string, int64) (bool, error) {
	return true, nil
}

func (NoopLedger) Release(context.Context, model.AlertFrequency, string, int64) error {
	return nil
}

// Period names the delivery window a run belongs to: the ISO week for weekly
// digests ("2024-W22") and the calendar day for daily ones.
func Period(freq model.AlertFrequency, now time.Time) string {
	now = now.UTC()
	if freq == model.AlertFrequencyDaily {
		return now.Format(time.DateOnly)
	}
	year, week := now.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func ledgerKey(freq model.AlertFrequency, period string, userID int64) string {
	return fmt.Sprintf("%sdigest:%s:%s:%d", keyPrefix, freq, period, userID)
}

// Slots outlive their period by a day to absorb late retries.
func ledgerTTL(freq model.AlertFrequency) time.Duration {
	if freq == model.AlertFrequencyDaily {
		return 48 * time.Hour
	}
	return 8 * 24 * time.Hour
}
