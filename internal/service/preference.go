package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/store"
)

// PreferenceUpdate carries optional fields. A nil EmailAlertsEnabled means
// true and a nil AlertFrequency means weekly.
type PreferenceUpdate struct {
	EmailAlertsEnabled *bool
	AlertFrequency     *model.AlertFrequency
}

type PreferenceService interface {
	Get(ctx context.Context, identity model.Identity) (*model.Preference, error)
	Update(ctx context.Context, identity model.Identity, update PreferenceUpdate) (*model.Preference, error)
}

type preferenceService struct {
	stores StoreProvider
}

func NewPreferenceService(stores StoreProvider) PreferenceService {
	return &preferenceService{stores: stores}
}

// Get returns the caller's preference, creating the default row on first read.
func (s *preferenceService) Get(ctx context.Context, identity model.Identity) (*model.Preference, error) {
	scope, err := scopeOf(identity)
	if err != nil {
		return nil, err
	}
	prefs := s.stores.Preferences(scope)

	pref, err := prefs.Get(ctx, identity.UserID)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("getting preferences: %w", err)
	}

	pref, err = prefs.CreateDefault(ctx, identity.UserID)
	if err == nil {
		slog.DebugContext(ctx, "created default preferences")
		return pref, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("creating default preferences: %w", err)
	}

	// Lost the insert race; the row exists now.
	pref, err = prefs.Get(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("getting preferences: %w", err)
	}
	return pref, nil
}

func (s *preferenceService) Update(ctx context.Context, identity model.Identity, update PreferenceUpdate) (*model.Preference, error) {
	pref := model.DefaultPreference(identity.UserID)
	if update.EmailAlertsEnabled != nil {
		pref.EmailAlertsEnabled = *update.EmailAlertsEnabled
	}
	if update.AlertFrequency != nil {
		if !update.AlertFrequency.IsValid() {
			return nil, ErrInvalidFrequency
		}
		pref.AlertFrequency = *update.AlertFrequency
	}

	scope, err := scopeOf(identity)
	if err != nil {
		return nil, err
	}

	if err := s.stores.Preferences(scope).Upsert(ctx, &pref); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("saving preferences: %w", err)
	}

	slog.InfoContext(ctx, "preferences updated",
		"email_alerts_enabled", pref.EmailAlertsEnabled,
		"alert_frequency", pref.AlertFrequency)
	return &pref, nil
}
