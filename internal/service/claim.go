package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"

	"claimcountdown.app/server/common/logger"
	"claimcountdown.app/server/internal/claimcsv"
	"claimcountdown.app/server/internal/deadline"
	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/store"
)

// MaxUploadRows bounds a single CSV upload.
const MaxUploadRows = 50_000

const (
	OutcomeUpdated  = "updated"
	OutcomeDeleted  = "deleted"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

type UploadResult struct {
	Total        int
	Reimbursable int
	Imported     int64
}

// ClaimFilter narrows List. Zero values mean no filter.
type ClaimFilter struct {
	Urgency model.Urgency
	Status  model.ClaimStatus
}

type BulkOutcome struct {
	ID     int64
	Result string
}

type ClaimService interface {
	Upload(ctx context.Context, identity model.Identity, r io.Reader) (*UploadResult, error)
	List(ctx context.Context, identity model.Identity, filter ClaimFilter) ([]model.Claim, error)
	Stats(ctx context.Context, identity model.Identity) (model.ClaimStats, error)
	SetStatus(ctx context.Context, identity model.Identity, claimID int64, status model.ClaimStatus) (*model.Claim, error)
	BulkSetStatus(ctx context.Context, identity model.Identity, claimIDs []int64, status model.ClaimStatus) ([]BulkOutcome, error)
	Delete(ctx context.Context, identity model.Identity, claimID int64) error
	BulkDelete(ctx context.Context, identity model.Identity, claimIDs []int64) ([]BulkOutcome, error)
	Export(ctx context.Context, identity model.Identity, w io.Writer) error
	Today() civil.Date
}

type claimService struct {
	stores StoreProvider
	now    func() time.Time
}

func NewClaimService(stores StoreProvider, now func() time.Time) ClaimService {
	if now == nil {
		now = time.Now
	}
	return &claimService{stores: stores, now: now}
}

func (s *claimService) Today() civil.Date {
	return deadline.Today(s.now())
}

// Upload validates the whole file before writing anything, then stores every
// reimbursable row in one batch.
func (s *claimService) Upload(ctx context.Context, identity model.Identity, r io.Reader) (*UploadResult, error) {
	scope, err := scopeOf(identity)
	if err != nil {
		return nil, err
	}

	candidates, err := claimcsv.Parse(r, claimcsv.ParseOptions{MaxRows: MaxUploadRows})
	if err != nil {
		slog.WarnContext(ctx, "rejected claims upload", "error", err)
		return nil, validationf("%s", err.Error())
	}

	reimbursable := claimcsv.FilterReimbursable(candidates)
	result := &UploadResult{
		Total:        len(candidates),
		Reimbursable: len(reimbursable),
	}
	if len(reimbursable) == 0 {
		return result, nil
	}

	n, err := s.stores.Claims(scope).InsertBatch(ctx, identity.UserID, reimbursable)
	if err != nil {
		return nil, fmt.Errorf("inserting claims: %w", err)
	}
	result.Imported = n

	slog.InfoContext(ctx, "claims imported",
		"total_rows", result.Total,
		"reimbursable", result.Reimbursable,
		"imported", n)

	return result, nil
}

func (s *claimService) List(ctx context.Context, identity model.Identity, filter ClaimFilter) ([]model.Claim, error) {
	if filter.Urgency != "" && !filter.Urgency.IsValid() {
		return nil, ErrInvalidUrgency
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	claims, err := s.list(ctx, identity)
	if err != nil {
		return nil, err
	}

	if filter.Urgency != "" {
		claims = model.FilterByUrgency(claims, filter.Urgency)
	}
	if filter.Status != "" {
		claims = model.FilterByStatus(claims, filter.Status)
	}
	return claims, nil
}

func (s *claimService) Stats(ctx context.Context, identity model.Identity) (model.ClaimStats, error) {
	scope, err := scopeOf(identity)
	if err != nil {
		return model.ClaimStats{}, err
	}

	stats, err := s.stores.Claims(scope).Stats(ctx, s.Today())
	if err != nil {
		return model.ClaimStats{}, fmt.Errorf("aggregating claims: %w", err)
	}
	return stats, nil
}

func (s *claimService) SetStatus(ctx context.Context, identity model.Identity, claimID int64, status model.ClaimStatus) (*model.Claim, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	scope, err := scopeOf(identity)
	if err != nil {
		return nil, err
	}

	return s.setStatus(ctx, s.stores.Claims(scope), claimID, status)
}

// BulkSetStatus applies SetStatus to each id independently. Earlier updates
// stand when a later id fails.
func (s *claimService) BulkSetStatus(ctx context.Context, identity model.Identity, claimIDs []int64, status model.ClaimStatus) ([]BulkOutcome, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if len(claimIDs) == 0 {
		return nil, ErrNoClaimIDs
	}

	scope, err := scopeOf(identity)
	if err != nil {
		return nil, err
	}
	claims := s.stores.Claims(scope)

	outcomes := make([]BulkOutcome, 0, len(claimIDs))
	for _, claimID := range claimIDs {
		_, err := s.setStatus(ctx, claims, claimID, status)
		outcomes = append(outcomes, BulkOutcome{ID: claimID, Result: outcomeOf(err, OutcomeUpdated)})
		if err != nil && !errors.Is(err, ErrClaimNotFound) {
			slog.ErrorContext(ctx, "bulk status update failed for claim", "claim_id", claimID, "error", err)
		}
	}
	return outcomes, nil
}

func (s *claimService) Delete(ctx context.Context, identity model.Identity, claimID int64) error {
	scope, err := scopeOf(identity)
	if err != nil {
		return err
	}
	return s.delete(ctx, s.stores.Claims(scope), claimID)
}

func (s *claimService) BulkDelete(ctx context.Context, identity model.Identity, claimIDs []int64) ([]BulkOutcome, error) {
	if len(claimIDs) == 0 {
		return nil, ErrNoClaimIDs
	}

	scope, err := scopeOf(identity)
	if err != nil {
		return nil, err
	}
	claims := s.stores.Claims(scope)

	outcomes := make([]BulkOutcome, 0, len(claimIDs))
	for _, claimID := range claimIDs {
		err := s.delete(ctx, claims, claimID)
		outcomes = append(outcomes, BulkOutcome{ID: claimID, Result: outcomeOf(err, OutcomeDeleted)})
		if err != nil && !errors.Is(err, ErrClaimNotFound) {
			slog.ErrorContext(ctx, "bulk delete failed for claim", "claim_id", claimID, "error", err)
		}
	}
	return outcomes, nil
}

func (s *claimService) Export(ctx context.Context, identity model.Identity, w io.Writer) error {
	claims, err := s.list(ctx, identity)
	if err != nil {
		return err
	}
	if err := claimcsv.Export(w, claims); err != nil {
		return fmt.Errorf("exporting claims: %w", err)
	}
	return nil
}

func (s *claimService) list(ctx context.Context, identity model.Identity) ([]model.Claim, error) {
	scope, err := scopeOf(identity)
	if err != nil {
		return nil, err
	}

	claims, err := s.stores.Claims(scope).List(ctx, s.Today())
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	return claims, nil
}

func (s *claimService) setStatus(ctx context.Context, claims store.ClaimStore, claimID int64, status model.ClaimStatus) (*model.Claim, error) {
	c, err := claims.SetStatus(ctx, claimID, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, fmt.Errorf("updating claim status: %w", err)
	}
	c.Derive(s.Today())

	ctx = logger.WithLogFields(ctx, logger.LogFields{ClaimID: &claimID})
	slog.InfoContext(ctx, "claim status changed", "status", status)
	return c, nil
}

func (s *claimService) delete(ctx context.Context, claims store.ClaimStore, claimID int64) error {
	n, err := claims.Delete(ctx, claimID)
	if err != nil {
		return fmt.Errorf("deleting claim: %w", err)
	}
	if n == 0 {
		return ErrClaimNotFound
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{ClaimID: &claimID})
	slog.InfoContext(ctx, "claim deleted")
	return nil
}

func outcomeOf(err error, success string) string {
	switch {
	case err == nil:
		return success
	case errors.Is(err, ErrClaimNotFound):
		return OutcomeNotFound
	default:
		return OutcomeFailed
	}
}
