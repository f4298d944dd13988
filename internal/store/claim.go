package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"

	"claimcountdown.app/server/common/id"
	"claimcountdown.app/server/internal/model"
)

const claimColumns = `id, organization_id, uploaded_by, sku, fnsku, asin, product_name,
	fulfillment_center_id, detailed_disposition, reason, quantity, currency,
	value::float8, adjustment_date, deadline_date, status, created_at`

// claimCopyColumns excludes organization_id, which tenantDB.CopyFrom prepends.
var claimCopyColumns = []string{
	"id", "uploaded_by", "sku", "fnsku", "asin", "product_name",
	"fulfillment_center_id", "detailed_disposition", "reason", "quantity",
	"currency", "value", "adjustment_date", "deadline_date", "status",
}

type claimStore struct {
	db tenantDB
}

func newClaimStore(db tenantDB) ClaimStore {
	return &claimStore{db: db}
}

// InsertBatch writes all candidates with a single COPY; either every row is
// stored or none is.
func (s *claimStore) InsertBatch(ctx context.Context, uploadedBy int64, candidates []model.ClaimCandidate) (int64, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, []any{
			id.New(),
			uploadedBy,
			c.SKU,
			c.FNSKU,
			c.ASIN,
			c.ProductName,
			c.FulfillmentCenterID,
			c.DetailedDisposition,
			c.Reason,
			int32(c.Quantity),
			c.Currency,
			c.Value,
			dateArg(c.AdjustmentDate),
			dateArg(c.DeadlineDate),
			string(model.ClaimStatusPending),
		})
	}

	n, err := s.db.CopyFrom(ctx, pgx.Identifier{"claims"}, claimCopyColumns, rows)
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

// List returns every claim of the organization, non-expired soonest first and
// expired last.
func (s *claimStore) List(ctx context.Context, today civil.Date) ([]model.Claim, error) {
	claims, err := s.query(ctx, today,
		`SELECT `+claimColumns+` FROM claims
		 WHERE organization_id = $1
		 ORDER BY deadline_date ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	model.SortByUrgency(claims)
	return claims, nil
}

// ListAtRisk returns claims due within the at-risk window that are not
// approved, soonest first.
func (s *claimStore) ListAtRisk(ctx context.Context, today civil.Date) ([]model.Claim, error) {
	return s.query(ctx, today,
		`SELECT `+claimColumns+` FROM claims
		 WHERE organization_id = $1
		   AND deadline_date BETWEEN $2 AND $3
		   AND status <> 'approved'
		 ORDER BY deadline_date ASC, id ASC`,
		dateArg(today), dateArg(today.AddDays(model.AtRiskWindowDays)))
}

func (s *claimStore) Stats(ctx context.Context, today civil.Date) (model.ClaimStats, error) {
	claims, err := s.List(ctx, today)
	if err != nil {
		return model.ClaimStats{}, err
	}
	return model.Summarize(claims), nil
}

func (s *claimStore) SetStatus(ctx context.Context, claimID int64, status model.ClaimStatus) (*model.Claim, error) {
	row := s.db.QueryRow(ctx,
		`UPDATE claims SET status = $3
		 WHERE organization_id = $1 AND id = $2
		 RETURNING `+claimColumns,
		claimID, string(status))
	c, err := scanClaim(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

// Delete returns the number of rows removed; zero means the claim does not
// exist in this organization.
func (s *claimStore) Delete(ctx context.Context, claimID int64) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM claims WHERE organization_id = $1 AND id = $2`,
		claimID)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}

func (s *claimStore) query(ctx context.Context, today civil.Date, sql string, args ...any) ([]model.Claim, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	claims := []model.Claim{}
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		c.Derive(today)
		claims = append(claims, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return claims, nil
}

func scanClaim(row pgx.Row) (*model.Claim, error) {
	var (
		c                    model.Claim
		quantity             int32
		adjustment, deadline time.Time
		status               string
	)
	err := row.Scan(
		&c.ID,
		&c.OrganizationID,
		&c.UploadedBy,
		&c.SKU,
		&c.FNSKU,
		&c.ASIN,
		&c.ProductName,
		&c.FulfillmentCenterID,
		&c.DetailedDisposition,
		&c.Reason,
		&quantity,
		&c.Currency,
		&c.Value,
		&adjustment,
		&deadline,
		&status,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Quantity = int(quantity)
	c.AdjustmentDate = civil.DateOf(adjustment)
	c.DeadlineDate = civil.DateOf(deadline)
	c.Status = model.ClaimStatus(status)
	return &c, nil
}

func dateArg(d civil.Date) time.Time {
	return d.In(time.UTC)
}
