package store_test

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock/v4"

	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/store"
)

var copyCols = []string{
	"organization_id", "id", "uploaded_by", "sku", "fnsku", "asin", "product_name",
	"fulfillment_center_id", "detailed_disposition", "reason", "quantity",
	"currency", "value", "adjustment_date", "deadline_date", "status",
}

var _ = Describe("ClaimStore", func() {
	const orgA, orgB = int64(100), int64(200)

	var (
		mock   pgxmock.PgxPoolIface
		claims store.ClaimStore
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		mock, err = pgxmock.NewPool()
		Expect(err).NotTo(HaveOccurred())

		scope, err := store.NewScope(orgA)
		Expect(err).NotTo(HaveOccurred())
		claims = store.NewStores(mock).Claims(scope)
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mock.Close()
	})

	Describe("List", func() {
		It("orders non-expired soonest first and expired last", func() {
			rows := mock.NewRows(claimCols)
			addClaimRow(rows, 1, orgA, -5, nil, model.ClaimStatusPending)
			addClaimRow(rows, 2, orgA, 2, nil, model.ClaimStatusPending)
			addClaimRow(rows, 3, orgA, 10, nil, model.ClaimStatusPending)

			mock.ExpectQuery(`SELECT .* FROM claims\s+WHERE organization_id = \$1`).
				WithArgs(orgA).
				WillReturnRows(rows)

			got, err := claims.List(ctx, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(3))

			Expect(got[0].IsExpired).To(BeFalse())
			Expect(got[0].DaysRemaining).To(Equal(2))
			Expect(got[1].IsExpired).To(BeFalse())
			Expect(got[1].DaysRemaining).To(Equal(10))
			Expect(got[2].IsExpired).To(BeTrue())
			Expect(got[2].DaysRemaining).To(Equal(-5))
		})

		It("derives days remaining from the given day", func() {
			rows := mock.NewRows(claimCols)
			addClaimRow(rows, 1, orgA, 0, nil, model.ClaimStatusPending)
			mock.ExpectQuery(`SELECT .* FROM claims`).WithArgs(orgA).WillReturnRows(rows)

			got, err := claims.List(ctx, today.AddDays(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(got[0].DaysRemaining).To(Equal(-1))
			Expect(got[0].IsExpired).To(BeTrue())
			Expect(got[0].DeadlineDate).To(Equal(today))
		})
	})

	Describe("ListAtRisk", func() {
		It("filters by the seven day window", func() {
			rows := mock.NewRows(claimCols)
			addClaimRow(rows, 1, orgA, 3, ptr(9.99), model.ClaimStatusSubmitted)

			mock.ExpectQuery(`deadline_date BETWEEN \$2 AND \$3\s+AND status <> 'approved'`).
				WithArgs(orgA, today.In(time.UTC), today.AddDays(7).In(time.UTC)).
				WillReturnRows(rows)

			got, err := claims.ListAtRisk(ctx, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].IsAtRisk()).To(BeTrue())
			Expect(*got[0].Value).To(Equal(9.99))
		})
	})

	Describe("Stats", func() {
		It("treats missing values as zero", func() {
			rows := mock.NewRows(claimCols)
			addClaimRow(rows, 1, orgA, 2, ptr(10.50), model.ClaimStatusPending)
			addClaimRow(rows, 2, orgA, 20, nil, model.ClaimStatusPending)
			addClaimRow(rows, 3, orgA, -1, ptr(5.25), model.ClaimStatusPending)
			mock.ExpectQuery(`SELECT .* FROM claims`).WithArgs(orgA).WillReturnRows(rows)

			stats, err := claims.Stats(ctx, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats).To(Equal(model.ClaimStats{
				Total:        3,
				Active:       2,
				Expired:      1,
				ExpiringSoon: 1,
				TotalValue:   15.75,
			}))
		})
	})

	Describe("InsertBatch", func() {
		It("copies every candidate with the scope's organization id", func() {
			adj := civil.Date{Year: 2024, Month: 5, Day: 1}
			candidates := []model.ClaimCandidate{
				{SKU: "A", Reason: "Lost", Currency: "USD", AdjustmentDate: adj, DeadlineDate: adj.AddDays(60)},
				{SKU: "B", Reason: "Damaged", Currency: "USD", AdjustmentDate: adj, DeadlineDate: adj.AddDays(60)},
			}

			mock.ExpectCopyFrom(pgx.Identifier{"claims"}, copyCols).WillReturnResult(2)

			n, err := claims.InsertBatch(ctx, 7, candidates)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(2)))
		})

		It("persists nothing when the copy fails", func() {
			mock.ExpectCopyFrom(pgx.Identifier{"claims"}, copyCols).
				WillReturnError(errors.New("copy failed"))

			_, err := claims.InsertBatch(ctx, 7, []model.ClaimCandidate{{Reason: "Lost"}})
			Expect(err).To(MatchError("copy failed"))
		})

		It("is a no-op for an empty batch", func() {
			n, err := claims.InsertBatch(ctx, 7, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})
	})

	Describe("SetStatus", func() {
		It("returns the updated claim", func() {
			rows := mock.NewRows(claimCols)
			addClaimRow(rows, 5, orgA, 4, nil, model.ClaimStatusApproved)
			mock.ExpectQuery(`UPDATE claims SET status = \$3\s+WHERE organization_id = \$1 AND id = \$2`).
				WithArgs(orgA, int64(5), "approved").
				WillReturnRows(rows)

			c, err := claims.SetStatus(ctx, 5, model.ClaimStatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Status).To(Equal(model.ClaimStatusApproved))
		})

		It("maps a missing row to ErrNotFound", func() {
			mock.ExpectQuery(`UPDATE claims`).
				WithArgs(orgA, int64(5), "submitted").
				WillReturnError(pgx.ErrNoRows)

			_, err := claims.SetStatus(ctx, 5, model.ClaimStatusSubmitted)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Describe("Delete", func() {
		It("deletes only within the organization", func() {
			mock.ExpectExec(`DELETE FROM claims WHERE organization_id = \$1 AND id = \$2`).
				WithArgs(orgA, int64(9)).
				WillReturnResult(pgxmock.NewResult("DELETE", 1))

			n, err := claims.Delete(ctx, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))
		})

		It("reports zero rows for another organization's claim", func() {
			scopeB, err := store.NewScope(orgB)
			Expect(err).NotTo(HaveOccurred())

			mock.ExpectExec(`DELETE FROM claims`).
				WithArgs(orgB, int64(9)).
				WillReturnResult(pgxmock.NewResult("DELETE", 0))

			n, err := store.NewStores(mock).Claims(scopeB).Delete(ctx, 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})
	})
})
