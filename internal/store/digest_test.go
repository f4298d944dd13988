package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock/v4"

	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/store"
)

var recipientCols = []string{
	"id", "email", "organization_id",
	"user_id", "email_alerts_enabled", "alert_frequency", "created_at", "updated_at",
}

var _ = Describe("DigestStore", func() {
	var (
		mock pgxmock.PgxPoolIface
		ctx  context.Context
		now  time.Time
	)

	BeforeEach(func() {
		var err error
		mock, err = pgxmock.NewPool()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
		now = time.Now()
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mock.Close()
	})

	rows := func() *pgxmock.Rows {
		return mock.NewRows(recipientCols).
			AddRow(int64(1), "nopref@example.com", int64(100), nil, nil, nil, nil, nil).
			AddRow(int64(2), "off@example.com", int64(100), ptr(int64(2)), ptr(false), ptr("weekly"), &now, &now).
			AddRow(int64(3), "daily@example.com", int64(100), ptr(int64(3)), ptr(true), ptr("daily"), &now, &now).
			AddRow(int64(4), "weekly@example.com", int64(200), ptr(int64(4)), ptr(true), ptr("weekly"), &now, &now)
	}

	It("selects default and weekly users for the weekly run", func() {
		mock.ExpectQuery(`LEFT JOIN user_preferences p ON p.user_id = u.id`).
			WithArgs(today.In(time.UTC), today.AddDays(7).In(time.UTC)).
			WillReturnRows(rows())

		got, err := store.NewStores(mock).Digests().ListRecipients(ctx, model.AlertFrequencyWeekly, today)
		Expect(err).NotTo(HaveOccurred())

		emails := make([]string, 0, len(got))
		for _, r := range got {
			emails = append(emails, r.Email)
		}
		Expect(emails).To(Equal([]string{"nopref@example.com", "weekly@example.com"}))
		Expect(got[0].Preference).To(BeNil())
		Expect(got[1].OrganizationID).To(Equal(int64(200)))
	})

	It("selects only explicit daily users for the daily run", func() {
		mock.ExpectQuery(`LEFT JOIN user_preferences`).
			WithArgs(today.In(time.UTC), today.AddDays(7).In(time.UTC)).
			WillReturnRows(rows())

		got, err := store.NewStores(mock).Digests().ListRecipients(ctx, model.AlertFrequencyDaily, today)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(HaveLen(1))
		Expect(got[0].Email).To(Equal("daily@example.com"))
	})
})
