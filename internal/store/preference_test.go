package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock/v4"

	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/store"
)

var preferenceCols = []string{"user_id", "email_alerts_enabled", "alert_frequency", "created_at", "updated_at"}

var _ = Describe("PreferenceStore", func() {
	const orgID, userID = int64(100), int64(7)

	var (
		mock  pgxmock.PgxPoolIface
		prefs store.PreferenceStore
		ctx   context.Context
		now   time.Time
	)

	BeforeEach(func() {
		var err error
		mock, err = pgxmock.NewPool()
		Expect(err).NotTo(HaveOccurred())
		scope, err := store.NewScope(orgID)
		Expect(err).NotTo(HaveOccurred())
		prefs = store.NewStores(mock).Preferences(scope)
		ctx = context.Background()
		now = time.Now()
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mock.Close()
	})

	It("reads only users of the organization", func() {
		mock.ExpectQuery(`JOIN users u ON u.id = p.user_id\s+WHERE u.organization_id = \$1 AND p.user_id = \$2`).
			WithArgs(orgID, userID).
			WillReturnError(pgx.ErrNoRows)

		_, err := prefs.Get(ctx, userID)
		Expect(err).To(MatchError(store.ErrNotFound))
	})

	It("creates the default row", func() {
		mock.ExpectQuery(`INSERT INTO user_preferences \(user_id\)`).
			WithArgs(orgID, userID).
			WillReturnRows(mock.NewRows(preferenceCols).AddRow(userID, true, "weekly", now, now))

		p, err := prefs.CreateDefault(ctx, userID)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.EmailAlertsEnabled).To(BeTrue())
		Expect(p.AlertFrequency).To(Equal(model.AlertFrequencyWeekly))
	})

	It("upserts explicit values", func() {
		mock.ExpectQuery(`ON CONFLICT \(user_id\) DO UPDATE`).
			WithArgs(orgID, userID, false, "daily").
			WillReturnRows(mock.NewRows(preferenceCols).AddRow(userID, false, "daily", now, now))

		p := &model.Preference{UserID: userID, EmailAlertsEnabled: false, AlertFrequency: model.AlertFrequencyDaily}
		Expect(prefs.Upsert(ctx, p)).To(Succeed())
		Expect(p.AlertFrequency).To(Equal(model.AlertFrequencyDaily))
		Expect(p.UpdatedAt).To(Equal(now))
	})
})
