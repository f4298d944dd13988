package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock/v4"

	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/store"
)

var userCols = []string{"id", "email", "password_hash", "organization_id", "role", "created_at"}

var _ = Describe("UserStore and MemberStore", func() {
	var (
		mock   pgxmock.PgxPoolIface
		stores *store.Stores
		ctx    context.Context
		now    time.Time
	)

	BeforeEach(func() {
		var err error
		mock, err = pgxmock.NewPool()
		Expect(err).NotTo(HaveOccurred())
		stores = store.NewStores(mock)
		ctx = context.Background()
		now = time.Now()
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mock.Close()
	})

	It("creates a user and reads back the stored row", func() {
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(int64(1), "a@example.com", "hash", int64(100), "owner").
			WillReturnRows(mock.NewRows(userCols).
				AddRow(int64(1), "a@example.com", "hash", int64(100), "owner", now))

		u := &model.User{ID: 1, Email: "a@example.com", PasswordHash: "hash", OrganizationID: 100, Role: model.RoleOwner}
		Expect(stores.Users().Create(ctx, u)).To(Succeed())
		Expect(u.Role).To(Equal(model.RoleOwner))
		Expect(u.CreatedAt).To(Equal(now))
	})

	It("maps a taken email to ErrDuplicate", func() {
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(int64(2), "a@example.com", "", int64(0), "member").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := stores.Users().Create(ctx, &model.User{ID: 2, Email: "a@example.com", Role: model.RoleMember})
		Expect(err).To(MatchError(store.ErrDuplicate))
	})

	It("maps an unknown email to ErrNotFound", func() {
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := stores.Users().GetByEmail(ctx, "nobody@example.com")
		Expect(err).To(MatchError(store.ErrNotFound))
	})

	It("lists members of one organization", func() {
		scope, err := store.NewScope(100)
		Expect(err).NotTo(HaveOccurred())

		mock.ExpectQuery(`FROM users\s+WHERE organization_id = \$1\s+ORDER BY created_at DESC`).
			WithArgs(int64(100)).
			WillReturnRows(mock.NewRows(userCols).
				AddRow(int64(2), "b@example.com", "h", int64(100), "member", now).
				AddRow(int64(1), "a@example.com", "h", int64(100), "owner", now.Add(-time.Hour)))

		members, err := stores.Members(scope).List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(members).To(HaveLen(2))
		Expect(members[0].Role).To(Equal(model.RoleMember))
	})
})
