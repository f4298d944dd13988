package handler_test

import (
	"errors"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"claimcountdown.app/server/internal/http/handler"
	"claimcountdown.app/server/internal/service"
)

var _ = DescribeTable("StatusFor",
	func(err error, status int) {
		Expect(handler.StatusFor(err)).To(Equal(status))
	},
	Entry("validation", service.ErrPasswordTooShort, http.StatusBadRequest),
	Entry("unauthenticated", service.ErrInvalidCredentials, http.StatusUnauthorized),
	Entry("forbidden", service.ErrOwnerRequired, http.StatusForbidden),
	Entry("not found", service.ErrClaimNotFound, http.StatusNotFound),
	Entry("conflict", service.ErrEmailTaken, http.StatusConflict),
	Entry("expired", service.ErrInviteExpired, http.StatusGone),
	Entry("external dependency", service.ErrMailDelivery, http.StatusBadGateway),
	Entry("wrapped kind", fmt.Errorf("accepting: %w", service.ErrInviteNotFound), http.StatusNotFound),
	Entry("unknown", errors.New("boom"), http.StatusInternalServerError),
)
