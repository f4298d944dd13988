package handler_test

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"claimcountdown.app/server/internal/http/handler"
	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/service"
)

var _ = Describe("SettingsHandler", func() {
	var (
		router *gin.Engine
		prefs  *mockPreferenceService
		notify *mockNotificationService
	)

	BeforeEach(func() {
		prefs = &mockPreferenceService{}
		notify = &mockNotificationService{}
		var protected *gin.RouterGroup
		router, protected = newEngine(authenticatingService())

		h := handler.NewSettingsHandler(prefs, notify)
		protected.GET("/preferences", h.GetPreferences)
		protected.PUT("/preferences", h.UpdatePreferences)
		protected.POST("/test-email", h.SendTestEmail)
	})

	It("returns the caller's preferences", func() {
		w := doJSON(router, http.MethodGet, "/preferences", nil, validToken)
		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decode(w)
		Expect(resp["email_alerts_enabled"]).To(BeTrue())
		Expect(resp["alert_frequency"]).To(Equal("weekly"))
	})

	It("passes only the fields that were sent", func() {
		var got service.PreferenceUpdate
		prefs.updateFn = func(_ context.Context, identity model.Identity, update service.PreferenceUpdate) (*model.Preference, error) {
			got = update
			p := model.DefaultPreference(identity.UserID)
			p.AlertFrequency = *update.AlertFrequency
			return &p, nil
		}

		w := doJSON(router, http.MethodPut, "/preferences", map[string]string{"alert_frequency": "daily"}, validToken)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(got.EmailAlertsEnabled).To(BeNil())
		Expect(*got.AlertFrequency).To(Equal(model.AlertFrequencyDaily))
		Expect(decode(w)["alert_frequency"]).To(Equal("daily"))
	})

	It("returns 400 for an unknown frequency", func() {
		prefs.updateFn = func(context.Context, model.Identity, service.PreferenceUpdate) (*model.Preference, error) {
			return nil, service.ErrInvalidFrequency
		}
		w := doJSON(router, http.MethodPut, "/preferences", map[string]string{"alert_frequency": "monthly"}, validToken)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(errorOf(w)).To(Equal("alert_frequency must be weekly or daily"))
	})

	Describe("test email", func() {
		It("confirms the recipient", func() {
			w := doJSON(router, http.MethodPost, "/test-email", nil, validToken)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["email"]).To(Equal("owner@acme.test"))
		})

		It("returns 502 when the mail provider fails", func() {
			notify.sendTestFn = func(context.Context, model.Identity) error {
				return service.ErrMailDelivery
			}
			w := doJSON(router, http.MethodPost, "/test-email", nil, validToken)
			Expect(w.Code).To(Equal(http.StatusBadGateway))
			Expect(errorOf(w)).To(Equal("failed to send email"))
		})
	})
})
