package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"

	"claimcountdown.app/server/internal/http/middleware"
	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/service"
)

const validToken = "valid-token"

var testIdentity = model.Identity{
	UserID:         7,
	OrganizationID: 100,
	Role:           model.RoleOwner,
	Email:          "owner@acme.test",
}

// authenticatingService accepts validToken as testIdentity.
func authenticatingService() *mockAuthService {
	return &mockAuthService{
		authenticateFn: func(_ context.Context, token string) (model.Identity, error) {
			if token != validToken {
				return model.Identity{}, service.ErrInvalidToken
			}
			return testIdentity, nil
		},
	}
}

func newEngine(auth service.AuthService) (*gin.Engine, *gin.RouterGroup) {
	router := gin.New()
	protected := router.Group("", middleware.RequireAuth(auth))
	return router, protected
}

func doJSON(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
	return resp
}

func errorOf(w *httptest.ResponseRecorder) string {
	msg, _ := decode(w)["error"].(string)
	return msg
}

