package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"claimcountdown.app/server/internal/http/middleware"
	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/service"
)

var kindStatus = []struct {
	kind   error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrUnauthenticated, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrExpired, http.StatusGone},
	{service.ErrExternalDependency, http.StatusBadGateway},
}

// StatusFor maps a service error to its HTTP status. Errors outside the
// service taxonomy are 500.
func StatusFor(err error) int {
	for _, ks := range kindStatus {
		if errors.Is(err, ks.kind) {
			return ks.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error body. Caller-safe messages pass
// through; anything else is logged and replaced with "failed to <action>".
func respondError(c *gin.Context, err error, action string) {
	ctx := c.Request.Context()

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		status := StatusFor(svcErr)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "failed to "+action, "error", err)
		}
		c.JSON(status, gin.H{"error": svcErr.Message})
		return
	}

	slog.ErrorContext(ctx, "failed to "+action, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// mustIdentity returns the caller or writes 401 when RequireAuth did not run.
func mustIdentity(c *gin.Context) (model.Identity, bool) {
	identity, ok := middleware.GetIdentity(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	}
	return identity, ok
}
