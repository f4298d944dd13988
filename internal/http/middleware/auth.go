package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"claimcountdown.app/server/common/logger"
	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/service"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	tokenContextKey    contextKey = "token"
)

// RequireAuth resolves the bearer token to an Identity and attaches it, and the
// raw token, to the request context.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		ctx := c.Request.Context()
		identity, err := authService.Authenticate(ctx, token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
				return
			}
			slog.ErrorContext(ctx, "failed to authenticate request", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate token"})
			return
		}

		ctx = context.WithValue(ctx, identityContextKey, identity)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		ctx = logger.WithLogFields(ctx, logger.LogFields{
			UserID:         &identity.UserID,
			OrganizationID: &identity.OrganizationID,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetIdentity returns the caller resolved by RequireAuth.
func GetIdentity(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}

func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
