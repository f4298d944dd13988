package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Request middleware sets the caller identity once; everything downstream inherits it.
type LogFields struct {
	UserID         *int64  // Authenticated user or digest recipient
	OrganizationID *int64  // Tenant the operation runs under
	ClaimID        *int64  // Claim being mutated
	InviteID       *int64  // Invite being issued or redeemed
	Frequency      *string // Digest run frequency ("weekly", "daily")
	Component      string  // Component name, e.g. "claimcountdown.worker.notifier"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.UserID != nil {
		result.UserID = next.UserID
	}
	if next.OrganizationID != nil {
		result.OrganizationID = next.OrganizationID
	}
	if next.ClaimID != nil {
		result.ClaimID = next.ClaimID
	}
	if next.InviteID != nil {
		result.InviteID = next.InviteID
	}
	if next.Frequency != nil {
		result.Frequency = next.Frequency
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// MaskEmail keeps the first character and the domain, e.g. "j***@example.com".
func MaskEmail(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			if i <= 1 {
				return "***" + email[i:]
			}
			return email[:1] + "***" + email[i:]
		}
	}
	return "***"
}
