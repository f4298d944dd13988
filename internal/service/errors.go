package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	ErrValidation         = errors.New("validation error")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrExpired            = errors.New("expired")
	ErrExternalDependency = errors.New("external dependency failed")
)

// Error is a failure whose Message is safe to show to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrCredentialsRequired = newError(ErrValidation, "email and password are required")
	ErrPasswordTooShort    = newError(ErrValidation, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	ErrInvalidCredentials  = newError(ErrUnauthenticated, "invalid credentials")
	ErrInvalidToken        = newError(ErrUnauthenticated, "invalid or expired token")
	ErrEmailTaken          = newError(ErrConflict, "email already registered")

	ErrOwnerRequired         = newError(ErrForbidden, "only organization owners can perform this action")
	ErrInviteNotFound        = newError(ErrNotFound, "invite not found or already used")
	ErrInviteExpired         = newError(ErrExpired, "invite has expired")
	ErrInvitePendingExists   = newError(ErrConflict, "a pending invite already exists for this email")
	ErrInviteEmailRegistered = newError(ErrConflict, "a user with this email already exists")

	ErrClaimNotFound    = newError(ErrNotFound, "claim not found")
	ErrInvalidStatus    = newError(ErrValidation, "status must be one of pending, submitted, approved, rejected")
	ErrInvalidUrgency   = newError(ErrValidation, "urgency must be one of critical, high, medium, low, expired")
	ErrNoClaimIDs       = newError(ErrValidation, "at least one claim id is required")
	ErrInvalidFrequency = newError(ErrValidation, "alert_frequency must be weekly or daily")

	ErrMailDelivery = newError(ErrExternalDependency, "failed to send email")
)
