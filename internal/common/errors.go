// Package common defines shared constants and sentinel errors used across
// client and server layers of DataKeeper. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")

	// Account errors.
	ErrAlreadyRegistered  = errors.New("username or account already registered")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotLoggedIn        = errors.New("not logged in")

	// Data errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAccountNotFound  = errors.New("account not found")
	ErrNoSuchKey        = errors.New("no such key")
	ErrDeliveryRefused  = errors.New("direct message refused")

	// Auth errors (invalid or malformed identity token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ConflictError reports a uniqueness violation on a logical field
// ("username", "external_id", "data_key").
type ConflictError struct {
	Field string
}

func (e ConflictError) Error() string {
	if e.Field == "" {
		return ErrConflict.Error()
	}
	return fmt.Sprintf("%v: %s", ErrConflict, e.Field)
}

func (e ConflictError) Unwrap() error { return ErrConflict }

// Kind groups errors into the categories reported to callers.
type Kind int

const (
	KindInternal Kind = iota
	KindConflict
	KindAuthFailure
	KindNotFound
	KindDeliveryFailure
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindAuthFailure:
		return "auth_failure"
	case KindNotFound:
		return "not_found"
	case KindDeliveryFailure:
		return "delivery_failure"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "internal"
	}
}

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrAlreadyRegistered), errors.Is(err, ErrRegistrationFailed), errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrNotLoggedIn),
		errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
		return KindAuthFailure
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrNoSuchKey), errors.Is(err, ErrorNotFound):
		return KindNotFound
	case errors.Is(err, ErrDeliveryRefused):
		return KindDeliveryFailure
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindInternal
	}
}
