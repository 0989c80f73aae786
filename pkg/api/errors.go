package api

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Handlers translate these into HTTP statuses and
// machine-readable codes; the client SDK translates the codes back.
var (
	// ErrAuth covers bad credentials and duplicate registration.
	ErrAuth = errors.New("authentication failed")

	// ErrForbidden means the principal lacks the privilege for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCapacityExceeded means a toggle-on was rejected because the event is full.
	ErrCapacityExceeded = errors.New("event capacity exceeded")

	// ErrInvalidState means an illegal transition: rating while not going,
	// approving a request that is no longer pending, and the like.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrNetwork is returned by the client SDK when the transport fails or
	// times out before an authoritative response arrives.
	ErrNetwork = errors.New("network error")
)

// ValidationError names the offending field so the caller can surface the
// message next to it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Error codes carried in the response envelope.
const (
	CodeAuth             = "auth"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "not_found"
	CodeValidation       = "validation"
	CodeCapacityExceeded = "capacity_exceeded"
	CodeInvalidState     = "invalid_state"
	CodeInternal         = "internal"
)

// ErrorCode maps a domain error to its wire code.
func ErrorCode(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return CodeValidation
	case errors.Is(err, ErrAuth):
		return CodeAuth
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrCapacityExceeded):
		return CodeCapacityExceeded
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	default:
		return CodeInternal
	}
}

// ErrorFromCode is the inverse mapping, used by the client SDK.
func ErrorFromCode(code, message string) error {
	switch code {
	case CodeAuth:
		return fmt.Errorf("%w: %s", ErrAuth, message)
	case CodeForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, message)
	case CodeNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case CodeValidation:
		return &ValidationError{Field: "payload", Reason: message}
	case CodeCapacityExceeded:
		return fmt.Errorf("%w: %s", ErrCapacityExceeded, message)
	case CodeInvalidState:
		return fmt.Errorf("%w: %s", ErrInvalidState, message)
	default:
		return errors.New(message)
	}
}
