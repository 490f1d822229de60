package managers

import (
	"errors"
	"fmt"

	"foodconnect/internal/schemas"
)

var (
	ErrNotFound          = errors.New("donation not found")
	ErrForbidden         = errors.New("operation not permitted for caller")
	ErrOtpMismatch       = errors.New("pickup code does not match")
	ErrInvalidState      = errors.New("operation not legal in current state")
	ErrUnauthenticated   = errors.New("no credential presented")
	ErrInvalidCredential = errors.New("credential is invalid or expired")
	ErrConfiguration     = errors.New("configuration error")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidLogin      = errors.New("email or password is wrong")
	ErrEmailUnreachable  = errors.New("email address cannot receive mail")
	ErrUserNotFound      = errors.New("user not found")
)

// ValidationError names the input field that was missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid field %s", e.Field)
	}
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// InvalidStateError carries the donation's status at the time the operation was rejected.
type InvalidStateError struct {
	Current schemas.DonationStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: donation is %s", ErrInvalidState, e.Current)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}
