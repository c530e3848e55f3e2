package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidSession     = errors.New("invalid session")
	ErrNetwork            = errors.New("backend unreachable")
	ErrServer             = errors.New("backend failure")
	ErrForbidden          = errors.New("access forbidden")
	ErrRejected           = errors.New("request rejected")
	ErrSignInSuperseded   = errors.New("sign-in superseded by a later attempt")
)

// APIError carries the outcome of a failed backend call. Kind is one of the
// sentinel errors above so callers can use errors.Is.
type APIError struct {
	Kind    error
	Status  int    // 0 when no response was received
	Message string // message reported by the backend, if any
	Err     error  // underlying transport error, if any
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%v: status %d", e.Kind, e.Status)
	}
	return e.Kind.Error()
}

func (e *APIError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Retryable reports whether err is a transient backend failure worth a retry
// prompt rather than a definitive answer.
func Retryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer)
}
