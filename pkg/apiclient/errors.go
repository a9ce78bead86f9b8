package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNetwork      = errors.New("network error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation")
	ErrServer       = errors.New("server error")
)

const (
	MsgSessionExpired = "Session expired, please log in again"
	MsgNoToken        = "No token found, please log in"
	MsgServerError    = "Server error"
)

// Error is returned by every Client call. It unwraps to exactly one of the
// sentinel kinds above.
type Error struct {
	Kind    error
	Status  int
	Message string
	// Detail is the backend's own message payload, kept even when Message
	// is replaced by a fixed text.
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%v: status %d: %s", e.Kind, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	out := []error{e.Kind}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NoCredential is reported before a credentialed call when the session holds
// no token; it counts as an auth failure.
func NoCredential() *Error {
	return &Error{Kind: ErrUnauthorized, Message: MsgNoToken}
}

// Message is the text a view shows for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if apiErr.Kind == ErrValidation {
		return "Request rejected"
	}
	return MsgServerError
}

// WithMessage fills in def when the backend answered with an error status but
// no message payload, mirroring the per-call fallbacks ("Error creating
// product", ...). Other errors are returned unchanged.
func WithMessage(err error, def string) error {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "" {
		return err
	}
	if apiErr.Kind != ErrValidation && apiErr.Kind != ErrServer {
		return err
	}
	cp := *apiErr
	cp.Message = def
	return &cp
}

func classify(status int, message string) *Error {
	switch {
	case status == http.StatusUnauthorized:
		return &Error{Kind: ErrUnauthorized, Status: status, Message: MsgSessionExpired, Detail: message}
	case status >= 400 && status < 500:
		return &Error{Kind: ErrValidation, Status: status, Message: message, Detail: message}
	default:
		return &Error{Kind: ErrServer, Status: status, Message: message, Detail: message}
	}
}
