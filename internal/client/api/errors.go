package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")
	ErrValidation     = errors.New("validation failed")
	ErrServer         = errors.New("server error")
	ErrUnavailable    = errors.New("server unavailable")
)

// ErrorKind is the coarse failure class shown to callers.
type ErrorKind int

const (
	KindServer ErrorKind = iota
	KindAuth
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	default:
		return "server"
	}
}

// Error is returned for every failed call. Status is zero when no HTTP
// response was received. Message is the server's "error" field, if any.
type Error struct {
	Status  int
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s error: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s error (%d): %s", e.Kind, e.Status, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// statusError maps a non-2xx response to an *Error.
func statusError(status int, message string) *Error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Status: status, Kind: KindAuth, Message: message, Err: ErrUnauthorized}
	case status == http.StatusBadRequest || status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		return &Error{Status: status, Kind: KindValidation, Message: message, Err: ErrValidation}
	default:
		return &Error{Status: status, Kind: KindServer, Message: message, Err: ErrServer}
	}
}

func unavailable(err error) *Error {
	return &Error{Kind: KindServer, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
}

func sessionExpired() *Error {
	return &Error{Status: http.StatusUnauthorized, Kind: KindAuth, Err: ErrSessionExpired}
}

// Message returns the server-provided message of err, or "" when err is not
// an *Error or carries none.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
