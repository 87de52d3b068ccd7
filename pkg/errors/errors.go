package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error that knows how it is rendered to API clients. Internal carries the cause
// for logs and is never serialised.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.Internal != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	default:
		return e.Message
	}
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is matches any AppError with the same code, status and message, so copies made by
// WithInternal still match their sentinel.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if e == nil || !errors.As(target, &other) || other == nil {
		return false
	}
	return e.Code == other.Code && e.StatusCode == other.StatusCode && e.Message == other.Message
}

// WithInternal returns a copy of e carrying err as its cause.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Internal = err
	return &cpy
}

// Status is the HTTP status for e, 500 when unset.
func (e *AppError) Status() int {
	if e == nil || e.StatusCode == 0 {
		return http.StatusInternalServerError
	}
	return e.StatusCode
}

func sentinel(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: status}
}

var (
	ErrUnauthorized       = sentinel("UNAUTHORIZED", http.StatusUnauthorized, "Authentication required")
	ErrForbidden          = sentinel("FORBIDDEN", http.StatusForbidden, "Permission denied")
	ErrNotFound           = sentinel("NOT_FOUND", http.StatusNotFound, "Resource not found")
	ErrBadRequest         = sentinel("BAD_REQUEST", http.StatusBadRequest, "Invalid request")
	ErrRateLimit          = sentinel("RATE_LIMIT_EXCEEDED", http.StatusTooManyRequests, "Too many requests, please slow down")
	ErrInternalServer     = sentinel("INTERNAL_SERVER_ERROR", http.StatusInternalServerError, "Internal server error")
	ErrServiceUnavailable = sentinel("SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, "Service temporarily unavailable, please retry")
)

// NewBadRequest is ErrBadRequest with a client-facing message.
func NewBadRequest(message string) *AppError {
	return sentinel(ErrBadRequest.Code, ErrBadRequest.StatusCode, message)
}

// NewNotFound is ErrNotFound with a client-facing message.
func NewNotFound(message string) *AppError {
	return sentinel(ErrNotFound.Code, ErrNotFound.StatusCode, message)
}

// FromError finds the AppError in err's chain. Anything else becomes ErrInternalServer with err
// as the cause.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer.WithInternal(err)
}
