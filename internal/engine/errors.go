package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while a session processes
// events or renders.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Session identifies the affected session.
	Session string

	// Route is the route that was mounted, if any.
	Route string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnhandledEvent indicates the mounted page ignored a trigger.
	ErrCodeUnhandledEvent RuntimeErrorCode = "UNHANDLED_EVENT"

	// ErrCodeSessionClosed indicates a call on a closed session.
	ErrCodeSessionClosed RuntimeErrorCode = "SESSION_CLOSED"

	// ErrCodeRenderFailed indicates a view or the layout failed to render.
	ErrCodeRenderFailed RuntimeErrorCode = "RENDER_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Route != "" {
		msg = fmt.Sprintf("%s (route=%s)", msg, e.Route)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err is a RuntimeError with the given code.
// Uses errors.As to handle wrapped and joined errors.
func HasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsUnhandled reports whether err is an unhandled-event error.
func IsUnhandled(err error) bool {
	return HasCode(err, ErrCodeUnhandledEvent)
}

// IsClosed reports whether err is a closed-session error.
func IsClosed(err error) bool {
	return HasCode(err, ErrCodeSessionClosed)
}

func newClosedError(session string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeSessionClosed,
		Message: "session is closed",
		Session: session,
	}
}
