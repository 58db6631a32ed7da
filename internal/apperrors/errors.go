package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the calling layer
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindUnavailable Kind = "unavailable"
)

// Sentinel errors for the core operations
var (
	ErrInvalidTransition     = errors.New("invalid state transition")
	ErrDuplicateVerification = errors.New("duplicate verified record")
	ErrIncompleteRoute       = errors.New("route has unprocessed stops")
	ErrEmptyRoute            = errors.New("selection yields no route stops")
	ErrNoPath                = errors.New("no path between nodes")
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation failed")
	ErrUnavailable           = errors.New("dependency unavailable")
)

// Error carries structured failure detail so callers can decide between
// showing an error and prompting a manual override
type Error struct {
	Kind    Kind   `json:"kind"`
	Subject string `json:"subject,omitempty"` // id of the entity the failure concerns
	Message string `json:"message"`
	err     error
}

func (e *Error) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Subject)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.err
}

// New builds a structured error wrapping a sentinel
func New(kind Kind, sentinel error, subject, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
		err:     sentinel,
	}
}

// InvalidTransition reports a forbidden lifecycle move
func InvalidTransition(subject, format string, args ...interface{}) *Error {
	return New(KindValidation, ErrInvalidTransition, subject, format, args...)
}

// DuplicateVerification reports a repeated verified record for the same
// (person, location) pair within a session
func DuplicateVerification(subject, format string, args ...interface{}) *Error {
	return New(KindConflict, ErrDuplicateVerification, subject, format, args...)
}

// IncompleteRoute reports a completion attempt with pending stops
func IncompleteRoute(subject, format string, args ...interface{}) *Error {
	return New(KindValidation, ErrIncompleteRoute, subject, format, args...)
}

// EmptyRoute reports a route generation that produced no stops
func EmptyRoute(format string, args ...interface{}) *Error {
	return New(KindValidation, ErrEmptyRoute, "", format, args...)
}

// NoPath reports an unreachable node pair in the adjacency graph
func NoPath(subject, format string, args ...interface{}) *Error {
	return New(KindNotFound, ErrNoPath, subject, format, args...)
}

// NotFound reports an unknown id
func NotFound(subject, format string, args ...interface{}) *Error {
	return New(KindNotFound, ErrNotFound, subject, format, args...)
}

// Validation reports malformed or missing input
func Validation(subject, format string, args ...interface{}) *Error {
	return New(KindValidation, ErrValidation, subject, format, args...)
}

// Unavailable reports an unreachable collaborator (persistence, audit sink)
func Unavailable(subject, format string, args ...interface{}) *Error {
	return New(KindUnavailable, ErrUnavailable, subject, format, args...)
}

// KindOf extracts the kind from any error in the chain, defaulting to validation
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindValidation
}
