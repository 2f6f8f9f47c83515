// Package errors holds the error kinds shared by services and handlers.
// Handlers pick the HTTP status from the kind; an error carrying no kind is
// a store failure.
package errors

import "errors"

var (
	// ErrUnauthenticated missing or invalid bearer token
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden authenticated but lacking the role or permission
	ErrForbidden = errors.New("forbidden")
	// ErrValidation missing or malformed request fields
	ErrValidation = errors.New("validation failed")
	// ErrNotFound referenced entity is absent
	ErrNotFound = errors.New("not found")
)

// Error a client-facing message tagged with a kind
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// New creates an error of the given kind
func New(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Is reports whether err carries the given kind
func Is(err, kind error) bool {
	return errors.Is(err, kind)
}

// KindOf returns the kind carried by err, or nil for an untyped failure
func KindOf(err error) error {
	for _, k := range []error{ErrUnauthenticated, ErrForbidden, ErrValidation, ErrNotFound} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
