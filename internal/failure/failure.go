// Package failure defines the closed error taxonomy returned by
// repositories. Once an error crosses the repository boundary it is a
// *Failure value; callers inspect Kind and StatusCode, never the
// underlying transport error.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a Failure.
type Kind int

const (
	Unknown Kind = iota
	Server
	Cache
	Validation
	Network
	Auth
	NotFound
	Permission
	Parsing
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Server:
		return "server"
	case Cache:
		return "cache"
	case Validation:
		return "validation"
	case Network:
		return "network"
	case Auth:
		return "auth"
	case NotFound:
		return "not_found"
	case Permission:
		return "permission"
	case Parsing:
		return "parsing"
	default:
		return "unknown"
	}
}

// Failure is a normalized error value. StatusCode is zero when the
// failure did not originate from an HTTP response.
type Failure struct {
	Kind       Kind
	Message    string
	StatusCode int
	cause      error
}

// New creates a Failure of the given kind.
func New(kind Kind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// WithStatus returns a copy of f carrying an HTTP status code.
func (f *Failure) WithStatus(code int) *Failure {
	c := *f
	c.StatusCode = code
	return &c
}

func (f *Failure) Error() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", f.Kind, f.StatusCode, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Unwrap exposes the original cause for errors.Is/As below the
// normalization boundary. The cause is never part of the user-facing
// message.
func (f *Failure) Unwrap() error {
	return f.cause
}

// Is matches failures by kind so that callers can write
// errors.Is(err, failure.New(failure.NotFound, "")).
func (f *Failure) Is(target error) bool {
	var other *Failure
	if !errors.As(target, &other) {
		return false
	}
	return f.Kind == other.Kind
}

// IsKind reports whether err is a Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}

// Validationf builds a Validation failure. These are produced
// client-side before any network call.
func Validationf(format string, args ...any) *Failure {
	return New(Validation, fmt.Sprintf(format, args...))
}
