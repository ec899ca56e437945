package failure

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/http"

	"github.com/starford/ansuz/internal/transport"
)

// Normalize converts any error reaching the repository boundary into a
// *Failure. fallback is the feature-specific message used when the
// backend sent no structured error body.
//
// Normalize is total and idempotent: an already-normalized Failure is
// returned unchanged, so call sites that re-enter error handling after
// a partial retry stay correct.
func Normalize(err error, fallback string) *Failure {
	if err == nil {
		return nil
	}

	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	var se *transport.StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = fallback
		}
		switch {
		case se.Code == http.StatusNotFound:
			return New(NotFound, msg).WithStatus(se.Code)
		case se.Code == http.StatusUnauthorized:
			return New(Auth, msg).WithStatus(se.Code)
		case se.Code == http.StatusForbidden:
			return New(Permission, msg).WithStatus(se.Code)
		default:
			return New(Server, msg).WithStatus(se.Code)
		}
	}

	var de *transport.DecodeError
	if errors.As(err, &de) {
		return &Failure{Kind: Parsing, Message: fallback + ": " + de.Error(), cause: err}
	}

	// Explicit cancellation is not a user-facing error.
	if errors.Is(err, context.Canceled) {
		return &Failure{Kind: Unknown, Message: "cancelled", cause: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Kind: Network, Message: fallback + ": request timed out", cause: err}
	}

	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return &Failure{Kind: Network, Message: fallback + ": request timed out", cause: err}
		}
		return &Failure{Kind: Network, Message: fallback + ": connection error", cause: err}
	}

	var certErr x509.UnknownAuthorityError
	if errors.As(err, &certErr) {
		return &Failure{Kind: Network, Message: fallback + ": bad certificate", cause: err}
	}

	return &Failure{Kind: Unknown, Message: err.Error(), cause: err}
}
