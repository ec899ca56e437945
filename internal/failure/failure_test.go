package failure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/starford/ansuz/internal/transport"
)

// timeoutErr implements net.Error for exercising the network branch
// without a real socket.
type timeoutErr struct {
	timeout bool
}

func (e timeoutErr) Error() string   { return "dial tcp: i/o problem" }
func (e timeoutErr) Timeout() bool   { return e.timeout }
func (e timeoutErr) Temporary() bool { return false }

func TestNormalize_Nil(t *testing.T) {
	if got := Normalize(nil, "fallback"); got != nil {
		t.Fatalf("Normalize(nil) = %v, want nil", got)
	}
}

func TestNormalize_StatusCodes(t *testing.T) {
	cases := []struct {
		name string
		code int
		want Kind
	}{
		{"not found", http.StatusNotFound, NotFound},
		{"unauthorized", http.StatusUnauthorized, Auth},
		{"forbidden", http.StatusForbidden, Permission},
		{"server error", http.StatusInternalServerError, Server},
		{"bad gateway", http.StatusBadGateway, Server},
		{"unprocessable", http.StatusUnprocessableEntity, Server},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := Normalize(&transport.StatusError{Code: tc.code}, "fallback")
			if f.Kind != tc.want {
				t.Errorf("kind = %v, want %v", f.Kind, tc.want)
			}
			if f.StatusCode != tc.code {
				t.Errorf("status = %d, want %d", f.StatusCode, tc.code)
			}
		})
	}
}

func TestNormalize_PrefersBackendMessage(t *testing.T) {
	f := Normalize(&transport.StatusError{Code: 404, Message: "note not found"}, "failed to load note")
	if f.Message != "note not found" {
		t.Errorf("message = %q, want backend message", f.Message)
	}
}

func TestNormalize_FallbackWhenBodyEmpty(t *testing.T) {
	f := Normalize(&transport.StatusError{Code: 500}, "failed to load note")
	if f.Message != "failed to load note" {
		t.Errorf("message = %q, want fallback", f.Message)
	}
}

func TestNormalize_DecodeError(t *testing.T) {
	f := Normalize(&transport.DecodeError{Err: errors.New("empty response body")}, "failed to load note")
	if f.Kind != Parsing {
		t.Errorf("kind = %v, want Parsing", f.Kind)
	}
}

func TestNormalize_ContextCanceled(t *testing.T) {
	f := Normalize(fmt.Errorf("transport: GET /x: %w", context.Canceled), "fallback")
	if f.Kind != Unknown {
		t.Errorf("kind = %v, want Unknown", f.Kind)
	}
	if f.Message != "cancelled" {
		t.Errorf("message = %q, want %q", f.Message, "cancelled")
	}
}

func TestNormalize_DeadlineExceeded(t *testing.T) {
	f := Normalize(fmt.Errorf("transport: GET /x: %w", context.DeadlineExceeded), "failed to search files")
	if f.Kind != Network {
		t.Errorf("kind = %v, want Network", f.Kind)
	}
	if f.Message != "failed to search files: request timed out" {
		t.Errorf("message = %q", f.Message)
	}
}

func TestNormalize_NetErrors(t *testing.T) {
	f := Normalize(fmt.Errorf("transport: POST /x: %w", timeoutErr{timeout: true}), "failed to send message")
	if f.Kind != Network || f.Message != "failed to send message: request timed out" {
		t.Errorf("timeout: kind = %v, message = %q", f.Kind, f.Message)
	}

	f = Normalize(fmt.Errorf("transport: POST /x: %w", timeoutErr{}), "failed to send message")
	if f.Kind != Network || f.Message != "failed to send message: connection error" {
		t.Errorf("refused: kind = %v, message = %q", f.Kind, f.Message)
	}
}

func TestNormalize_UnknownFallsThrough(t *testing.T) {
	f := Normalize(errors.New("something odd"), "fallback")
	if f.Kind != Unknown {
		t.Errorf("kind = %v, want Unknown", f.Kind)
	}
	if f.Message != "something odd" {
		t.Errorf("message = %q", f.Message)
	}
}

// A failure that re-enters Normalize must come back unchanged.
func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize(&transport.StatusError{Code: 404, Message: "gone"}, "fallback one")
	second := Normalize(first, "fallback two")
	if second != first {
		t.Fatalf("renormalized failure is a new value: %v vs %v", second, first)
	}
}

func TestNormalize_WrappedFailure(t *testing.T) {
	inner := New(Validation, "bad input")
	f := Normalize(fmt.Errorf("while saving: %w", inner), "fallback")
	if f != inner {
		t.Fatalf("wrapped failure not unwrapped: got %v", f)
	}
}

func TestIsKind(t *testing.T) {
	err := error(New(NotFound, "missing").WithStatus(404))
	if !IsKind(err, NotFound) {
		t.Error("IsKind(NotFound) = false")
	}
	if IsKind(err, Server) {
		t.Error("IsKind(Server) = true")
	}
	if IsKind(errors.New("plain"), Unknown) {
		t.Error("IsKind on non-failure = true")
	}
}

func TestFailure_ErrorString(t *testing.T) {
	f := New(NotFound, "note not found").WithStatus(404)
	if got := f.Error(); got != "not_found (404): note not found" {
		t.Errorf("Error() = %q", got)
	}
	v := Validationf("title %s", "required")
	if got := v.Error(); got != "validation: title required" {
		t.Errorf("Error() = %q", got)
	}
}

func TestFailure_IsMatchesByKind(t *testing.T) {
	err := error(New(Auth, "token expired").WithStatus(401))
	if !errors.Is(err, New(Auth, "")) {
		t.Error("errors.Is by kind failed")
	}
	if errors.Is(err, New(Network, "")) {
		t.Error("errors.Is matched a different kind")
	}
}
