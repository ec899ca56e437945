package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "", 5*time.Second)
}

func TestClient_DecodesResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value": "ok"}`))
	})
	var out struct {
		Value string `json:"value"`
	}
	if err := c.Get(context.Background(), "/x", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Value != "ok" {
		t.Errorf("value = %q", out.Value)
	}
}

func TestClient_QueryAndHeaders(t *testing.T) {
	var gotQuery url.Values
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL+"/", "secret", 5*time.Second)
	if err := c.Get(context.Background(), "/x", url.Values{"limit": {"10"}}, &struct{}{}); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotQuery.Get("limit") != "10" {
		t.Errorf("query limit = %q", gotQuery.Get("limit"))
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}

	if err := c.Post(context.Background(), "/x", map[string]string{"a": "b"}, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
}

func TestClient_StatusErrorBody(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error": "bad input"}`, "bad input"},
		{"detail field", `{"detail": "not allowed"}`, "not allowed"},
		{"unstructured", `oops`, ""},
		{"empty", ``, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			})
			err := c.Get(context.Background(), "/x", nil, &struct{}{})
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want *StatusError", err)
			}
			if se.Code != http.StatusBadRequest {
				t.Errorf("code = %d", se.Code)
			}
			if se.Message != tc.want {
				t.Errorf("message = %q, want %q", se.Message, tc.want)
			}
		})
	}
}

// An empty 200 body where a value is expected is a decode error, not a
// silent zero value.
func TestClient_EmptySuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	err := c.Get(context.Background(), "/x", nil, &struct{}{})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
}

func TestClient_NilOutSkipsDecode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.Delete(context.Background(), "/x", nil, nil); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestClient_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":`))
	})
	err := c.Get(context.Background(), "/x", nil, &struct{}{})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
}
