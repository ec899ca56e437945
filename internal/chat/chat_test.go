package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/backendtest"
	"github.com/starford/ansuz/internal/failure"
	"github.com/starford/ansuz/internal/transport"
)

func testRepo(t *testing.T) (*Repository, *backendtest.Server) {
	t.Helper()
	srv := backendtest.New(t)
	return NewRepository(transport.New(srv.URL, "", 5*time.Second)), srv
}

func TestSendAndHistory(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	reply, err := repo.Send(ctx, "", "hello there")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.SessionID == "" {
		t.Fatal("no session id assigned")
	}
	if reply.Message.Role != "assistant" || reply.Message.Content == "" {
		t.Errorf("reply = %+v", reply.Message)
	}

	// Sending within the session appends to the same history.
	if _, err := repo.Send(ctx, reply.SessionID, "second"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	msgs, err := repo.History(ctx, reply.SessionID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 4 {
		t.Errorf("history length = %d, want 4", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Errorf("history roles = %q, %q", msgs[0].Role, msgs[1].Role)
	}
}

// An empty message is rejected locally; no request reaches the backend.
func TestSend_EmptyMessage(t *testing.T) {
	repo, srv := testRepo(t)
	_, err := repo.Send(context.Background(), "", "")
	if !failure.IsKind(err, failure.Validation) {
		t.Fatalf("err = %v, want Validation failure", err)
	}
	if n := srv.Requests(http.MethodPost, "/api/v1/ai/chat"); n != 0 {
		t.Errorf("backend saw %d requests, want 0", n)
	}
}

func TestHistory_EmptySessionID(t *testing.T) {
	repo, srv := testRepo(t)
	_, err := repo.History(context.Background(), "")
	if !failure.IsKind(err, failure.Validation) {
		t.Fatalf("err = %v, want Validation failure", err)
	}
	if n := srv.Requests(http.MethodGet, "/api/v1/ai/chat/history"); n != 0 {
		t.Errorf("backend saw %d requests, want 0", n)
	}
}

func TestSessions(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	created, err := repo.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if created.ID == "" {
		t.Fatal("session has no id")
	}
	sessions, err := repo.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != created.ID {
		t.Errorf("sessions = %+v", sessions)
	}
}

// A backend that never answers within the client timeout surfaces as a
// Network failure with the send fallback message, not a raw transport
// error.
func TestSend_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(block) })

	repo := NewRepository(transport.New(srv.URL, "", 50*time.Millisecond))
	_, err := repo.Send(context.Background(), "", "are you there")
	if !failure.IsKind(err, failure.Network) {
		t.Fatalf("err = %v, want Network failure", err)
	}
	var f *failure.Failure
	if f = failure.Normalize(err, "x"); f.Message != "failed to send message: request timed out" {
		t.Errorf("message = %q", f.Message)
	}
}
