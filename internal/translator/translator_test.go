package translator

import (
	"context"
	"net/http"
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

func TestTranslate(t *testing.T) {
	repo, _ := testRepo(t)
	res, err := repo.Translate(context.Background(), "FOR i FROM 1 TO 10", "go")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Code == "" {
		t.Error("no code returned")
	}
	if res.Language != "go" {
		t.Errorf("language = %q", res.Language)
	}
}

func TestTranslate_DefaultLanguage(t *testing.T) {
	repo, _ := testRepo(t)
	res, err := repo.Translate(context.Background(), "PRINT hello", "")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Language != "python" {
		t.Errorf("language = %q, want python default", res.Language)
	}
}

func TestTranslate_EmptyInput(t *testing.T) {
	repo, srv := testRepo(t)
	_, err := repo.Translate(context.Background(), "", "go")
	if !failure.IsKind(err, failure.Validation) {
		t.Fatalf("err = %v, want Validation failure", err)
	}
	if n := srv.Requests(http.MethodPost, "/api/v1/translator/translate"); n != 0 {
		t.Errorf("backend saw %d requests, want 0", n)
	}
}
