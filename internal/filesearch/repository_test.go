package filesearch

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
	return NewRepository(transport.New(srv.URL, "", 5*time.Second), nil), srv
}

func TestSearch(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	for _, p := range []string{"/docs/readme.md", "/docs/guide.md", "/src/main.go"} {
		if err := repo.AddToIndex(ctx, p, false); err != nil {
			t.Fatalf("AddToIndex: %v", err)
		}
	}
	results, err := repo.Search(ctx, SearchQuery{Query: "docs"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Path == "" || r.Score == 0 {
			t.Errorf("result = %+v", r)
		}
	}
}

// Structurally invalid queries are rejected before any network call.
func TestSearch_InvalidQuery(t *testing.T) {
	repo, srv := testRepo(t)
	cases := []struct {
		name string
		q    SearchQuery
	}{
		{"empty query", SearchQuery{}},
		{"blank query", SearchQuery{Query: "   "}},
		{"blank file type", SearchQuery{Query: "x", FileTypes: []string{""}}},
		{"negative max", SearchQuery{Query: "x", MaxResults: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Search(context.Background(), tc.q)
			if !failure.IsKind(err, failure.Validation) {
				t.Fatalf("err = %v, want Validation failure", err)
			}
		})
	}
	if n := srv.Requests(http.MethodPost, "/api/v1/file_search/search"); n != 0 {
		t.Errorf("backend saw %d search requests, want 0", n)
	}
}

func TestIndexMutation(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	if err := repo.AddToIndex(ctx, "/a/file.txt", false); err != nil {
		t.Fatalf("AddToIndex: %v", err)
	}
	results, err := repo.Search(ctx, SearchQuery{Query: "file.txt"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	if err := repo.RemoveFromIndex(ctx, "/a/file.txt"); err != nil {
		t.Fatalf("RemoveFromIndex: %v", err)
	}
	results, err = repo.Search(ctx, SearchQuery{Query: "file.txt"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results after removal, want 0", len(results))
	}
}

func TestIndexMutation_EmptyPath(t *testing.T) {
	repo, _ := testRepo(t)
	if err := repo.AddToIndex(context.Background(), " ", false); !failure.IsKind(err, failure.Validation) {
		t.Errorf("AddToIndex: %v, want Validation", err)
	}
	if err := repo.RemoveFromIndex(context.Background(), ""); !failure.IsKind(err, failure.Validation) {
		t.Errorf("RemoveFromIndex: %v, want Validation", err)
	}
}

func TestWatchedDirectories(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	cfg := DirectoryConfig{Path: "/home/user/docs", IncludeSubdirectories: true, FileExtensions: []string{"md", "txt"}}
	if err := repo.AddWatchedDirectory(ctx, cfg); err != nil {
		t.Fatalf("AddWatchedDirectory: %v", err)
	}

	// Same path again is a replace, not an error.
	cfg.FileExtensions = []string{"md"}
	if err := repo.AddWatchedDirectory(ctx, cfg); err != nil {
		t.Fatalf("AddWatchedDirectory replace: %v", err)
	}

	dirs, err := repo.ListWatchedDirectories(ctx)
	if err != nil {
		t.Fatalf("ListWatchedDirectories: %v", err)
	}
	if len(dirs) != 1 {
		t.Fatalf("got %d directories, want 1", len(dirs))
	}
	if !dirs[0].IncludeSubdirectories || len(dirs[0].FileExtensions) != 1 {
		t.Errorf("dir = %+v", dirs[0])
	}

	if err := repo.RemoveWatchedDirectory(ctx, cfg.Path); err != nil {
		t.Fatalf("RemoveWatchedDirectory: %v", err)
	}
	dirs, _ = repo.ListWatchedDirectories(ctx)
	if len(dirs) != 0 {
		t.Errorf("got %d directories after removal, want 0", len(dirs))
	}
}

func TestAddWatchedDirectory_Invalid(t *testing.T) {
	repo, srv := testRepo(t)
	err := repo.AddWatchedDirectory(context.Background(), DirectoryConfig{Path: "  "})
	if !failure.IsKind(err, failure.Validation) {
		t.Fatalf("err = %v, want Validation failure", err)
	}
	if n := srv.Requests(http.MethodPost, "/api/v1/file_search/directories"); n != 0 {
		t.Errorf("backend saw %d requests, want 0", n)
	}
}

func TestStatistics(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()
	if err := repo.AddToIndex(ctx, "/a.txt", false); err != nil {
		t.Fatalf("AddToIndex: %v", err)
	}

	stats, err := repo.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.IndexedFiles != 1 {
		t.Errorf("indexed files = %d", stats.IndexedFiles)
	}
	if !stats.LastReindexAt.IsZero() {
		t.Errorf("last reindex = %v, want zero", stats.LastReindexAt)
	}
}

// The extended probe is best-effort: a 404 degrades to Extended nil
// instead of failing the whole snapshot.
func TestStatistics_ExtendedProbe(t *testing.T) {
	repo, srv := testRepo(t)
	ctx := context.Background()

	stats, err := repo.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.Extended != nil {
		t.Errorf("extended = %+v, want nil when probe unavailable", stats.Extended)
	}

	srv.ExtendedStats = true
	stats, err = repo.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.Extended == nil {
		t.Fatal("extended = nil, want populated")
	}
	if !stats.Extended.IndexHealthy || stats.Extended.EngineStatus != "idle" {
		t.Errorf("extended = %+v", stats.Extended)
	}
}

func TestReindexAll(t *testing.T) {
	repo, srv := testRepo(t)
	jobID, err := repo.ReindexAll(context.Background())
	if err != nil {
		t.Fatalf("ReindexAll: %v", err)
	}
	if jobID == "" {
		t.Error("no job id returned")
	}
	if srv.Reindexes() != 1 {
		t.Errorf("reindexes = %d, want 1", srv.Reindexes())
	}
}
