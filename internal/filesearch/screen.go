package filesearch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/failure"
	"github.com/starford/ansuz/internal/resource"
)

// Screen composes the resource containers of the file-search screen:
// search results, watched directories, and the statistics snapshot.
// It is the single owner of those snapshots and enforces the
// subsystem's consistency rules:
//
//   - every successful index-mutating call invalidates the statistics
//     snapshot (marks it stale, no network call);
//   - directory mutations additionally refresh the directory list;
//   - ReindexAll force-refreshes BOTH the directory list and the
//     statistics snapshot, so visible counters are fetched strictly
//     after the reindex call.
type Screen struct {
	repo *Repository

	mu    sync.Mutex
	query SearchQuery

	Results     *resource.Container[[]Result]
	Directories *resource.Container[[]DirectoryConfig]
	Stats       *resource.Container[Statistics]
}

// NewScreen creates the container set for one file-search screen.
func NewScreen(repo *Repository) *Screen {
	s := &Screen{repo: repo}
	s.Results = resource.NewContainer(func(ctx context.Context) ([]Result, error) {
		s.mu.Lock()
		q := s.query
		s.mu.Unlock()
		return repo.Search(ctx, q)
	})
	s.Directories = resource.NewContainer(repo.ListWatchedDirectories)
	s.Stats = resource.NewContainer(repo.Statistics)
	return s
}

// Search validates the query, stores it as the screen's current query,
// and refreshes the results container. The previous result set is
// replaced wholesale.
func (s *Screen) Search(ctx context.Context, q SearchQuery) error {
	// Reject locally before touching the container, so an invalid query
	// neither clears the current results nor issues a network call.
	if err := q.validate(); err != nil {
		return failure.Validationf("invalid search request: %v", err)
	}
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
	// A new search replaces the previous one wholesale, so any fetch
	// still in flight for the old query must not be applied.
	s.Results.Supersede()
	return s.Results.Refresh(ctx)
}

// AddToIndex mutates backend index state and invalidates the
// statistics snapshot.
func (s *Screen) AddToIndex(ctx context.Context, path string, includeSubdirectories bool) error {
	if err := s.repo.AddToIndex(ctx, path, includeSubdirectories); err != nil {
		return err
	}
	s.Stats.Invalidate()
	return nil
}

// RemoveFromIndex mutates backend index state and invalidates the
// statistics snapshot.
func (s *Screen) RemoveFromIndex(ctx context.Context, path string) error {
	if err := s.repo.RemoveFromIndex(ctx, path); err != nil {
		return err
	}
	s.Stats.Invalidate()
	return nil
}

// AddWatchedDirectory registers a directory, refreshes the directory
// list, and invalidates the statistics snapshot.
func (s *Screen) AddWatchedDirectory(ctx context.Context, cfg DirectoryConfig) error {
	if err := s.repo.AddWatchedDirectory(ctx, cfg); err != nil {
		return err
	}
	s.Stats.Invalidate()
	return s.Directories.Refresh(ctx)
}

// RemoveWatchedDirectory unregisters a directory, refreshes the
// directory list, and invalidates the statistics snapshot.
func (s *Screen) RemoveWatchedDirectory(ctx context.Context, path string) error {
	if err := s.repo.RemoveWatchedDirectory(ctx, path); err != nil {
		return err
	}
	s.Stats.Invalidate()
	return s.Directories.Refresh(ctx)
}

// ReindexAll triggers the backend reindex job and force-refreshes both
// the watched-directory list and the statistics snapshot. Reindexing
// without refreshing visible counters is a correctness bug.
func (s *Screen) ReindexAll(ctx context.Context) (string, error) {
	jobID, err := s.repo.ReindexAll(ctx)
	if err != nil {
		return "", err
	}
	s.Directories.Invalidate()
	s.Stats.Invalidate()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Directories.Refresh(gCtx) })
	g.Go(func() error { return s.Stats.Refresh(gCtx) })
	if err := g.Wait(); err != nil {
		return jobID, err
	}
	return jobID, nil
}
