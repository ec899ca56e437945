// Package filesearch implements the file-search index subsystem: search,
// per-path index mutation, watched-directory management, statistics, and
// reindex. The client holds no local index cache and never infers index
// membership from search results; all index state is backend-owned.
package filesearch

import (
	"context"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/ansuz/internal/failure"
	"github.com/starford/ansuz/internal/remote"
	"github.com/starford/ansuz/internal/transport"
)

const (
	errSearch    = "failed to search files"
	errAddIndex  = "failed to add path to index"
	errDropIndex = "failed to remove path from index"
	errListDirs  = "failed to list watched directories"
	errAddDir    = "failed to add watched directory"
	errDropDir   = "failed to remove watched directory"
	errStats     = "failed to load search statistics"
	errReindex   = "failed to trigger reindex"
)

// Repository exposes the file-search operations. Structurally invalid
// input is rejected locally as a Validation failure before any network
// round trip.
type Repository struct {
	ds  *dataSource
	log *slog.Logger
}

// NewRepository creates a file-search repository over a transport client.
func NewRepository(c *transport.Client, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.Default()
	}
	return &Repository{ds: &dataSource{c: c}, log: log}
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "must not be blank")
	}
	return nil
}

func (q SearchQuery) validate() error {
	return validation.Errors{
		"query":       validation.Validate(q.Query, validation.Required, validation.By(notBlank)),
		"file_types":  validation.Validate(q.FileTypes, validation.Each(validation.By(notBlank))),
		"directories": validation.Validate(q.Directories, validation.Each(validation.By(notBlank))),
		"max_results": validation.Validate(q.MaxResults, validation.Min(0)),
	}.Filter()
}

// Search runs a query and returns its hits. Each search replaces the
// prior result set wholesale; nothing is merged client-side.
func (r *Repository) Search(ctx context.Context, q SearchQuery) ([]Result, error) {
	if err := q.validate(); err != nil {
		return nil, failure.Validationf("invalid search request: %v", err)
	}
	req := searchRequest{
		Query:       q.Query,
		FileTypes:   q.FileTypes,
		Directories: q.Directories,
		MaxResults:  q.MaxResults,
	}
	return remote.FetchList(ctx, errSearch,
		func(ctx context.Context) ([]resultDTO, error) {
			res, err := r.ds.search(ctx, req)
			return res.Results, err
		},
		resultDTO.check, resultToEntity)
}

// AddToIndex asks the backend to index a path.
func (r *Repository) AddToIndex(ctx context.Context, path string, includeSubdirectories bool) error {
	if strings.TrimSpace(path) == "" {
		return failure.Validationf("path must not be empty")
	}
	return remote.Exec(ctx, errAddIndex, func(ctx context.Context) error {
		return r.ds.addToIndex(ctx, indexMutationRequest{
			Path:                  path,
			IncludeSubdirectories: includeSubdirectories,
		})
	})
}

// RemoveFromIndex asks the backend to drop a path from the index.
func (r *Repository) RemoveFromIndex(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return failure.Validationf("path must not be empty")
	}
	return remote.Exec(ctx, errDropIndex, func(ctx context.Context) error {
		return r.ds.removeFromIndex(ctx, path)
	})
}

// ListWatchedDirectories returns the backend's watched-directory set.
func (r *Repository) ListWatchedDirectories(ctx context.Context) ([]DirectoryConfig, error) {
	return remote.FetchList(ctx, errListDirs,
		func(ctx context.Context) ([]directoryDTO, error) {
			res, err := r.ds.listDirectories(ctx)
			return res.Directories, err
		},
		directoryDTO.check, directoryToEntity)
}

func (cfg DirectoryConfig) validate() error {
	return validation.Errors{
		"path":            validation.Validate(cfg.Path, validation.Required, validation.By(notBlank)),
		"file_extensions": validation.Validate(cfg.FileExtensions, validation.Each(validation.By(notBlank))),
	}.Filter()
}

// AddWatchedDirectory registers a directory for watching. Adding a path
// that is already watched is a replace at the backend, not an error;
// the client does not pre-check for duplicates.
func (r *Repository) AddWatchedDirectory(ctx context.Context, cfg DirectoryConfig) error {
	if err := cfg.validate(); err != nil {
		return failure.Validationf("invalid directory config: %v", err)
	}
	return remote.Exec(ctx, errAddDir, func(ctx context.Context) error {
		return r.ds.addDirectory(ctx, directoryFromEntity(cfg))
	})
}

// RemoveWatchedDirectory unregisters a directory by its path key.
func (r *Repository) RemoveWatchedDirectory(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return failure.Validationf("path must not be empty")
	}
	return remote.Exec(ctx, errDropDir, func(ctx context.Context) error {
		return r.ds.removeDirectory(ctx, path)
	})
}

// Statistics returns a point-in-time snapshot. The extended-status
// probe is best-effort: on probe failure the snapshot is returned with
// Extended nil and the degradation is logged, never silently dropped.
func (r *Repository) Statistics(ctx context.Context) (Statistics, error) {
	stats, err := remote.Fetch(ctx, errStats,
		func(ctx context.Context) (statsDTO, error) { return r.ds.stats(ctx) },
		nil, statsToEntity)
	if err != nil {
		return Statistics{}, err
	}

	ext, extErr := r.ds.extendedStats(ctx)
	if extErr != nil {
		r.log.Debug("extended stats probe failed",
			slog.String("error", failure.Normalize(extErr, errStats).Error()))
		return stats, nil
	}
	stats.Extended = &ExtendedStats{
		QueueDepth:   ext.QueueDepth,
		IndexHealthy: ext.IndexHealthy,
		EngineStatus: ext.EngineStatus,
	}
	return stats, nil
}

// ReindexAll triggers the asynchronous backend reindex job and returns
// its id. Callers are contractually required to refresh the
// watched-directories list and the statistics snapshot afterwards; the
// Screen type does this.
func (r *Repository) ReindexAll(ctx context.Context) (string, error) {
	res, err := r.ds.reindex(ctx)
	if err != nil {
		return "", failure.Normalize(err, errReindex)
	}
	return res.JobID, nil
}
