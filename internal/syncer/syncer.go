// Package syncer mirrors local directory contents into the remote
// file-search index. A walk-and-push pass reconciles the index with
// disk; a filesystem watcher keeps it current afterwards. A SQLite
// ledger of pushed checksums makes both passes incremental.
package syncer

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/filesearch"
)

// IndexClient is the slice of the file-search repository the syncer
// needs. Consumers depend on this interface rather than the concrete
// repository to facilitate testing with fakes.
type IndexClient interface {
	AddToIndex(ctx context.Context, path string, includeSubdirectories bool) error
	RemoveFromIndex(ctx context.Context, path string) error
}

var _ IndexClient = (*filesearch.Repository)(nil)

// Syncer pushes local file changes to the remote index.
type Syncer struct {
	client IndexClient
	ledger *Ledger
	logger *slog.Logger
}

// New creates a Syncer.
func New(client IndexClient, ledger *Ledger, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{client: client, ledger: ledger, logger: logger}
}

// matches reports whether a file belongs to a directory config:
// within depth bounds and matching the extension filter (nil = all).
func matches(cfg filesearch.DirectoryConfig, path string, d fs.DirEntry) bool {
	if d.IsDir() {
		return false
	}
	if !cfg.IncludeSubdirectories {
		if filepath.Dir(path) != filepath.Clean(cfg.Path) {
			return false
		}
	}
	if len(cfg.FileExtensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, want := range cfg.FileExtensions {
		if strings.EqualFold(strings.TrimPrefix(want, "."), ext) {
			return true
		}
	}
	return false
}

// SyncOnce walks each configured directory and brings the remote index
// up to date:
//   - new or changed files are pushed via AddToIndex
//   - ledger entries whose files no longer exist are removed remotely
//
// Per-file errors are logged and skipped so one unreadable file does
// not abort the pass; the first remote failure aborts, since subsequent
// pushes would almost certainly fail the same way.
func (s *Syncer) SyncOnce(ctx context.Context, dirs []filesearch.DirectoryConfig) error {
	recorded, err := s.ledger.All()
	if err != nil {
		return err
	}

	onDisk := map[string]struct{}{}
	for _, cfg := range dirs {
		root := filepath.Clean(cfg.Path)
		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.logger.Warn("sync: walk failed",
					slog.String("path", path), slog.String("error", err.Error()))
				return nil
			}
			if d.IsDir() {
				if !cfg.IncludeSubdirectories && path != root {
					return fs.SkipDir
				}
				return nil
			}
			if !matches(cfg, path, d) {
				return nil
			}
			onDisk[path] = struct{}{}

			cs, csErr := checksum.SumFile(path)
			if csErr != nil {
				s.logger.Warn("sync: checksum failed",
					slog.String("path", path), slog.String("error", csErr.Error()))
				return nil
			}
			if recorded[path] == cs {
				return nil
			}
			if pushErr := s.client.AddToIndex(ctx, path, false); pushErr != nil {
				return pushErr
			}
			if recErr := s.ledger.Record(path, cs); recErr != nil {
				return recErr
			}
			s.logger.Debug("sync: pushed", slog.String("path", path))
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
	}

	// Remove stale ledger entries within the synced roots.
	for path := range recorded {
		if _, ok := onDisk[path]; ok {
			continue
		}
		if !underAnyRoot(path, dirs) {
			continue
		}
		if err := s.client.RemoveFromIndex(ctx, path); err != nil {
			return err
		}
		if err := s.ledger.Forget(path); err != nil {
			return err
		}
		s.logger.Debug("sync: removed stale", slog.String("path", path))
	}

	return nil
}

func underAnyRoot(path string, dirs []filesearch.DirectoryConfig) bool {
	for _, cfg := range dirs {
		root := filepath.Clean(cfg.Path)
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
