package syncer

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/filesearch"
)

// Watch starts an fsnotify watcher over the configured directories and
// pushes file change events to the remote index until ctx is
// cancelled. New subdirectories created at runtime are added to the
// watch list when the config includes subdirectories. Remove and
// rename events are debounced into a reconciliation pass, since the
// event alone does not say where a file went.
func (s *Syncer) Watch(ctx context.Context, dirs []filesearch.DirectoryConfig) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, cfg := range dirs {
		if cfg.IncludeSubdirectories {
			if err := addDirsRecursive(w, filepath.Clean(cfg.Path)); err != nil {
				return err
			}
		} else if err := w.Add(filepath.Clean(cfg.Path)); err != nil {
			return err
		}
	}

	s.logger.Info("watcher: started", slog.Int("roots", len(dirs)))

	// reconcileTimer debounces remove/rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			s.logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			if err := s.SyncOnce(ctx, dirs); err != nil {
				s.logger.Warn("watcher: reconcile failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			s.handleEvent(ctx, w, dirs, ev, scheduleReconcile)

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher: error", slog.String("error", werr.Error()))
		}
	}
}

func (s *Syncer) handleEvent(ctx context.Context, w *fsnotify.Watcher, dirs []filesearch.DirectoryConfig, ev fsnotify.Event, scheduleReconcile func()) {
	path := ev.Name

	cfg, ok := configFor(path, dirs)
	if !ok {
		return
	}

	if ev.Op&fsnotify.Create != 0 {
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			if cfg.IncludeSubdirectories {
				if addErr := addDirsRecursive(w, path); addErr != nil {
					s.logger.Warn("watcher: add new dir failed",
						slog.String("path", path), slog.String("error", addErr.Error()))
				}
				// Push any files already inside the new directory.
				sub := cfg
				sub.Path = path
				if err := s.SyncOnce(ctx, []filesearch.DirectoryConfig{sub}); err != nil {
					s.logger.Warn("watcher: sync new dir failed",
						slog.String("path", path), slog.String("error", err.Error()))
				}
			}
			return
		}
	}

	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		info, statErr := os.Stat(path)
		if statErr != nil || info.IsDir() {
			return
		}
		if !matches(cfg, path, fs.FileInfoToDirEntry(info)) {
			return
		}
		cs, csErr := checksum.SumFile(path)
		if csErr != nil {
			s.logger.Warn("watcher: checksum failed",
				slog.String("path", path), slog.String("error", csErr.Error()))
			return
		}
		prev, _ := s.ledger.Checksum(path)
		if prev == cs {
			return
		}
		if err := s.client.AddToIndex(ctx, path, false); err != nil {
			s.logger.Warn("watcher: push failed",
				slog.String("path", path), slog.String("error", err.Error()))
			return
		}
		if err := s.ledger.Record(path, cs); err != nil {
			s.logger.Warn("watcher: record failed",
				slog.String("path", path), slog.String("error", err.Error()))
			return
		}
		s.logger.Debug("watcher: pushed", slog.String("path", path))

	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		scheduleReconcile()
	}
}

// configFor returns the directory config whose root contains path.
func configFor(path string, dirs []filesearch.DirectoryConfig) (filesearch.DirectoryConfig, bool) {
	for _, cfg := range dirs {
		if underAnyRoot(path, []filesearch.DirectoryConfig{cfg}) {
			return cfg, true
		}
	}
	return filesearch.DirectoryConfig{}, false
}

// addDirsRecursive adds root and every subdirectory to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
