package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/calendar"
	"github.com/starford/ansuz/internal/chat"
	"github.com/starford/ansuz/internal/filesearch"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/notes"
	"github.com/starford/ansuz/internal/projects"
	"github.com/starford/ansuz/internal/syncer"
	"github.com/starford/ansuz/internal/translator"
	"github.com/starford/ansuz/internal/transport"
)

// Clients bundles the per-feature repositories over one transport
// client. Base URL and token are injected once at construction; nothing
// is read ambiently per request.
type Clients struct {
	Notes      *notes.Repository
	Projects   *projects.Repository
	Calendar   *calendar.Repository
	Chat       *chat.Repository
	Translator *translator.Repository
	FileSearch *filesearch.Repository
}

// NewClients builds the repository set from configuration.
func NewClients(cfg *Config, logger *slog.Logger) *Clients {
	tc := transport.New(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout())
	return &Clients{
		Notes:      notes.NewRepository(tc),
		Projects:   projects.NewRepository(tc),
		Calendar:   calendar.NewRepository(tc),
		Chat:       chat.NewRepository(tc),
		Translator: translator.NewRepository(tc),
		FileSearch: filesearch.NewRepository(tc, logger),
	}
}

// NewLogger builds the structured JSON logger used by all long-running
// modes and sets it as the process default.
func NewLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func buildApp(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logger == nil {
		app.logger = NewLogger(app.config)
	}
	return app, nil
}

// RunSync runs the push syncer: an initial walk-and-push pass over the
// backend's watched directories, then a filesystem watcher until ctx
// is cancelled.
func RunSync(ctx context.Context, opts ...Option) error {
	app, err := buildApp(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger
	clients := NewClients(cfg, logger)

	dirs, err := clients.FileSearch.ListWatchedDirectories(ctx)
	if err != nil {
		return fmt.Errorf("load watched directories: %w", err)
	}
	if len(dirs) == 0 {
		logger.Info("no watched directories configured, nothing to sync")
		return nil
	}

	ledger, err := syncer.OpenLedger(cfg.Sync.LedgerPath)
	if err != nil {
		return err
	}
	defer ledger.Close()

	s := syncer.New(clients.FileSearch, ledger, logger)

	logger.Info("initial sync", slog.Int("directories", len(dirs)))
	if err := s.SyncOnce(ctx, dirs); err != nil {
		return fmt.Errorf("initial sync: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Watch(gCtx, dirs)
	})
	return g.Wait()
}

// RunMCP serves the MCP tools over stdio until the transport closes.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := buildApp(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger
	clients := NewClients(cfg, logger)

	srv := mcpserver.New(clients.Notes, clients.FileSearch)
	logger.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}
