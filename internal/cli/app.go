package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"gymdesk/internal/cache"
	"gymdesk/internal/config"
	"gymdesk/internal/persist"
	"gymdesk/internal/store"
)

// App bundles the wired-up layers a command works against: the live
// SQLite image, its persistence adapter and the domain cache.
type App struct {
	Config  config.Config
	Store   *store.Store
	Adapter *persist.Adapter
	Cache   *cache.Cache
}

// openApp loads configuration, opens the in-memory image, restores the
// saved database if one exists and fills the cache. A data directory
// that cannot be used degrades to memory-only operation with a warning
// instead of refusing to start.
func openApp(ctx context.Context, opts *RootOptions) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	configureLogging(cfg.LogLevel, opts.Verbose)

	st, err := store.OpenMemory()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	adapter := persist.New(st, cfg.DatabasePath(), cfg.AutosaveInterval())
	if err := adapter.Initialize(ctx); err != nil {
		if !errors.Is(err, persist.ErrStorageUnavailable) {
			st.Close()
			return nil, WrapExitError(ExitCommandError, "failed to load saved database", err)
		}
		slog.Warn("running memory-only, changes will not be saved", "error", err)
	}

	c := cache.New(st, adapter, nil)
	if err := c.Reload(ctx); err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load domain state", err)
	}

	return &App{Config: cfg, Store: st, Adapter: adapter, Cache: c}, nil
}

// Close saves the image a final time and releases the store.
func (a *App) Close() error {
	err := a.Adapter.Close()
	if closeErr := a.Store.Close(); err == nil {
		err = closeErr
	}
	return err
}

// closeApp is the deferred cleanup for commands: a failed exit save is
// reported but never turns a completed command into a failure.
func closeApp(a *App) {
	if err := a.Close(); err != nil {
		slog.Warn("failed to save on exit", "error", err)
	}
}

// configureLogging installs the default slog handler. The verbose flag
// forces debug regardless of the configured level.
func configureLogging(level string, verbose bool) {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
