// Package persist owns the lifecycle of the durable database image: load
// at startup, auto-save on a timer and after every mutation, final save on
// shutdown, and whole-image export/import.
//
// The adapter never crashes the application over storage trouble. A failed
// save flips it into degraded mode - the in-memory image stays the source
// of truth and the caller is expected to warn that persistence is not
// guaranteed until the next successful save.
package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"gymdesk/internal/store"
)

// ErrStorageUnavailable means the durable medium is not writable. The
// application keeps running on the in-memory image.
var ErrStorageUnavailable = errors.New("durable storage unavailable")

// DefaultInterval is the auto-save period.
const DefaultInterval = 30 * time.Second

// DefaultFilename is the export filename for a given day:
// gym_database_<ISO-date>.sqlite.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("gym_database_%s.sqlite", now.Format(time.DateOnly))
}

// Adapter serializes the live in-memory image to one durable file.
//
// Save, Export, Import and Initialize are mutually serialized by a mutex,
// so a save can never observe a half-applied import. Mutators elsewhere
// complete their SQL and cache update synchronously before calling
// RequestSave, so a save never captures a half-applied write either.
type Adapter struct {
	store    *store.Store
	path     string
	interval time.Duration

	mu       sync.Mutex // serializes image operations
	degraded atomic.Bool

	saveCh chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New creates an adapter for the given live store and durable file path.
// A non-positive interval falls back to DefaultInterval.
func New(st *store.Store, path string, interval time.Duration) *Adapter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Adapter{
		store:    st,
		path:     path,
		interval: interval,
		saveCh:   make(chan struct{}, 1),
	}
}

// Initialize loads a previously saved image into the live store, if one
// exists. A fresh install (no file) leaves the already-created empty
// schema in place. Idempotent and never destructive to the saved file.
//
// An unwritable data directory degrades the adapter rather than failing:
// the application runs memory-only and the returned error wraps
// ErrStorageUnavailable purely as a warning signal.
func (a *Adapter) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		a.degraded.Store(true)
		slog.Error("data directory not writable, running memory-only", "path", a.path, "error", err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if _, err := os.Stat(a.path); os.IsNotExist(err) {
		slog.Info("no saved database image, starting fresh", "path", a.path)
		return nil
	} else if err != nil {
		a.degraded.Store(true)
		slog.Error("cannot read saved image, running memory-only", "path", a.path, "error", err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := store.VerifyImage(ctx, a.path); err != nil {
		// Keep the bytes for manual recovery, start fresh.
		aside := fmt.Sprintf("%s.corrupt-%d", a.path, time.Now().Unix())
		if mvErr := os.Rename(a.path, aside); mvErr != nil {
			slog.Error("saved image unreadable and could not be moved aside",
				"path", a.path, "error", err, "rename_error", mvErr)
		} else {
			slog.Error("saved image unreadable, moved aside and starting fresh",
				"path", a.path, "moved_to", aside, "error", err)
		}
		return nil
	}

	if err := a.store.RestoreFrom(ctx, a.path); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	slog.Info("database image loaded", "path", a.path)
	return nil
}

// Start launches the auto-save loop: a periodic tick plus coalesced
// RequestSave signals. Stop it with Close.
func (a *Adapter) Start(ctx context.Context) {
	a.once.Do(func() {
		loopCtx, cancel := context.WithCancel(ctx)
		a.cancel = cancel
		a.done = make(chan struct{})
		go a.run(loopCtx)
	})
}

func (a *Adapter) run(ctx context.Context) {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.saveLogged()
		case <-a.saveCh:
			a.saveLogged()
		}
	}
}

// RequestSave schedules a save on the auto-save goroutine. Non-blocking:
// pending requests coalesce, and mutators never wait on disk I/O.
func (a *Adapter) RequestSave() {
	select {
	case a.saveCh <- struct{}{}:
	default:
	}
}

func (a *Adapter) saveLogged() {
	if err := a.Save(context.Background()); err != nil {
		slog.Error("auto-save failed", "path", a.path, "error", err)
	}
}

// Save serializes the live image to the durable path. Writes go to a
// temporary file that is renamed over the previous image, so a failed save
// never corrupts the last good one.
func (a *Adapter) Save(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saveLocked(ctx)
}

func (a *Adapter) saveLocked(ctx context.Context) error {
	tmp := a.path + ".tmp"
	if err := a.store.BackupTo(ctx, tmp); err != nil {
		a.degraded.Store(true)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp, a.path); err != nil {
		a.degraded.Store(true)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if a.degraded.Swap(false) {
		slog.Info("storage recovered, persistence resumed", "path", a.path)
	}
	return nil
}

// Degraded reports whether the last save attempt failed and changes are
// currently held only in memory.
func (a *Adapter) Degraded() bool {
	return a.degraded.Load()
}

// Export writes a copy of the current image to dest without touching the
// live image or the durable file. An empty dest or a directory gets the
// default dated filename. Returns the path actually written.
func (a *Adapter) Export(ctx context.Context, dest string) (string, error) {
	switch info, err := os.Stat(dest); {
	case dest == "":
		dest = DefaultFilename(time.Now())
	case err == nil && info.IsDir():
		dest = filepath.Join(dest, DefaultFilename(time.Now()))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.BackupTo(ctx, dest); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return dest, nil
}

// Import validates the image at source and, only if it is loadable and
// carries the expected schema, replaces the live image wholesale and saves
// it. A rejected import leaves the current image untouched.
//
// This discards all previous data irreversibly; the caller is responsible
// for warning the user and for reloading any cached state afterwards.
func (a *Adapter) Import(ctx context.Context, source string) error {
	if err := store.VerifyImage(ctx, source); err != nil {
		return fmt.Errorf("import rejected: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.RestoreFrom(ctx, source); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := a.saveLocked(ctx); err != nil {
		// Imported image is live in memory; persistence will catch up.
		slog.Error("save after import failed", "error", err)
	}
	return nil
}

// Close stops the auto-save loop and performs a final synchronous save
// (the application-exit hook). Safe to call once after Start, or without
// Start at all.
func (a *Adapter) Close() error {
	if a.cancel != nil {
		a.cancel()
		<-a.done
	}
	if err := a.Save(context.Background()); err != nil {
		slog.Error("final save failed, changes since last save are lost", "error", err)
		return err
	}
	return nil
}
