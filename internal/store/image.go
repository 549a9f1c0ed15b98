package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Storage-layer errors. These degrade the application, never crash it: the
// in-memory image stays authoritative and the caller decides how to warn.
var (
	// ErrCorruptImage means candidate bytes do not form a loadable SQLite
	// image. Import rejects and the current image is kept.
	ErrCorruptImage = errors.New("corrupt database image")

	// ErrSchemaMismatch means a loadable image does not carry the expected
	// gymdesk tables (e.g. a foreign export). Rejected rather than
	// partially recovered.
	ErrSchemaMismatch = errors.New("database image schema mismatch")
)

// BackupTo serializes the current image to a fresh file at path using the
// SQLite online backup API. The source image is only read, never mutated.
func (s *Store) BackupTo(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("backup: remove stale file: %w", err)
	}

	dest, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("backup: open destination: %w", err)
	}
	defer dest.Close()

	if err := copyImage(ctx, dest, s.db); err != nil {
		return fmt.Errorf("backup to %s: %w", path, err)
	}
	return nil
}

// RestoreFrom replaces the live image wholesale with the image at path.
// The caller is responsible for verifying the source first (VerifyImage)
// and for reloading any cached state afterwards.
func (s *Store) RestoreFrom(ctx context.Context, path string) error {
	src, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("restore: open source: %w", err)
	}
	defer src.Close()

	if err := copyImage(ctx, s.db, src); err != nil {
		return fmt.Errorf("restore from %s: %w", path, err)
	}
	return nil
}

// copyImage copies the full "main" database from src to dest page by page.
func copyImage(ctx context.Context, dest, src *sql.DB) error {
	srcConn, err := src.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire source conn: %w", err)
	}
	defer srcConn.Close()

	destConn, err := dest.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire destination conn: %w", err)
	}
	defer destConn.Close()

	return srcConn.Raw(func(rawSrc any) error {
		return destConn.Raw(func(rawDest any) error {
			from, ok := rawSrc.(*sqlite3.SQLiteConn)
			if !ok {
				return fmt.Errorf("source is not a sqlite connection")
			}
			to, ok := rawDest.(*sqlite3.SQLiteConn)
			if !ok {
				return fmt.Errorf("destination is not a sqlite connection")
			}

			bk, err := to.Backup("main", from, "main")
			if err != nil {
				return fmt.Errorf("init backup: %w", err)
			}
			defer bk.Finish()

			for {
				done, err := bk.Step(256)
				if err != nil {
					return fmt.Errorf("backup step: %w", err)
				}
				if done {
					return nil
				}
			}
		})
	})
}

// VerifyImage checks that the file at path is a loadable SQLite image
// carrying the expected gymdesk tables. It never modifies the file.
//
// Returns ErrCorruptImage (wrapped) for unreadable or failed-integrity
// images and ErrSchemaMismatch (wrapped) when tables are missing.
func VerifyImage(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("verify image: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}
	defer db.Close()

	// The first real query is where a non-SQLite file fails.
	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}
	if result != "ok" {
		return fmt.Errorf("%w: integrity_check reported %q", ErrCorruptImage, result)
	}

	for _, table := range expectedTables {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: missing table %q", ErrSchemaMismatch, table)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptImage, err)
		}
	}

	return nil
}
