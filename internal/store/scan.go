package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"gymdesk/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows, so each table's
// scan function exists exactly once and serves single-row and list queries.
type rowScanner interface {
	Scan(dest ...any) error
}

// Nullable write helpers. Optional fields use the Go zero value for "not
// recorded" and are stored as NULL, matching images produced by earlier
// versions of the application.

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(i int) any {
	if i == 0 {
		return nil
	}
	return i
}

func nullFloat(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}

// parseDate parses a calendar-day column (DateOnly format).
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// parseTimestamp parses a timestamp column. Accepts RFC 3339 (what this
// code writes) and SQLite's datetime('now') format (what DB defaults and
// foreign exports may carry).
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: unrecognized format", s)
}

// marshalAttendance converts the attendance list to JSON TEXT for storage.
func marshalAttendance(records []model.AttendanceRecord) (string, error) {
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshal attendance: %w", err)
	}
	return string(data), nil
}

// unmarshalAttendance parses the attendance JSON TEXT column.
func unmarshalAttendance(data string) ([]model.AttendanceRecord, error) {
	if data == "" || data == "[]" {
		return []model.AttendanceRecord{}, nil
	}
	var records []model.AttendanceRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, fmt.Errorf("unmarshal attendance: %w", err)
	}
	return records, nil
}

// collect drains rows through scan, returning an empty (never nil) slice.
func collect[T any](rows *sql.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return items, nil
}
