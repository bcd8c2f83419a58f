// Package cursor persists the ingestion date cursor between runs.
package cursor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DateFormat is the on-disk and CLI date layout.
const DateFormat = "2006-01-02"

var (
	// ErrNoCursor is returned when no cursor file exists.
	ErrNoCursor = errors.New("no cursor found")

	// ErrRangeExhausted signals that every date in the configured
	// range has been ingested. Terminal condition, not a failure.
	ErrRangeExhausted = errors.New("date range exhausted")
)

// Range bounds the simulated daily loads. Start is the first business
// date to ingest; End is the exclusive terminal date the cursor parks
// at once the range is exhausted.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether day is ingestable within the range.
func (r Range) Contains(day time.Time) bool {
	return !day.Before(r.Start) && day.Before(r.End)
}

// Resolve returns the date a run should ingest given the persisted
// cursor value. An absent cursor or one before the range clamps to the
// range start; a cursor at or past the terminal date resolves to
// ErrRangeExhausted.
func (r Range) Resolve(cur time.Time, ok bool) (time.Time, error) {
	if !ok || cur.Before(r.Start) {
		return r.Start, nil
	}
	if !r.Contains(cur) {
		return time.Time{}, fmt.Errorf("cursor at %s: %w", cur.Format(DateFormat), ErrRangeExhausted)
	}
	return cur, nil
}

// Advance returns the business date following day.
func Advance(day time.Time) time.Time {
	return day.AddDate(0, 0, 1)
}

// Cursor reads and writes the single-line date marker file. The model
// assumes single-writer, single-instance execution; there is no locking.
type Cursor struct {
	path string
}

// New creates a cursor backed by the given file path.
func New(path string) *Cursor {
	return &Cursor{path: path}
}

// Load reads the persisted date. Returns ErrNoCursor when the file is
// absent.
func (c *Cursor) Load() (time.Time, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNoCursor
		}
		return time.Time{}, fmt.Errorf("read cursor file: %w", err)
	}

	day, err := time.Parse(DateFormat, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cursor file %s: %w", c.path, err)
	}
	return day, nil
}

// Save persists day atomically using temp file + rename.
func (c *Cursor) Save(day time.Time) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create cursor directory: %w", err)
	}

	tempPath := c.path + ".tmp"
	if err := os.WriteFile(tempPath, []byte(day.Format(DateFormat)+"\n"), 0644); err != nil {
		return fmt.Errorf("write cursor temp file: %w", err)
	}
	if err := os.Rename(tempPath, c.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("rename cursor file: %w", err)
	}
	return nil
}

// NextDate loads the cursor and resolves the date the run should
// ingest. Persistence stays explicit: the caller saves the advanced
// value only after a fully successful run.
func NextDate(c *Cursor, r Range) (time.Time, error) {
	cur, err := c.Load()
	if err != nil {
		if errors.Is(err, ErrNoCursor) {
			return r.Resolve(time.Time{}, false)
		}
		return time.Time{}, err
	}
	return r.Resolve(cur, true)
}
