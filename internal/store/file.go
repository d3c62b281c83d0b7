// internal/store/file.go
//
// Filesystem implementation of the Saves interface.
// One JSON file per owner under a base directory, mirroring the classic
// single save file of the desktop game but generalized to per-owner slots.
//
// Notes:
//   - Owner IDs are crypto-random URL-safe strings (see httpserver genID),
//     sanitized here anyway before use as a filename.
//   - Write errors map to ErrUnavailable, missing files to ErrNotFound,
//     unparseable contents to record.ErrCorrupt (via record.Decode).

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jklind/memory-puzzle/internal/record"
)

// FileSaves stores one save record per owner as <dir>/<owner>.json.
type FileSaves struct {
	dir string
}

// NewFileSaves creates the base directory if needed and returns the store.
func NewFileSaves(dir string) (*FileSaves, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: mkdir %s: %v", ErrUnavailable, dir, err)
	}
	return &FileSaves{dir: dir}, nil
}

// Save writes the record as JSON, replacing any previous slot contents.
func (f *FileSaves) Save(ctx context.Context, owner string, r record.Record) error {
	data, err := record.Encode(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path(owner), data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Load reads and decodes the owner's slot.
func (f *FileSaves) Load(ctx context.Context, owner string) (record.Record, error) {
	data, err := os.ReadFile(f.path(owner))
	if err != nil {
		if os.IsNotExist(err) {
			return record.Record{}, ErrNotFound
		}
		return record.Record{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return record.Decode(data)
}

// Delete removes the owner's slot file; a missing file is fine.
func (f *FileSaves) Delete(ctx context.Context, owner string) error {
	if err := os.Remove(f.path(owner)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// path maps an owner ID to its slot file, stripping path separators and
// dots so an ID can never escape the base directory.
func (f *FileSaves) path(owner string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, owner)
	if clean == "" {
		clean = "default"
	}
	return filepath.Join(f.dir, clean+".json")
}
