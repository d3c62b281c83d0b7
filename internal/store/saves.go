// internal/store/saves.go
//
// Durable save-slot storage.
// One slot per owner (a user ID, or an anonymous cookie ID for guests),
// holding the serialized record of that owner's in-progress game.
//
// Error contract:
//   - ErrNotFound:    no save exists for the owner (benign; start fresh).
//   - ErrUnavailable: the storage medium failed; in-memory state is
//     untouched and gameplay continues unpersisted.
//   - record.ErrCorrupt surfaces from Load when stored bytes do not parse;
//     callers treat it the same as "no save available".

package store

import (
	"context"
	"errors"

	"github.com/jklind/memory-puzzle/internal/record"
)

var (
	// ErrNotFound reports a missing session or save slot.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable reports that the durable medium could not be
	// read or written.
	ErrUnavailable = errors.New("storage unavailable")
)

// Saves is the durable persistence interface for game records.
// Implementations are backed by the filesystem (file.go) or SQLite
// (sqlite.go).
type Saves interface {
	// Save writes or replaces the owner's save slot.
	Save(ctx context.Context, owner string, r record.Record) error

	// Load reads the owner's save slot.
	Load(ctx context.Context, owner string) (record.Record, error)

	// Delete clears the owner's save slot. Missing slots are not an error.
	Delete(ctx context.Context, owner string) error
}
