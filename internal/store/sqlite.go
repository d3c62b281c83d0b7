// internal/store/sqlite.go
//
// SQLite implementation of the Saves interface.
// Records are kept as JSON payloads in the saves table (one row per
// owner, upserted), which keeps the codec the single source of truth for
// the record shape while the database provides durability alongside the
// users and daily_results tables.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jklind/memory-puzzle/internal/record"
)

// SQLiteSaves persists save slots in the saves table.
type SQLiteSaves struct {
	db *sql.DB
}

// NewSQLiteSaves wraps an open database handle. The schema is applied by
// the migration layer (sql/001_init.sql), not here.
func NewSQLiteSaves(db *sql.DB) *SQLiteSaves {
	return &SQLiteSaves{db: db}
}

// Save upserts the owner's slot with the encoded record.
func (s *SQLiteSaves) Save(ctx context.Context, owner string, r record.Record) error {
	data, err := record.Encode(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO saves (owner, payload, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(owner) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at`,
		owner, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Load reads and decodes the owner's slot.
func (s *SQLiteSaves) Load(ctx context.Context, owner string) (record.Record, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM saves WHERE owner=?`, owner,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Record{}, ErrNotFound
	}
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return record.Decode([]byte(payload))
}

// Delete clears the owner's slot; deleting a missing row is a no-op.
func (s *SQLiteSaves) Delete(ctx context.Context, owner string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE owner=?`, owner); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Claim moves a guest's save slot to a user account after login/signup.
// An existing slot owned by the user wins; the anonymous slot is dropped.
func (s *SQLiteSaves) Claim(ctx context.Context, anonOwner, userOwner string) error {
	_, err := s.db.ExecContext(ctx, `
        UPDATE OR IGNORE saves SET owner=? WHERE owner=?`, userOwner, anonOwner)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	_, _ = s.db.ExecContext(ctx, `DELETE FROM saves WHERE owner=?`, anonOwner)
	return nil
}
