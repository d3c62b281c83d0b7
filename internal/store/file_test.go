package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jklind/memory-puzzle/internal/game"
	"github.com/jklind/memory-puzzle/internal/record"
)

var testSymbols = []string{"1", "2", "3", "4", "5", "6", "7", "8"}

func testRecord(t *testing.T) record.Record {
	t.Helper()
	s, err := game.NewSeeded(testSymbols, 4, 4, 5)
	if err != nil {
		t.Fatalf("NewSeeded failed: %v", err)
	}
	return record.Snapshot(s)
}

func TestFileSavesRoundTrip(t *testing.T) {
	fs, err := NewFileSaves(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSaves failed: %v", err)
	}
	ctx := context.Background()
	rec := testRecord(t)

	if err := fs.Save(ctx, "alice", rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := fs.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Tiles) != len(rec.Tiles) || got.MoveCount != rec.MoveCount {
		t.Errorf("loaded record differs: %d tiles, %d moves", len(got.Tiles), got.MoveCount)
	}
}

func TestFileSavesMissingSlot(t *testing.T) {
	fs, err := NewFileSaves(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSaves failed: %v", err)
	}
	if _, err := fs.Load(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}
}

func TestFileSavesCorruptSlot(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileSaves(dir)
	if err != nil {
		t.Fatalf("NewFileSaves failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bob.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Load(context.Background(), "bob"); !errors.Is(err, record.ErrCorrupt) {
		t.Errorf("Load error = %v, want record.ErrCorrupt", err)
	}
}

func TestFileSavesDelete(t *testing.T) {
	fs, err := NewFileSaves(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSaves failed: %v", err)
	}
	ctx := context.Background()
	if err := fs.Save(ctx, "carol", testRecord(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := fs.Delete(ctx, "carol"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := fs.Load(ctx, "carol"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete = %v, want ErrNotFound", err)
	}
	// Deleting a missing slot is fine.
	if err := fs.Delete(ctx, "carol"); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}

func TestFileSavesSanitizesOwner(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileSaves(dir)
	if err != nil {
		t.Fatalf("NewFileSaves failed: %v", err)
	}
	ctx := context.Background()
	if err := fs.Save(ctx, "../../escape", testRecord(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file inside the save dir, found %d", len(entries))
	}
}

func TestSessionsRegistry(t *testing.T) {
	reg := NewSessions()
	ctx := context.Background()

	s, err := game.NewSeeded(testSymbols, 4, 4, 9)
	if err != nil {
		t.Fatalf("NewSeeded failed: %v", err)
	}
	if err := reg.Put(ctx, s); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := reg.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}

	if _, err := reg.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}

	reg.Drop(ctx, s.ID)
	if _, err := reg.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Drop = %v, want ErrNotFound", err)
	}
}
