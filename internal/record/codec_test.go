package record

import (
	"errors"
	"testing"

	"github.com/jklind/memory-puzzle/internal/game"
)

var testSymbols = []string{"1", "2", "3", "4", "5", "6", "7", "8"}

func testSession(t *testing.T) *game.Session {
	t.Helper()
	s, err := game.NewSeeded(testSymbols, 4, 4, 11)
	if err != nil {
		t.Fatalf("NewSeeded failed: %v", err)
	}
	return s
}

// playSome matches one pair and reveals one further tile, leaving the
// session mid-game with mixed visibility.
func playSome(t *testing.T, s *game.Session) {
	t.Helper()
	first, second := -1, -1
	for i := range s.Tiles {
		if s.Tiles[i].Symbol == "4" {
			if first == -1 {
				first = i
			} else {
				second = i
			}
		}
	}
	s.Select(first)
	s.Select(second)
	for i := range s.Tiles {
		if s.Tiles[i].Visibility == game.Hidden {
			s.Select(i)
			break
		}
	}
	s.Tick()
}

func TestRoundTrip(t *testing.T) {
	s := testSession(t)
	playSome(t, s)

	data, err := Encode(Snapshot(s))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	rec, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	restored, err := Restore(rec)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if restored.MoveCount != s.MoveCount {
		t.Errorf("MoveCount = %d, want %d", restored.MoveCount, s.MoveCount)
	}
	if restored.Complete != s.Complete {
		t.Errorf("Complete = %v, want %v", restored.Complete, s.Complete)
	}
	if restored.Rows != s.Rows || restored.Cols != s.Cols {
		t.Errorf("grid = %dx%d, want %dx%d", restored.Rows, restored.Cols, s.Rows, s.Cols)
	}
	if len(restored.Tiles) != len(s.Tiles) {
		t.Fatalf("tile count = %d, want %d", len(restored.Tiles), len(s.Tiles))
	}
	for i := range s.Tiles {
		got, want := restored.Tiles[i], s.Tiles[i]
		if got.Row != want.Row || got.Col != want.Col || got.Symbol != want.Symbol || got.Visibility != want.Visibility {
			t.Errorf("tile %d = %+v, want %+v", i, got, want)
		}
	}

	// In-flight state never survives a round trip.
	if restored.FirstPick != game.NoPick || restored.SecondPick != game.NoPick || restored.PendingHide != 0 {
		t.Errorf("restored session has live picks: %d %d %d",
			restored.FirstPick, restored.SecondPick, restored.PendingHide)
	}
	for i := range restored.Tiles {
		want := 0
		if restored.Tiles[i].Visibility.FaceUp() {
			want = game.ProgressMax
		}
		if restored.Tiles[i].Progress != want {
			t.Errorf("tile %d progress = %d, want %d", i, restored.Tiles[i].Progress, want)
		}
	}
}

func TestRoundTripCompleteFlag(t *testing.T) {
	s := testSession(t)
	for _, sym := range testSymbols {
		first := -1
		for i := range s.Tiles {
			if s.Tiles[i].Symbol == sym {
				if first == -1 {
					first = i
				} else {
					s.Select(first)
					s.Select(i)
				}
			}
		}
	}
	if !s.Complete {
		t.Fatal("session not complete after matching everything")
	}
	restored, err := Restore(Snapshot(s))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !restored.Complete {
		t.Error("restored session lost the complete flag")
	}
}

func TestRestoreRejectsCorruptRecords(t *testing.T) {
	base := func() Record { return Snapshot(testSession(t)) }

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"no tiles", func(r *Record) { r.Tiles = nil }},
		{"odd tile count", func(r *Record) { r.Tiles = r.Tiles[:15] }},
		{"negative move count", func(r *Record) { r.MoveCount = -1 }},
		{"unknown visibility", func(r *Record) { r.Tiles[3].Visibility = "peeking" }},
		{"empty visibility", func(r *Record) { r.Tiles[0].Visibility = "" }},
		{"empty symbol", func(r *Record) { r.Tiles[5].Symbol = "" }},
		{"broken pair", func(r *Record) { r.Tiles[1].Symbol = r.Tiles[0].Symbol }},
		{"duplicate position", func(r *Record) { r.Tiles[2].Row, r.Tiles[2].Col = r.Tiles[1].Row, r.Tiles[1].Col }},
		{"negative position", func(r *Record) { r.Tiles[4].Row = -1 }},
		{"position off grid", func(r *Record) { r.Tiles[4].Row = 12 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := base()
			tt.mutate(&rec)
			if _, err := Restore(rec); !errors.Is(err, ErrCorrupt) {
				t.Errorf("Restore error = %v, want ErrCorrupt", err)
			}
		})
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"moveCount": "not a number"`)); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Decode error = %v, want ErrCorrupt", err)
	}
}
