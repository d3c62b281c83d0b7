package game

import (
	"errors"
	"testing"
)

func TestNewValidatesConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		symbols []string
		rows    int
		cols    int
	}{
		{"odd tile count", []string{"a", "b", "c", "d"}, 3, 3},
		{"too few symbols", []string{"a", "b"}, 4, 4},
		{"too many symbols", testSymbols, 2, 2},
		{"zero grid", testSymbols, 0, 4},
		{"negative grid", testSymbols, -1, 4},
		{"duplicate symbol", []string{"a", "a"}, 2, 2},
		{"empty symbol", []string{"a", ""}, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.symbols, tt.rows, tt.cols)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New(%v, %d, %d) error = %v, want ErrInvalidConfig",
					tt.symbols, tt.rows, tt.cols, err)
			}
		})
	}
}

func TestNewDealsPairsAcrossGrid(t *testing.T) {
	s, err := New(testSymbols, 4, 4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if len(s.Tiles) != 16 {
		t.Fatalf("tile count = %d, want 16", len(s.Tiles))
	}
	if s.ID == "" {
		t.Error("session has empty ID")
	}

	counts := make(map[string]int)
	positions := make(map[[2]int]bool)
	for i, tile := range s.Tiles {
		counts[tile.Symbol]++
		pos := [2]int{tile.Row, tile.Col}
		if positions[pos] {
			t.Errorf("duplicate position %v", pos)
		}
		positions[pos] = true
		if wantRow, wantCol := i/4, i%4; tile.Row != wantRow || tile.Col != wantCol {
			t.Errorf("tile %d at %d,%d, want %d,%d", i, tile.Row, tile.Col, wantRow, wantCol)
		}
	}
	for _, sym := range testSymbols {
		if counts[sym] != 2 {
			t.Errorf("symbol %q dealt %d times, want 2", sym, counts[sym])
		}
	}
}

func TestNewSupportsRectangularGrids(t *testing.T) {
	syms := []string{"a", "b", "c"}
	s, err := New(syms, 2, 3)
	if err != nil {
		t.Fatalf("New(2x3) failed: %v", err)
	}
	if s.Rows != 2 || s.Cols != 3 || len(s.Tiles) != 6 {
		t.Errorf("got %dx%d with %d tiles", s.Rows, s.Cols, len(s.Tiles))
	}
}

func TestNewSeededIsDeterministic(t *testing.T) {
	a, err := NewSeeded(testSymbols, 4, 4, 99)
	if err != nil {
		t.Fatalf("NewSeeded failed: %v", err)
	}
	b, err := NewSeeded(testSymbols, 4, 4, 99)
	if err != nil {
		t.Fatalf("NewSeeded failed: %v", err)
	}
	for i := range a.Tiles {
		if a.Tiles[i].Symbol != b.Tiles[i].Symbol {
			t.Fatalf("tile %d differs between identical seeds: %q vs %q",
				i, a.Tiles[i].Symbol, b.Tiles[i].Symbol)
		}
	}

	c, err := NewSeeded(testSymbols, 4, 4, 100)
	if err != nil {
		t.Fatalf("NewSeeded failed: %v", err)
	}
	same := true
	for i := range a.Tiles {
		if a.Tiles[i].Symbol != c.Tiles[i].Symbol {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced an identical deal")
	}
}
