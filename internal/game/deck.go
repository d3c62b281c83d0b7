// internal/game/deck.go
//
// Deck building for the memory-puzzle engine.
// Responsibilities:
//   - Validate grid/symbol sizing (rows*cols must equal 2*len(symbols)).
//   - Deal a shuffled paired-symbol assignment across the grid.
//   - Assign each tile a unique row-major position.
//
// Notes:
//   - New shuffles with crypto/rand; NewSeeded takes a deterministic seed
//     (daily mode, tests).
//   - ErrInvalidConfig is a setup-time configuration error and is fatal to
//     the caller; a running session can never produce it.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand"
)

// ErrInvalidConfig reports an invalid grid/symbol configuration at setup.
var ErrInvalidConfig = errors.New("invalid game configuration")

// New constructs a fresh session: a rows×cols grid with each symbol dealt
// to exactly two uniformly random positions, all tiles face down.
//
// Validation rules:
//   - rows and cols must be positive.
//   - rows*cols must be even and equal to 2*len(symbols).
//   - symbols must be non-empty strings with no duplicates.
func New(symbols []string, rows, cols int) (*Session, error) {
	return build(symbols, rows, cols, cryptoShuffle)
}

// NewSeeded is New with a deterministic shuffle. Identical inputs produce
// an identical deal, which backs the daily challenge and tests.
func NewSeeded(symbols []string, rows, cols int, seed int64) (*Session, error) {
	rng := mrand.New(mrand.NewSource(seed))
	return build(symbols, rows, cols, rng.Shuffle)
}

// build validates the configuration and deals the deck using the provided
// shuffle function (Fisher–Yates contract: shuffle(n, swap)).
func build(symbols []string, rows, cols int, shuffle func(n int, swap func(i, j int))) (*Session, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, rows, cols)
	}
	count := rows * cols
	if count%2 != 0 {
		return nil, fmt.Errorf("%w: odd tile count %d", ErrInvalidConfig, count)
	}
	if len(symbols) != count/2 {
		return nil, fmt.Errorf("%w: %d symbols for %d tiles (need %d)", ErrInvalidConfig, len(symbols), count, count/2)
	}
	seen := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		if sym == "" {
			return nil, fmt.Errorf("%w: empty symbol", ErrInvalidConfig)
		}
		if _, dup := seen[sym]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %q", ErrInvalidConfig, sym)
		}
		seen[sym] = struct{}{}
	}

	// Two tiles per symbol, then shuffle the assignment.
	values := make([]string, 0, count)
	for _, sym := range symbols {
		values = append(values, sym, sym)
	}
	shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	tiles := make([]Tile, count)
	for i := range tiles {
		tiles[i] = Tile{
			Row:        i / cols,
			Col:        i % cols,
			Symbol:     values[i],
			Visibility: Hidden,
		}
	}
	return &Session{
		ID:         randomID(),
		Rows:       rows,
		Cols:       cols,
		Tiles:      tiles,
		FirstPick:  NoPick,
		SecondPick: NoPick,
	}, nil
}

// cryptoShuffle is a Fisher–Yates shuffle drawing indices from crypto/rand.
func cryptoShuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken;
			// a deck that cannot be shuffled is unusable.
			panic("game: crypto/rand unavailable: " + err.Error())
		}
		swap(i, int(j.Int64()))
	}
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
