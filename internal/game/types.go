// internal/game/types.go
//
// Core type definitions for the memory-puzzle game engine.
// Defines:
//   - Visibility: face state of a single tile (hidden/revealed/matched).
//   - Tile: one grid cell with its symbol and flip-animation progress.
//   - Session: full mutable state of one game instance.

package game

// Visibility represents the face state of a single tile.
// Possible values:
//   - "hidden":   face down; eligible for selection.
//   - "revealed": face up as one of the current picks.
//   - "matched":  face up permanently; excluded from future comparisons.
type Visibility string

const (
	Hidden   Visibility = "hidden"
	Revealed Visibility = "revealed"
	Matched  Visibility = "matched"
)

// Valid reports whether v is one of the three known visibility states.
func (v Visibility) Valid() bool {
	return v == Hidden || v == Revealed || v == Matched
}

// FaceUp reports whether the tile's front face is the animation target.
func (v Visibility) FaceUp() bool {
	return v == Revealed || v == Matched
}

// Animation and timing constants. One tick is one step of the external
// driver loop running at TickRate steps per second.
const (
	ProgressMax    = 100      // fully revealed flip progress
	ProgressStep   = 8        // progress units advanced per tick
	TickRate       = 30       // driver steps per second
	HideDelayTicks = TickRate // mismatch display delay (1 second)
)

// NoPick marks an unset selection slot.
const NoPick = -1

// Tile holds the state of one grid cell.
type Tile struct {
	Row        int        // grid row, 0-based
	Col        int        // grid column, 0-based
	Symbol     string     // face value; exactly two tiles share each symbol
	Visibility Visibility // current face state
	Progress   int        // flip animation progress, 0..ProgressMax
}

// Session holds the state of a single memory-puzzle game.
// It exclusively owns its tiles; FirstPick and SecondPick are indices
// into Tiles, never independent tile references.
type Session struct {
	ID         string // unique session identifier (random hex string)
	Rows       int    // grid rows
	Cols       int    // grid columns
	Tiles      []Tile // row-major, len == Rows*Cols
	MoveCount  int    // completed two-tile comparisons
	FirstPick  int    // index of the first pick, or NoPick
	SecondPick int    // index of the second pick; set only while FirstPick is set
	// PendingHide counts down the ticks remaining before a mismatched
	// pair flips back. Non-zero only while both picks are set and differ.
	PendingHide int
	Complete    bool // true once every tile is matched
}
