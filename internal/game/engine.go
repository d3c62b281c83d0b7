// internal/game/engine.go
//
// Selection controller and timer/animation driver for a single session.
// Responsibilities:
//   - Apply "tile selected" events under the two-pick comparison rule.
//   - Resolve matches immediately; schedule mismatches to flip back after
//     HideDelayTicks ticks.
//   - Advance per-tile flip animation once per tick, clamped, never
//     overshooting.
//   - Track state transitions: idle → one_picked → resolving → idle/complete.
//
// Notes:
//   - Select and Tick are total over valid sessions: they never fail, they
//     only ignore. An out-of-range tile index is a caller bug and panics.
//   - The driver loop owns the session exclusively; nothing here locks.

package game

// Session states derived from the pick slots and pending-hide countdown.
const (
	StateIdle      = "idle"
	StateOnePicked = "one_picked"
	StateResolving = "resolving"
	StateComplete  = "complete"
)

// Select applies a "tile tapped" event for the tile at index i.
// Returns true if the session changed, false if the tap was ignored.
//
// Ignore rules (no state change, no error):
//   - the session is complete;
//   - a mismatched pair is still on display (PendingHide > 0);
//   - the tile is already revealed or matched (covers re-tapping the
//     current first pick).
//
// Otherwise the tile is revealed. A first pick just waits; a second pick
// counts one move and runs the comparison: equal symbols lock both tiles
// as matched immediately, different symbols start the hide countdown.
func (s *Session) Select(i int) bool {
	if i < 0 || i >= len(s.Tiles) {
		panic("game: tile index out of range")
	}
	if s.Complete || s.PendingHide > 0 {
		return false
	}
	t := &s.Tiles[i]
	if t.Visibility != Hidden {
		return false
	}

	t.Visibility = Revealed
	if s.FirstPick == NoPick {
		s.FirstPick = i
		return true
	}

	s.SecondPick = i
	s.MoveCount++
	if s.Tiles[s.FirstPick].Symbol == t.Symbol {
		s.Tiles[s.FirstPick].Visibility = Matched
		t.Visibility = Matched
		s.clearPicks()
		s.checkComplete()
		return true
	}
	s.PendingHide = HideDelayTicks
	return true
}

// Tick advances one step of simulated time: every tile's flip animation
// moves toward its target, and a running mismatch countdown is decremented,
// flipping the pair back face down when it reaches zero.
//
// Tick carries no knowledge of input; it may be called at a fixed cadence
// regardless of whether any selection happened.
func (s *Session) Tick() {
	for i := range s.Tiles {
		s.Tiles[i].advance()
	}
	if s.PendingHide > 0 {
		s.PendingHide--
		if s.PendingHide == 0 {
			s.hideMismatch()
		}
	}
}

// IsComplete reports whether every tile has been matched.
func (s *Session) IsComplete() bool { return s.Complete }

// State reports a coarse string representation of the session state.
func (s *Session) State() string {
	switch {
	case s.Complete:
		return StateComplete
	case s.SecondPick != NoPick || s.PendingHide > 0:
		return StateResolving
	case s.FirstPick != NoPick:
		return StateOnePicked
	default:
		return StateIdle
	}
}

// Rehydrate rebuilds a session from persisted tiles: flip animation is
// settled to its endpoint, pick slots and the hide countdown are cleared
// (a reload never resumes a pending comparison), and completion is
// recomputed from the tiles. The caller (the record codec) has already
// validated tile contents; Rehydrate itself is total.
func Rehydrate(tiles []Tile, moveCount int, rows, cols int) *Session {
	owned := make([]Tile, len(tiles))
	copy(owned, tiles)
	for i := range owned {
		if owned[i].Visibility.FaceUp() {
			owned[i].Progress = ProgressMax
		} else {
			owned[i].Progress = 0
		}
	}
	s := &Session{
		ID:         randomID(),
		Rows:       rows,
		Cols:       cols,
		Tiles:      owned,
		MoveCount:  moveCount,
		FirstPick:  NoPick,
		SecondPick: NoPick,
	}
	s.checkComplete()
	return s
}

// hideMismatch flips the current (mismatched) pair back face down.
// Only reachable from Tick with both picks set and unmatched.
func (s *Session) hideMismatch() {
	if s.FirstPick != NoPick && s.Tiles[s.FirstPick].Visibility == Revealed {
		s.Tiles[s.FirstPick].Visibility = Hidden
	}
	if s.SecondPick != NoPick && s.Tiles[s.SecondPick].Visibility == Revealed {
		s.Tiles[s.SecondPick].Visibility = Hidden
	}
	s.clearPicks()
}

// clearPicks empties both selection slots.
func (s *Session) clearPicks() {
	s.FirstPick, s.SecondPick = NoPick, NoPick
}

// checkComplete latches Complete once every tile is matched.
func (s *Session) checkComplete() {
	for i := range s.Tiles {
		if s.Tiles[i].Visibility != Matched {
			return
		}
	}
	s.Complete = true
}

// advance moves the tile's flip progress one step toward its target:
// ProgressMax while face up, 0 while face down. Clamped at the endpoint.
func (t *Tile) advance() {
	if t.Visibility.FaceUp() {
		if t.Progress < ProgressMax {
			t.Progress += ProgressStep
			if t.Progress > ProgressMax {
				t.Progress = ProgressMax
			}
		}
		return
	}
	if t.Progress > 0 {
		t.Progress -= ProgressStep
		if t.Progress < 0 {
			t.Progress = 0
		}
	}
}
