// internal/record/codec.go
//
// Durable snapshot codec for game sessions.
// Responsibilities:
//   - Snapshot: session → Record, order-preserving; in-flight flip
//     animation is persisted as settled (revealed/matched tiles reload at
//     full progress, hidden tiles at zero).
//   - Restore: Record → session, with structural validation; pick slots
//     and the mismatch countdown are always reset, so a reload lands in
//     the idle state.
//   - Encode/Decode: Record ↔ JSON bytes.
//
// A record that fails validation is reported as ErrCorrupt; callers treat
// that as "no save available" and start fresh.

package record

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jklind/memory-puzzle/internal/game"
)

// ErrCorrupt reports a record that cannot be restored: missing fields,
// unknown visibility values, broken symbol pairs, or bad positions.
var ErrCorrupt = errors.New("corrupt record")

// TileRecord is the persisted form of one tile.
type TileRecord struct {
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Symbol     string `json:"symbol"`
	Visibility string `json:"visibility"`
}

// Record is the persisted form of a session. Tile order matches the
// session's row-major tile order.
type Record struct {
	MoveCount int          `json:"moveCount"`
	Complete  bool         `json:"complete"`
	Tiles     []TileRecord `json:"tiles"`
}

// Snapshot captures the session as a Record.
func Snapshot(s *game.Session) Record {
	tiles := make([]TileRecord, len(s.Tiles))
	for i, t := range s.Tiles {
		tiles[i] = TileRecord{
			Row:        t.Row,
			Col:        t.Col,
			Symbol:     t.Symbol,
			Visibility: string(t.Visibility),
		}
	}
	return Record{MoveCount: s.MoveCount, Complete: s.Complete, Tiles: tiles}
}

// Restore rebuilds a session from a Record.
//
// Validation (violations return ErrCorrupt):
//   - at least two tiles, even count;
//   - every visibility is one of hidden/revealed/matched;
//   - every symbol appears on exactly two tiles;
//   - positions are unique and fill a rows×cols grid inferred from the
//     maximum row/col present;
//   - move count is non-negative.
func Restore(r Record) (*game.Session, error) {
	if len(r.Tiles) == 0 || len(r.Tiles)%2 != 0 {
		return nil, fmt.Errorf("%w: %d tiles", ErrCorrupt, len(r.Tiles))
	}
	if r.MoveCount < 0 {
		return nil, fmt.Errorf("%w: negative move count", ErrCorrupt)
	}

	rows, cols := 0, 0
	pairs := make(map[string]int)
	seen := make(map[[2]int]struct{}, len(r.Tiles))
	tiles := make([]game.Tile, len(r.Tiles))
	for i, tr := range r.Tiles {
		vis := game.Visibility(tr.Visibility)
		if !vis.Valid() {
			return nil, fmt.Errorf("%w: visibility %q", ErrCorrupt, tr.Visibility)
		}
		if tr.Symbol == "" {
			return nil, fmt.Errorf("%w: empty symbol", ErrCorrupt)
		}
		if tr.Row < 0 || tr.Col < 0 {
			return nil, fmt.Errorf("%w: position %d,%d", ErrCorrupt, tr.Row, tr.Col)
		}
		pos := [2]int{tr.Row, tr.Col}
		if _, dup := seen[pos]; dup {
			return nil, fmt.Errorf("%w: duplicate position %d,%d", ErrCorrupt, tr.Row, tr.Col)
		}
		seen[pos] = struct{}{}
		pairs[tr.Symbol]++
		if tr.Row+1 > rows {
			rows = tr.Row + 1
		}
		if tr.Col+1 > cols {
			cols = tr.Col + 1
		}
		tiles[i] = game.Tile{Row: tr.Row, Col: tr.Col, Symbol: tr.Symbol, Visibility: vis}
	}
	if rows*cols != len(r.Tiles) {
		return nil, fmt.Errorf("%w: %d tiles do not fill %dx%d grid", ErrCorrupt, len(r.Tiles), rows, cols)
	}
	for sym, n := range pairs {
		if n != 2 {
			return nil, fmt.Errorf("%w: symbol %q appears %d times", ErrCorrupt, sym, n)
		}
	}

	return game.Rehydrate(tiles, r.MoveCount, rows, cols), nil
}

// Encode renders the record as JSON.
func Encode(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// Decode parses JSON into a Record. Malformed JSON is a corrupt record,
// not an I/O failure.
func Decode(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return r, nil
}
