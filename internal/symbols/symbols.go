// internal/symbols/symbols.go
//
// Provides the symbol set dealt onto the grid.
//
// Responsibilities:
//   - Load symbols from an environment-provided file or fall back to the
//     embedded default set (the classic deck's eight face values).
//   - Validate the set: non-empty, no duplicates, no blank entries.
//   - Supply ForGrid, which slices out exactly the pairs a grid needs.
//
// Initialization behavior (Init):
//   1. If SYMBOLS_FILE is set, load one symbol per line from that file
//      (blank lines and #-comments skipped).
//   2. Otherwise use the embedded default list.
//
// Environment variables:
//   SYMBOLS_FILE=/path/to/symbols.txt
//
// Constraints:
//   • Symbols are free-form non-empty strings (digits, letters, emoji).
//   • Initialization is run once (sync.Once).

package symbols

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/jklind/memory-puzzle/internal/game"
)

//go:embed default_symbols.txt
var embeddedSymbols string

var (
	initOnce   sync.Once
	symbols    []string // validated symbol list, in file order
	initialErr error
)

// Init loads and validates the symbol set. Safe to call more than once;
// only the first call does work.
func Init() error {
	initOnce.Do(load)
	return initialErr
}

// All returns the full validated symbol list. Init must have succeeded.
func All() []string {
	out := make([]string, len(symbols))
	copy(out, symbols)
	return out
}

// Count returns the number of available symbols.
func Count() int { return len(symbols) }

// ForGrid returns the first pairs symbols, enough for a grid of
// 2*pairs tiles. Asking for more pairs than the set holds is a
// configuration error.
func ForGrid(pairs int) ([]string, error) {
	if pairs <= 0 || pairs > len(symbols) {
		return nil, fmt.Errorf("%w: %d pairs requested, %d symbols available",
			game.ErrInvalidConfig, pairs, len(symbols))
	}
	out := make([]string, pairs)
	copy(out, symbols[:pairs])
	return out, nil
}

// load reads the configured or embedded list into the package state.
func load() {
	src := embeddedSymbols
	if path := os.Getenv("SYMBOLS_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			initialErr = fmt.Errorf("read symbols file %s: %w", path, err)
			return
		}
		src = string(data)
	}
	list, err := parse(src)
	if err != nil {
		initialErr = err
		return
	}
	symbols = list
}

// parse splits one-symbol-per-line text, skipping blanks and comments,
// and rejects duplicates.
func parse(src string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if _, dup := seen[s]; dup {
			return nil, fmt.Errorf("duplicate symbol %q", s)
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty symbol list")
	}
	return out, nil
}
