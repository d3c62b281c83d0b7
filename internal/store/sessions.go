// internal/store/sessions.go
//
// In-memory registry of live game sessions.
// This is the working set of the HTTP layer: sessions being actively
// played, keyed by ID. Durability is the saves store's job (file.go,
// sqlite.go); this map is lost on restart.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each individual session is still single-owner: callers must not
//     mutate the same session from two goroutines.

package store

import (
	"context"
	"sync"

	"github.com/jklind/memory-puzzle/internal/game"
)

// Sessions is the registry interface for live sessions.
type Sessions interface {
	// Put registers or replaces a session under its ID.
	Put(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if no such session is registered.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Drop removes a session (restart/abandon). Missing IDs are ignored.
	Drop(ctx context.Context, id string)
}

// memory is an in-memory map-based Sessions implementation.
type memory struct {
	mu       sync.RWMutex             // guards sessions map
	sessions map[string]*game.Session // keyed by Session.ID
}

// NewSessions constructs an empty in-memory registry.
func NewSessions() Sessions {
	return &memory{sessions: make(map[string]*game.Session)}
}

// Put adds or replaces the session in the map.
func (m *memory) Put(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Drop deletes the session from the map if present.
func (m *memory) Drop(ctx context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
