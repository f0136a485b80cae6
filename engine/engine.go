// Package engine holds the process-wide collection of Board values (spec
// §2). It is a lookup table, not a scheduler or persistence layer — it
// exists only so a host embedding this module can keep several boards
// alive at once and find them by id, the way the teacher's GameManager
// (game/game_manager.go) indexes live games without owning transport or
// storage.
package engine

import (
	"sync"

	"github.com/google/uuid"

	"memoryscramble.io/board"
)

// Manager is the process-wide board registry.
type Manager struct {
	mu     sync.Mutex
	boards map[string]*board.Board
}

var global *Manager
var globalOnce sync.Once

// Global returns the process-wide Manager, creating it on first use.
func Global() *Manager {
	globalOnce.Do(func() {
		global = NewManager()
	})
	return global
}

// NewManager returns an empty registry. Hosts that want isolated
// registries (e.g. per test) should use this instead of Global.
func NewManager() *Manager {
	return &Manager{boards: make(map[string]*board.Board)}
}

// NewBoard constructs a board, registers it, and returns its id.
func (m *Manager) NewBoard(rows, cols int) (string, *board.Board, error) {
	b, err := board.New(rows, cols)
	if err != nil {
		return "", nil, err
	}
	return m.Register(b)
}

// Register adds an already-constructed board (e.g. from
// board.ParseFromFile) to the registry under a freshly minted id.
func (m *Manager) Register(b *board.Board) (string, *board.Board, error) {
	id := uuid.New().String()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards[id] = b
	return id, b, nil
}

// Lookup returns the board registered under id, if any.
func (m *Manager) Lookup(id string) (*board.Board, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boards[id]
	return b, ok
}

// Remove drops a board from the registry. It does not affect goroutines
// already holding a reference to the *board.Board.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.boards, id)
}

// List returns the ids of all currently registered boards.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.boards))
	for id := range m.boards {
		ids = append(ids, id)
	}
	return ids
}
