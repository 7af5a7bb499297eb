package server

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/charuco-tools-mcp/internal/board"
)

// DefaultBoardID is the registry id of the board preloaded from configuration.
const DefaultBoardID = "default"

// ErrBoardNotFound is returned when a board id is not registered.
var ErrBoardNotFound = errors.New("board not found")

// BoardRegistry holds the boards created during a session, keyed by id.
//
// Boards are fully built before they are stored, and every access goes
// through the registry's lock, so a board handed out by Get is safe to read
// from any goroutine.
//
// BoardRegistry is safe for concurrent use by multiple goroutines.
type BoardRegistry struct {
	mu     sync.RWMutex
	boards map[string]registeredBoard
	seq    uint64
}

type registeredBoard struct {
	board *board.Board
	seq   uint64
}

// RegistryEntry pairs a registered board with its id.
type RegistryEntry struct {
	ID    string
	Board *board.Board
}

// NewBoardRegistry creates an empty registry.
func NewBoardRegistry() *BoardRegistry {
	return &BoardRegistry{
		boards: make(map[string]registeredBoard),
	}
}

// Add registers b under a new random id and returns the id.
func (r *BoardRegistry) Add(b *board.Board) string {
	id := uuid.NewString()
	r.Put(id, b)
	return id
}

// Put registers b under id, replacing any board already there.
func (r *BoardRegistry) Put(id string, b *board.Board) {
	r.mu.Lock()
	r.seq++
	r.boards[id] = registeredBoard{board: b, seq: r.seq}
	r.mu.Unlock()
}

// Get returns the board registered under id.
func (r *BoardRegistry) Get(id string) (*board.Board, error) {
	r.mu.RLock()
	entry, ok := r.boards[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBoardNotFound, id)
	}
	return entry.board, nil
}

// Delete removes the board registered under id.
func (r *BoardRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boards[id]; !ok {
		return fmt.Errorf("%w: %q", ErrBoardNotFound, id)
	}
	delete(r.boards, id)
	return nil
}

// List returns all registered boards in registration order.
func (r *BoardRegistry) List() []RegistryEntry {
	r.mu.RLock()
	type ordered struct {
		RegistryEntry
		seq uint64
	}
	all := make([]ordered, 0, len(r.boards))
	for id, entry := range r.boards {
		all = append(all, ordered{RegistryEntry{ID: id, Board: entry.board}, entry.seq})
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].seq < all[j].seq
	})

	out := make([]RegistryEntry, len(all))
	for i, o := range all {
		out[i] = o.RegistryEntry
	}
	return out
}

// Len returns the number of registered boards.
func (r *BoardRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.boards)
}
