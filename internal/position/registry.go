package position

import (
	"sync"
	"time"

	"github.com/mexc-scalp-bot/pkg/types"
)

// Registry tracks the open positions the bot is watching, keyed by
// symbol. One position per symbol; opening a second one replaces the
// first. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	positions map[string]*types.Position
}

// NewRegistry creates an empty position registry.
func NewRegistry() *Registry {
	return &Registry{positions: make(map[string]*types.Position)}
}

// Open records a position for the symbol, stamping the open time if the
// caller left it zero.
func (r *Registry) Open(pos *types.Position) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pos.OpenedAt.IsZero() {
		pos.OpenedAt = time.Now().UTC()
	}
	r.positions[pos.Symbol] = pos
}

// Get returns the tracked position for the symbol, if any.
func (r *Registry) Get(symbol string) (*types.Position, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.positions[symbol]
	return pos, ok
}

// Close removes the position for the symbol and reports whether one was
// tracked.
func (r *Registry) Close(symbol string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.positions[symbol]
	delete(r.positions, symbol)
	return ok
}

// All returns a snapshot of every tracked position.
func (r *Registry) All() []*types.Position {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.Position, 0, len(r.positions))
	for _, pos := range r.positions {
		out = append(out, pos)
	}
	return out
}

// Len returns the number of tracked positions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.positions)
}
