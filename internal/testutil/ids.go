package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/navsplit/internal/model"
)

// FixedIDGenerator hands out a predetermined list of IDs in order.
//
// This keeps entity creation deterministic in tests: the same scenario with
// the same FixedIDGenerator always creates the same identifiers.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []model.ID
	idx int
}

// NewFixedIDGenerator creates a generator returning ids in order.
func NewFixedIDGenerator(ids ...model.ID) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// NewID implements model.IDGenerator. Panics when the list is exhausted,
// which signals that a test created more entities than it planned for.
func (g *FixedIDGenerator) NewID() model.ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic(fmt.Sprintf("testutil: FixedIDGenerator exhausted after %d ids", len(g.ids)))
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Used returns how many IDs have been handed out.
func (g *FixedIDGenerator) Used() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.idx
}
