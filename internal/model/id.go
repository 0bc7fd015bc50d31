package model

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// ID is the stable unique identifier of an entity.
type ID = uuid.UUID

// Nil is the zero identifier. No entity ever carries it.
var Nil = uuid.Nil

// seedNamespace scopes derived seed identifiers. Changing it changes every
// seed ID, which invalidates recorded journals.
var seedNamespace = uuid.MustParse("6f1c2a7e-4b0d-4c55-9a51-2f9b3c1d8e40")

// SeedID derives a deterministic identifier for a seed entity.
// The same (kind, key) pair always yields the same ID.
func SeedID(kind, key string) ID {
	return uuid.NewSHA1(seedNamespace, []byte(kind+"/"+key))
}

// ParseID parses the hyphenated string form of an ID.
func ParseID(s string) (ID, error) {
	return uuid.Parse(s)
}

// IDGenerator produces identifiers for entities created at runtime.
// Implemented by UUIDv7Generator (production) and SequentialGenerator (tests).
type IDGenerator interface {
	NewID() ID
}

// UUIDv7Generator generates time-sortable UUIDv7 identifiers.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// NewID returns a fresh UUIDv7. Panics if generation fails.
func (UUIDv7Generator) NewID() ID {
	return uuid.Must(uuid.NewV7())
}

// SequentialGenerator derives IDs from a counter so that replaying the same
// action sequence creates the same entities.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequentialGenerator creates a generator whose IDs are derived from
// prefix and a counter starting at 1.
func NewSequentialGenerator(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix, next: 1}
}

// NewID returns the next derived ID.
func (g *SequentialGenerator) NewID() ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := uuid.NewSHA1(seedNamespace, []byte(g.prefix+"#"+strconv.Itoa(g.next)))
	g.next++
	return id
}
