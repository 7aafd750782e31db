package fixture

import (
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces record identifiers for string-keyed services.
// Implemented by UUIDv7Generator (production) and SequenceGenerator
// (tests and scenario runs).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 identifiers.
//
// UUIDv7 embeds a timestamp in the most significant bits, making record
// identifiers sortable by creation time, which helps when eyeballing the
// rows a test run left behind in a backing system.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator returns predetermined identifiers in order.
//
// This enables deterministic scenario execution and golden trace
// comparison: a run that creates records R1, R2, R3 produces the exact
// same identifiers every time.
type SequenceGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewSequenceGenerator creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewSequenceGenerator("R1", "R2")
//	gen.Generate() // "R1"
//	gen.Generate() // "R2"
//	gen.Generate() // panic: all ids exhausted
func NewSequenceGenerator(ids ...string) *SequenceGenerator {
	return &SequenceGenerator{ids: ids}
}

// Generate returns the next predetermined identifier.
//
// Panics when all identifiers have been consumed. This is a fail-fast
// approach to catch misconfigured tests that create more records than
// they declared.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("SequenceGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
