// Package testfixtures provides deterministic clocks, id generators and
// instrumented in-memory stores for tests.
package testfixtures

import (
	"fmt"
	"sync"
	"time"
)

// FixedClock always returns the same instant.
type FixedClock struct {
	Time time.Time
}

// NewFixedClock creates a clock pinned to t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{Time: t}
}

// Now returns the pinned instant.
func (c *FixedClock) Now() time.Time {
	return c.Time
}

// SequenceIDGenerator hands out predictable ids: prefix-1, prefix-2, ...
type SequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequenceIDGenerator creates a generator with the given prefix.
func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	return &SequenceIDGenerator{prefix: prefix, next: 1}
}

// Generate returns the next id in the sequence.
func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s-%d", g.prefix, g.next)
	g.next++
	return id
}
