package mocks

import (
	"fmt"

	"github.com/mcoot/duelsmp/internal/dependencies/idgen"
)

// MockIDGenerator is a mock implementation of Generator for testing
type MockIDGenerator struct {
	// IDs is a queue of results to return from NewID
	IDs   []string
	index int
	next  int
}

// Ensure MockIDGenerator implements Generator
var _ idgen.Generator = (*MockIDGenerator)(nil)

// NewMockIDGenerator creates a new MockIDGenerator
func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

// NewID returns the next queued ID, or a sequential "duel-N" once the queue is drained
func (g *MockIDGenerator) NewID() string {
	if g.index < len(g.IDs) {
		id := g.IDs[g.index]
		g.index++
		return id
	}
	g.next++
	return fmt.Sprintf("duel-%d", g.next)
}

// QueueID adds values to the NewID result queue
func (g *MockIDGenerator) QueueID(ids ...string) {
	g.IDs = append(g.IDs, ids...)
}
