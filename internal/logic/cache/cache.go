package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/awmpietro/golang-logic-trace-case/internal/logic"
)

// InMemory caches converted graphs keyed by a fingerprint of the expression
// text plus conversion options. Sound because conversions with a sequential
// id generator are deterministic.
type InMemory struct {
	mu    sync.RWMutex
	max   int
	items map[string]*logic.Graph
}

func NewInMemory(max int) *InMemory {
	return &InMemory{
		max:   max,
		items: make(map[string]*logic.Graph, max),
	}
}

func (c *InMemory) GetOrCompute(fingerprint string, fn func() (*logic.Graph, error)) (*logic.Graph, error) {
	key := hash(fingerprint)

	c.mu.RLock()
	if v, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.items[key]; ok {
		return v, nil
	}

	g, err := fn()
	if err != nil {
		return nil, err
	}

	if len(c.items) < c.max {
		c.items[key] = g
	}

	return g, nil
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
