package logic

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator supplies node identifiers. Injected so conversions are
// reproducible and independently testable.
type IDGenerator interface {
	NextID() string
}

// Sequential issues "prefix-1", "prefix-2", ... It is not safe for concurrent
// use; each conversion owns its own instance.
type Sequential struct {
	prefix string
	n      int
}

func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

func (s *Sequential) NextID() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// UUID issues random identifiers, unique across conversions.
type UUID struct{}

func (UUID) NextID() string { return uuid.NewString() }
