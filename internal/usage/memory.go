package usage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryKey struct {
	userID   uuid.UUID
	monthKey string
}

// MemoryCounter keeps counts in process memory. It is used in tests and for
// single-process development runs.
type MemoryCounter struct {
	mu     sync.Mutex
	counts map[memoryKey]int64
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[memoryKey]int64)}
}

func (c *MemoryCounter) Get(ctx context.Context, userID uuid.UUID, monthKey string) (int64, error) {
	if err := validateKey(userID, monthKey); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[memoryKey{userID, monthKey}], nil
}

func (c *MemoryCounter) Increment(ctx context.Context, userID uuid.UUID, monthKey string) (int64, error) {
	if err := validateKey(userID, monthKey); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	k := memoryKey{userID, monthKey}
	c.counts[k]++
	return c.counts[k], nil
}
