package ledger

import (
	"sync"

	"github.com/google/uuid"
)

// keyedMutex provides one mutex per auction id, created on first use.
// Entries are never reclaimed; the population is bounded by the number of
// auctions the process has touched, which is small next to their row data.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func (k *keyedMutex) lock(id uuid.UUID) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[uuid.UUID]*sync.Mutex)
	}
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// highestCache tracks the highest accepted amount per auction.
type highestCache struct {
	mu      sync.RWMutex
	amounts map[uuid.UUID]int64
}

func newHighestCache() highestCache {
	return highestCache{amounts: make(map[uuid.UUID]int64)}
}

func (c *highestCache) get(id uuid.UUID) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	amount, ok := c.amounts[id]
	return amount, ok
}

func (c *highestCache) set(id uuid.UUID, amount int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.amounts[id] = amount
}

func (c *highestCache) forget(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.amounts, id)
}
