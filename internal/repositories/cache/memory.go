package cache

import (
	"context"
	"sync"
	"time"

	portsrepo "github.com/SscSPs/expense_sharing_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type memoryEntry struct {
	balance   decimal.Decimal
	expiresAt time.Time
}

// MemoryBalanceCache is an in-process cache used when no Redis is configured.
// A zero TTL keeps entries until they are invalidated.
type MemoryBalanceCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ portsrepo.BalanceCache = (*MemoryBalanceCache)(nil)

// NewMemoryBalanceCache creates an empty in-memory cache.
func NewMemoryBalanceCache(ttl time.Duration) *MemoryBalanceCache {
	return &MemoryBalanceCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryBalanceCache) GetOwnBalance(_ context.Context, userID string) (decimal.Decimal, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()

	if !ok {
		return decimal.Zero, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, userID)
		c.mu.Unlock()
		return decimal.Zero, false, nil
	}
	return entry.balance, true, nil
}

func (c *MemoryBalanceCache) SetOwnBalance(_ context.Context, userID string, balance decimal.Decimal) error {
	entry := memoryEntry{balance: balance}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[userID] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryBalanceCache) Invalidate(_ context.Context, userIDs ...string) error {
	c.mu.Lock()
	for _, id := range userIDs {
		delete(c.entries, id)
	}
	c.mu.Unlock()
	return nil
}
