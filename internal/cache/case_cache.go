package cache

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultCaseCacheSize = 1024
	DefaultCaseCacheTTL  = time.Minute
)

// Loader fetches a case from the source of truth on a cache miss.
type Loader func(ctx context.Context, caseID string) (*domain.Case, error)

// CaseCache is a read-through, size-bounded cache of cases for the read API.
// The billing engine always reads the database directly.
type CaseCache struct {
	lru *expirable.LRU[string, domain.Case]

	mu sync.Mutex
	// gen counts invalidations; a load that overlaps one is not stored.
	gen uint64
}

// NewCaseCache creates a cache. Non-positive arguments fall back to defaults.
func NewCaseCache(size int, ttl time.Duration) *CaseCache {
	if size <= 0 {
		size = DefaultCaseCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCaseCacheTTL
	}
	return &CaseCache{lru: expirable.NewLRU[string, domain.Case](size, nil, ttl)}
}

// Get returns the cached case or calls load and caches its result.
// Errors from load are not cached, and neither is a result loaded while an
// Invalidate ran, since it may predate the write that triggered it.
func (c *CaseCache) Get(ctx context.Context, caseID string, load Loader) (*domain.Case, error) {
	if cached, ok := c.lru.Get(caseID); ok {
		return &cached, nil
	}
	c.mu.Lock()
	start := c.gen
	c.mu.Unlock()

	fresh, err := load(ctx, caseID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen == start {
		c.lru.Add(caseID, *fresh)
	}
	c.mu.Unlock()
	return fresh, nil
}

// Invalidate drops a case so the next read goes to the database.
func (c *CaseCache) Invalidate(caseID string) {
	c.mu.Lock()
	c.gen++
	c.lru.Remove(caseID)
	c.mu.Unlock()
}

// Len reports the number of live entries.
func (c *CaseCache) Len() int {
	return c.lru.Len()
}
