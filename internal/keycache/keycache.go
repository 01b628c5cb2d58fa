// Package keycache caches tenant server private keys in memory with a
// bounded TTL. Tenant keys are read-many, write-never post-provisioning, so
// caching avoids a database round trip on every retrieval; the TTL bounds
// how long a compromised process holds decrypted key material.
package keycache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dennisMeeQ/clavum/internal/primitives"
)

// DefaultTTL is used when New is called with ttl <= 0.
const DefaultTTL = 5 * time.Minute

// Loader fetches a tenant's server private key from durable storage on a
// cache miss.
type Loader func(ctx context.Context, tenantID uuid.UUID) ([]byte, error)

type entry struct {
	priv      []byte
	expiresAt time.Time
}

// Cache is a sync.Map-backed, per-tenant private key cache.
type Cache struct {
	entries sync.Map // uuid.UUID -> *entry
	ttl     time.Duration
	load    Loader
	now     func() time.Time
}

// New constructs a Cache. load is invoked on every miss or expiry.
func New(load Loader, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl, load: load, now: time.Now}
}

// Get returns a fresh copy of tenantID's server private key, loading and
// caching it if absent or expired. The caller owns the returned slice and
// is responsible for zeroizing its own copy; the cache's resident copy is
// zeroized only on eviction or replacement.
func (c *Cache) Get(ctx context.Context, tenantID uuid.UUID) ([]byte, error) {
	now := c.now()

	if v, ok := c.entries.Load(tenantID); ok {
		e := v.(*entry)
		if now.Before(e.expiresAt) {
			return append([]byte(nil), e.priv...), nil
		}
	}

	priv, err := c.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	newEntry := &entry{priv: append([]byte(nil), priv...), expiresAt: now.Add(c.ttl)}
	if old, loaded := c.entries.Swap(tenantID, newEntry); loaded {
		primitives.Zero(old.(*entry).priv)
	}

	return priv, nil
}

// Evict removes and zeroizes tenantID's cached key, if present.
func (c *Cache) Evict(tenantID uuid.UUID) {
	if v, ok := c.entries.LoadAndDelete(tenantID); ok {
		primitives.Zero(v.(*entry).priv)
	}
}

// Close zeroizes and clears every cached key. Call on shutdown.
func (c *Cache) Close() {
	c.entries.Range(func(key, value any) bool {
		primitives.Zero(value.(*entry).priv)
		c.entries.Delete(key)
		return true
	})
}
