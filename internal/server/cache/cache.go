// Package cache implements the process-wide response cache for read
// endpoints: rendered response bodies keyed by host and request URI, kept for
// a fixed TTL and dropped explicitly after writes to the underlying resource.
package cache

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/moviereviews/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultTTL is how long a stored response stays servable.
const DefaultTTL = 24 * time.Hour

var cacheOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "response_cache_operations_total",
	Help: "Response cache lookups and removals by result.",
}, []string{"result"})

// Key derives the cache key of a request from its host and request URI
// (path plus raw query string). Requests that differ only in their query
// string get different keys.
func Key(host, requestURI string) string {
	return host + requestURI
}

type entry struct {
	payload  []byte
	storedAt time.Time
}

// ResponseCache maps request keys to response bodies. It is safe for
// concurrent use; the zero value is not usable, construct with New.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	logger  logging.Logger
}

type Option func(*ResponseCache)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *ResponseCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *ResponseCache) { c.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(c *ResponseCache) { c.logger = l }
}

func New(opts ...Option) *ResponseCache {
	c := &ResponseCache{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the payload stored under key if it was stored less
// than TTL ago. An expired entry is removed on the way out.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		cacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}

	if !now.Before(e.storedAt.Add(c.ttl)) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && !now.Before(cur.storedAt.Add(c.ttl)) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		cacheOps.WithLabelValues("expired").Inc()
		return nil, false
	}

	cacheOps.WithLabelValues("hit").Inc()
	return bytes.Clone(e.payload), true
}

// Set stores a copy of payload under key, replacing any previous entry and
// restarting its TTL.
func (c *ResponseCache) Set(key string, payload []byte) {
	b := make([]byte, len(payload))
	copy(b, payload)

	c.mu.Lock()
	c.entries[key] = entry{payload: b, storedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate removes exactly collectionBaseKey and, if itemID is not empty,
// collectionBaseKey+"/"+itemID. Keys with a query string derived from the
// same path are not touched and expire on their own.
func (c *ResponseCache) Invalidate(collectionBaseKey, itemID string) {
	c.mu.Lock()
	delete(c.entries, collectionBaseKey)
	if itemID != "" {
		delete(c.entries, collectionBaseKey+"/"+itemID)
	}
	c.mu.Unlock()

	cacheOps.WithLabelValues("invalidate").Inc()
}

// Len reports the number of stored entries, expired or not.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep drops every expired entry and returns how many were removed.
func (c *ResponseCache) Sweep() int {
	now := c.now()
	removed := 0

	c.mu.Lock()
	for k, e := range c.entries {
		if !now.Before(e.storedAt.Add(c.ttl)) {
			delete(c.entries, k)
			removed++
		}
	}
	c.mu.Unlock()

	return removed
}

// Run sweeps expired entries every interval until ctx is done.
func (c *ResponseCache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				c.logger.Debug(ctx, "response cache sweep", "removed", n)
			}
		}
	}
}
