package service

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"pecas/internal/model"
)

// ResultCache is a best-effort in-memory cache for assistant responses.
// Keys are derived from the normalized query so accent and casing variants
// of the same question share an entry.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	response  model.AssistantResponse
	expiresAt time.Time
}

// NewResultCache creates a cache with the given TTL.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func cacheKey(normalizedQuery string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(normalizedQuery)))
	return hex.EncodeToString(sum[:])
}

// Get returns a cached response for the normalized query, if still fresh.
func (c *ResultCache) Get(normalizedQuery string) (model.AssistantResponse, bool) {
	if c == nil {
		return model.AssistantResponse{}, false
	}
	key := cacheKey(normalizedQuery)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return model.AssistantResponse{}, false
	}
	return entry.response, true
}

// Set stores a response, evicting expired entries opportunistically.
func (c *ResultCache) Set(normalizedQuery string, resp model.AssistantResponse) {
	if c == nil {
		return
	}
	key := cacheKey(normalizedQuery)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{response: resp, expiresAt: now.Add(c.ttl)}
}
