package gateway

import (
	"net/http"
	"sync"
)

// Cache generation names. Bumping a version retires the old generation on the
// next Activate.
const (
	StaticCacheName = "shadow-gate-static-v3"
	DataCacheName   = "shadow-gate-data-v1"
)

// DefaultStaticAssets is the asset list pre-warmed during Install. Relative
// paths are fetched from the upstream origin; absolute URLs are fetched as-is.
var DefaultStaticAssets = []string{
	"/",
	"/index.html",
	"/home.html",
	"/dashboard.html",
	"/dashboard.js",
	"/app.js",
	"/styles.css",
	"https://cdn.tailwindcss.com",
	"https://cdn.jsdelivr.net/npm/chart.js",
	"https://cdn.jsdelivr.net/npm/bootstrap-icons@1.11.1/font/bootstrap-icons.css",
}

// cachedResponse is one stored response body with the headers worth replaying.
type cachedResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// Cache is one named generation of stored responses, keyed by request path.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cachedResponse
}

func newCache() *Cache {
	return &Cache{entries: make(map[string]cachedResponse)}
}

// Put stores a response under key, replacing any previous entry.
func (c *Cache) Put(key string, resp cachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = resp
}

// Match returns the stored response for key, if any.
func (c *Cache) Match(key string) (cachedResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resp, ok := c.entries[key]
	return resp, ok
}

// Len reports the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CacheSet holds the named cache generations. Open creates on first use, so
// stale generations only exist when a previous version left them behind.
type CacheSet struct {
	mu     sync.Mutex
	caches map[string]*Cache
}

// NewCacheSet returns an empty CacheSet.
func NewCacheSet() *CacheSet {
	return &CacheSet{caches: make(map[string]*Cache)}
}

// Open returns the cache with the given name, creating it if needed.
func (cs *CacheSet) Open(name string) *Cache {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	c, ok := cs.caches[name]
	if !ok {
		c = newCache()
		cs.caches[name] = c
	}
	return c
}

// Names lists the existing cache generations.
func (cs *CacheSet) Names() []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	names := make([]string, 0, len(cs.caches))
	for name := range cs.caches {
		names = append(names, name)
	}
	return names
}

// Delete removes the named cache and all its entries.
func (cs *CacheSet) Delete(name string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.caches, name)
}
