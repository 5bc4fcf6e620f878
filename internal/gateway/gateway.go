// Package gateway implements the request interception layer: it answers
// synthetic gate API routes from a locally mirrored gate list and serves
// everything else cache-first with an upstream fallback.
package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/groblegark/shadowgate/internal/bridge"
)

// pageQueryTimeout bounds the mirror's fallback round-trip to a page context.
// A miss after this window resolves as not found rather than blocking the
// response.
const pageQueryTimeout = 250 * time.Millisecond

// Gateway intercepts requests in front of an upstream origin. Gate API routes
// never reach the upstream; static routes are served from cache when warmed.
type Gateway struct {
	caches   *CacheSet
	mirror   *mirror
	bus      bridge.Bus
	upstream *url.URL
	client   *http.Client
	assets   []string
	logger   *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithStaticAssets overrides the asset list warmed during Install.
func WithStaticAssets(assets []string) Option {
	return func(g *Gateway) { g.assets = assets }
}

// WithHTTPClient overrides the client used for upstream fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// New creates a Gateway fronting the given upstream origin. The bus is used
// for mirror synchronization and the bounded page-query fallback.
func New(upstream *url.URL, bus bridge.Bus, opts ...Option) *Gateway {
	caches := NewCacheSet()
	g := &Gateway{
		caches:   caches,
		mirror:   newMirror(caches),
		bus:      bus,
		upstream: upstream,
		client:   &http.Client{Timeout: 10 * time.Second},
		assets:   DefaultStaticAssets,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Install warms the static cache with the full asset list. It is all or
// nothing: any fetch failure leaves the static cache unchanged and returns
// the error.
func (g *Gateway) Install(ctx context.Context) error {
	staged := newCache()
	for _, asset := range g.assets {
		resp, err := g.fetchAsset(ctx, asset)
		if err != nil {
			return fmt.Errorf("installing %s: %w", asset, err)
		}
		staged.Put(asset, resp)
	}

	static := g.caches.Open(StaticCacheName)
	staged.mu.RLock()
	for key, resp := range staged.entries {
		static.Put(key, resp)
	}
	staged.mu.RUnlock()

	g.logger.Info("static cache installed", "cache", StaticCacheName, "assets", len(g.assets))
	return nil
}

// Activate drops every cache generation except the current static and data
// names, retiring assets left behind by earlier versions.
func (g *Gateway) Activate() {
	for _, name := range g.caches.Names() {
		if name == StaticCacheName || name == DataCacheName {
			continue
		}
		g.caches.Delete(name)
		g.logger.Info("retired stale cache", "cache", name)
	}
}

// Run subscribes the mirror to sync and update messages until ctx is
// cancelled. It is safe to serve requests before and while Run executes; the
// mirror simply answers from whatever state it has.
func (g *Gateway) Run(ctx context.Context) error {
	syncCh, cancelSync, err := g.bus.Subscribe(bridge.TopicProjectsSync)
	if err != nil {
		return fmt.Errorf("subscribing to sync topic: %w", err)
	}
	defer cancelSync()

	updateCh, cancelUpdate, err := g.bus.Subscribe(bridge.TopicProjectUpdate)
	if err != nil {
		return fmt.Errorf("subscribing to update topic: %w", err)
	}
	defer cancelUpdate()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, ok := <-syncCh:
			if !ok {
				return nil
			}
			g.handleSync(data)
		case data, ok := <-updateCh:
			if !ok {
				return nil
			}
			g.handleUpdate(data)
		}
	}
}

// ServeHTTP classifies each request: gate API routes are answered locally,
// everything else is served cache-first with an upstream fallback.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if id, rest, ok := classifyAPI(r.URL.Path); ok {
		g.serveAPI(w, r, id, rest)
		return
	}
	g.serveStatic(w, r)
}

// classifyAPI reports whether path is a gate API route, returning the raw ID
// segment and the remaining sub-path. Both /{id}/... and /api/{id}/... forms
// match; the ID is not validated here. Anything under the /api/ prefix is an
// API route even with the ID segment missing, so the invalid-ID error covers
// it.
func classifyAPI(path string) (id, rest string, ok bool) {
	if strings.HasPrefix(path, "/api/") {
		trimmed := strings.Trim(strings.TrimPrefix(path, "/api/"), "/")
		segs := strings.SplitN(trimmed, "/", 2)
		id = segs[0]
		if len(segs) == 2 {
			rest = segs[1]
		}
		return id, rest, true
	}

	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "", "", false
	}
	segs := strings.SplitN(trimmed, "/", 2)
	if strings.HasPrefix(segs[0], "gate-") {
		id = segs[0]
		if len(segs) == 2 {
			rest = segs[1]
		}
		return id, rest, true
	}

	return "", "", false
}

// serveStatic answers from the static cache when warmed and falls through to
// the upstream otherwise. When the upstream is unreachable, navigations get
// the cached shell so the app still opens offline.
func (g *Gateway) serveStatic(w http.ResponseWriter, r *http.Request) {
	static := g.caches.Open(StaticCacheName)
	if resp, ok := static.Match(r.URL.Path); ok {
		writeCached(w, resp)
		return
	}

	resp, err := g.fetchAsset(r.Context(), r.URL.Path)
	if err != nil {
		if wantsHTML(r) {
			if shell, ok := static.Match("/index.html"); ok {
				writeCached(w, shell)
				return
			}
		}
		g.logger.Warn("upstream fetch failed", "path", r.URL.Path, "error", err)
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	writeCached(w, resp)
}

// fetchAsset retrieves one asset, resolving relative paths against the
// upstream origin.
func (g *Gateway) fetchAsset(ctx context.Context, asset string) (cachedResponse, error) {
	target := asset
	if strings.HasPrefix(asset, "/") {
		target = g.upstream.ResolveReference(&url.URL{Path: asset}).String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return cachedResponse{}, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return cachedResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return cachedResponse{}, fmt.Errorf("upstream returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cachedResponse{}, err
	}
	return cachedResponse{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}, nil
}

func writeCached(w http.ResponseWriter, resp cachedResponse) {
	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
