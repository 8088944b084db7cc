// Package enrich provides the metadata enrichment cache.
package enrich

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/osa030/harmony/internal/domain/track"
)

// Metadata holds the display fields of a track.
type Metadata struct {
	DisplayName  string
	Artist       string
	ThumbnailURL string
}

// Provider looks up display metadata for a media link.
type Provider interface {
	Lookup(ctx context.Context, link string) (Metadata, error)
}

// Config holds cache configuration.
type Config struct {
	Concurrency int // Maximum parallel lookups per batch (0 = unlimited)
}

// Fallback returns the deterministic metadata used when a lookup fails.
func Fallback(link string) Metadata {
	return Metadata{
		DisplayName:  track.UnknownTitle,
		Artist:       track.UnknownArtist,
		ThumbnailURL: track.ThumbnailURL(link),
	}
}

// Apply returns t with its display fields replaced by m.
func Apply(t track.Track, m Metadata) track.Track {
	t.DisplayName = m.DisplayName
	t.Artist = m.Artist
	t.ThumbnailURL = m.ThumbnailURL
	return t
}

// Cache resolves and remembers display metadata per link.
// Entries never expire; only successful lookups are stored.
type Cache struct {
	provider    Provider
	concurrency int

	mu      sync.RWMutex
	entries map[string]Metadata

	group singleflight.Group
}

// New creates a new enrichment cache.
func New(provider Provider, cfg Config) *Cache {
	return &Cache{
		provider:    provider,
		concurrency: cfg.Concurrency,
		entries:     make(map[string]Metadata),
	}
}

// Cached returns the stored metadata for link, if any.
func (c *Cache) Cached(link string) (Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.entries[link]
	return m, ok
}

// Len returns the number of cached links.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Enrich returns display metadata for link. Concurrent calls for the same
// link share one lookup. Any lookup failure yields Fallback(link).
func (c *Cache) Enrich(ctx context.Context, link string) Metadata {
	if m, ok := c.Cached(link); ok {
		return m
	}

	v, err, _ := c.group.Do(link, func() (any, error) {
		m, err := c.provider.Lookup(ctx, link)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[link] = m
		c.mu.Unlock()
		return m, nil
	})
	if err != nil {
		zlog.Warn().Msgf("enrich: lookup failed, using fallback: link=%s error=%v", link, err)
		return Fallback(link)
	}
	return v.(Metadata)
}

// EnrichAll enriches every enrichable track of a batch in parallel and returns
// a new slice in the same order. Tracks of other origins are returned as-is.
func (c *Cache) EnrichAll(ctx context.Context, tracks []track.Track) []track.Track {
	result := make([]track.Track, len(tracks))
	copy(result, tracks)

	g, gctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}
	for i, t := range tracks {
		if !t.Origin.Enrichable() {
			continue
		}
		g.Go(func() error {
			result[i] = Apply(t, c.Enrich(gctx, t.MediaLink))
			return nil
		})
	}
	_ = g.Wait()

	return result
}

// ApplyCached fills in already known metadata without issuing lookups.
func (c *Cache) ApplyCached(tracks []track.Track) []track.Track {
	result := make([]track.Track, len(tracks))
	for i, t := range tracks {
		if m, ok := c.Cached(t.MediaLink); ok && t.Origin.Enrichable() {
			t = Apply(t, m)
		}
		result[i] = t
	}
	return result
}
