// Package linkcache is a TTL bounded cache of enrichment payloads keyed
// by content fingerprint, so the same external link bookmarked twice is
// enriched once. Expiry is lazy: an entry past its TTL reads as a miss
// and is only evicted when overwritten.
package linkcache

import (
	"time"

	"bookmarkd/internal/platform/store"
	"bookmarkd/internal/services/bookmarks/domain"
)

// FileName is the durable cache file inside the data directory
const FileName = "link_cache.json"

// DefaultTTL keeps cached enrichments for thirty days
const DefaultTTL = 30 * 24 * time.Hour

type entry struct {
	URL      string         `json:"url,omitempty"`
	Payload  domain.Payload `json:"payload"`
	CachedAt time.Time      `json:"cached_at"`
}

type document struct {
	Entries map[string]entry `json:"entries"`
}

func (d *document) init() {
	if d.Entries == nil {
		d.Entries = map[string]entry{}
	}
}

// Cache is the durable result cache
type Cache struct {
	doc *store.Doc[document]
	ttl time.Duration
	now func() time.Time
}

// Option mutates the Cache during New
type Option func(*Cache)

// WithTTL overrides the default entry lifetime
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// New binds the cache to the data directory
func New(dir *store.Dir, opts ...Option) *Cache {
	c := &Cache{
		doc: store.NewDoc[document](dir, FileName),
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the cached payload for the fingerprint when present and fresh
func (c *Cache) Get(fp string) (domain.Payload, bool, error) {
	var (
		p  domain.Payload
		ok bool
	)
	err := c.doc.View(func(d *document) error {
		e, found := d.Entries[fp]
		if !found || c.now().Sub(e.CachedAt) > c.ttl {
			return nil
		}
		p, ok = e.Payload, true
		return nil
	})
	return p, ok, err
}

// Put stores the payload under the fingerprint, last writer wins
func (c *Cache) Put(fp, url string, p domain.Payload) error {
	return c.doc.Update(func(d *document) error {
		d.init()
		d.Entries[fp] = entry{URL: url, Payload: p, CachedAt: c.now().UTC()}
		return nil
	})
}

// Prune drops every expired entry and returns the count removed.
// The read path never needs this; it exists for the admin command.
func (c *Cache) Prune() (int, error) {
	n := 0
	err := c.doc.Update(func(d *document) error {
		d.init()
		for fp, e := range d.Entries {
			if c.now().Sub(e.CachedAt) > c.ttl {
				delete(d.Entries, fp)
				n++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
