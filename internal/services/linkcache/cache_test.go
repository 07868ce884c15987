package linkcache

import (
	"context"
	"testing"
	"time"

	"bookmarkd/internal/core/fingerprint"
	"bookmarkd/internal/platform/store"
	"bookmarkd/internal/services/bookmarks/domain"
)

func newCache(t *testing.T, opts ...Option) *Cache {
	t.Helper()
	d, err := store.Open(context.Background(), store.Config{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("open dir: %v", err)
	}
	return New(d, opts...)
}

func TestPutGetRoundTrip(t *testing.T) {
	c := newCache(t)
	fp := fingerprint.URLKey("https://example.com/article")
	want := domain.Payload{Category: domain.CategoryLink, Title: "An Article", Body: "summary"}

	if err := c.Put(fp, "https://example.com/article", want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := c.Get(fp)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Title != want.Title || got.Body != want.Body {
		t.Fatalf("payload mismatch: %+v", got)
	}
}

func TestMissOnUnknownFingerprint(t *testing.T) {
	c := newCache(t)
	if _, ok, err := c.Get("0123456789abcdef"); err != nil || ok {
		t.Fatalf("expected miss: ok=%v err=%v", ok, err)
	}
}

func TestExpiredEntryReadsAsMissWithoutEviction(t *testing.T) {
	c := newCache(t, WithTTL(time.Hour))
	fp := fingerprint.URLKey("https://example.com/old")
	if err := c.Put(fp, "https://example.com/old", domain.Payload{Title: "old"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	// move the clock past the TTL
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, ok, _ := c.Get(fp); ok {
		t.Fatal("expired entry must read as a miss")
	}
	// the entry is still on disk until overwritten or pruned
	var kept bool
	_ = c.doc.View(func(d *document) error {
		_, kept = d.Entries[fp]
		return nil
	})
	if !kept {
		t.Fatal("lazy expiry must not evict on read")
	}

	n, err := c.Prune()
	if err != nil || n != 1 {
		t.Fatalf("prune: n=%d err=%v", n, err)
	}
}
