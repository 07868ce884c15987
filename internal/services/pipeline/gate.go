package pipeline

import (
	"context"
	"sync"
	"time"

	"bookmarkd/internal/services/bookmarks/domain"
)

// GateConfig sizes the two independent admission limits
type GateConfig struct {
	// Global bounds concurrent processor invocations across all categories
	Global int
	// Intervals is the minimum spacing between dispatches per category
	Intervals map[domain.Category]time.Duration
}

// DefaultGateConfig mirrors the downstream cost of each category: video
// enrichment calls the most expensive external service, threads a strict
// one, links and tweets only cheap fetches.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		Global: 5,
		Intervals: map[domain.Category]time.Duration{
			domain.CategoryVideo:  time.Second,
			domain.CategoryThread: 500 * time.Millisecond,
			domain.CategoryLink:   200 * time.Millisecond,
			domain.CategoryTweet:  200 * time.Millisecond,
		},
	}
}

type lane struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
}

// Gate is the per category admission control. Two limits compose: a
// global concurrency bound and a per category minimum inter-dispatch
// interval. Both must be satisfied before a processor invocation runs.
type Gate struct {
	slots chan struct{}
	lanes map[domain.Category]*lane
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewGate builds a Gate from config, unknown categories share a default lane
func NewGate(cfg GateConfig) *Gate {
	if cfg.Global < 1 {
		cfg.Global = 1
	}
	g := &Gate{
		slots: make(chan struct{}, cfg.Global),
		lanes: make(map[domain.Category]*lane, len(cfg.Intervals)),
		now:   time.Now,
		sleep: sleepCtx,
	}
	for _, c := range domain.Categories() {
		g.lanes[c] = &lane{interval: cfg.Intervals[c]}
	}
	return g
}

// Acquire blocks until both limits admit the caller and returns a release
// func. Release must run on every exit path; the per category spacing is
// already committed once Acquire returns.
func (g *Gate) Acquire(ctx context.Context, cat domain.Category) (func(), error) {
	select {
	case g.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	release := func() { <-g.slots }

	ln := g.lanes[cat]
	if ln == nil || ln.interval <= 0 {
		return release, nil
	}

	// holding the lane lock across the wait is what enforces the floor
	// between concurrent callers of the same category
	ln.mu.Lock()
	wait := ln.interval - g.now().Sub(ln.last)
	if wait > 0 {
		if err := g.sleep(ctx, wait); err != nil {
			ln.mu.Unlock()
			release()
			return nil, err
		}
	}
	ln.last = g.now()
	ln.mu.Unlock()

	return release, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
