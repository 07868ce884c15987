package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookmarkd/internal/services/bookmarks/domain"
)

func TestGateEnforcesCategorySpacing(t *testing.T) {
	const interval = 20 * time.Millisecond
	const n = 4

	g := NewGate(GateConfig{
		Global:    n,
		Intervals: map[domain.Category]time.Duration{domain.CategoryLink: interval},
	})

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := g.Acquire(context.Background(), domain.CategoryLink)
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			release()
		}()
	}
	wg.Wait()

	if elapsed := time.Since(start); elapsed < (n-1)*interval {
		t.Fatalf("n acquisitions finished in %v, want at least %v", elapsed, (n-1)*interval)
	}
}

func TestGateGlobalBound(t *testing.T) {
	g := NewGate(GateConfig{Global: 1})

	release, err := g.Acquire(context.Background(), domain.CategoryTweet)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := g.Acquire(ctx, domain.CategoryVideo); err == nil {
		t.Fatal("second acquire should block until the slot frees")
	}

	release()
	if release2, err := g.Acquire(context.Background(), domain.CategoryVideo); err != nil {
		t.Fatalf("acquire after release: %v", err)
	} else {
		release2()
	}
}

func TestGateCancelledWhileWaiting(t *testing.T) {
	g := NewGate(GateConfig{
		Global:    2,
		Intervals: map[domain.Category]time.Duration{domain.CategoryVideo: time.Hour},
	})

	release, err := g.Acquire(context.Background(), domain.CategoryVideo)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := g.Acquire(ctx, domain.CategoryVideo); err == nil {
		t.Fatal("waiter should observe cancellation")
	}

	// the global slot taken by the cancelled waiter must be returned
	select {
	case g.slots <- struct{}{}:
		<-g.slots
	default:
		t.Fatal("cancelled acquire leaked a global slot")
	}
}
