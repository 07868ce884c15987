package module

import (
	"context"
	"testing"

	modkit "bookmarkd/internal/modkit"
	"bookmarkd/internal/modkit/module"
	"bookmarkd/internal/platform/store"
	bookmarks "bookmarkd/internal/services/bookmarks/domain"
	pipemod "bookmarkd/internal/services/pipeline/module"
	"bookmarkd/internal/services/state"
)

type noopRunner struct{}

func (noopRunner) Run(context.Context, []bookmarks.Record) (bookmarks.RunSummary, error) {
	return bookmarks.RunSummary{}, nil
}

func testState(t *testing.T) *state.Store {
	t.Helper()
	dir, err := store.Open(context.Background(), store.Config{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("open dir: %v", err)
	}
	st, err := state.Open(dir)
	if err != nil {
		t.Fatalf("open state: %v", err)
	}
	return st
}

func TestNewRequiresRegisteredPipeline(t *testing.T) {
	module.Reset()
	if _, err := New(modkit.Deps{}); err == nil {
		t.Fatal("missing pipeline registration must error")
	}
}

func TestNewResolvesPipelineFromRegistry(t *testing.T) {
	module.Reset()
	module.Register("pipeline", pipemod.Ports{Runner: noopRunner{}, State: testState(t)})

	m, err := New(modkit.Deps{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if m.Name() != "ingest" || m.Prefix() != "/v1" {
		t.Fatalf("module identity %q %q", m.Name(), m.Prefix())
	}
	if m.Service() == nil {
		t.Fatal("service must be wired")
	}
}
