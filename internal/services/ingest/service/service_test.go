package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookmarkd/internal/platform/store"
	bookmarks "bookmarkd/internal/services/bookmarks/domain"
	"bookmarkd/internal/services/ingest/domain"
	"bookmarkd/internal/services/state"
)

type fakeRunner struct {
	mu   sync.Mutex
	runs [][]bookmarks.Record
	st   *state.Store
}

func (f *fakeRunner) Run(_ context.Context, records []bookmarks.Record) (bookmarks.RunSummary, error) {
	f.mu.Lock()
	f.runs = append(f.runs, records)
	f.mu.Unlock()
	for _, rec := range records {
		if ok, _ := f.st.Claim(rec.ID); ok {
			_ = f.st.Complete(rec.ID, "notes/"+rec.ID+".md", 1)
		}
	}
	return bookmarks.RunSummary{Processed: len(records)}, nil
}

func newService(t *testing.T) (*Service, *fakeRunner) {
	t.Helper()
	dir, err := store.Open(context.Background(), store.Config{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("open dir: %v", err)
	}
	st, err := state.Open(dir)
	if err != nil {
		t.Fatalf("open state: %v", err)
	}
	runner := &fakeRunner{st: st}
	return New(runner, st), runner
}

func sub(id string) domain.Submission {
	return domain.Submission{ID: id, URL: "https://x.com/a/status/" + id, Author: "a", Text: "hi"}
}

func TestSubmitAcceptsAndProcessesAsync(t *testing.T) {
	svc, runner := newService(t)

	res, err := svc.Submit(context.Background(), sub("1"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Status != domain.SubmitAccepted || res.ID != "1" {
		t.Fatalf("result %+v", res)
	}

	svc.Drain()
	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.runs) != 1 || len(runner.runs[0]) != 1 || runner.runs[0][0].ID != "1" {
		t.Fatalf("runs %+v", runner.runs)
	}
}

func TestSubmitAnswersDuplicateForKnownIDs(t *testing.T) {
	svc, _ := newService(t)

	if _, err := svc.Submit(context.Background(), sub("1")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	svc.Drain()

	res, err := svc.Submit(context.Background(), sub("1"))
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if res.Status != domain.SubmitDuplicate {
		t.Fatalf("result %+v", res)
	}
	svc.Drain()
}

func TestMetricsReflectOutcomes(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.Submit(context.Background(), sub("1")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	svc.Drain()

	m, err := svc.Metrics(context.Background())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if m.Outcomes[bookmarks.StatusDone] != 1 {
		t.Fatalf("metrics %+v", m)
	}
}

func TestMetricsReportUptime(t *testing.T) {
	svc, _ := newService(t)
	svc.started = time.Now().Add(-90 * time.Second)

	m, err := svc.Metrics(context.Background())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if m.UptimeSeconds < 90 {
		t.Fatalf("uptime %v, want at least 90s", m.UptimeSeconds)
	}
}

func TestSubmissionDefaultsConversationID(t *testing.T) {
	rec := sub("9").Record()
	if rec.ConversationID != "9" {
		t.Fatalf("record %+v", rec)
	}
}
