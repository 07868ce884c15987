// Package service implements the real-time ingest flow: dedup check,
// prompt accepted/duplicate answer, processing continues asynchronously
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookmarkd/internal/platform/logger"
	bookmarks "bookmarkd/internal/services/bookmarks/domain"
	"bookmarkd/internal/services/ingest/domain"
	pipemod "bookmarkd/internal/services/pipeline/module"
	"bookmarkd/internal/services/state"
)

// Service handles submissions against the shared pipeline
type Service struct {
	runner  pipemod.RunnerPort
	store   *state.Store
	log     *logger.Logger
	started time.Time
	now     func() time.Time

	// inflight tracks the async runs so Close can drain them
	inflight sync.WaitGroup
}

// New constructs the ingest service
func New(runner pipemod.RunnerPort, store *state.Store) *Service {
	return &Service{
		runner:  runner,
		store:   store,
		log:     logger.Named("ingest"),
		started: time.Now(),
		now:     time.Now,
	}
}

// Submit answers promptly and processes the record in the background.
// An id already known to the store answers duplicate without reprocessing.
func (s *Service) Submit(ctx context.Context, sub domain.Submission) (domain.SubmitResult, error) {
	if _, known, err := s.store.Outcome(sub.ID); err != nil {
		return domain.SubmitResult{}, err
	} else if known {
		return domain.SubmitResult{ID: sub.ID, Status: domain.SubmitDuplicate}, nil
	}

	rec := sub.Record()
	runID := uuid.NewString()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		// detached from the request context, the caller already got 202
		bctx := logger.WithRun(context.Background(), runID)
		if _, err := s.runner.Run(bctx, []bookmarks.Record{rec}); err != nil {
			logger.C(bctx).Error().Err(err).Str("record_id", rec.ID).Msg("async processing failed")
		}
	}()

	s.log.Info().Str("record_id", sub.ID).Str("run_id", runID).Msg("submission accepted")
	return domain.SubmitResult{ID: sub.ID, Status: domain.SubmitAccepted}, nil
}

// Metrics snapshots outcome counts from the state store plus service uptime
func (s *Service) Metrics(context.Context) (domain.Metrics, error) {
	counts, err := s.store.Counts()
	if err != nil {
		return domain.Metrics{}, err
	}
	return domain.Metrics{
		UptimeSeconds: s.now().Sub(s.started).Seconds(),
		Outcomes:      counts,
	}, nil
}

// Drain waits for in-flight async submissions, used on shutdown
func (s *Service) Drain() { s.inflight.Wait() }
