// Package pipeline orchestrates the classification and dispatch flow:
// dedup against the state store, classify, acquire the rate gate, run the
// category processor under the retry policy, persist the outcome, and
// emit a run summary. A single record's failure never aborts its siblings.
package pipeline

import (
	"context"
	"sync"
	"time"

	"bookmarkd/internal/adapters/fetch"
	perr "bookmarkd/internal/platform/errors"
	"bookmarkd/internal/platform/logger"
	"bookmarkd/internal/services/bookmarks/domain"
	"bookmarkd/internal/services/classify"
	"bookmarkd/internal/services/state"
)

// Config tunes the orchestrator
type Config struct {
	// Workers sizes the pool draining the input queue
	Workers int
	Gate    GateConfig
	Retry   RetryConfig
}

// DefaultConfig mirrors the gate's global bound
func DefaultConfig() Config {
	return Config{
		Workers: 5,
		Gate:    DefaultGateConfig(),
		Retry:   DefaultRetryConfig(),
	}
}

// Resolver expands a shortened URL into its final target.
// Non shortener URLs come back unchanged.
type Resolver interface {
	Resolve(ctx context.Context, url string) (string, error)
}

// Option mutates the service during New
type Option func(*Service)

// WithResolver wires short link expansion ahead of classification so
// URL-only posts can classify as Link or Video instead of Tweet
func WithResolver(r Resolver) Option {
	return func(s *Service) { s.resolver = r }
}

// Service runs batches of records through the full per record state machine
type Service struct {
	classifier *classify.Classifier
	store      *state.Store
	gate       *Gate
	retrier    *Retrier
	procs      map[domain.Category]domain.Processor
	sink       domain.Sink
	resolver   Resolver
	workers    int
	log        *logger.Logger
	now        func() time.Time
}

// New wires the orchestrator. Every category must have a processor.
func New(
	cfg Config,
	cl *classify.Classifier,
	st *state.Store,
	procs map[domain.Category]domain.Processor,
	sink domain.Sink,
	opts ...Option,
) (*Service, error) {
	for _, c := range domain.Categories() {
		if procs[c] == nil {
			return nil, perr.Configf("no processor wired for category %s", c)
		}
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	s := &Service{
		classifier: cl,
		store:      st,
		gate:       NewGate(cfg.Gate),
		retrier:    NewRetrier(cfg.Retry),
		procs:      procs,
		sink:       sink,
		workers:    cfg.Workers,
		log:        logger.Named("pipeline"),
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

type outcome struct {
	category  domain.Category
	processed bool
	failed    bool
	skipped   bool
}

// result pairs a per record outcome with an error that dooms the run
type result struct {
	out   outcome
	fatal error
}

// Run drains the batch through the worker pool and reports a summary.
// Cancellation lets in-flight workers finish their current record's
// terminal state transition before the pool stops pulling new work.
// A fatal error (broken configuration, corrupt state store) aborts the
// whole run instead of being tallied as a per record failure.
func (s *Service) Run(ctx context.Context, records []domain.Record) (domain.RunSummary, error) {
	sum := domain.RunSummary{
		Started:    s.now().UTC(),
		ByCategory: map[domain.Category]int{},
	}

	ctx, halt := context.WithCancel(ctx)
	defer halt()

	queue := make(chan domain.Record)
	results := make(chan result, len(records))

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range queue {
				r := s.runOne(ctx, rec)
				if r.fatal != nil {
					halt()
				}
				results <- r
			}
		}()
	}

feed:
	for _, rec := range records {
		select {
		case queue <- rec:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)
	wg.Wait()
	close(results)

	var fatal error
	for r := range results {
		if r.fatal != nil && fatal == nil {
			fatal = r.fatal
		}
		o := r.out
		switch {
		case o.skipped:
			sum.Skipped++
		case o.failed:
			sum.Failed++
		case o.processed:
			sum.Processed++
		}
		if o.category != "" && !o.skipped {
			sum.ByCategory[o.category]++
		}
	}
	sum.Finished = s.now().UTC()

	s.log.Info().
		Int("processed", sum.Processed).
		Int("failed", sum.Failed).
		Int("skipped", sum.Skipped).
		Msg("run complete")

	if fatal != nil {
		return sum, fatal
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}

// runOne executes the per record state machine to completion. State
// mutations are never abandoned mid-flight; claim either fully happens
// or is not attempted.
func (s *Service) runOne(ctx context.Context, rec domain.Record) result {
	log := logger.C(logger.WithRecord(ctx, rec.ID))

	claimed, err := s.store.Claim(rec.ID)
	if err != nil {
		if perr.Fatal(err) {
			log.Error().Err(err).Msg("state store unusable, aborting run")
			return result{fatal: err}
		}
		log.Error().Err(err).Msg("claim failed")
		return result{out: outcome{failed: true}}
	}
	if !claimed {
		log.Debug().Msg("already processed or claimed, skipping")
		return result{out: outcome{skipped: true}}
	}

	s.expandShortLinks(ctx, &rec)

	cat := s.classifier.Classify(rec)
	log.Debug().Str("category", cat.String()).Msg("classified")

	release, err := s.gate.Acquire(ctx, cat)
	if err != nil {
		// cancelled before processing started; give the claim back so the
		// record stays eligible for the next run
		s.releaseClaim(rec.ID)
		return result{out: outcome{category: cat, skipped: true}}
	}
	defer release()

	var payload domain.Payload
	attempts, err := s.retrier.Execute(ctx, func(ctx context.Context) error {
		p, perr2 := s.procs[cat].Process(ctx, rec)
		if perr2 != nil {
			return perr2
		}
		payload = p
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			// interrupted mid retry, not a verdict on the record
			log.Debug().Int("attempts", attempts).Msg("processing interrupted, releasing claim")
			s.releaseClaim(rec.ID)
			return result{out: outcome{category: cat, skipped: true}}
		}
		log.Warn().Err(err).Int("attempts", attempts).Str("category", cat.String()).Msg("processing failed")
		if ferr := s.recordFailure(rec.ID, attempts, err); ferr != nil {
			return result{fatal: ferr}
		}
		return result{out: outcome{category: cat, failed: true}}
	}

	ref, err := s.sink.Write(ctx, rec, payload)
	if err != nil {
		log.Error().Err(err).Msg("sink write failed")
		if ferr := s.recordFailure(rec.ID, attempts, err); ferr != nil {
			return result{fatal: ferr}
		}
		return result{out: outcome{category: cat, failed: true}}
	}

	if err := s.store.Complete(rec.ID, ref, attempts); err != nil {
		if perr.Fatal(err) {
			log.Error().Err(err).Msg("state store unusable, aborting run")
			return result{fatal: err}
		}
		log.Error().Err(err).Msg("state complete failed")
		return result{out: outcome{category: cat, failed: true}}
	}
	return result{out: outcome{category: cat, processed: true}}
}

// expandShortLinks resolves shortened URLs found in the text of records
// with no external links. A resolution failure leaves the record as is,
// so it degrades to Tweet instead of failing the run.
func (s *Service) expandShortLinks(ctx context.Context, rec *domain.Record) {
	if s.resolver == nil || len(rec.ExternalLinks) > 0 {
		return
	}
	for _, u := range fetch.ShortLinks(rec.Text) {
		final, err := s.resolver.Resolve(ctx, u)
		if err != nil {
			logger.C(ctx).Debug().Err(err).Str("url", u).Msg("short link resolution failed")
			continue
		}
		if final == u || fetch.IsShortLink(final) {
			continue
		}
		rec.ExternalLinks = append(rec.ExternalLinks, final)
	}
}

func (s *Service) releaseClaim(id string) {
	if err := s.store.Release(id); err != nil {
		s.log.Error().Err(err).Str("record_id", id).Msg("claim release failed")
	}
}

// recordFailure writes the terminal failure; a fatal store error bubbles
// up so the run aborts instead of carrying on over a broken store
func (s *Service) recordFailure(id string, attempts int, cause error) error {
	if err := s.store.Fail(id, attempts, cause.Error()); err != nil {
		s.log.Error().Err(err).Str("record_id", id).Msg("state fail write failed")
		if perr.Fatal(err) {
			return err
		}
	}
	return nil
}
