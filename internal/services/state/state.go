// Package state owns the durable record id to outcome mapping that makes
// the pipeline idempotent and resumable. It is the sole writer of the
// state file; no other component mutates outcomes directly.
package state

import (
	"time"

	"bookmarkd/internal/platform/logger"
	"bookmarkd/internal/platform/store"
	"bookmarkd/internal/services/bookmarks/domain"
)

// FileName is the durable state file inside the data directory
const FileName = "state.json"

// document is the on-disk shape of the state file
type document struct {
	Processed map[string]domain.Outcome `json:"processed"`
}

func (d *document) init() {
	if d.Processed == nil {
		d.Processed = map[string]domain.Outcome{}
	}
}

// Store is the durable state store
type Store struct {
	doc *store.Doc[document]
	log *logger.Logger
	now func() time.Time
}

// Open binds the store to the data directory and recovers abandoned claims.
// Any id left in progress by a crashed run is reset to pending so it is
// eligible for exactly one fresh claim; done and failed ids are untouched.
func Open(dir *store.Dir) (*Store, error) {
	s := &Store{
		doc: store.NewDoc[document](dir, FileName),
		log: logger.Named("state"),
		now: time.Now,
	}
	reset := 0
	err := s.doc.Update(func(d *document) error {
		d.init()
		for id, o := range d.Processed {
			if o.Status == domain.StatusInProgress {
				o.Status = domain.StatusPending
				o.UpdatedAt = s.now().UTC()
				d.Processed[id] = o
				reset++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if reset > 0 {
		s.log.Warn().Int("count", reset).Msg("reset abandoned in progress records to pending")
	}
	return s, nil
}

// IsProcessed reports whether the outcome for id is done
func (s *Store) IsProcessed(id string) (bool, error) {
	done := false
	err := s.doc.View(func(d *document) error {
		done = d.Processed[id].Status == domain.StatusDone
		return nil
	})
	return done, err
}

// Outcome returns the persisted outcome for id if one exists
func (s *Store) Outcome(id string) (domain.Outcome, bool, error) {
	var (
		out domain.Outcome
		ok  bool
	)
	err := s.doc.View(func(d *document) error {
		out, ok = d.Processed[id]
		return nil
	})
	return out, ok, err
}

// Claim atomically transitions id from pending (or first sight) to in
// progress. It returns false when the id is already claimed or terminal,
// which is the dedup gate: at most one worker holds a claim per id.
func (s *Store) Claim(id string) (bool, error) {
	claimed := false
	err := s.doc.Update(func(d *document) error {
		d.init()
		o, ok := d.Processed[id]
		if ok && o.Status != domain.StatusPending {
			return nil
		}
		d.Processed[id] = domain.Outcome{
			Status:    domain.StatusInProgress,
			Attempts:  o.Attempts,
			LastError: o.LastError,
			UpdatedAt: s.now().UTC(),
		}
		claimed = true
		return nil
	})
	return claimed, err
}

// Complete records a terminal done outcome with the artifact reference
func (s *Store) Complete(id, outputRef string, attempts int) error {
	return s.doc.Update(func(d *document) error {
		d.init()
		d.Processed[id] = domain.Outcome{
			Status:    domain.StatusDone,
			Attempts:  attempts,
			OutputRef: outputRef,
			UpdatedAt: s.now().UTC(),
		}
		return nil
	})
}

// Fail records a terminal failed outcome. The error description is kept
// for operator inspection and the id is never auto-retried in later runs.
func (s *Store) Fail(id string, attempts int, cause string) error {
	return s.doc.Update(func(d *document) error {
		d.init()
		d.Processed[id] = domain.Outcome{
			Status:    domain.StatusFailed,
			Attempts:  attempts,
			LastError: cause,
			UpdatedAt: s.now().UTC(),
		}
		return nil
	})
}

// Release returns an in progress id to pending without recording an
// attempt, used when a run is cancelled before processing started
func (s *Store) Release(id string) error {
	return s.doc.Update(func(d *document) error {
		d.init()
		o, ok := d.Processed[id]
		if !ok || o.Status != domain.StatusInProgress {
			return nil
		}
		o.Status = domain.StatusPending
		o.UpdatedAt = s.now().UTC()
		d.Processed[id] = o
		return nil
	})
}

// ResetFailed flips every failed outcome back to pending and returns the
// count. This is the explicit operator action behind the admin command.
func (s *Store) ResetFailed() (int, error) {
	n := 0
	err := s.doc.Update(func(d *document) error {
		d.init()
		for id, o := range d.Processed {
			if o.Status != domain.StatusFailed {
				continue
			}
			o.Status = domain.StatusPending
			o.UpdatedAt = s.now().UTC()
			d.Processed[id] = o
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Counts tallies persisted outcomes by status
func (s *Store) Counts() (map[domain.Status]int, error) {
	counts := map[domain.Status]int{}
	err := s.doc.View(func(d *document) error {
		for _, o := range d.Processed {
			counts[o.Status]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
