// Package backlog manages export file lifecycle: pending exports wait in
// the backlog directory, processed ones are archived with a timestamp
// prefix and cleaned up after a retention period.
package backlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	perr "bookmarkd/internal/platform/errors"
	"bookmarkd/internal/platform/logger"
)

// DefaultRetention keeps archived exports for thirty days
const DefaultRetention = 30 * 24 * time.Hour

// Manager owns the backlog and archive directories
type Manager struct {
	dir       string
	processed string
	retention time.Duration
	log       *logger.Logger
	now       func() time.Time
}

// Option mutates the Manager during New
type Option func(*Manager)

// WithRetention overrides the archive retention period
func WithRetention(d time.Duration) Option {
	return func(m *Manager) { m.retention = d }
}

// WithArchiveDir overrides the default dir/processed archive location
func WithArchiveDir(dir string) Option {
	return func(m *Manager) { m.processed = dir }
}

// New creates a Manager over the backlog directory
func New(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:       dir,
		processed: filepath.Join(dir, "processed"),
		retention: DefaultRetention,
		log:       logger.Named("backlog"),
		now:       time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Pending lists unprocessed export files in the backlog, oldest first
func (m *Manager) Pending(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*.json"
	}
	matches, err := filepath.Glob(filepath.Join(m.dir, pattern))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "glob backlog %s", pattern)
	}
	sort.Slice(matches, func(i, j int) bool {
		fi, ei := os.Stat(matches[i])
		fj, ej := os.Stat(matches[j])
		if ei != nil || ej != nil {
			return matches[i] < matches[j]
		}
		return fi.ModTime().Before(fj.ModTime())
	})
	return matches, nil
}

// Archive moves a processed export into the archive directory under a
// timestamped name and returns the destination path
func (m *Manager) Archive(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeNotFound, "archive %s", path)
	}
	if err := os.MkdirAll(m.processed, 0o755); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "create archive dir")
	}

	stamp := m.now().Format("20060102_150405")
	dest := filepath.Join(m.processed, stamp+"_"+filepath.Base(path))
	for i := 1; ; i++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(m.processed, fmt.Sprintf("%s_%d_%s", stamp, i, filepath.Base(path)))
	}

	if err := os.Rename(path, dest); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "move %s to archive", path)
	}
	m.log.Info().Str("from", path).Str("to", dest).Msg("export archived")
	return dest, nil
}

// Clean removes archived files older than the retention period and
// returns the paths deleted
func (m *Manager) Clean() ([]string, error) {
	entries, err := os.ReadDir(m.processed)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "read archive dir")
	}

	cutoff := m.now().Add(-m.retention)
	var removed []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		p := filepath.Join(m.processed, e.Name())
		if err := os.Remove(p); err != nil {
			m.log.Warn().Err(err).Str("path", p).Msg("archive cleanup failed")
			continue
		}
		removed = append(removed, p)
	}
	if len(removed) > 0 {
		m.log.Info().Int("count", len(removed)).Msg("old archives removed")
	}
	return removed, nil
}
