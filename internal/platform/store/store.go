// Package store provides durable JSON document files with crash-safe writes.
// Every mutation goes through write-to-temp-then-rename guarded by an
// exclusive file lock, so a crash mid-write never corrupts the durable file
// and no two processes interleave writes.
package store

import (
	"context"
	"os"
	"path/filepath"

	"bookmarkd/internal/platform/logger"
)

// Dir is a handle over the directory holding the durable document files
// zero value is not usable; construct via Open
type Dir struct {
	// Log is the logger used by document operations
	Log logger.Logger

	path string
}

// Config selects the data directory
type Config struct {
	// Path is the directory holding state and cache files; created if absent
	Path string
}

// Option mutates the Dir during Open
type Option func(*Dir) error

// WithLogger attaches a logger to the Dir
func WithLogger(l logger.Logger) Option {
	return func(d *Dir) error {
		d.Log = l
		return nil
	}
}

// Open prepares the data directory and returns a handle
func Open(_ context.Context, cfg Config, opts ...Option) (*Dir, error) {
	d := &Dir{path: cfg.Path}
	for _, o := range opts {
		if err := o(d); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, err
	}
	return d, nil
}

// Path returns the data directory path
func (d *Dir) Path() string { return d.path }

// File resolves name inside the data directory
func (d *Dir) File(name string) string { return filepath.Join(d.path, name) }
