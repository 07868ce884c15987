package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	perr "bookmarkd/internal/platform/errors"

	"golang.org/x/sys/unix"
)

// Doc is one durable JSON document of type T
// All access runs under an in-process mutex plus an exclusive flock on a
// sidecar lock file, held only for the duration of the read-modify-write
type Doc[T any] struct {
	path string
	mu   sync.Mutex
}

// NewDoc binds a typed document to name inside the data directory
func NewDoc[T any](d *Dir, name string) *Doc[T] {
	return &Doc[T]{path: d.File(name)}
}

// Path returns the backing file path
func (doc *Doc[T]) Path() string { return doc.path }

// View loads the current document and passes it to fn read-only
// A missing file yields the zero value of T
func (doc *Doc[T]) View(fn func(*T) error) error {
	doc.mu.Lock()
	defer doc.mu.Unlock()

	unlock, err := doc.flock()
	if err != nil {
		return err
	}
	defer unlock()

	v, err := doc.load()
	if err != nil {
		return err
	}
	return fn(v)
}

// Update loads the document, applies fn, and persists the result atomically
// If fn returns an error nothing is written
func (doc *Doc[T]) Update(fn func(*T) error) error {
	doc.mu.Lock()
	defer doc.mu.Unlock()

	unlock, err := doc.flock()
	if err != nil {
		return err
	}
	defer unlock()

	v, err := doc.load()
	if err != nil {
		return err
	}
	if err := fn(v); err != nil {
		return err
	}
	return doc.save(v)
}

// load reads and decodes the file; absent file returns the zero value
// an unreadable or undecodable file is surfaced as state corruption,
// never silently reset
func (doc *Doc[T]) load() (*T, error) {
	v := new(T)
	raw, err := os.ReadFile(doc.path)
	if errors.Is(err, fs.ErrNotExist) {
		return v, nil
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStateCorruption, "read %s", doc.path)
	}
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStateCorruption, "decode %s", doc.path)
	}
	return v, nil
}

// save writes v to a temp file in the same directory then renames over path
func (doc *Doc[T]) save(v *T) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "encode %s", doc.path)
	}

	dir := filepath.Dir(doc.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(doc.path)+".*.tmp")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "temp file for %s", doc.path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, doc.path); err != nil {
		_ = os.Remove(tmpName)
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "rename %s", doc.path)
	}
	return nil
}

// flock takes an exclusive lock on the sidecar lock file
// the returned func releases the lock and closes the fd
func (doc *Doc[T]) flock() (func(), error) {
	lf, err := os.OpenFile(doc.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "open lock for %s", doc.path)
	}
	if err := unix.Flock(int(lf.Fd()), unix.LOCK_EX); err != nil {
		_ = lf.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "flock %s", doc.path)
	}
	return func() {
		_ = unix.Flock(int(lf.Fd()), unix.LOCK_UN)
		_ = lf.Close()
	}, nil
}
