package backlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func write(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("[]"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestPendingListsExports(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "export1.json")
	write(t, dir, "export2.json")
	write(t, dir, "notes.txt")

	m := New(dir)
	got, err := m.Pending("")
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("pending %v", got)
	}
}

func TestArchiveMovesFileOutOfBacklog(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "export.json")

	m := New(dir)
	dest, err := m.Archive(src)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source should be gone after archiving")
	}
	if !strings.HasSuffix(dest, "_export.json") {
		t.Fatalf("dest %q should keep the original name", dest)
	}

	pending, _ := m.Pending("")
	if len(pending) != 0 {
		t.Fatalf("archived file still pending: %v", pending)
	}
}

func TestArchiveAvoidsNameCollisions(t *testing.T) {
	dir := t.TempDir()
	m := New(dir)
	m.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

	a := write(t, dir, "export.json")
	d1, err := m.Archive(a)
	if err != nil {
		t.Fatalf("first archive: %v", err)
	}
	b := write(t, dir, "export.json")
	d2, err := m.Archive(b)
	if err != nil {
		t.Fatalf("second archive: %v", err)
	}
	if d1 == d2 {
		t.Fatalf("collision not handled: %q", d1)
	}
}

func TestCleanRemovesOnlyOldArchives(t *testing.T) {
	dir := t.TempDir()
	m := New(dir, WithRetention(24*time.Hour))

	old := write(t, dir, "old.json")
	oldDest, err := m.Archive(old)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldDest, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	fresh := write(t, dir, "fresh.json")
	freshDest, err := m.Archive(fresh)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	removed, err := m.Clean()
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if len(removed) != 1 || removed[0] != oldDest {
		t.Fatalf("removed %v", removed)
	}
	if _, err := os.Stat(freshDest); err != nil {
		t.Fatal("fresh archive must survive cleanup")
	}
}
