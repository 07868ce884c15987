package markdown

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookmarkd/internal/services/bookmarks/domain"
)

func TestWriteProducesNoteWithFrontmatter(t *testing.T) {
	root := t.TempDir()
	w := New(root)

	rec := domain.Record{ID: "123", URL: "https://x.com/u/status/123", Author: "alice"}
	p := domain.Payload{
		Category: domain.CategoryLink,
		Title:    "An Article",
		Body:     "a short summary",
		Links:    []string{"https://example.com/article"},
	}

	ref, err := w.Write(context.Background(), rec, p)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if ref != filepath.Join("link", "123.md") {
		t.Fatalf("output ref %q", ref)
	}

	raw, err := os.ReadFile(filepath.Join(root, ref))
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	s := string(raw)
	if !strings.HasPrefix(s, "---\n") {
		t.Fatal("note must start with yaml frontmatter")
	}
	for _, want := range []string{"id: \"123\"", "category: link", "# An Article", "a short summary"} {
		if !strings.Contains(s, want) {
			t.Fatalf("note missing %q:\n%s", want, s)
		}
	}
}

func TestRewriteOverwritesInPlace(t *testing.T) {
	root := t.TempDir()
	w := New(root)
	rec := domain.Record{ID: "9"}
	p := domain.Payload{Category: domain.CategoryTweet, Body: "v1"}

	ref1, err := w.Write(context.Background(), rec, p)
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	p.Body = "v2"
	ref2, err := w.Write(context.Background(), rec, p)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if ref1 != ref2 {
		t.Fatalf("retried writes must share one artifact: %q vs %q", ref1, ref2)
	}
	raw, _ := os.ReadFile(filepath.Join(root, ref2))
	if !strings.Contains(string(raw), "v2") {
		t.Fatal("second write should win")
	}
}
