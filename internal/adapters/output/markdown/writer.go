// Package markdown renders enrichment payloads as markdown notes on disk
package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	perr "bookmarkd/internal/platform/errors"
	"bookmarkd/internal/services/bookmarks/domain"
)

// Writer persists one note per record under root/<category>/<id>.md
type Writer struct {
	root string
	now  func() time.Time
}

// New creates a Writer rooted at dir, created on first write
func New(dir string) *Writer {
	return &Writer{root: dir, now: time.Now}
}

// frontmatter is the YAML header of every note
type frontmatter struct {
	ID       string   `yaml:"id"`
	URL      string   `yaml:"url,omitempty"`
	Author   string   `yaml:"author,omitempty"`
	Category string   `yaml:"category"`
	Links    []string `yaml:"links,omitempty"`
	SavedAt  string   `yaml:"saved_at"`
}

// Write renders the note and returns its path relative to the root as
// the output ref. Writing the same record twice overwrites in place so
// retries never leave a second artifact.
func (w *Writer) Write(_ context.Context, rec domain.Record, p domain.Payload) (string, error) {
	cat := p.Category.String()
	if !p.Category.Valid() {
		cat = domain.CategoryTweet.String()
	}
	dir := filepath.Join(w.root, cat)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "create output dir %s", dir)
	}

	fm, err := yaml.Marshal(frontmatter{
		ID:       rec.ID,
		URL:      rec.URL,
		Author:   rec.Author,
		Category: cat,
		Links:    p.Links,
		SavedAt:  w.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "encode frontmatter for %s", rec.ID)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	title := p.Title
	if title == "" {
		title = rec.ID
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString(strings.TrimSpace(p.Body))
	b.WriteString("\n")

	name := filepath.Join(dir, rec.ID+".md")
	if err := os.WriteFile(name, []byte(b.String()), 0o644); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "write note %s", name)
	}
	rel, err := filepath.Rel(w.root, name)
	if err != nil {
		rel = name
	}
	return rel, nil
}
