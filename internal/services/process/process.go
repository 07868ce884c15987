// Package process implements the per category enrichment processors.
// Each processor is one variant behind the shared capability contract;
// the pipeline selects a variant by the classifier's output and treats
// them uniformly.
package process

import (
	"context"
	"strings"

	"bookmarkd/internal/adapters/fetch"
	"bookmarkd/internal/services/bookmarks/domain"
	"bookmarkd/internal/services/linkcache"
)

// Fetcher is the slice of the fetch client the processors need
type Fetcher interface {
	Resolve(ctx context.Context, url string) (string, error)
	Fetch(ctx context.Context, url string) (fetch.Page, error)
}

// Deps carries the collaborators shared by the processors.
// Distill may be nil, processors then fall back to raw content.
type Deps struct {
	Fetch   Fetcher
	Distill domain.Distiller
	Cache   *linkcache.Cache
}

// All builds one processor per category, keyed for the pipeline
func All(d Deps) map[domain.Category]domain.Processor {
	return map[domain.Category]domain.Processor{
		domain.CategoryTweet:  NewTweet(),
		domain.CategoryThread: NewThread(d),
		domain.CategoryLink:   NewLink(d),
		domain.CategoryVideo:  NewVideo(d),
	}
}

// titleFrom derives a note title from the first words of text
func titleFrom(text string, max int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	if len(words) > max {
		words = words[:max]
	}
	t := strings.Join(words, " ")
	return strings.TrimRight(t, ".,;:!?")
}
