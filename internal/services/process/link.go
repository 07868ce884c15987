package process

import (
	"context"
	"strings"

	"bookmarkd/internal/core/fingerprint"
	perr "bookmarkd/internal/platform/errors"
	"bookmarkd/internal/platform/logger"
	"bookmarkd/internal/services/bookmarks/domain"
)

const linkPrompt = "Summarize this article in a few short paragraphs for a personal " +
	"knowledge base. Keep concrete facts and skip boilerplate."

// Link fetches and summarizes the first external link of a record.
// Enrichment results are cached by URL fingerprint so the same article
// bookmarked twice is fetched and distilled once.
type Link struct {
	deps Deps
	log  *logger.Logger
}

// NewLink constructs the link processor
func NewLink(d Deps) *Link { return &Link{deps: d, log: logger.Named("process-link")} }

// Category implements the processor contract
func (*Link) Category() domain.Category { return domain.CategoryLink }

// Process enriches the record's primary external link
func (l *Link) Process(ctx context.Context, rec domain.Record) (domain.Payload, error) {
	if len(rec.ExternalLinks) == 0 {
		return domain.Payload{}, perr.Malformedf("link record %s has no external links", rec.ID)
	}
	target := rec.ExternalLinks[0]

	resolved, err := l.deps.Fetch.Resolve(ctx, target)
	if err != nil {
		return domain.Payload{}, err
	}

	fp := fingerprint.URLKey(resolved)
	if l.deps.Cache != nil {
		if p, ok, cerr := l.deps.Cache.Get(fp); cerr == nil && ok {
			l.log.Debug().Str("url", resolved).Msg("cache hit")
			return p, nil
		}
	}

	page, err := l.deps.Fetch.Fetch(ctx, resolved)
	if err != nil {
		return domain.Payload{}, err
	}

	body := page.Text
	if l.deps.Distill != nil && page.Text != "" {
		body, err = l.deps.Distill.Distill(ctx, linkPrompt, page.Title+"\n\n"+page.Text)
		if err != nil {
			return domain.Payload{}, err
		}
	}

	title := page.Title
	if title == "" {
		title = titleFrom(rec.Text, 8)
	}
	p := domain.Payload{
		Category: domain.CategoryLink,
		Title:    title,
		Body:     strings.TrimSpace(body),
		Links:    []string{resolved},
	}
	if l.deps.Cache != nil {
		if cerr := l.deps.Cache.Put(fp, resolved, p); cerr != nil {
			l.log.Warn().Err(cerr).Str("url", resolved).Msg("cache write failed")
		}
	}
	return p, nil
}
