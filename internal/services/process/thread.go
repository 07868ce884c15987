package process

import (
	"context"
	"strings"

	"bookmarkd/internal/core/fingerprint"
	"bookmarkd/internal/services/bookmarks/domain"
	"bookmarkd/internal/services/linkcache"
)

const threadPrompt = "Summarize this social media thread in a few short paragraphs, " +
	"keeping the author's key points and any actionable advice."

// Thread summarizes multi-post threads, optionally through the distiller.
// Distilled payloads are cached by content fingerprint so a rerun over
// the same thread text never pays for a second model call.
type Thread struct {
	distill domain.Distiller
	cache   *linkcache.Cache
}

// NewThread constructs the thread processor
func NewThread(d Deps) *Thread { return &Thread{distill: d.Distill, cache: d.Cache} }

// Category implements the processor contract
func (*Thread) Category() domain.Category { return domain.CategoryThread }

// Process produces a thread note, distilled when a distiller is wired
func (t *Thread) Process(ctx context.Context, rec domain.Record) (domain.Payload, error) {
	body := strings.TrimSpace(rec.Text)
	if t.distill != nil {
		fp := fingerprint.Key(body)
		if t.cache != nil {
			if p, ok, err := t.cache.Get(fp); err == nil && ok {
				return p, nil
			}
		}
		summary, err := t.distill.Distill(ctx, threadPrompt, body)
		if err != nil {
			return domain.Payload{}, err
		}
		body = summary + "\n\n## Original\n\n" + body
		p := threadPayload(rec, body)
		if t.cache != nil {
			_ = t.cache.Put(fp, rec.URL, p)
		}
		return p, nil
	}
	return threadPayload(rec, body), nil
}

func threadPayload(rec domain.Record, body string) domain.Payload {
	return domain.Payload{
		Category: domain.CategoryThread,
		Title:    titleFrom(rec.Text, 8),
		Body:     body,
		Links:    rec.ExternalLinks,
	}
}
