package process

import (
	"context"
	"strings"

	"bookmarkd/internal/services/bookmarks/domain"
)

// Tweet handles plain text and image-only records, no external calls
type Tweet struct{}

// NewTweet constructs the tweet processor
func NewTweet() *Tweet { return &Tweet{} }

// Category implements the processor contract
func (*Tweet) Category() domain.Category { return domain.CategoryTweet }

// Process formats the record text and media into a note payload
func (*Tweet) Process(_ context.Context, rec domain.Record) (domain.Payload, error) {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(rec.Text))
	if len(rec.MediaRefs) > 0 {
		b.WriteString("\n")
		for _, m := range rec.MediaRefs {
			b.WriteString("\n![](" + m.URL + ")")
		}
	}
	return domain.Payload{
		Category: domain.CategoryTweet,
		Title:    titleFrom(rec.Text, 8),
		Body:     b.String(),
		Links:    rec.ExternalLinks,
	}, nil
}
