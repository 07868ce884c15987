package process

import (
	"context"
	"strings"

	"bookmarkd/internal/services/bookmarks/domain"
)

const videoPrompt = "Write a short note describing what this video page is about, " +
	"based on its title and description."

// Video handles records carrying native video or video platform links
type Video struct {
	deps Deps
}

// NewVideo constructs the video processor
func NewVideo(d Deps) *Video { return &Video{deps: d} }

// Category implements the processor contract
func (*Video) Category() domain.Category { return domain.CategoryVideo }

// Process builds a note around the video link, enriching hosted videos
// with their page metadata when reachable
func (v *Video) Process(ctx context.Context, rec domain.Record) (domain.Payload, error) {
	target := videoTarget(rec)

	title := titleFrom(rec.Text, 8)
	body := strings.TrimSpace(rec.Text)

	// native uploads have no useful page to fetch
	if target != "" && target != rec.URL {
		page, err := v.deps.Fetch.Fetch(ctx, target)
		if err != nil {
			return domain.Payload{}, err
		}
		if page.Title != "" {
			title = page.Title
		}
		meta := page.Description
		if meta == "" {
			meta = page.Text
		}
		if v.deps.Distill != nil && meta != "" {
			summary, derr := v.deps.Distill.Distill(ctx, videoPrompt, page.Title+"\n\n"+meta)
			if derr != nil {
				return domain.Payload{}, derr
			}
			body = summary + "\n\n" + body
		}
	}

	links := rec.ExternalLinks
	if target != "" {
		links = append([]string{target}, links...)
	}
	return domain.Payload{
		Category: domain.CategoryVideo,
		Title:    title,
		Body:     body,
		Links:    links,
	}, nil
}

// videoTarget picks the most specific video locator on the record
func videoTarget(rec domain.Record) string {
	for _, m := range rec.MediaRefs {
		if m.Kind == domain.MediaVideo && m.URL != "" {
			return m.URL
		}
	}
	if len(rec.ExternalLinks) > 0 {
		return rec.ExternalLinks[0]
	}
	return rec.URL
}
