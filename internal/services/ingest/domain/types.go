// Package domain defines the ingest submission contracts
package domain

import (
	bookmarks "bookmarkd/internal/services/bookmarks/domain"
)

// Submission is one bookmark pushed through the real-time endpoint
type Submission struct {
	ID                string   `json:"id" validate:"required"`
	URL               string   `json:"url" validate:"required,url"`
	Text              string   `json:"text"`
	Author            string   `json:"author" validate:"required"`
	ConversationID    string   `json:"conversation_id"`
	ReplyParentAuthor string   `json:"reply_parent_author"`
	MediaURLs         []string `json:"media_urls"`
	HasVideo          bool     `json:"has_video"`
	Links             []string `json:"links"`
}

// Record converts the submission into a pipeline record
func (s Submission) Record() bookmarks.Record {
	rec := bookmarks.Record{
		ID:                s.ID,
		URL:               s.URL,
		Text:              s.Text,
		Author:            s.Author,
		ConversationID:    s.ConversationID,
		ReplyParentAuthor: s.ReplyParentAuthor,
		ExternalLinks:     s.Links,
	}
	if rec.ConversationID == "" {
		rec.ConversationID = rec.ID
	}
	for _, m := range s.MediaURLs {
		rec.MediaRefs = append(rec.MediaRefs, bookmarks.MediaRef{Kind: bookmarks.MediaPhoto, URL: m})
	}
	if s.HasVideo {
		rec.MediaRefs = append(rec.MediaRefs, bookmarks.MediaRef{Kind: bookmarks.MediaVideo, URL: s.URL})
	}
	return rec
}

// SubmitStatus is the prompt answer given to the caller
type SubmitStatus string

// SubmitStatus values
const (
	SubmitAccepted  SubmitStatus = "accepted"
	SubmitDuplicate SubmitStatus = "duplicate"
)

// SubmitResult reports how a submission was received
type SubmitResult struct {
	ID     string       `json:"id"`
	Status SubmitStatus `json:"status"`
}

// Metrics is the counts snapshot served by the metrics endpoint
type Metrics struct {
	UptimeSeconds float64                  `json:"uptime_seconds"`
	Outcomes      map[bookmarks.Status]int `json:"outcomes"`
}
