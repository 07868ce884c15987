// Package domain defines the bookmark record model shared by every service
package domain

import "time"

// Category is the closed set of content types a record is routed to
type Category string

// Category values in dispatch priority order
const (
	CategoryVideo  Category = "video"
	CategoryThread Category = "thread"
	CategoryLink   Category = "link"
	CategoryTweet  Category = "tweet"
)

// Categories lists every category once, useful for per category config maps
func Categories() []Category {
	return []Category{CategoryVideo, CategoryThread, CategoryLink, CategoryTweet}
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryVideo, CategoryThread, CategoryLink, CategoryTweet:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

// MediaKind tags a media reference on a record
type MediaKind string

// MediaKind values
const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
	MediaGIF   MediaKind = "animated_gif"
)

// MediaRef is one media locator attached to a record
// order is significant for display only
type MediaRef struct {
	Kind MediaKind `json:"kind"`
	URL  string    `json:"url"`
}

// Record is one bookmark item to be classified and processed
// all fields are immutable facts of the source item
// classification is recomputed each run and never stored on the record
type Record struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Text   string `json:"text"`
	Author string `json:"author"`

	MediaRefs     []MediaRef `json:"media_refs,omitempty"`
	ExternalLinks []string   `json:"external_links,omitempty"`

	// ConversationID equals ID when the record is not part of a thread
	ConversationID string `json:"conversation_id,omitempty"`
	// ReplyParentAuthor is the author of the item this one replies to if any
	ReplyParentAuthor string `json:"reply_parent_author,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// HasVideo reports whether the record carries a native video media reference
func (r Record) HasVideo() bool {
	for _, m := range r.MediaRefs {
		if m.Kind == MediaVideo || m.Kind == MediaGIF {
			return true
		}
	}
	return false
}
