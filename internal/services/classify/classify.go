// Package classify decides the content category of a bookmark record
// via an ordered rule cascade: video, thread, link, then tweet as the
// default. The function is pure and total; every record maps to exactly
// one category and repeated calls always agree.
package classify

import (
	"strings"

	"bookmarkd/internal/services/bookmarks/domain"
)

// Classifier evaluates the rule cascade against one record at a time
type Classifier struct {
	rules *Rules
}

// New builds a Classifier over the given rule data
func New(rules *Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the category for rec, first match wins
// the video before thread ordering is fixed and not configurable
func (c *Classifier) Classify(rec domain.Record) domain.Category {
	if c.isVideo(rec) {
		return domain.CategoryVideo
	}
	if c.isThread(rec) {
		return domain.CategoryThread
	}
	if c.isLink(rec) {
		return domain.CategoryLink
	}
	return domain.CategoryTweet
}

func (c *Classifier) isVideo(rec domain.Record) bool {
	if rec.HasVideo() {
		return true
	}
	for _, link := range rec.ExternalLinks {
		if c.rules.isVideoHost(host(link)) {
			return true
		}
	}
	return false
}

// isThread applies the multi signal rule: any definitive signal admits,
// otherwise at least two weak textual signals must co-occur. One weak
// signal alone never classifies as thread so numbered lists and casual
// mentions of the word stay tweets.
func (c *Classifier) isThread(rec domain.Record) bool {
	// definitive: part of a conversation rooted elsewhere
	if rec.ConversationID != "" && rec.ConversationID != rec.ID {
		return true
	}
	// definitive: self reply chain
	if rec.ReplyParentAuthor != "" && rec.ReplyParentAuthor == rec.Author {
		return true
	}
	return c.weakThreadSignals(rec.Text) >= c.rules.minWeak
}

func (c *Classifier) weakThreadSignals(text string) int {
	n := 0
	if leadingIndex.MatchString(text) {
		n++
	}
	lower := strings.ToLower(text)
	for _, m := range c.rules.threadMarkers {
		if strings.Contains(lower, m) {
			n++
			break
		}
	}
	for _, e := range c.rules.threadEmoji {
		if strings.Contains(text, e) {
			n++
			break
		}
	}
	return n
}

func (c *Classifier) isLink(rec domain.Record) bool {
	for _, link := range rec.ExternalLinks {
		h := host(link)
		if h == "" {
			continue
		}
		if !c.rules.isPlatformHost(h) {
			return true
		}
	}
	return false
}
