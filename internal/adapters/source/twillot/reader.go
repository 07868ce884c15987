// Package twillot parses JSON bookmark exports from the Twillot browser
// extension into records for the pipeline
package twillot

import (
	"context"
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"time"

	perr "bookmarkd/internal/platform/errors"
	"bookmarkd/internal/services/bookmarks/domain"
)

// urlPattern matches http and https URLs inside tweet text
var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

// shortLink matches the platform's own t.co redirects which carry no
// content of their own
var shortLink = regexp.MustCompile(`^https?://t\.co/`)

// item is one entry of the Twillot export array
// ids can arrive as strings or numbers depending on the export version
type item struct {
	TweetID        json.Number `json:"tweet_id"`
	URL            string      `json:"url"`
	FullText       string      `json:"full_text"`
	ScreenName     string      `json:"screen_name"`
	Username       string      `json:"username"`
	CreatedAt      string      `json:"created_at"`
	ConversationID json.Number `json:"conversation_id"`
	MediaItems     []string    `json:"media_items"`
	HasVideo       bool        `json:"has_video"`
}

// Reader reads one export file per invocation
type Reader struct {
	path string
}

// New creates a Reader for the export file at path
func New(path string) *Reader { return &Reader{path: path} }

// Read parses the export into records.
// A missing file or malformed JSON is a malformed input, not transient;
// rerunning without fixing the export will not help.
func (r *Reader) Read(_ context.Context) ([]domain.Record, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "read export %s", r.path)
	}
	return Parse(raw)
}

// Parse converts raw export JSON into records
func Parse(raw []byte) ([]domain.Record, error) {
	var items []item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeMalformed, "twillot export must be a JSON array")
	}

	records := make([]domain.Record, 0, len(items))
	for i, it := range items {
		rec, err := toRecord(it)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeMalformed, "bookmark at index %d", i)
		}
		records = append(records, rec)
	}
	return records, nil
}

func toRecord(it item) (domain.Record, error) {
	id := it.TweetID.String()
	if id == "" {
		return domain.Record{}, perr.Malformedf("missing tweet_id")
	}
	if it.URL == "" {
		return domain.Record{}, perr.Malformedf("missing url")
	}
	if it.ScreenName == "" {
		return domain.Record{}, perr.Malformedf("missing screen_name")
	}

	rec := domain.Record{
		ID:             id,
		URL:            it.URL,
		Text:           it.FullText,
		Author:         it.ScreenName,
		ConversationID: it.ConversationID.String(),
		ExternalLinks:  ExtractLinks(it.FullText),
	}
	if rec.ConversationID == "" {
		rec.ConversationID = id
	}
	for _, m := range it.MediaItems {
		kind := domain.MediaPhoto
		if strings.Contains(m, "video") || strings.HasSuffix(m, ".mp4") {
			kind = domain.MediaVideo
		}
		rec.MediaRefs = append(rec.MediaRefs, domain.MediaRef{Kind: kind, URL: m})
	}
	// the export flags video presence without direct URLs
	if it.HasVideo && !rec.HasVideo() {
		rec.MediaRefs = append(rec.MediaRefs, domain.MediaRef{Kind: domain.MediaVideo, URL: it.URL})
	}
	if it.CreatedAt != "" {
		for _, layout := range []string{time.RubyDate, time.RFC3339} {
			if ts, err := time.Parse(layout, it.CreatedAt); err == nil {
				rec.CreatedAt = ts
				break
			}
		}
	}
	return rec, nil
}

// ExtractLinks pulls URLs out of tweet text, dropping the platform's own
// t.co redirects which are resolved separately
func ExtractLinks(text string) []string {
	var links []string
	for _, u := range urlPattern.FindAllString(text, -1) {
		if shortLink.MatchString(u) {
			continue
		}
		links = append(links, strings.TrimRight(u, ".,;:!?)"))
	}
	return links
}
