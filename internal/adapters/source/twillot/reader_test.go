package twillot

import (
	"testing"
)

const sample = `[
  {
    "tweet_id": "111",
    "url": "https://x.com/alice/status/111",
    "full_text": "read this https://example.com/article. and https://t.co/abc",
    "screen_name": "alice",
    "conversation_id": "111",
    "media_items": []
  },
  {
    "tweet_id": 222,
    "url": "https://x.com/bob/status/222",
    "full_text": "part 2",
    "screen_name": "bob",
    "conversation_id": 111,
    "has_video": true
  }
]`

func TestParseExport(t *testing.T) {
	records, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records", len(records))
	}

	a := records[0]
	if a.ID != "111" || a.Author != "alice" || a.ConversationID != "111" {
		t.Fatalf("first record %+v", a)
	}
	if len(a.ExternalLinks) != 1 || a.ExternalLinks[0] != "https://example.com/article" {
		t.Fatalf("links %v, t.co and trailing punctuation must be dropped", a.ExternalLinks)
	}

	b := records[1]
	if b.ID != "222" || b.ConversationID != "111" {
		t.Fatalf("numeric ids must round trip as strings: %+v", b)
	}
	if !b.HasVideo() {
		t.Fatal("has_video flag should yield a video media ref")
	}
}

func TestParseRejectsMissingFields(t *testing.T) {
	_, err := Parse([]byte(`[{"url": "https://x.com/1", "screen_name": "a"}]`))
	if err == nil {
		t.Fatal("missing tweet_id must be rejected")
	}
	_, err = Parse([]byte(`{"not": "an array"}`))
	if err == nil {
		t.Fatal("non array export must be rejected")
	}
}

func TestDefaultConversationIDIsOwnID(t *testing.T) {
	records, err := Parse([]byte(`[{"tweet_id":"5","url":"u","full_text":"t","screen_name":"a"}]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if records[0].ConversationID != records[0].ID {
		t.Fatalf("conversation id should default to the record id: %+v", records[0])
	}
}

func TestExtractLinks(t *testing.T) {
	links := ExtractLinks("a https://example.com/x, b https://t.co/short c")
	if len(links) != 1 || links[0] != "https://example.com/x" {
		t.Fatalf("links %v", links)
	}
	if got := ExtractLinks("no links here"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
