package classify

import (
	"testing"

	"bookmarkd/internal/services/bookmarks/domain"
)

func newClassifier(t *testing.T) *Classifier {
	t.Helper()
	rules, err := LoadRules()
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	return New(rules)
}

func rec(id, text string, links ...string) domain.Record {
	return domain.Record{ID: id, ConversationID: id, Author: "alice", Text: text, ExternalLinks: links}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newClassifier(t)
	r := rec("1", "some text", "https://example.com/post")
	if c.Classify(r) != c.Classify(r) {
		t.Fatal("classification must be stable across calls")
	}
}

func TestVideoByNativeMedia(t *testing.T) {
	c := newClassifier(t)
	r := rec("1", "watch this")
	r.MediaRefs = []domain.MediaRef{{Kind: domain.MediaVideo, URL: "https://video.example/1.mp4"}}
	if got := c.Classify(r); got != domain.CategoryVideo {
		t.Fatalf("got %s want video", got)
	}
}

func TestVideoByHostedLink(t *testing.T) {
	c := newClassifier(t)
	for _, u := range []string{
		"https://www.youtube.com/watch?v=abc",
		"https://youtu.be/abc",
		"https://vimeo.com/12345",
	} {
		if got := c.Classify(rec("1", "clip", u)); got != domain.CategoryVideo {
			t.Fatalf("%s classified %s want video", u, got)
		}
	}
}

func TestVideoBeatsThread(t *testing.T) {
	c := newClassifier(t)
	r := rec("1", "1/ \U0001F9F5 a thread about films", "https://youtu.be/abc")
	r.ConversationID = "root"
	if got := c.Classify(r); got != domain.CategoryVideo {
		t.Fatalf("got %s want video when both signals present", got)
	}
}

func TestThreadDefinitiveSignals(t *testing.T) {
	c := newClassifier(t)

	r := rec("2", "part two")
	r.ConversationID = "1"
	if got := c.Classify(r); got != domain.CategoryThread {
		t.Fatalf("conversation root mismatch: got %s want thread", got)
	}

	r = rec("3", "continuing")
	r.ReplyParentAuthor = "alice" // same as author, self reply
	if got := c.Classify(r); got != domain.CategoryThread {
		t.Fatalf("self reply: got %s want thread", got)
	}
}

func TestThreadNeedsTwoWeakSignals(t *testing.T) {
	c := newClassifier(t)

	// single weak signal must never classify as thread
	if got := c.Classify(rec("1", "1. Remember to buy milk")); got != domain.CategoryTweet {
		t.Fatalf("numbered list: got %s want tweet", got)
	}
	if got := c.Classify(rec("1", "nice thread about compilers")); got != domain.CategoryTweet {
		t.Fatalf("casual mention: got %s want tweet", got)
	}

	// two weak signals co-occurring
	if got := c.Classify(rec("1", "1/ \U0001F9F5 here we go")); got != domain.CategoryThread {
		t.Fatalf("index plus emoji: got %s want thread", got)
	}
	if got := c.Classify(rec("1", "1/ a thread on parsers")); got != domain.CategoryThread {
		t.Fatalf("index plus marker: got %s want thread", got)
	}
}

func TestLinkSkipsPlatformDomains(t *testing.T) {
	c := newClassifier(t)

	if got := c.Classify(rec("1", "read this", "https://example.com/article")); got != domain.CategoryLink {
		t.Fatalf("external link: got %s want link", got)
	}
	// self links never count
	if got := c.Classify(rec("1", "see", "https://t.co/abc", "https://x.com/u/status/9")); got != domain.CategoryTweet {
		t.Fatalf("platform links only: got %s want tweet", got)
	}
}

func TestDefaultIsTweet(t *testing.T) {
	c := newClassifier(t)
	r := rec("1", "just words")
	r.MediaRefs = []domain.MediaRef{{Kind: domain.MediaPhoto, URL: "https://pic.example/1.jpg"}}
	if got := c.Classify(r); got != domain.CategoryTweet {
		t.Fatalf("image only record: got %s want tweet", got)
	}
}
