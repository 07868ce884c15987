package classify

import (
	"testing"

	kit "bookmarkd/internal/platform/testkit"
	"bookmarkd/internal/services/bookmarks/domain"
)

func TestLoadRulesFileEmptyPathUsesEmbedded(t *testing.T) {
	fromFile, err := LoadRulesFile("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	embedded, err := LoadRules()
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if fromFile.minWeak != embedded.minWeak || len(fromFile.videoDomains) != len(embedded.videoDomains) {
		t.Fatal("empty path must fall back to the embedded pack")
	}
}

func TestLoadRulesFileOverridesDomains(t *testing.T) {
	path := kit.WriteFile(t, t.TempDir(), "rules.yaml", `
version: 1
video_domains: [peertube.example]
platform_domains: [twitter.com, x.com, t.co]
thread_markers: [thread]
thread_emoji: ["🧵"]
min_weak_signals: 2
`)
	rules, err := LoadRulesFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c := New(rules)

	r := domain.Record{ID: "1", ConversationID: "1", Text: "watch", ExternalLinks: []string{"https://peertube.example/v/1"}}
	if got := c.Classify(r); got != domain.CategoryVideo {
		t.Fatalf("custom video domain: got %s want video", got)
	}
	// youtube is absent from the override, so it classifies as a plain link
	r.ExternalLinks = []string{"https://youtube.com/watch?v=1"}
	if got := c.Classify(r); got != domain.CategoryLink {
		t.Fatalf("non listed domain: got %s want link", got)
	}
}

func TestLoadRulesFileMissingPathIsConfigError(t *testing.T) {
	if _, err := LoadRulesFile("/does/not/exist.yaml"); err == nil {
		t.Fatal("missing rules file must error")
	}
}
