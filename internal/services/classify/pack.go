package classify

import (
	_ "embed"
	"os"
	"regexp"
	"strings"

	perr "bookmarkd/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embedded []byte

type rawRules struct {
	Version         int      `yaml:"version"`
	VideoDomains    []string `yaml:"video_domains"`
	PlatformDomains []string `yaml:"platform_domains"`
	ThreadMarkers   []string `yaml:"thread_markers"`
	ThreadEmoji     []string `yaml:"thread_emoji"`
	MinWeakSignals  int      `yaml:"min_weak_signals"`
}

// Rules holds the compiled classification data
type Rules struct {
	videoDomains    map[string]struct{}
	platformDomains map[string]struct{}
	threadMarkers   []string
	threadEmoji     []string
	minWeak         int
}

// leading "<number>/" or "<number>." at the start of the text
var leadingIndex = regexp.MustCompile(`^\s*\d+\s*[/.]`)

// LoadRules parses the embedded rule data
func LoadRules() (*Rules, error) {
	return parseRules(embedded)
}

// LoadRulesFile reads rule data from path so domain lists and thread
// markers are extendable without a rebuild. An empty path falls back to
// the embedded pack.
func LoadRulesFile(path string) (*Rules, error) {
	if path == "" {
		return LoadRules()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "read classify rules %s", path)
	}
	return parseRules(b)
}

func parseRules(b []byte) (*Rules, error) {
	var raw rawRules
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "parse classify rules")
	}
	if raw.MinWeakSignals <= 0 {
		raw.MinWeakSignals = 2
	}
	r := &Rules{
		videoDomains:    make(map[string]struct{}, len(raw.VideoDomains)),
		platformDomains: make(map[string]struct{}, len(raw.PlatformDomains)),
		minWeak:         raw.MinWeakSignals,
	}
	for _, d := range raw.VideoDomains {
		r.videoDomains[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	for _, d := range raw.PlatformDomains {
		r.platformDomains[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	for _, m := range raw.ThreadMarkers {
		r.threadMarkers = append(r.threadMarkers, strings.ToLower(m))
	}
	r.threadEmoji = append(r.threadEmoji, raw.ThreadEmoji...)
	return r, nil
}

// MustRules panics on a bad embedded rule file, meant for wiring in main
func MustRules() *Rules {
	r, err := LoadRules()
	if err != nil {
		panic(err)
	}
	return r
}

// host extracts the lowercased host of a URL without a full parse
func host(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '@'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(s)
}

// matchDomain reports whether h equals d or is a subdomain of d
func matchDomain(h, d string) bool {
	return h == d || strings.HasSuffix(h, "."+d)
}

func (r *Rules) isVideoHost(h string) bool {
	for d := range r.videoDomains {
		if matchDomain(h, d) {
			return true
		}
	}
	return false
}

func (r *Rules) isPlatformHost(h string) bool {
	for d := range r.platformDomains {
		if matchDomain(h, d) {
			return true
		}
	}
	return false
}
