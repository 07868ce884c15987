package module

import (
	"time"

	"bookmarkd/internal/platform/config"
	"bookmarkd/internal/services/bookmarks/domain"
	"bookmarkd/internal/services/pipeline"
)

// Options holds pipeline wiring configuration read from the environment
type Options struct {
	Workers   int
	OutputDir string
	RulesPath string

	GlobalSlots    int
	VideoInterval  time.Duration
	ThreadInterval time.Duration
	LinkInterval   time.Duration
	TweetInterval  time.Duration

	CacheTTL time.Duration

	FetchTimeout time.Duration

	GeminiKey   string
	GeminiModel string
}

// FromConfig reads pipeline options under the PIPELINE_ prefix
// the gemini key is read unprefixed since other tools share it
func FromConfig(cfg config.Conf) Options {
	pc := cfg.Prefix("PIPELINE_")
	return Options{
		Workers:        pc.MayInt("WORKERS", 5),
		OutputDir:      pc.MayString("OUTPUT_DIR", "./notes"),
		RulesPath:      cfg.MayString("CLASSIFY_RULES", ""),
		GlobalSlots:    pc.MayInt("GLOBAL_SLOTS", 5),
		VideoInterval:  pc.MayDuration("RATE_VIDEO", time.Second),
		ThreadInterval: pc.MayDuration("RATE_THREAD", 500*time.Millisecond),
		LinkInterval:   pc.MayDuration("RATE_LINK", 200*time.Millisecond),
		TweetInterval:  pc.MayDuration("RATE_TWEET", 200*time.Millisecond),
		CacheTTL:       pc.MayDuration("CACHE_TTL", 30*24*time.Hour),
		FetchTimeout:   pc.MayDuration("FETCH_TIMEOUT", 15*time.Second),
		GeminiKey:      cfg.MayString("GEMINI_API_KEY", ""),
		GeminiModel:    cfg.MayString("GEMINI_MODEL", ""),
	}
}

// pipelineConfig converts options into the service config
func (o Options) pipelineConfig() pipeline.Config {
	return pipeline.Config{
		Workers: o.Workers,
		Gate: pipeline.GateConfig{
			Global: o.GlobalSlots,
			Intervals: map[domain.Category]time.Duration{
				domain.CategoryVideo:  o.VideoInterval,
				domain.CategoryThread: o.ThreadInterval,
				domain.CategoryLink:   o.LinkInterval,
				domain.CategoryTweet:  o.TweetInterval,
			},
		},
		Retry: pipeline.DefaultRetryConfig(),
	}
}
