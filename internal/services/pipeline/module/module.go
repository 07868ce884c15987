// Package module wires the processing pipeline from shared deps
package module

import (
	"context"

	"bookmarkd/internal/adapters/enrich/gemini"
	"bookmarkd/internal/adapters/fetch"
	"bookmarkd/internal/adapters/output/markdown"
	modkit "bookmarkd/internal/modkit"
	"bookmarkd/internal/platform/logger"
	phttp "bookmarkd/internal/platform/net/http"
	"bookmarkd/internal/services/bookmarks/domain"
	"bookmarkd/internal/services/classify"
	"bookmarkd/internal/services/linkcache"
	"bookmarkd/internal/services/pipeline"
	"bookmarkd/internal/services/process"
	"bookmarkd/internal/services/state"
)

// Module owns the pipeline service and its collaborators
type Module struct {
	deps  modkit.Deps
	name  string
	ports Ports
}

// New constructs the pipeline module. The distiller is optional; without
// a gemini key processors fall back to raw content.
func New(ctx context.Context, deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("pipeline")}, opts...)...)
	o := FromConfig(deps.Cfg)
	log := logger.Named(b.Name + "-module")

	st, err := state.Open(deps.Data)
	if err != nil {
		return nil, err
	}
	cache := linkcache.New(deps.Data, linkcache.WithTTL(o.CacheTTL))
	fetcher := fetch.New(fetch.Options{Timeout: o.FetchTimeout})

	var distill domain.Distiller
	if o.GeminiKey != "" {
		d, err := gemini.New(ctx, gemini.Config{APIKey: o.GeminiKey, Model: o.GeminiModel})
		if err != nil {
			return nil, err
		}
		distill = d
	} else {
		log.Warn().Msg("no gemini key configured, notes keep raw content")
	}

	procs := process.All(process.Deps{Fetch: fetcher, Distill: distill, Cache: cache})
	sink := markdown.New(o.OutputDir)

	rules, err := classify.LoadRulesFile(o.RulesPath)
	if err != nil {
		return nil, err
	}
	if o.RulesPath != "" {
		log.Info().Str("path", o.RulesPath).Msg("classify rules loaded from file")
	}

	svc, err := pipeline.New(
		o.pipelineConfig(),
		classify.New(rules),
		st, procs, sink,
		pipeline.WithResolver(fetcher),
	)
	if err != nil {
		return nil, err
	}

	return &Module{
		deps:  deps,
		name:  b.Name,
		ports: Ports{Runner: svc, State: st},
	}, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module, the pipeline has no HTTP surface
func (m *Module) MountRoutes(phttp.Router) {}
