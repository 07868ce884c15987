// Command bookmarkd-run drains bookmark exports from the backlog through
// the processing pipeline and archives the consumed files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"bookmarkd/internal/adapters/source/twillot"
	"bookmarkd/internal/core/version"
	"bookmarkd/internal/modkit"
	"bookmarkd/internal/modkit/module"
	"bookmarkd/internal/platform/config"
	"bookmarkd/internal/platform/logger"
	"bookmarkd/internal/platform/store"
	"bookmarkd/internal/services/backlog"
	pipemod "bookmarkd/internal/services/pipeline/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	_ = godotenv.Load()

	var (
		fExport  = flag.String("export", "", "process a single export file instead of the backlog")
		fBacklog = flag.String("backlog", "./data/backlog", "backlog directory of export files")
		fData    = flag.String("data", "", "data directory for state and cache files")
		fOutput  = flag.String("output", "", "output directory for notes")
		fWorkers = flag.Int("workers", 0, "worker pool size")
	)
	flag.Parse()

	mustSetEnv("PIPELINE_OUTPUT_DIR", *fOutput)
	if *fWorkers > 0 {
		mustSetEnv("PIPELINE_WORKERS", fmt.Sprintf("%d", *fWorkers))
	}

	root := config.New()
	l := logger.Get()

	vi := version.Info("bookmarkd-run")
	l.Info().Str("version", vi.Version).Str("commit", vi.Commit).Msg("starting")

	dataDir := *fData
	if dataDir == "" {
		dataDir = root.MayString("DATA_DIR", "./data")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{Path: dataDir}, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}

	deps := modkit.Deps{Cfg: root, Log: *l, Data: st}
	mod, err := pipemod.New(ctx, deps)
	if err != nil {
		l.Fatal().Err(err).Msg("pipeline wiring failed")
	}
	ports := module.MustPortsOf[pipemod.Ports](mod)

	bl := backlog.New(*fBacklog)

	var exports []string
	if *fExport != "" {
		exports = []string{*fExport}
	} else {
		exports, err = bl.Pending("")
		if err != nil {
			l.Fatal().Err(err).Msg("backlog scan failed")
		}
	}
	if len(exports) == 0 {
		l.Info().Str("backlog", *fBacklog).Msg("nothing to process")
		return
	}

	for _, path := range exports {
		runCtx := logger.WithRun(ctx, uuid.NewString())
		log := logger.C(runCtx)

		records, err := twillot.New(path).Read(runCtx)
		if err != nil {
			log.Error().Err(err).Str("export", path).Msg("export parse failed")
			continue
		}

		sum, err := ports.Runner.Run(runCtx, records)
		log.Info().
			Str("export", path).
			Int("processed", sum.Processed).
			Int("failed", sum.Failed).
			Int("skipped", sum.Skipped).
			Msg("export drained")
		if err != nil {
			// cancelled mid-run, leave the export in place for next time
			log.Warn().Err(err).Msg("run interrupted")
			break
		}

		// only archive exports we consumed from the backlog
		if *fExport == "" {
			if _, err := bl.Archive(path); err != nil {
				log.Error().Err(err).Str("export", path).Msg("archive failed")
			}
		}
	}

	if removed, err := bl.Clean(); err != nil {
		l.Warn().Err(err).Msg("archive cleanup failed")
	} else if len(removed) > 0 {
		l.Info().Int("count", len(removed)).Msg("old archives cleaned")
	}
}
