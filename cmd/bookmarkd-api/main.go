// Command bookmarkd-api serves the real-time ingestion endpoint
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bookmarkd/internal/core/version"
	"bookmarkd/internal/modkit"
	"bookmarkd/internal/modkit/module"
	"bookmarkd/internal/platform/config"
	"bookmarkd/internal/platform/logger"
	phttp "bookmarkd/internal/platform/net/http"
	"bookmarkd/internal/platform/net/middleware"
	"bookmarkd/internal/platform/store"
	ingestmod "bookmarkd/internal/services/ingest/module"
	pipemod "bookmarkd/internal/services/pipeline/module"
)

func main() {
	_ = godotenv.Load()

	root := config.New()
	apiCfg := root.Prefix("API_")
	l := logger.Get()

	vi := version.Info("bookmarkd-api")
	l.Info().Str("version", vi.Version).Str("commit", vi.Commit).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.Config{Path: root.MayString("DATA_DIR", "./data")}, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}

	deps := modkit.Deps{Cfg: root, Log: *l, Data: st}

	pipe, err := pipemod.New(ctx, deps)
	if err != nil {
		l.Fatal().Err(err).Msg("pipeline wiring failed")
	}
	module.Register(pipe.Name(), module.MustPortsOf[pipemod.Ports](pipe))

	ing, err := ingestmod.New(deps)
	if err != nil {
		l.Fatal().Err(err).Msg("ingest wiring failed")
	}
	module.Register(ing.Name(), ing.Ports())

	srv := phttp.NewServer(apiCfg)
	r := srv.Router()

	r.Use(
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.AccessLog,
		middleware.Heartbeat("/healthz"),
		middleware.Timeout(30*time.Second),
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		}),
		middleware.BearerToken(apiCfg.MayString("TOKEN", ""), func(w http.ResponseWriter, status int, body any) {
			phttp.JSON(w, status, body)
		}),
	)
	ing.MountRoutes(r)

	phttp.MountProfiler(r, "/debug", apiCfg.MayBool("PROFILER", false))

	go func() {
		<-ctx.Done()
		shctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shctx); err != nil {
			l.Error().Err(err).Msg("shutdown failed")
		}
		// let async submissions reach a terminal state
		ing.Service().Drain()
	}()

	if err := srv.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
}
