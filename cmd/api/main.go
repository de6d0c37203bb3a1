package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"review_analytics/internal/adapters/fetch"
	server "review_analytics/internal/adapters/http_server"
	"review_analytics/internal/adapters/observability"
	redisad "review_analytics/internal/adapters/redis"
	"review_analytics/internal/app"
	"review_analytics/internal/shared"
	"review_analytics/internal/storage/csvsource"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	sources, err := csvsource.ParseSpec(cfg.Sources)
	if err != nil {
		log.Fatal().Err(err).Msg("bad REVIEW_SOURCES")
	}

	// deps
	reader := fetch.New(cfg.FetchRPS)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	loader := app.NewLoadService(reader, cache, cfg.CacheTTL, sources)

	ds, err := loader.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset load failed")
	}
	min, max, _ := ds.Span()
	log.Info().
		Int("reviews", len(ds)).
		Strs("brands", ds.Brands()).
		Time("from", min).
		Time("to", max).
		Msg("dataset loaded")

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{DS: ds})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
