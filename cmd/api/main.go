package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	server "tripweaver/internal/adapters/http_server"
	"tripweaver/internal/adapters/observability"
	"tripweaver/internal/adapters/openai"
	"tripweaver/internal/adapters/places"
	redisad "tripweaver/internal/adapters/redis"
	"tripweaver/internal/adapters/weather"
	"tripweaver/internal/app"
	"tripweaver/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

	placesClient, err := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.PlacesRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize places client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	provider := places.NewCached(placesClient, cache, int(cfg.CacheTTL.Seconds()))

	planner := app.NewPlanner(
		provider,
		weather.New(cfg.WeatherBase, cfg.WeatherKey, cfg.WeatherTimeout),
		openai.New(cfg.OpenAIBase, cfg.OpenAIKey, cfg.OpenAIModel),
		app.PlannerConfig{
			FetchWorkers:    cfg.FetchWorkers,
			FetchTimeout:    cfg.FetchTimeout,
			WeatherTimeout:  cfg.WeatherTimeout,
			GenerateTimeout: cfg.GenerateTimeout,
			DiagDir:         cfg.DiagDir,
		},
	)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{P: planner})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
