package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/kickoff-quiz/internal/config"
	"github.com/gokatarajesh/kickoff-quiz/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/kickoff-quiz/internal/db/sqlc"
	"github.com/gokatarajesh/kickoff-quiz/internal/logging"
	"github.com/gokatarajesh/kickoff-quiz/internal/match"
	"github.com/gokatarajesh/kickoff-quiz/internal/metrics"
	"github.com/gokatarajesh/kickoff-quiz/internal/question"
	"github.com/gokatarajesh/kickoff-quiz/internal/rating"
	"github.com/gokatarajesh/kickoff-quiz/internal/server"
	ws "github.com/gokatarajesh/kickoff-quiz/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	matches  *match.Service
	prefetch *question.PrefetchWorker
}

// New bootstraps configs, logger, Postgres, Redis and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	bands, err := config.LoadBands(cfg.Selector.BandsFile)
	if err != nil {
		return nil, fmt.Errorf("load bands: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	queries := sqlcgen.New(pool)
	questionRepo := repository.NewQuestionRepository(queries)
	playerRepo := repository.NewPlayerRepository(queries)
	matchRepo := repository.NewPoolMatchRepository(pool)

	// Question pipeline: Postgres -> Redis pool cache -> adaptive selector
	store := question.NewStore(questionRepo)
	cached := question.NewCachedRepository(store, question.NewCache(redisClient, cfg.Selector.CacheTTL), 0, logger)
	selector := question.NewSelector(cached, question.SelectorOptions{
		Bands:       bands,
		MaxWidening: cfg.Selector.MaxWidening,
	}, logger)

	var prefetch *question.PrefetchWorker
	var prefetcher match.Prefetcher
	if cfg.Selector.Prefetch {
		prefetch = question.NewPrefetchWorker(cached, 0, logger, cfg.Selector.FetchTimeout)
		prefetcher = prefetch
	}

	resultStore := match.NewResultStore(redisClient, cfg.ResultTTL, logger)
	pgRecorder := match.NewPostgresRecorder(matchRepo)
	recorder := match.Recorders{pgRecorder, resultStore}
	lookup := match.Lookups{resultStore, pgRecorder}

	wsHub := ws.NewHub(logger)
	server.AllowedOrigins = cfg.AllowedOrigins

	matchSvc := match.NewService(
		selector,
		rating.NewElo(rating.Config{KFactor: cfg.Match.KFactor, Scale: rating.DefaultConfig().Scale}),
		playerRepo,
		recorder,
		lookup,
		wsHub,
		prefetcher,
		m,
		match.ServiceOptions{
			Defaults:     cfg.Match,
			FetchTimeout: cfg.Selector.FetchTimeout,
			Retention:    cfg.MatchRetention,
			Bands:        bands,
		},
		logger,
	)

	matchWSHandler := match.NewHandler(matchSvc, wsHub, logger)
	matchHTTP := match.NewHTTPHandlers(matchSvc, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, registry, matchHTTP, matchWSHandler.HandleWebSocket)

	return &Application{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		redis:    redisClient,
		http:     apiServer,
		matches:  matchSvc,
		prefetch: prefetch,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers()

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	// Cancelled matches still record their results, so stop them before the pools close.
	if err := a.matches.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("match shutdown error")
	}

	if a.prefetch != nil {
		a.prefetch.Stop()
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return runErr
}

func (a *Application) startBackgroundWorkers() {
	if a.prefetch != nil {
		go a.prefetch.Run()
	}
}
