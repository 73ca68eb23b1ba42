// Package app wires the service together and runs the HTTP server until the context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vadimbarashkov/url-popularity/internal/adapter/repository/postgres"
	"github.com/vadimbarashkov/url-popularity/internal/config"
	"github.com/vadimbarashkov/url-popularity/internal/keygen"
	"github.com/vadimbarashkov/url-popularity/internal/metrics"
	"github.com/vadimbarashkov/url-popularity/internal/usecase"
	"github.com/vadimbarashkov/url-popularity/migrations"
	"golang.org/x/sync/errgroup"

	rediscache "github.com/vadimbarashkov/url-popularity/internal/adapter/cache/redis"
	delivery "github.com/vadimbarashkov/url-popularity/internal/adapter/delivery/http"
	pgpkg "github.com/vadimbarashkov/url-popularity/pkg/postgres"
	redispkg "github.com/vadimbarashkov/url-popularity/pkg/redis"
)

const (
	serviceName     = "url-popularity"
	shutdownTimeout = 10 * time.Second
)

func newLogger(env string) *httplog.Logger {
	opts := httplog.Options{
		LogLevel:       slog.LevelDebug,
		Concise:        true,
		RequestHeaders: true,
		Tags: map[string]string{
			"env": env,
		},
	}

	if env == config.EnvProd {
		opts.LogLevel = slog.LevelInfo
		opts.JSON = true
		opts.Concise = false
	}

	return httplog.NewLogger(serviceName, opts)
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := newLogger(cfg.Env)

	db, err := pgpkg.New(
		ctx,
		cfg.Postgres.DSN(),
		pgpkg.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		pgpkg.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		pgpkg.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		pgpkg.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := pgpkg.RunMigrations(migrations.FS, cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, cfg.Postgres.DB),
	)

	keyGen, err := keygen.New(cfg.ShortKey.Length)
	if err != nil {
		return fmt.Errorf("%s: failed to create key generator: %w", op, err)
	}

	opts := []usecase.Option{
		usecase.WithMaxAttempts(cfg.ShortKey.MaxAttempts),
		usecase.WithMetrics(metrics.New(reg)),
		usecase.WithLogger(logger.Logger),
	}

	if cfg.Redis.Enabled {
		client, err := redispkg.New(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("%s: failed to connect to redis: %w", op, err)
		}
		defer client.Close()

		opts = append(opts, usecase.WithCache(rediscache.NewResolveCache(client, cfg.Redis.TTL)))
		logger.Info("resolve cache enabled", slog.String("addr", cfg.Redis.Addr()))
	}

	urlUseCase := usecase.New(postgres.NewStore(db), keyGen, opts...)

	router := delivery.NewRouter(logger, urlUseCase, delivery.Config{
		BaseURL:             cfg.BaseURL,
		DefaultPopularLimit: cfg.Popular.DefaultLimit,
		MaxPopularLimit:     cfg.Popular.MaxLimit,
		Metrics:             promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", server.Addr), slog.String("env", cfg.Env))

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
