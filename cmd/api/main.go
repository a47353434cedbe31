package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"periodical/internal/domain/entity"
	"periodical/internal/observability/logging"
	"periodical/internal/observability/tracing"
	"periodical/internal/seed"
	"periodical/internal/usecase/catalog"
	"periodical/pkg/config"
)

func main() {
	cfg, err := config.LoadAPIConfig()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger builds the process logger and installs it as the slog default.
func initLogger(cfg *config.APIConfig) *slog.Logger {
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		slog.Warn("unknown LOG_LEVEL, using info", slog.String("value", cfg.LogLevel))
	}
	logger := logging.New(logging.Options{Format: cfg.LogFormat, Level: cfg.LogLevel})
	slog.SetDefault(logger)
	return logger
}

// run serves the catalog API until ctx is cancelled, then shuts the server
// down within cfg.ShutdownTimeout.
func run(ctx context.Context, cfg *config.APIConfig, logger *slog.Logger) error {
	shutdownTracing, err := tracing.InitProvider(ctx, tracing.ProviderConfig{
		ServiceName:    "periodical-api",
		ServiceVersion: cfg.Version,
		Stdout:         cfg.TracingStdout,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	svc := catalog.NewService(entity.NewRegistry(),
		catalog.WithQueryCache(catalog.NewQueryCache(cfg.QueryCacheTTL)),
		catalog.WithLogger(logger),
	)

	ready := &atomic.Bool{}
	handler, err := newHandler(svc, cfg, logger, ready)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := loadSeed(gctx, svc, cfg.SeedFile, logger); err != nil {
			return err
		}
		ready.Store(true)
		logger.Info("catalog ready", slog.Any("entities", svc.Stats(gctx)))
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// loadSeed applies the seed file at path, if any.
func loadSeed(ctx context.Context, svc *catalog.Service, path string, logger *slog.Logger) error {
	if path == "" {
		return nil
	}
	doc, err := seed.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	res, err := seed.Apply(ctx, svc, doc)
	if err != nil {
		return fmt.Errorf("apply seed %s: %w", path, err)
	}
	logger.Info("seed applied",
		slog.String("file", path),
		slog.Int("magazines", len(res.Magazines)),
		slog.Int("authors", len(res.Authors)),
		slog.Int("articles", len(res.Articles)))
	return nil
}
