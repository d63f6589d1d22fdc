package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/NikaNal/dept-of-excellence-training/internal/config"
	"github.com/NikaNal/dept-of-excellence-training/internal/core"
	"github.com/NikaNal/dept-of-excellence-training/internal/feed"
	"github.com/NikaNal/dept-of-excellence-training/internal/logging"
	"github.com/NikaNal/dept-of-excellence-training/internal/metrics"
	"github.com/NikaNal/dept-of-excellence-training/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(logging.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"feed_source", cfg.Feeds.Source,
		"refresh_interval", cfg.Feeds.RefreshInterval,
		"timezone", cfg.Schedule.Timezone,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	ctx := context.Background()

	source, cleanup, err := openSource(ctx, cfg)
	if err != nil {
		slog.Error("failed to open feed source", "source", cfg.Feeds.Source, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	svcCfg := core.ServiceConfig{
		Load: core.LoadOptions{
			Parser:  core.Parser{Delimiter: cfg.Feeds.DelimiterRune()},
			Timeout: cfg.Feeds.LoadTimeout,
		},
	}
	var webOpts []web.Option
	if cfg.Metrics.Enabled {
		mgr := metrics.NewManager(
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithGoCollectors(cfg.Metrics.GoCollectors),
		)
		svcCfg.Observer = mgr
		webOpts = append(webOpts, web.WithMetrics(mgr))
	}

	service, err := core.NewService(source, svcCfg)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	// The server starts even if the first load fails; requests get
	// DATA001 until a later refresh succeeds.
	if stats, err := service.Refresh(ctx); err != nil {
		slog.Warn("initial data load failed", "error", err)
	} else {
		slog.Info("initial data loaded",
			"schools", stats.Schools,
			"resource_persons", stats.ResourcePersons,
			"topics", stats.Topics,
		)
	}

	server := web.NewServer(service, cfg, webOpts...)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartRefreshScheduler(jobCtx, cfg.Feeds.RefreshInterval)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		cancelJobs()
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openSource builds the configured feed source. The returned cleanup
// releases any connections it holds.
func openSource(ctx context.Context, cfg *config.Config) (core.FeedSource, func(), error) {
	noop := func() {}

	switch cfg.Feeds.Source {
	case config.SourceDir:
		slog.Info("reading feeds from directory", "dir", cfg.Feeds.Dir)
		return feed.NewDir(cfg.Feeds.Dir, cfg.Feeds.MaxSize), noop, nil

	case config.SourcePostgres:
		pool, err := openPool(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}

		pg := feed.NewPostgres(pool, cfg.Feeds.Table)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}

		if cfg.Feeds.SeedDir != "" {
			n, err := feed.Copy(ctx, pg, feed.NewDir(cfg.Feeds.SeedDir, cfg.Feeds.MaxSize))
			if err != nil {
				pool.Close()
				return nil, noop, err
			}
			slog.Info("seeded feed table", "dir", cfg.Feeds.SeedDir, "feeds", n)
		}
		return pg, pool.Close, nil

	default:
		return feed.NewHTTP(map[core.FeedKind]string{
			core.FeedSchools:         cfg.Feeds.SchoolsURL,
			core.FeedResourcePersons: cfg.Feeds.ResourcePersonsURL,
			core.FeedTopics:          cfg.Feeds.TopicsURL,
		}, cfg.Feeds.FetchTimeout, cfg.Feeds.MaxSize), noop, nil
	}
}

// openPool connects to Postgres with the configured pool limits.
func openPool(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(db.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(db.MaxConns)
	poolConfig.MinConns = int32(db.MinConns)
	poolConfig.MaxConnLifetime = db.MaxConnLifetime
	poolConfig.MaxConnIdleTime = db.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	slog.Info("connected to database", "max_conns", db.MaxConns)
	return pool, nil
}
