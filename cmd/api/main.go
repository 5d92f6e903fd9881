package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"agentzone/internal/blog"
	"agentzone/internal/config"
	"agentzone/internal/directory"
	"agentzone/internal/feed"
	"agentzone/internal/httpx"
	"agentzone/internal/platform/supabase"
	"agentzone/internal/ranking"
	"agentzone/internal/schedule"
	"agentzone/internal/submission"
	"agentzone/internal/telemetry"
	"agentzone/internal/tool"
	"agentzone/internal/trending"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	root := &cobra.Command{
		Use:           "agentzone-api",
		Short:         "AI tool directory API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "refresh",
			Short: "Trigger one trend score refresh and exit",
			RunE:  runRefresh,
		},
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds everything built from one Config.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	pool      *pgxpool.Pool
	registry  *prometheus.Registry
	metrics   *telemetry.PrometheusMetrics
	tools     *tool.Service
	blog      *blog.Service
	directory *directory.Service
	feed      *feed.Service
	submit    *submission.Service
	trending  *trending.Service
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := telemetry.NewLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	pool, err := openDB(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection OK", zap.String("dsn", redactDSN(cfg.Database.DSN)))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewPrometheusMetrics(registry)

	sb := supabase.NewClient(supabase.Options{
		BaseURL:    cfg.Supabase.URL,
		ServiceKey: cfg.Supabase.ServiceKey,
		UserAgent:  cfg.Supabase.UserAgent,
		RPS:        cfg.Supabase.RPS,
		MaxRetries: cfg.Supabase.MaxRetries,
	})

	timeout := cfg.Database.QueryTimeout
	toolSvc := tool.NewService(tool.NewPostgresRepo(pool, timeout), logger)
	blogSvc := blog.NewService(blog.NewPostgresRepo(pool, timeout))

	thresholds := ranking.Thresholds{
		AgentOfTheDay: cfg.Ranking.AgentOfTheDayThreshold,
		HotTrending:   cfg.Ranking.HotTrendingThreshold,
	}
	dirSvc := directory.NewService(toolSvc, cfg.Limits, thresholds, metrics, logger)
	feedSvc := feed.NewService(dirSvc, blogSvc, cfg.Limits, metrics, logger)
	submitSvc := submission.NewService(sb.Bucket(cfg.Supabase.StorageBucket), toolSvc, metrics, logger)

	trendSvc := trending.NewService(
		trending.NewRPCProcedure(sb, cfg.Trending.ProcedureName),
		trending.NewPostgresRepo(pool, timeout),
		metrics,
		logger,
		trending.Config{Timeout: cfg.Trending.Timeout},
	)
	trendSvc.OnRefreshed(dirSvc.Warm)

	return &app{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		registry:  registry,
		metrics:   metrics,
		tools:     toolSvc,
		blog:      blogSvc,
		directory: dirSvc,
		feed:      feedSvc,
		submit:    submitSvc,
		trending:  trendSvc,
	}, nil
}

func (a *app) close() {
	a.pool.Close()
	_ = a.logger.Sync()
}

func (a *app) handler(ctx context.Context) http.Handler {
	mux := newRouter(handlers{
		tools:      tool.NewHTTPHandler(a.tools, a.logger),
		directory:  directory.NewHTTPHandler(a.directory, a.logger),
		blog:       blog.NewHTTPHandler(a.blog, a.logger, a.cfg.Limits.LatestPosts),
		submission: submission.NewHTTPHandler(a.submit, a.logger, a.cfg.Server.MaxUploadBytes),
		trending:   trending.NewHTTPHandler(a.trending, a.logger),
		feed:       feed.NewHTTPHandler(a.feed, a.logger),
	}, routeOptions{
		JWTSecret:      a.cfg.Auth.JWTSecret,
		AdminRole:      a.cfg.Auth.AdminRole,
		InternalSecret: a.cfg.Auth.InternalSecret,
		Ready:          a.pool.Ping,
		Metrics:        promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
	})

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, a.cfg.RateLimit.RPS, a.cfg.RateLimit.Burst)

	// The access log sits directly on the mux so it can read the matched pattern.
	return httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware(a.logger),
		httpx.CORSMiddleware(a.cfg.Server.AllowedOrigins),
		httpx.SecurityHeadersMiddleware(strings.HasPrefix(a.cfg.Supabase.URL, "https://")),
		httpx.RequestSizeLimitMiddleware(a.cfg.Server.MaxUploadBytes+(1<<20)),
		rateLimiter.Middleware,
		httpx.AccessLogMiddleware(a.logger, a.metrics),
	)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if every := a.cfg.Trending.RefreshInterval; every > 0 {
		a.logger.Info("trend refresh scheduler enabled", zap.Duration("interval", every))
		go a.trending.RunScheduled(ctx, schedule.Every(ctx, every))
	}
	go a.feed.RunCarousel(ctx, a.cfg.Carousel.Interval)
	go a.directory.Warm(ctx)

	srv := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      a.handler(ctx),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	out, err := a.trending.Trigger(cmd.Context(), trending.SourceCLI)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	affected := "unknown"
	if out.Result.AffectedCount != nil {
		affected = fmt.Sprint(*out.Result.AffectedCount)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "refresh %s completed, %s tools trending\n", out.RunID, affected)
	return nil
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
