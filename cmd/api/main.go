package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"advisory-news/internal/feeds"
	hhttp "advisory-news/internal/handler/http"
	"advisory-news/internal/handler/http/news"
	"advisory-news/internal/handler/http/requestid"
	pgRepo "advisory-news/internal/infra/adapter/persistence/postgres"
	"advisory-news/internal/infra/db"
	"advisory-news/internal/infra/fetcher"
	"advisory-news/internal/infra/scraper"
	"advisory-news/internal/observability/logging"
	"advisory-news/internal/repository"
	"advisory-news/internal/usecase/aggregate"
)

// triggerRateLimit allows this many on-demand aggregation requests per
// client IP per window. Aggregation runs are expensive, so the limit is
// deliberately tight.
const (
	triggerRateLimit  = 5
	triggerRateWindow = time.Minute
)

func main() {
	logger := logging.NewLogger()
	validateJWTSecret(logger)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	handler := setupHandler(logger, database)
	runServer(logger, handler)
}

// validateJWTSecret rejects startup with an unset or weak JWT_SECRET.
func validateJWTSecret(logger *slog.Logger) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Error("JWT_SECRET must be set")
		os.Exit(1)
	}
	if len(secret) < 32 {
		logger.Error("JWT_SECRET must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	weakSecrets := []string{"secret", "password", "test", "admin", "default"}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			logger.Error("JWT_SECRET must not be a common weak value",
				slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// setupHandler assembles the aggregation service, routes, and middleware
// chain.
func setupHandler(logger *slog.Logger, database *sql.DB) http.Handler {
	repo := pgRepo.NewArticleRepo(database)
	svc := setupAggregateService(logger, repo)

	mux := http.NewServeMux()

	triggerLimiter := hhttp.NewRateLimiter(triggerRateLimit, triggerRateWindow)
	news.Register(mux, svc, repo, logger, triggerLimiter)

	mux.Handle("GET /health", hhttp.LivenessHandler())
	mux.Handle("GET /health/ready", hhttp.ReadinessHandler(database))
	mux.Handle("GET /metrics", promhttp.Handler())

	return applyMiddleware(logger, mux)
}

// setupAggregateService wires the on-demand aggregation use case. The
// trigger shares the worker's pipeline but skips run notifications.
func setupAggregateService(logger *slog.Logger, repo repository.ArticleRepository) *aggregate.Service {
	groups, err := feeds.Load()
	if err != nil {
		logger.Error("failed to load feed catalog", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("feed catalog loaded",
		slog.Int("groups", len(groups)),
		slog.Int("sources", feeds.CountSources(groups)))

	svc := aggregate.NewService(
		repo,
		scraper.NewRSSFetcher(&http.Client{Timeout: 30 * time.Second}),
		groups,
		nil,
		aggregate.DefaultConfig(),
	)

	excerptCfg := fetcher.LoadExcerptConfig()
	if excerptCfg.Enabled {
		svc.Enricher = fetcher.NewExcerptFetcher(excerptCfg)
		logger.Info("excerpt enrichment enabled",
			slog.Duration("timeout", excerptCfg.Timeout),
			slog.Int("max_chars", excerptCfg.MaxExcerptChars))
	}

	return svc
}

// applyMiddleware wraps the mux with the shared middleware chain, from
// innermost to outermost: body limit, metrics, logging, recovery,
// request ID.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	chain := hhttp.LimitRequestBody(1 << 20)(handler)
	chain = hhttp.Metrics()(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = requestid.Middleware(chain)
	return chain
}

// runServer starts the HTTP server and blocks until a termination
// signal triggers graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler) {
	addr := ":" + listenPort()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

func listenPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}
