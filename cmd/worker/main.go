package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"advisory-news/internal/feeds"
	"advisory-news/internal/handler/http/respond"
	pgRepo "advisory-news/internal/infra/adapter/persistence/postgres"
	"advisory-news/internal/infra/db"
	"advisory-news/internal/infra/fetcher"
	"advisory-news/internal/infra/notifier"
	"advisory-news/internal/infra/scraper"
	workerPkg "advisory-news/internal/infra/worker"
	"advisory-news/internal/observability/logging"
	"advisory-news/internal/usecase/aggregate"
	"advisory-news/internal/usecase/notify"
)

func main() {
	logger := logging.NewLogger()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	cfg := workerPkg.LoadConfigFromEnv(logger, workerMetrics.ConfigMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("run_timeout", cfg.RunTimeout),
		slog.Duration("fetch_delay", cfg.FetchDelay),
		slog.Int("health_port", cfg.HealthPort))

	notifyService := setupNotifications(logger, cfg)

	startMetricsServer(ctx, logger)

	healthServer := workerPkg.NewHealthServer(cfg.HealthPort, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	svc := setupAggregateService(logger, database, notifyService, cfg)

	runScheduler(ctx, logger, svc, cfg, workerMetrics, healthServer, notifyService)
}

// initDatabase opens the database connection and waits for the API's
// migrations to complete.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	waitForMigrations(logger, database)
	return database
}

func waitForMigrations(logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM articles LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

// setupNotifications builds the notification service from the webhook
// channels configured in the environment. Misconfigured channels are
// disabled, never fatal.
func setupNotifications(logger *slog.Logger, cfg *workerPkg.WorkerConfig) notify.Service {
	var channels []notify.Channel

	discordConfig := loadDiscordConfig(logger)
	if discordConfig.Enabled {
		channels = append(channels, notify.NewDiscordChannel(discordConfig))
		logger.Info("discord channel enabled")
	}

	slackConfig := loadSlackConfig(logger)
	if slackConfig.Enabled {
		channels = append(channels, notify.NewSlackChannel(slackConfig))
		logger.Info("slack channel enabled")
	}

	notify.SetChannelsEnabled(float64(len(channels)))
	return notify.NewService(channels, cfg.NotifyMaxConcurrent)
}

// setupAggregateService wires the aggregation use case over the fixed
// feed catalog.
func setupAggregateService(logger *slog.Logger, database *sql.DB, notifyService notify.Service, cfg *workerPkg.WorkerConfig) *aggregate.Service {
	groups, err := feeds.Load()
	if err != nil {
		logger.Error("failed to load feed catalog", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("feed catalog loaded",
		slog.Int("groups", len(groups)),
		slog.Int("sources", feeds.CountSources(groups)))

	aggCfg := aggregate.DefaultConfig()
	aggCfg.FetchDelay = cfg.FetchDelay

	svc := aggregate.NewService(
		pgRepo.NewArticleRepo(database),
		scraper.NewRSSFetcher(newFeedHTTPClient()),
		groups,
		notifyService,
		aggCfg,
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

// newFeedHTTPClient builds the HTTP client used for feed fetches. TLS
// 1.2+ is enforced.
func newFeedHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// loadDiscordConfig reads DISCORD_ENABLED and DISCORD_WEBHOOK_URL. A
// malformed webhook URL disables the channel instead of failing startup.
func loadDiscordConfig(logger *slog.Logger) notifier.DiscordConfig {
	if os.Getenv("DISCORD_ENABLED") != "true" {
		return notifier.DiscordConfig{Enabled: false}
	}

	webhookURL := os.Getenv("DISCORD_WEBHOOK_URL")
	if !validWebhookURL(webhookURL, "discord.com", "/api/webhooks/") {
		logger.Warn("invalid discord webhook URL, disabling notifications")
		return notifier.DiscordConfig{Enabled: false}
	}

	return notifier.DiscordConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    30 * time.Second,
	}
}

// loadSlackConfig reads SLACK_ENABLED and SLACK_WEBHOOK_URL with the
// same disable-on-misconfiguration policy.
func loadSlackConfig(logger *slog.Logger) notifier.SlackConfig {
	if os.Getenv("SLACK_ENABLED") != "true" {
		return notifier.SlackConfig{Enabled: false}
	}

	webhookURL := os.Getenv("SLACK_WEBHOOK_URL")
	if !validWebhookURL(webhookURL, "hooks.slack.com", "/services/") {
		logger.Warn("invalid slack webhook URL, disabling notifications")
		return notifier.SlackConfig{Enabled: false}
	}

	return notifier.SlackConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    30 * time.Second,
	}
}

// validWebhookURL enforces HTTPS plus the provider's host and path
// prefix so a typo cannot leak run reports elsewhere.
func validWebhookURL(raw, host, pathPrefix string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host == host && strings.HasPrefix(u.Path, pathPrefix)
}

// runScheduler starts the cron scheduler and blocks until a termination
// signal arrives.
func runScheduler(
	ctx context.Context,
	logger *slog.Logger,
	svc *aggregate.Service,
	cfg *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
	healthServer *workerPkg.HealthServer,
	notifyService notify.Service,
) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC",
			slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.CronSchedule, func() {
		runAggregateJob(logger, svc, cfg, metrics)
	}); err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	logger.Info("shutting down worker...")

	cronCtx := c.Stop()
	<-cronCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := notifyService.Shutdown(shutdownCtx); err != nil {
		logger.Error("notification shutdown failed", slog.Any("error", err))
	}
	logger.Info("worker stopped")
}

// runAggregateJob executes one scheduled aggregation run with the
// configured timeout.
func runAggregateJob(logger *slog.Logger, svc *aggregate.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	start := time.Now()
	logger.Info("aggregation run started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()

	stats, err := svc.Run(ctx)
	duration := time.Since(start)
	metrics.RecordJobDuration(duration)

	if err != nil {
		logger.Error("aggregation run failed",
			slog.String("error", respond.SanitizeError(err)),
			slog.Duration("duration", duration))
		metrics.RecordJobRun(false)
		return
	}

	metrics.RecordJobRun(true)
	metrics.RecordSourcesProcessed(stats.Sources)
	metrics.RecordLastSuccess()

	logger.Info("aggregation run completed",
		slog.Int("sources", stats.Sources),
		slog.Int("failed_sources", len(stats.FailedSources)),
		slog.Int("fetched", stats.Fetched),
		slog.Int("new", stats.NewCount),
		slog.Int("duplicates", stats.DuplicateCount),
		slog.Duration("duration", stats.Duration))
}
