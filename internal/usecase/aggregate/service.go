// Package aggregate implements the news aggregation pipeline: fetch every
// configured feed source in catalog order, filter items to the recency
// window, then run one combined dedup-and-store pass over all candidates.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"advisory-news/internal/domain/entity"
	"advisory-news/internal/feeds"
	"advisory-news/internal/observability/metrics"
	"advisory-news/internal/repository"
	"advisory-news/internal/usecase/notify"
)

// recencyWindow bounds how old a feed item may be and still be ingested.
// The boundary is inclusive: an item exactly this old is kept.
const recencyWindow = 7 * 24 * time.Hour

// defaultFetchDelay is the courtesy pause between successive source
// fetches, so external feed hosts are not hammered.
const defaultFetchDelay = time.Second

// FeedFetcher is an interface for fetching RSS/Atom feeds from a URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]FeedItem, error)
}

// ExcerptEnricher backfills a description for items whose feed omits
// one, by extracting text from the article page itself.
type ExcerptEnricher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FeedItem represents a single normalized item from an RSS/Atom feed.
// A zero PublishedAt means the feed carried no publish date.
type FeedItem struct {
	Title       string
	URL         string
	Description string
	ImageURL    string
	PublishedAt time.Time
}

// Config holds the tunable knobs of the aggregation run.
type Config struct {
	// FetchDelay is the minimum spacing between source fetches.
	// Zero or negative disables pacing entirely.
	FetchDelay time.Duration

	// Clock supplies the current time; defaults to time.Now.
	// The recency window and record timestamps derive from it.
	Clock func() time.Time
}

// DefaultConfig returns the production configuration: one fetch per second,
// wall-clock time.
func DefaultConfig() Config {
	return Config{
		FetchDelay: defaultFetchDelay,
		Clock:      time.Now,
	}
}

// Service drives the full aggregation run across all configured sources.
type Service struct {
	ArticleRepo repository.ArticleRepository
	Fetcher     FeedFetcher
	Groups      []feeds.Group
	Notify      notify.Service  // optional, nil disables run notifications
	Enricher    ExcerptEnricher // optional, nil leaves empty descriptions as-is

	limiter *rate.Limiter
	clock   func() time.Time
}

// NewService creates an aggregation Service over the given source groups.
func NewService(
	articleRepo repository.ArticleRepository,
	fetcher FeedFetcher,
	groups []feeds.Group,
	notifyService notify.Service,
	cfg Config,
) *Service {
	limit := rate.Inf
	if cfg.FetchDelay > 0 {
		limit = rate.Every(cfg.FetchDelay)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		ArticleRepo: articleRepo,
		Fetcher:     fetcher,
		Groups:      groups,
		Notify:      notifyService,
		limiter:     rate.NewLimiter(limit, 1),
		clock:       clock,
	}
}

// RunStats contains statistics about one aggregation run.
type RunStats struct {
	Sources        int
	FailedSources  []string
	Fetched        int
	NewCount       int
	DuplicateCount int
	Duration       time.Duration
}

// Run executes one full aggregation pass: every source is fetched in
// catalog order with the configured pacing, candidates inside the recency
// window are collected, then written through the dedup pass.
//
// Error handling follows the per-boundary isolation rule: a failed source
// yields zero candidates and the run continues; a failed per-item store
// operation is logged and excluded from the counters. Only context
// cancellation aborts the run.
func (s *Service) Run(ctx context.Context) (*RunStats, error) {
	start := time.Now()
	startedAt := s.clock()
	stats := &RunStats{}

	var candidates []*entity.Article

	for _, group := range s.Groups {
		for i := range group.Sources {
			src := &group.Sources[i]
			stats.Sources++

			if err := s.limiter.Wait(ctx); err != nil {
				return stats, fmt.Errorf("fetch pacing: %w", err)
			}

			fetchStart := time.Now()
			items, err := s.Fetcher.Fetch(ctx, src.URL)
			metrics.RecordFeedFetch(src.Name, err == nil, time.Since(fetchStart))
			if err != nil {
				slog.Warn("failed to fetch feed",
					slog.String("source", src.Name),
					slog.String("feed_url", src.URL),
					slog.Any("error", err))
				stats.FailedSources = append(stats.FailedSources, src.Name)
				continue
			}

			kept := 0
			for _, item := range items {
				article, ok := s.buildCandidate(src, item)
				if !ok {
					metrics.RecordStaleItem()
					continue
				}
				s.enrichDescription(ctx, article)
				candidates = append(candidates, article)
				kept++
			}
			metrics.RecordCandidates(src.Name, kept)

			slog.Info("source fetched",
				slog.String("source", src.Name),
				slog.String("category", string(src.Category)),
				slog.Int("feed_items", len(items)),
				slog.Int("candidates", kept))
		}
	}

	stats.Fetched = len(candidates)

	if err := s.writeCandidates(ctx, candidates, stats); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	metrics.RecordRunDuration(stats.Duration)

	if total, err := s.ArticleRepo.CountArticles(ctx); err == nil {
		metrics.UpdateArticlesTotal(int(total))
	}

	slog.Info("aggregation run completed",
		slog.Int("sources", stats.Sources),
		slog.Int("failed_sources", len(stats.FailedSources)),
		slog.Int("fetched", stats.Fetched),
		slog.Int("new_count", stats.NewCount),
		slog.Int("duplicate_count", stats.DuplicateCount),
		slog.Duration("duration", stats.Duration))

	if s.Notify != nil {
		_ = s.Notify.NotifyRunCompleted(ctx, &notify.RunSummary{
			StartedAt:      startedAt,
			Duration:       stats.Duration,
			Sources:        stats.Sources,
			FailedSources:  stats.FailedSources,
			Fetched:        stats.Fetched,
			NewCount:       stats.NewCount,
			DuplicateCount: stats.DuplicateCount,
		})
	}

	return stats, nil
}

// buildCandidate turns a feed item into a storable article, or reports
// false when the item falls outside the recency window. Missing fields are
// substituted with defaults rather than rejected.
func (s *Service) buildCandidate(src *entity.FeedSource, item FeedItem) (*entity.Article, bool) {
	now := s.clock()

	published := item.PublishedAt
	if published.IsZero() {
		published = now
	}

	if now.Sub(published) > recencyWindow {
		return nil, false
	}

	title := item.Title
	if title == "" {
		title = entity.DefaultTitle
	}

	return &entity.Article{
		Title:       title,
		Description: item.Description,
		Category:    src.Category,
		Source:      src.Name,
		URL:         item.URL,
		PublishedAt: published,
		ImageURL:    item.ImageURL,
		Tags:        src.Tags,
		Status:      entity.StatusPublished,
		CreatedAt:   now,
		CreatedBy:   entity.AggregatorName,
	}, true
}

// enrichDescription backfills an empty description from the article page
// when an enricher is configured. Failures keep the empty default.
func (s *Service) enrichDescription(ctx context.Context, article *entity.Article) {
	if s.Enricher == nil || article.Description != "" || article.URL == "" {
		return
	}

	excerpt, err := s.Enricher.Fetch(ctx, article.URL)
	if err != nil {
		slog.Debug("excerpt enrichment failed, keeping empty description",
			slog.String("url", article.URL),
			slog.Any("error", err))
		return
	}
	article.Description = excerpt
}

// writeCandidates runs the sequential dedup-check-then-insert pass over the
// combined candidate list. Per-item store failures are logged and skipped;
// only context cancellation aborts the pass.
func (s *Service) writeCandidates(ctx context.Context, candidates []*entity.Article, stats *RunStats) error {
	for _, candidate := range candidates {
		exists, err := s.ArticleRepo.ExistsByURL(ctx, candidate.URL)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			metrics.RecordStoreError("exists")
			slog.Warn("failed to check url existence, skipping item",
				slog.String("url", candidate.URL),
				slog.String("source", candidate.Source),
				slog.Any("error", err))
			continue
		}

		if exists {
			stats.DuplicateCount++
			metrics.RecordArticleDuplicated()
			continue
		}

		if err := s.ArticleRepo.Create(ctx, candidate); err != nil {
			// A concurrent run can win the race between the existence
			// check and the insert; the unique constraint reports it.
			if errors.Is(err, entity.ErrDuplicateURL) {
				stats.DuplicateCount++
				metrics.RecordArticleDuplicated()
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			metrics.RecordStoreError("insert")
			slog.Warn("failed to insert article, skipping item",
				slog.String("url", candidate.URL),
				slog.String("source", candidate.Source),
				slog.Any("error", err))
			continue
		}

		stats.NewCount++
		metrics.RecordArticleInserted(string(candidate.Category))
	}

	return nil
}
