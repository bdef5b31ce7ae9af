// Package digest builds a markdown newsletter digest of recently stored
// articles, with per-article AI summaries.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"advisory-news/internal/domain/entity"
	"advisory-news/internal/repository"
	"advisory-news/internal/utils/text"
)

const (
	defaultWindow        = 7 * 24 * time.Hour
	defaultMaxArticles   = 30
	defaultMaxConcurrent = 4
)

// Summarizer condenses article text for the digest.
type Summarizer interface {
	Summarize(ctx context.Context, input string) (string, error)
}

// Config tunes digest generation. Zero values take defaults.
type Config struct {
	// Window selects articles published within this duration.
	Window time.Duration

	// MaxArticles caps how many articles the digest covers.
	MaxArticles int

	// MaxConcurrent bounds concurrent summarization calls.
	MaxConcurrent int

	// Clock supplies the current time. Injectable for tests.
	Clock func() time.Time
}

// Service generates the digest.
type Service struct {
	articles   repository.ArticleRepository
	summarizer Summarizer
	cfg        Config
}

func NewService(articles repository.ArticleRepository, summarizer Summarizer, cfg Config) *Service {
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	if cfg.MaxArticles <= 0 {
		cfg.MaxArticles = defaultMaxArticles
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Service{
		articles:   articles,
		summarizer: summarizer,
		cfg:        cfg,
	}
}

// Generate builds a markdown digest of articles published within the
// configured window, grouped by category. Summarization failures fall
// back to the article's own description so one flaky API call never
// sinks the whole digest.
func (s *Service) Generate(ctx context.Context) (string, error) {
	now := s.cfg.Clock()
	since := now.Add(-s.cfg.Window)

	articles, err := s.articles.ListPublishedSince(ctx, since, s.cfg.MaxArticles)
	if err != nil {
		return "", fmt.Errorf("list recent articles: %w", err)
	}

	summaries := make([]string, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrent)
	for i, article := range articles {
		g.Go(func() error {
			summary, err := s.summarizer.Summarize(gctx, article.Description)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Warn("digest summarization failed, using description",
					"url", article.URL,
					"error", err)
				summary = text.Truncate(article.Description, 300)
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("summarize articles: %w", err)
	}

	return render(now, articles, summaries), nil
}

func render(now time.Time, articles []*entity.Article, summaries []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly News Digest — %s\n", now.Format("January 2, 2006"))

	if len(articles) == 0 {
		b.WriteString("\nNo new articles this week.\n")
		return b.String()
	}

	for _, category := range entity.Categories() {
		wroteHeader := false
		for i, article := range articles {
			if article.Category != category {
				continue
			}
			if !wroteHeader {
				fmt.Fprintf(&b, "\n## %s\n", categoryHeading(category))
				wroteHeader = true
			}
			fmt.Fprintf(&b, "\n### [%s](%s)\n", article.Title, article.URL)
			fmt.Fprintf(&b, "*%s — %s*\n\n", article.Source, article.PublishedAt.Format("Jan 2, 2006"))
			if summaries[i] != "" {
				fmt.Fprintf(&b, "%s\n", summaries[i])
			}
		}
	}

	return b.String()
}

func categoryHeading(c entity.Category) string {
	switch c {
	case entity.CategoryImmigration:
		return "Immigration"
	case entity.CategoryTax:
		return "Tax"
	case entity.CategoryMarket:
		return "Markets"
	}
	return string(c)
}
