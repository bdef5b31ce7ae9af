// Package scraper provides the RSS/Atom feed fetcher for the aggregation
// pipeline. It uses the gofeed library and wraps fetches with retry and
// circuit breaker logic.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"advisory-news/internal/resilience/circuitbreaker"
	"advisory-news/internal/resilience/retry"
	"advisory-news/internal/usecase/aggregate"
)

// userAgent identifies the aggregator to feed hosts.
const userAgent = "AdvisoryNewsBot"

// RSSFetcher implements aggregate.FeedFetcher using the gofeed library.
type RSSFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewRSSFetcher creates an RSSFetcher with the given HTTP client.
// The client should carry a timeout; gofeed does not cap fetch time on
// its own.
func NewRSSFetcher(client *http.Client) *RSSFetcher {
	return &RSSFetcher{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// Fetch retrieves and parses an RSS/Atom feed from the given URL, with
// retry and circuit breaker protection.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]aggregate.FeedItem, error) {
	var items []aggregate.FeedItem

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, feedURL)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("service", "feed-fetch"),
					slog.String("url", feedURL),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}

		items = cbResult.([]aggregate.FeedItem)
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	return items, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]aggregate.FeedItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = userAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]aggregate.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		items = append(items, convertItem(it))
	}

	return items, nil
}

// convertItem normalizes a parsed feed entry. The publish timestamp is
// left zero when the feed carries no date; the pipeline substitutes
// fetch time downstream.
func convertItem(it *gofeed.Item) aggregate.FeedItem {
	var published time.Time
	if it.PublishedParsed != nil {
		published = *it.PublishedParsed
	} else if it.UpdatedParsed != nil {
		published = *it.UpdatedParsed
	}

	description := it.Content
	if description == "" {
		description = it.Description
	}

	return aggregate.FeedItem{
		Title:       it.Title,
		URL:         it.Link,
		Description: description,
		ImageURL:    extractImageURL(it),
		PublishedAt: published,
	}
}

// extractImageURL picks the item image with fixed precedence:
// media:content, then media:thumbnail, then an enclosure with an
// image MIME type.
func extractImageURL(it *gofeed.Item) string {
	if url := mediaExtensionURL(it, "content"); url != "" {
		return url
	}
	if url := mediaExtensionURL(it, "thumbnail"); url != "" {
		return url
	}
	for _, enc := range it.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}

// mediaExtensionURL reads the url attribute of a Media RSS extension
// element (media:content, media:thumbnail).
func mediaExtensionURL(it *gofeed.Item, element string) string {
	media, ok := it.Extensions["media"]
	if !ok {
		return ""
	}
	for _, ext := range media[element] {
		if url := ext.Attrs["url"]; url != "" {
			return url
		}
	}
	return ""
}
