// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article and FeedSource, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// StatusPublished is assigned to every article the aggregator writes.
// There is no draft workflow at ingestion time; moderation happens elsewhere.
const StatusPublished = "published"

// AggregatorName is the fixed attribution recorded in CreatedBy for
// articles written by the aggregation pipeline.
const AggregatorName = "news-aggregator"

// DefaultTitle is substituted when a feed item carries no title.
const DefaultTitle = "Untitled"

// Article represents a news article ingested from an external feed.
// URL is the sole identity key: the store never holds two articles
// with the same URL, regardless of title or description drift.
type Article struct {
	ID          int64
	Title       string
	Description string
	Category    Category
	Source      string
	URL         string
	PublishedAt time.Time
	ImageURL    string // empty when the feed carried no image
	Tags        []string
	Status      string
	CreatedAt   time.Time
	CreatedBy   string
}
