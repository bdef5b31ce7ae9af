// Package news provides the HTTP handlers for the aggregation trigger
// and the public article read surface.
package news

import (
	"time"

	"advisory-news/internal/domain/entity"
	"advisory-news/internal/usecase/aggregate"
)

// StatsDTO is the run-statistics block of the trigger response.
type StatsDTO struct {
	NewCount       int `json:"newCount"`
	DuplicateCount int `json:"duplicateCount"`
}

// AggregateResponse is the body returned by the on-demand trigger.
type AggregateResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Stats   StatsDTO `json:"stats"`
}

// ArticleDTO is the stored article shape served to readers.
type ArticleDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	ImageURL    *string   `json:"imageUrl"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"`
}

// ListResponse wraps the article list.
type ListResponse struct {
	Articles []ArticleDTO `json:"articles"`
	Count    int          `json:"count"`
}

func toStatsDTO(stats *aggregate.RunStats) StatsDTO {
	return StatsDTO{
		NewCount:       stats.NewCount,
		DuplicateCount: stats.DuplicateCount,
	}
}

func toArticleDTO(a *entity.Article) ArticleDTO {
	var imageURL *string
	if a.ImageURL != "" {
		imageURL = &a.ImageURL
	}

	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}

	return ArticleDTO{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Category:    string(a.Category),
		Source:      a.Source,
		URL:         a.URL,
		PublishedAt: a.PublishedAt,
		ImageURL:    imageURL,
		Tags:        tags,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
		CreatedBy:   a.CreatedBy,
	}
}
