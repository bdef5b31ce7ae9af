// Package repository declares the persistence interfaces the use cases
// depend on. Concrete implementations live under internal/infra/adapter.
package repository

import (
	"context"
	"time"

	"advisory-news/internal/domain/entity"
)

// ArticleFilters narrows List results for the public read surface.
type ArticleFilters struct {
	Category *entity.Category // optional: only articles in this category
	Limit    int              // 0 means repository default
}

// ArticleRepository is the document-store contract the aggregator needs:
// an equality lookup on url and an insert. The read methods serve the
// downstream news page and the digest generator.
type ArticleRepository interface {
	// List retrieves articles ordered by published_at DESC.
	List(ctx context.Context, filters ArticleFilters) ([]*entity.Article, error)
	// ListPublishedSince retrieves articles published at or after the cutoff,
	// ordered by published_at DESC, capped at limit.
	ListPublishedSince(ctx context.Context, since time.Time, limit int) ([]*entity.Article, error)
	// CountArticles returns the total number of stored articles.
	CountArticles(ctx context.Context) (int64, error)
	// ExistsByURL reports whether an article with the given url is stored.
	ExistsByURL(ctx context.Context, url string) (bool, error)
	// Create inserts a new article. Returns entity.ErrDuplicateURL when the
	// store's uniqueness constraint on url rejects the insert.
	Create(ctx context.Context, article *entity.Article) error
}
