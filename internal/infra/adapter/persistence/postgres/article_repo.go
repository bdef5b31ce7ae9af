// Package postgres provides the PostgreSQL implementation of the
// repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"advisory-news/internal/domain/entity"
	"advisory-news/internal/repository"
)

const defaultListLimit = 50

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

type ArticleRepo struct{ db *sql.DB }

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

func scanArticle(rows *sql.Rows) (*entity.Article, error) {
	var article entity.Article
	var imageURL sql.NullString
	if err := rows.Scan(
		&article.ID, &article.Title, &article.Description, &article.Category,
		&article.Source, &article.URL, &article.PublishedAt, &imageURL,
		pq.Array(&article.Tags), &article.Status, &article.CreatedAt, &article.CreatedBy,
	); err != nil {
		return nil, err
	}
	article.ImageURL = imageURL.String
	return &article, nil
}

func (repo *ArticleRepo) List(ctx context.Context, filters repository.ArticleFilters) ([]*entity.Article, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
SELECT id, title, description, category, source, url, published_at, image_url, tags, status, created_at, created_by
FROM articles`
	args := []any{}
	if filters.Category != nil {
		query += `
WHERE category = $1`
		args = append(args, string(*filters.Category))
	}
	query += fmt.Sprintf(`
ORDER BY published_at DESC
LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (repo *ArticleRepo) ListPublishedSince(ctx context.Context, since time.Time, limit int) ([]*entity.Article, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	const query = `
SELECT id, title, description, category, source, url, published_at, image_url, tags, status, created_at, created_by
FROM articles
WHERE published_at >= $1
ORDER BY published_at DESC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("ListPublishedSince: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("ListPublishedSince: Scan: %w", err)
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (repo *ArticleRepo) CountArticles(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountArticles: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM articles WHERE url = $1)`
	var existsFlag bool
	if err := repo.db.QueryRowContext(ctx, query, url).Scan(&existsFlag); err != nil {
		return false, fmt.Errorf("ExistsByURL: %w", err)
	}
	return existsFlag, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles
       (title, description, category, source, url, published_at, image_url, tags, status, created_at, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var imageURL sql.NullString
	if article.ImageURL != "" {
		imageURL = sql.NullString{String: article.ImageURL, Valid: true}
	}

	_, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Description, string(article.Category),
		article.Source, article.URL, article.PublishedAt, imageURL,
		pq.Array(article.Tags), article.Status, article.CreatedAt, article.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("Create: %w", entity.ErrDuplicateURL)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
