package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"

	"advisory-news/internal/domain/entity"
	pg "advisory-news/internal/infra/adapter/persistence/postgres"
	"advisory-news/internal/repository"
)

func artRow(a *entity.Article) *sqlmock.Rows {
	var image any
	if a.ImageURL != "" {
		image = a.ImageURL
	}
	return sqlmock.NewRows([]string{
		"id", "title", "description", "category", "source", "url",
		"published_at", "image_url", "tags", "status", "created_at", "created_by",
	}).AddRow(
		a.ID, a.Title, a.Description, string(a.Category), a.Source, a.URL,
		a.PublishedAt, image, pq.Array(a.Tags), a.Status, a.CreatedAt, a.CreatedBy,
	)
}

func TestArticleRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	want := &entity.Article{
		ID: 1, Title: "IRS raises standard deduction", Description: "desc",
		Category: entity.CategoryTax, Source: "IRS Newsroom",
		URL: "https://example.com/a", PublishedAt: now,
		Tags: []string{"tax", "irs"}, Status: entity.StatusPublished,
		CreatedAt: now, CreatedBy: entity.AggregatorName,
	}

	mock.ExpectQuery("FROM articles").
		WithArgs(50).
		WillReturnRows(artRow(want))

	repo := pg.NewArticleRepo(db)
	got, err := repo.List(context.Background(), repository.ArticleFilters{})
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if diff := cmp.Diff([]*entity.Article{want}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_List_CategoryFilter(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("WHERE category").
		WithArgs("market", 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "category", "source", "url",
			"published_at", "image_url", "tags", "status", "created_at", "created_by",
		}))

	repo := pg.NewArticleRepo(db)
	category := entity.CategoryMarket
	got, err := repo.List(context.Background(), repository.ArticleFilters{Category: &category, Limit: 10})
	if err != nil || len(got) != 0 {
		t.Fatalf("List err=%v len=%d", err, len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_ExistsByURL(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("https://example.com/a").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := pg.NewArticleRepo(db)
	exists, err := repo.ExistsByURL(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("ExistsByURL err=%v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
}

func TestArticleRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO articles")).
		WithArgs("title", "desc", "tax", "IRS Newsroom", "https://u",
			now, nil, pq.Array([]string{"tax"}), entity.StatusPublished, now, entity.AggregatorName).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := pg.NewArticleRepo(db)
	err := repo.Create(context.Background(), &entity.Article{
		Title: "title", Description: "desc", Category: entity.CategoryTax,
		Source: "IRS Newsroom", URL: "https://u", PublishedAt: now,
		Tags: []string{"tax"}, Status: entity.StatusPublished,
		CreatedAt: now, CreatedBy: entity.AggregatorName,
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_CountArticles(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	repo := pg.NewArticleRepo(db)
	count, err := repo.CountArticles(context.Background())
	if err != nil || count != 42 {
		t.Fatalf("CountArticles count=%d err=%v", count, err)
	}
}

func TestArticleRepo_ListPublishedSince(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	since := time.Now().Add(-24 * time.Hour)
	mock.ExpectQuery("WHERE published_at").
		WithArgs(since, 20).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "category", "source", "url",
			"published_at", "image_url", "tags", "status", "created_at", "created_by",
		}))

	repo := pg.NewArticleRepo(db)
	if _, err := repo.ListPublishedSince(context.Background(), since, 20); err != nil {
		t.Fatalf("ListPublishedSince err=%v", err)
	}
}

func TestArticleRepo_Create_QueryError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO articles")).
		WillReturnError(errors.New("connection reset"))

	repo := pg.NewArticleRepo(db)
	err := repo.Create(context.Background(), &entity.Article{
		Title: "t", Category: entity.CategoryMarket, Source: "s", URL: "https://u",
		PublishedAt: now, Status: entity.StatusPublished, CreatedAt: now,
		CreatedBy: entity.AggregatorName,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, entity.ErrDuplicateURL) {
		t.Fatal("generic failure must not map to ErrDuplicateURL")
	}
}
