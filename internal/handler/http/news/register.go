package news

import (
	"log/slog"
	"net/http"

	hhttp "advisory-news/internal/handler/http"
	"advisory-news/internal/handler/http/auth"
	"advisory-news/internal/repository"
)

// Register wires the news routes onto the mux. The trigger endpoint is
// rate limited and admin-only; the read surface is public.
func Register(mux *http.ServeMux, svc Aggregator, repo repository.ArticleRepository, logger *slog.Logger, limiter *hhttp.RateLimiter) {
	mux.Handle("POST /api/news/aggregate", limiter.Limit(auth.RequireAdmin(AggregateHandler{
		Svc:    svc,
		Logger: logger,
	})))
	mux.Handle("GET  /api/news", ListHandler{Repo: repo})
}
