package news

import (
	"fmt"
	"net/http"
	"strconv"

	"advisory-news/internal/domain/entity"
	"advisory-news/internal/handler/http/respond"
	"advisory-news/internal/repository"
)

// maxListLimit caps the page size of the read surface.
const maxListLimit = 100

// ListHandler serves GET /api/news: stored articles, newest first,
// optionally filtered by category.
type ListHandler struct {
	Repo repository.ArticleRepository
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filters := repository.ArticleFilters{}

	if raw := r.URL.Query().Get("category"); raw != "" {
		category := entity.Category(raw)
		if !category.Valid() {
			respond.SafeError(w, http.StatusBadRequest,
				fmt.Errorf("category %q is invalid", raw))
			return
		}
		filters.Category = &category
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxListLimit {
			respond.SafeError(w, http.StatusBadRequest,
				fmt.Errorf("limit must be between 1 and %d", maxListLimit))
			return
		}
		filters.Limit = limit
	}

	articles, err := h.Repo.List(r.Context(), filters)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]ArticleDTO, 0, len(articles))
	for _, a := range articles {
		dtos = append(dtos, toArticleDTO(a))
	}

	respond.JSON(w, http.StatusOK, ListResponse{
		Articles: dtos,
		Count:    len(dtos),
	})
}
