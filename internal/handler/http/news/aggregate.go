package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"advisory-news/internal/handler/http/respond"
	"advisory-news/internal/usecase/aggregate"
)

// Aggregator runs one aggregation pass. Satisfied by aggregate.Service.
type Aggregator interface {
	Run(ctx context.Context) (*aggregate.RunStats, error)
}

// AggregateHandler serves POST /api/news/aggregate: the on-demand
// trigger for a full aggregation run.
type AggregateHandler struct {
	Svc    Aggregator
	Logger *slog.Logger
}

func (h AggregateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Run(r.Context())
	if err != nil {
		h.Logger.Error("on-demand aggregation failed",
			slog.String("error", respond.SanitizeError(err)))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, AggregateResponse{
		Success: true,
		Message: fmt.Sprintf("aggregated %d sources: %d new, %d duplicates",
			stats.Sources, stats.NewCount, stats.DuplicateCount),
		Stats: toStatsDTO(stats),
	})
}
