package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"advisory-news/internal/handler/http/respond"
)

// healthPingTimeout bounds the readiness database probe.
const healthPingTimeout = 2 * time.Second

// LivenessHandler serves GET /health. It reports process liveness only
// and never touches downstream dependencies.
func LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// ReadinessHandler serves GET /health/ready. The server is ready when
// the article store answers a ping.
func ReadinessHandler(database *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()

		if err := database.PingContext(ctx); err != nil {
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
			})
			return
		}

		respond.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
}
