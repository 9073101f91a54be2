package handlers

import (
	"context"
	"net/http"

	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

// Health reports service liveness and database reachability as JSON.
func (h *Handler) Health(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(ctx); err != nil {
		logRequest(ctx, "error", "Database ping failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errs.NewInternalServerError("Database unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "coffee-wifi",
	})
}
