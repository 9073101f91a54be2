package handlers

import (
	"context"
	"net/http"
)

// Admin lists every user with their store count.
func (h *Handler) Admin(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListSummaries(ctx)
	if err != nil {
		h.serverError(ctx, w, r, "Failed to list users", err)
		return
	}
	h.render(ctx, w, r, "admin.html", pageData{Title: "Admin", Users: users})
}
