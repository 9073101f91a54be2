package handlers

import (
	"context"
	"errors"
	"net/http"

	"coffee-wifi/auth"
	"coffee-wifi/forms"
	"coffee-wifi/models"
	"coffee-wifi/repository"

	"go.uber.org/zap"
)

const (
	storeAddedMessage     = "You have added a new store to your list."
	storeNameTakenMessage = "A store with that name already exists."
)

// Home lists the current user's stores. Anonymous visitors get the
// landing page.
func (h *Handler) Home(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		h.render(ctx, w, r, "index.html", pageData{Title: "Home"})
		return
	}

	stores, err := h.stores.ListByOwner(ctx, user.ID)
	if err != nil {
		h.serverError(ctx, w, r, "Failed to list stores", err)
		return
	}

	logRequest(ctx, "debug", "Listed stores", zap.Int("count", len(stores)))
	h.render(ctx, w, r, "index.html", pageData{Title: "Home", Stores: stores})
}

// AddStore shows the new-store form and, on POST, saves the store for the
// current user.
func (h *Handler) AddStore(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(ctx, w, r, "add_store.html", pageData{Title: "Add a store"})
		return
	}

	var req models.NewStoreRequest
	fieldErrs, err := h.forms.Parse(r, &req)
	if err != nil {
		logRequest(ctx, "info", "Malformed form body", zap.Error(err))
		h.errorPage(ctx, w, r, http.StatusBadRequest)
		return
	}
	if fieldErrs.Any() {
		h.renderAddStore(ctx, w, r, fieldErrs)
		return
	}

	user := auth.UserFromContext(ctx)
	store := req.ToStore(user.ID, h.now())
	if err := h.stores.Insert(ctx, &store); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fieldErrs.Add("name", storeNameTakenMessage)
			h.renderAddStore(ctx, w, r, fieldErrs)
			return
		}
		h.serverError(ctx, w, r, "Failed to create store", err)
		return
	}

	logRequest(ctx, "info", "Store created", zap.Int("store_id", store.ID), zap.String("name", store.Name))
	h.sessions.AddFlash(r, storeAddedMessage)
	h.redirect(ctx, w, r, "/")
}

func (h *Handler) renderAddStore(ctx context.Context, w http.ResponseWriter, r *http.Request, fieldErrs forms.Errors) {
	h.render(ctx, w, r, "add_store.html", pageData{
		Title:  "Add a store",
		Form:   r.PostForm,
		Errors: fieldErrs,
	})
}
