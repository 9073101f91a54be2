// Package handlers serves the coffee & wifi pages.
package handlers

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"coffee-wifi/auth"
	"coffee-wifi/forms"
	"coffee-wifi/repository"

	"github.com/gorilla/csrf"
	"github.com/umakantv/go-utils/httpserver"
	"go.uber.org/zap"
)

const loginRequiredMessage = "Please log in to access this page."

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators a Handler is built from.
type Deps struct {
	Users    repository.UserRepository
	Stores   repository.StoreRepository
	Sessions *auth.SessionManager
	Hasher   *auth.PasswordHasher
	Forms    *forms.Parser
	Views    *Views
	DB       Pinger
	Now      func() time.Time
}

// Handler carries the application state shared by every route.
type Handler struct {
	users    repository.UserRepository
	stores   repository.StoreRepository
	sessions *auth.SessionManager
	hasher   *auth.PasswordHasher
	forms    *forms.Parser
	views    *Views
	db       Pinger
	now      func() time.Time
}

// NewHandler creates a handler from d. Now defaults to time.Now.
func NewHandler(d Deps) *Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		users:    d.Users,
		stores:   d.Stores,
		sessions: d.Sessions,
		hasher:   d.Hasher,
		forms:    d.Forms,
		views:    d.Views,
		db:       d.DB,
		now:      now,
	}
}

// Guarded resolves the session user into ctx and runs next only when guard
// admits them. Anonymous users hitting a login-only page are sent to
// /login; everyone else who is denied gets a 403.
func (h *Handler) Guarded(guard auth.Guard, next httpserver.HandlerFunc) httpserver.HandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		user, err := h.sessions.LoadUser(r)
		if err != nil {
			h.serverError(ctx, w, r, "Failed to load session user", err)
			return
		}
		ctx = auth.WithUser(ctx, user)

		decision := guard(user)
		if decision.Allowed {
			next(ctx, w, r)
			return
		}

		logRequest(ctx, "info", "Access denied", zap.Stringer("reason", decision.Reason))
		if decision.Reason == auth.ReasonLoginRequired {
			h.sessions.AddFlash(r, loginRequiredMessage)
			h.redirect(ctx, w, r, "/login")
			return
		}
		h.errorPage(ctx, w, r, http.StatusForbidden)
	}
}

// render writes page with the session user, pending flashes and the CSRF
// field filled in. The session is saved so shown flashes are consumed.
func (h *Handler) render(ctx context.Context, w http.ResponseWriter, r *http.Request, page string, data pageData) {
	data.User = auth.UserFromContext(ctx)
	data.Flashes = h.sessions.Flashes(r)
	data.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := h.views.execute(&buf, page, data); err != nil {
		logRequest(ctx, "error", "Failed to render template", zap.String("template", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := h.sessions.Save(w, r); err != nil {
		logRequest(ctx, "error", "Failed to save session", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// redirect saves the session and answers 302 to location.
func (h *Handler) redirect(ctx context.Context, w http.ResponseWriter, r *http.Request, location string) {
	if err := h.sessions.Save(w, r); err != nil {
		logRequest(ctx, "error", "Failed to save session", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, location, http.StatusFound)
}

// errorPage renders the error template with status. Pending flashes are
// left for the next page.
func (h *Handler) errorPage(ctx context.Context, w http.ResponseWriter, r *http.Request, status int) {
	data := pageData{
		Title:  http.StatusText(status),
		Status: status,
		User:   auth.UserFromContext(ctx),
	}
	var buf bytes.Buffer
	if err := h.views.execute(&buf, "error.html", data); err != nil {
		logRequest(ctx, "error", "Failed to render error page", zap.Error(err))
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handler) serverError(ctx context.Context, w http.ResponseWriter, r *http.Request, message string, err error) {
	logRequest(ctx, "error", message, zap.Error(err))
	h.errorPage(ctx, w, r, http.StatusInternalServerError)
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.errorPage(ctx, w, r, http.StatusNotFound)
}
