// Package auth holds password hashing, the cookie session manager and the
// route guards.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"coffee-wifi/models"
	"coffee-wifi/repository"

	"github.com/gorilla/sessions"
)

const (
	sessionName   = "coffee-wifi-session"
	userIDKey     = "user_id"
	flashCategory = "notice"
)

// UserLoader rehydrates the session user on each request.
type UserLoader interface {
	FindByID(ctx context.Context, id int) (*models.User, error)
}

// SessionManager binds a browser session to a user id and carries flash
// notices across redirects. Session data lives in a signed cookie.
type SessionManager struct {
	store *sessions.CookieStore
	users UserLoader
}

// SessionOptions configures the session cookie.
type SessionOptions struct {
	MaxAge time.Duration
	Secure bool
}

// NewSessionManager returns a manager signing cookies with secret.
func NewSessionManager(secret []byte, users UserLoader, opts SessionOptions) *SessionManager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(opts.MaxAge.Seconds()))
	return &SessionManager{store: store, users: users}
}

// session returns the request's session. A cookie that fails to decode
// (bad signature, rotated secret) still yields a usable, empty session, so
// the error is dropped.
func (m *SessionManager) session(r *http.Request) *sessions.Session {
	s, _ := m.store.Get(r, sessionName)
	return s
}

// Login binds the session to user. The change is written by Save.
func (m *SessionManager) Login(r *http.Request, user *models.User) {
	m.session(r).Values[userIDKey] = user.ID
}

// Logout clears the session binding. Pending flashes survive.
func (m *SessionManager) Logout(r *http.Request) {
	delete(m.session(r).Values, userIDKey)
}

// UserID returns the bound user id, if any.
func (m *SessionManager) UserID(r *http.Request) (int, bool) {
	id, ok := m.session(r).Values[userIDKey].(int)
	return id, ok
}

// LoadUser resolves the session to a user. A session pointing at a user
// that no longer exists is cleared and treated as anonymous.
func (m *SessionManager) LoadUser(r *http.Request) (*models.User, error) {
	id, ok := m.UserID(r)
	if !ok {
		return nil, nil
	}
	user, err := m.users.FindByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		m.Logout(r)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session user %d: %w", id, err)
	}
	return user, nil
}

// AddFlash queues a one-time notice for the next rendered page.
func (m *SessionManager) AddFlash(r *http.Request, msg string) {
	m.session(r).AddFlash(msg, flashCategory)
}

// Flashes pops the queued notices. Call Save afterwards so they are
// removed from the cookie.
func (m *SessionManager) Flashes(r *http.Request) []string {
	raw := m.session(r).Flashes(flashCategory)
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Save writes the session cookie. Must run before the response header.
func (m *SessionManager) Save(w http.ResponseWriter, r *http.Request) error {
	return m.session(r).Save(r, w)
}
