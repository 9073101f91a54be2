package handlers

import (
	"context"
	"errors"
	"net/http"

	"coffee-wifi/forms"
	"coffee-wifi/models"
	"coffee-wifi/repository"

	"go.uber.org/zap"
)

const (
	accountExistsMessage = "It looks like that account already exists. Try logging in!"
	registeredMessage    = "Your account has been registered."
	unknownUserMessage   = "That user does not exist. Try again."
	wrongPasswordMessage = "Wrong password. Try again."
	loginSuccessMessage  = "Login successful!"
)

// Register shows the registration form and, on POST, creates the account
// and logs it in.
func (h *Handler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(ctx, w, r, "register.html", pageData{Title: "Register"})
		return
	}

	var req models.RegisterRequest
	fieldErrs, err := h.forms.Parse(r, &req)
	if err != nil {
		logRequest(ctx, "info", "Malformed form body", zap.Error(err))
		h.errorPage(ctx, w, r, http.StatusBadRequest)
		return
	}
	if fieldErrs.Any() {
		h.renderForm(ctx, w, r, "register.html", "Register", fieldErrs)
		return
	}

	_, err = h.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		h.accountExists(ctx, w, r)
		return
	case !errors.Is(err, repository.ErrNotFound):
		h.serverError(ctx, w, r, "Failed to look up email", err)
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.serverError(ctx, w, r, "Failed to hash password", err)
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    h.now().UTC(),
	}
	if err := h.users.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			h.accountExists(ctx, w, r)
			return
		}
		h.serverError(ctx, w, r, "Failed to create user", err)
		return
	}

	logRequest(ctx, "info", "User registered", zap.Int("user_id", user.ID))
	h.sessions.Login(r, user)
	h.sessions.AddFlash(r, registeredMessage)
	h.redirect(ctx, w, r, "/")
}

func (h *Handler) accountExists(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Registration for existing email")
	h.sessions.AddFlash(r, accountExistsMessage)
	h.redirect(ctx, w, r, "/login")
}

// Login shows the login form and, on POST, checks the credentials.
func (h *Handler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(ctx, w, r, "login.html", pageData{Title: "Log in"})
		return
	}

	var req models.LoginRequest
	fieldErrs, err := h.forms.Parse(r, &req)
	if err != nil {
		logRequest(ctx, "info", "Malformed form body", zap.Error(err))
		h.errorPage(ctx, w, r, http.StatusBadRequest)
		return
	}
	if fieldErrs.Any() {
		h.renderForm(ctx, w, r, "login.html", "Log in", fieldErrs)
		return
	}

	user, err := h.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		logRequest(ctx, "info", "Login for unknown email")
		h.sessions.AddFlash(r, unknownUserMessage)
		h.redirect(ctx, w, r, "/login")
		return
	}
	if err != nil {
		h.serverError(ctx, w, r, "Failed to look up user", err)
		return
	}

	if !h.hasher.Check(user.PasswordHash, req.Password) {
		logRequest(ctx, "info", "Login with wrong password", zap.Int("user_id", user.ID))
		h.sessions.AddFlash(r, wrongPasswordMessage)
		h.redirect(ctx, w, r, "/login")
		return
	}

	logRequest(ctx, "info", "User logged in", zap.Int("user_id", user.ID))
	h.sessions.Login(r, user)
	h.sessions.AddFlash(r, loginSuccessMessage)
	h.redirect(ctx, w, r, "/")
}

// Logout drops the session binding.
func (h *Handler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "User logged out")
	h.sessions.Logout(r)
	h.redirect(ctx, w, r, "/")
}

func (h *Handler) renderForm(ctx context.Context, w http.ResponseWriter, r *http.Request, page, title string, fieldErrs forms.Errors) {
	h.render(ctx, w, r, page, pageData{
		Title:  title,
		Form:   r.PostForm,
		Errors: fieldErrs,
	})
}
