package auth

import (
	"context"

	"coffee-wifi/models"
)

// Reason says why a guard denied a request.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonLoginRequired
	ReasonForbidden
)

func (r Reason) String() string {
	switch r {
	case ReasonLoginRequired:
		return "login required"
	case ReasonForbidden:
		return "forbidden"
	default:
		return "none"
	}
}

// Decision is the outcome of a guard: Allowed, or denied with a Reason.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var allowed = Decision{Allowed: true}

func denied(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Guard decides whether user (nil when anonymous) may run an operation.
type Guard func(user *models.User) Decision

// Public admits everyone.
func Public(*models.User) Decision { return allowed }

// RequireLogin admits any authenticated user.
func RequireLogin(user *models.User) Decision {
	if user == nil {
		return denied(ReasonLoginRequired)
	}
	return allowed
}

// AdminOnly admits only the first registered user. Everyone else,
// authenticated or not, is forbidden.
func AdminOnly(user *models.User) Decision {
	if !user.IsAdmin() {
		return denied(ReasonForbidden)
	}
	return allowed
}

type userCtxKey struct{}

// WithUser stores the request's user in ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// UserFromContext returns the user stored by WithUser, or nil.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userCtxKey{}).(*models.User)
	return u
}
