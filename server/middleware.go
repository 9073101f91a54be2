package server

import (
	"net/http"

	"coffee-wifi/handlers"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// requestID tags the request with an id. A well-formed incoming
// X-Request-ID is kept so ids follow a proxy chain.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		next.ServeHTTP(w, r.WithContext(handlers.WithRequestID(r.Context(), id)))
	})
}

// csrfProtection returns the gorilla/csrf middleware. Without secure
// cookies the service is reached over plain HTTP, so requests are marked
// as such before the origin checks run.
func csrfProtection(key []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	logger.Info("CSRF check failed",
		zap.String("route", httpserver.GetRouteName(r.Context())),
		zap.String("path", r.URL.Path),
		zap.String("request_id", handlers.RequestIDFromContext(r.Context())),
		zap.Error(csrf.FailureReason(r)),
	)
	http.Error(w, "Forbidden - CSRF token invalid", http.StatusForbidden)
}
