package server

import (
	"context"
	"net/http"

	"coffee-wifi/auth"
	"coffee-wifi/handlers"

	"github.com/umakantv/go-utils/httpserver"
)

const (
	authNone    = "none"
	authSession = "session"
)

// notFoundPath matches any path. It is registered last so every real route
// is tried first.
const notFoundPath = "/{path:.*}"

// Route is one method+path served by the application.
type Route struct {
	Name   string
	Method string
	Path   string
	// Guard runs after the session user is resolved. Nil skips the session
	// lookup entirely.
	Guard   auth.Guard
	Handler httpserver.HandlerFunc
	// CSRF enables token checks on unsafe methods.
	CSRF bool
}

// Options configures the middleware chain.
type Options struct {
	CSRFKey       []byte
	CSRFEnabled   bool
	SecureCookies bool
}

// App binds the handlers to their routes and middleware.
type App struct {
	handler *handlers.Handler
	metrics *Metrics
	csrf    func(http.Handler) http.Handler
	routes  []Route
}

// NewApp builds the route table for h.
func NewApp(h *handlers.Handler, metrics *Metrics, opts Options) *App {
	a := &App{handler: h, metrics: metrics}
	if opts.CSRFEnabled {
		a.csrf = csrfProtection(opts.CSRFKey, opts.SecureCookies)
	}

	metricsHandler := metrics.Handler()
	a.routes = []Route{
		{Name: "Home", Method: http.MethodGet, Path: "/", Guard: auth.Public, Handler: h.Home, CSRF: true},
		{Name: "HomePost", Method: http.MethodPost, Path: "/", Guard: auth.Public, Handler: h.Home, CSRF: true},
		{Name: "AddStoreForm", Method: http.MethodGet, Path: "/add", Guard: auth.RequireLogin, Handler: h.AddStore, CSRF: true},
		{Name: "AddStore", Method: http.MethodPost, Path: "/add", Guard: auth.RequireLogin, Handler: h.AddStore, CSRF: true},
		{Name: "RegisterForm", Method: http.MethodGet, Path: "/register", Guard: auth.Public, Handler: h.Register, CSRF: true},
		{Name: "Register", Method: http.MethodPost, Path: "/register", Guard: auth.Public, Handler: h.Register, CSRF: true},
		{Name: "LoginForm", Method: http.MethodGet, Path: "/login", Guard: auth.Public, Handler: h.Login, CSRF: true},
		{Name: "Login", Method: http.MethodPost, Path: "/login", Guard: auth.Public, Handler: h.Login, CSRF: true},
		{Name: "Logout", Method: http.MethodGet, Path: "/logout", Guard: auth.RequireLogin, Handler: h.Logout},
		{Name: "Admin", Method: http.MethodGet, Path: "/admin", Guard: auth.AdminOnly, Handler: h.Admin},
		{Name: "HealthCheck", Method: http.MethodGet, Path: "/health", Handler: h.Health},
		{Name: "Metrics", Method: http.MethodGet, Path: "/metrics", Handler: func(_ context.Context, w http.ResponseWriter, r *http.Request) {
			metricsHandler.ServeHTTP(w, r)
		}},
		{Name: "NotFound", Method: http.MethodGet, Path: notFoundPath, Guard: auth.Public, Handler: h.NotFound},
	}
	return a
}

// AuthType is the httpserver auth type of r. Guarded routes run the session
// auth callback; the callback admits anonymous visitors and the guard
// decides access.
func (r Route) AuthType() string {
	if r.Guard != nil {
		return authSession
	}
	return authNone
}

// Routes returns the route table.
func (a *App) Routes() []Route {
	return a.routes
}

// Handler returns route wrapped in the full middleware chain: request id,
// metrics, CSRF, then the guard.
func (a *App) Handler(route Route) http.Handler {
	fn := route.Handler
	if route.Guard != nil {
		fn = a.handler.Guarded(route.Guard, fn)
	}

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fn(r.Context(), w, r)
	})
	if route.CSRF && a.csrf != nil {
		h = a.csrf(h)
	}
	h = a.metrics.Instrument(route.Name, h)
	return requestID(h)
}

// HandlerFunc adapts Handler for registration on an httpserver. The
// httpserver context carries the route details and RequestAuth, so it
// becomes the request context.
func (a *App) HandlerFunc(route Route) httpserver.HandlerFunc {
	h := a.Handler(route)
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(ctx))
	}
}

// registerRoutes mounts every route of app on srv in table order.
func registerRoutes(srv *httpserver.Server, app *App) {
	for _, route := range app.Routes() {
		srv.Register(httpserver.Route{
			Name:     route.Name,
			Method:   route.Method,
			Path:     route.Path,
			AuthType: route.AuthType(),
		}, app.HandlerFunc(route))
	}
}
