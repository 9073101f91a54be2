package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"coffee-wifi/auth"
	"coffee-wifi/database"
	"coffee-wifi/forms"
	"coffee-wifi/repository"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/umakantv/go-utils/httpserver"
)

var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

// testApp serves the handlers over a real SQLite database.
type testApp struct {
	t      *testing.T
	db     *sqlx.DB
	server *httptest.Server
}

// testClient is one browser: its own cookie jar, redirects not followed.
type testClient struct {
	app    *testApp
	client *http.Client
}

type testResponse struct {
	Status   int
	Body     string
	Location string
	Header   http.Header
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := database.OpenTestDB(t)
	users := repository.NewSQLUserRepository(db)
	views, err := LoadViews()
	require.NoError(t, err)

	h := NewHandler(Deps{
		Users:    users,
		Stores:   repository.NewSQLStoreRepository(db),
		Sessions: auth.NewSessionManager([]byte("test-secret-test-secret-test-sec"), users, auth.SessionOptions{MaxAge: time.Hour}),
		Hasher:   auth.NewPasswordHasher(auth.MethodPBKDF2SHA256, 1),
		Forms:    forms.NewParser(),
		Views:    views,
		DB:       db,
		Now:      func() time.Time { return testNow },
	})

	router := mux.NewRouter()
	mount := func(path string, fn httpserver.HandlerFunc, methods ...string) {
		router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			fn(r.Context(), w, r)
		}).Methods(methods...)
	}
	mount("/", h.Guarded(auth.Public, h.Home), http.MethodGet, http.MethodPost)
	mount("/add", h.Guarded(auth.RequireLogin, h.AddStore), http.MethodGet, http.MethodPost)
	mount("/register", h.Guarded(auth.Public, h.Register), http.MethodGet, http.MethodPost)
	mount("/login", h.Guarded(auth.Public, h.Login), http.MethodGet, http.MethodPost)
	mount("/logout", h.Guarded(auth.RequireLogin, h.Logout), http.MethodGet)
	mount("/admin", h.Guarded(auth.AdminOnly, h.Admin), http.MethodGet)
	mount("/health", h.Health, http.MethodGet)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testApp{t: t, db: db, server: srv}
}

func (a *testApp) newClient() *testClient {
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	return &testClient{
		app: a,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (a *testApp) count(table string) int {
	var n int
	require.NoError(a.t, a.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func (c *testClient) do(req *http.Request) testResponse {
	t := c.app.t
	t.Helper()
	resp, err := c.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return testResponse{
		Status:   resp.StatusCode,
		Body:     string(body),
		Location: resp.Header.Get("Location"),
		Header:   resp.Header,
	}
}

func (c *testClient) get(path string) testResponse {
	c.app.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, c.app.server.URL+path, nil)
	require.NoError(c.app.t, err)
	return c.do(req)
}

func (c *testClient) post(path string, values url.Values) testResponse {
	c.app.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, c.app.server.URL+path, strings.NewReader(values.Encode()))
	require.NoError(c.app.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *testClient) register(name, email, password string) testResponse {
	c.app.t.Helper()
	return c.post("/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	})
}

func (c *testClient) login(email, password string) testResponse {
	c.app.t.Helper()
	return c.post("/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

func storeForm(name string, seating, wifi, power string) url.Values {
	return url.Values{
		"name":         {name},
		"maps_url":     {"https://maps.example.com/" + url.PathEscape(name)},
		"seating":      {seating},
		"wifi_rating":  {wifi},
		"power_rating": {power},
	}
}
