package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome_AnonymousShowsLandingPage(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient()

	resp := c.get("/")
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, "Log in")
	assert.NotContains(t, resp.Body, `id="stores"`)
}

func TestRegister_LogsInAndFlashes(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient()

	resp := c.register("Alice", "alice@example.com", "wonderland")
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, "/", resp.Location)

	home := c.get("/")
	assert.Equal(t, http.StatusOK, home.Status)
	assert.Contains(t, home.Body, registeredMessage)
	assert.Contains(t, home.Body, "Hi, Alice")

	var hash string
	require.NoError(t, app.db.Get(&hash, "SELECT password_hash FROM users WHERE email = ?", "alice@example.com"))
	assert.NotEqual(t, "wonderland", hash)
	assert.True(t, strings.HasPrefix(hash, "pbkdf2:sha256:1$"), hash)
}

func TestRegister_ExistingEmailRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient()
	c.register("Alice", "alice@example.com", "wonderland")

	other := app.newClient()
	resp := other.register("Alice Again", "alice@example.com", "different")
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, "/login", resp.Location)
	assert.Equal(t, 1, app.count("users"))

	page := other.get("/login")
	assert.Contains(t, page.Body, accountExistsMessage)
}

func TestRegister_InvalidFormRerenders(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient()

	resp := c.register("Alice", "not-an-email", "")
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, "Invalid email address.")
	assert.Contains(t, resp.Body, "This field is required.")
	assert.Contains(t, resp.Body, `value="Alice"`)
	assert.Equal(t, 0, app.count("users"))
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	app.newClient().register("Alice", "alice@example.com", "wonderland")

	t.Run("unknown email", func(t *testing.T) {
		c := app.newClient()
		resp := c.login("nobody@example.com", "x")
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "/login", resp.Location)
		assert.Contains(t, c.get("/login").Body, unknownUserMessage)
	})

	t.Run("wrong password", func(t *testing.T) {
		c := app.newClient()
		resp := c.login("alice@example.com", "wrong")
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "/login", resp.Location)
		assert.Contains(t, c.get("/login").Body, wrongPasswordMessage)

		// still anonymous
		assert.Equal(t, "/login", c.get("/add").Location)
	})

	t.Run("success", func(t *testing.T) {
		c := app.newClient()
		resp := c.login("alice@example.com", "wonderland")
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "/", resp.Location)

		home := c.get("/")
		assert.Contains(t, home.Body, loginSuccessMessage)
		assert.Equal(t, http.StatusOK, c.get("/add").Status)
	})

	t.Run("missing fields", func(t *testing.T) {
		c := app.newClient()
		resp := c.post("/login", url.Values{})
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Contains(t, resp.Body, "This field is required.")
	})
}

func TestFlashIsShownOnce(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient()
	c.register("Alice", "alice@example.com", "wonderland")

	assert.Contains(t, c.get("/").Body, registeredMessage)
	assert.NotContains(t, c.get("/").Body, registeredMessage)
}

func TestAddStore_RequiresLogin(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient()

	resp := c.get("/add")
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, "/login", resp.Location)
	assert.Contains(t, c.get("/login").Body, loginRequiredMessage)

	resp = c.post("/add", storeForm("Sneaky Cafe", "10", "3", "3"))
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, "/login", resp.Location)
	assert.Equal(t, 0, app.count("stores"))
}

func TestAddStore_CreatesAndLists(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient()
	c.register("Alice", "alice@example.com", "wonderland")

	assert.Equal(t, http.StatusOK, c.get("/add").Status)

	resp := c.post("/add", storeForm("Blue Bottle", "20", "4", "3"))
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, "/", resp.Location)

	home := c.get("/")
	assert.Contains(t, home.Body, storeAddedMessage)
	assert.Contains(t, home.Body, "Blue Bottle")
	assert.Contains(t, home.Body, "2026-03-01")

	var row struct {
		UserID      int    `db:"user_id"`
		Seating     int    `db:"seating"`
		WifiRating  int    `db:"wifi_rating"`
		PowerRating int    `db:"power_rating"`
		MapsURL     string `db:"maps_url"`
	}
	require.NoError(t, app.db.Get(&row, "SELECT user_id, seating, wifi_rating, power_rating, maps_url FROM stores WHERE name = ?", "Blue Bottle"))
	assert.Equal(t, 1, row.UserID)
	assert.Equal(t, 20, row.Seating)
	assert.Equal(t, 4, row.WifiRating)
	assert.Equal(t, 3, row.PowerRating)
	assert.Equal(t, "https://maps.example.com/Blue%20Bottle", row.MapsURL)
}

func TestAddStore_InvalidInputIsNotSaved(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{"wifi rating out of range", storeForm("Cafe", "10", "6", "3"), "Number must be at most 5."},
		{"missing name", storeForm("", "10", "3", "3"), "This field is required."},
		{"missing seating", storeForm("Cafe", "", "3", "3"), "This field is required."},
		{"non-numeric seating", storeForm("Cafe", "many", "3", "3"), "Not a valid integer value."},
	}

	app := newTestApp(t)
	c := app.newClient()
	c.register("Alice", "alice@example.com", "wonderland")
	c.get("/")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.post("/add", tt.form)
			assert.Equal(t, http.StatusOK, resp.Status)
			assert.Contains(t, resp.Body, tt.message)
			assert.Equal(t, 0, app.count("stores"))
		})
	}
}

func TestAddStore_DuplicateNameIsFieldError(t *testing.T) {
	app := newTestApp(t)
	alice := app.newClient()
	alice.register("Alice", "alice@example.com", "wonderland")
	bob := app.newClient()
	bob.register("Bob", "bob@example.com", "builder")

	require.Equal(t, http.StatusFound, alice.post("/add", storeForm("Corner Cafe", "8", "3", "2")).Status)

	resp := bob.post("/add", storeForm("Corner Cafe", "12", "5", "5"))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, storeNameTakenMessage)
	assert.Equal(t, 1, app.count("stores"))
}

func TestHome_ListsOnlyOwnStores(t *testing.T) {
	app := newTestApp(t)
	alice := app.newClient()
	alice.register("Alice", "alice@example.com", "wonderland")
	bob := app.newClient()
	bob.register("Bob", "bob@example.com", "builder")

	alice.post("/add", storeForm("Alice Espresso", "10", "5", "4"))
	bob.post("/add", storeForm("Bob Brews", "6", "2", "1"))

	aliceHome := alice.get("/").Body
	assert.Contains(t, aliceHome, "Alice Espresso")
	assert.NotContains(t, aliceHome, "Bob Brews")

	bobHome := bob.get("/").Body
	assert.Contains(t, bobHome, "Bob Brews")
	assert.NotContains(t, bobHome, "Alice Espresso")
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient()
	c.register("Alice", "alice@example.com", "wonderland")

	resp := c.get("/logout")
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, "/", resp.Location)

	assert.Equal(t, "/login", c.get("/add").Location)

	// logging out again requires a session
	assert.Equal(t, "/login", c.get("/logout").Location)
}

func TestAdmin(t *testing.T) {
	app := newTestApp(t)
	alice := app.newClient()
	alice.register("Alice", "alice@example.com", "wonderland")
	bob := app.newClient()
	bob.register("Bob", "bob@example.com", "builder")
	alice.post("/add", storeForm("Alice Espresso", "10", "5", "4"))

	t.Run("first user sees every account", func(t *testing.T) {
		resp := alice.get("/admin")
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Contains(t, resp.Body, "alice@example.com")
		assert.Contains(t, resp.Body, "bob@example.com")
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		resp := bob.get("/admin")
		assert.Equal(t, http.StatusForbidden, resp.Status)
		assert.NotContains(t, resp.Body, "alice@example.com")
	})

	t.Run("anonymous is forbidden", func(t *testing.T) {
		resp := app.newClient().get("/admin")
		assert.Equal(t, http.StatusForbidden, resp.Status)
	})
}

func TestSession_DeletedUserBecomesAnonymous(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient()
	c.register("Alice", "alice@example.com", "wonderland")

	_, err := app.db.Exec("DELETE FROM users WHERE email = ?", "alice@example.com")
	require.NoError(t, err)

	resp := c.get("/add")
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, "/login", resp.Location)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient()

	resp := c.get("/health")
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "coffee-wifi", body["service"])

	require.NoError(t, app.db.Close())
	resp = c.get("/health")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
}
