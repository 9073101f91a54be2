package server

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"coffee-wifi/auth"
	cachepackage "coffee-wifi/cache"
	"coffee-wifi/config"
	"coffee-wifi/database"
	"coffee-wifi/forms"
	"coffee-wifi/handlers"
	"coffee-wifi/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// sessionAuth resolves the session cookie into the httpserver RequestAuth.
// It never rejects: anonymous visitors get Client "anonymous" and the route
// guards decide access.
func sessionAuth(sessions *auth.SessionManager) httpserver.AuthCallback {
	return func(r *http.Request) (bool, httpserver.RequestAuth) {
		id, ok := sessions.UserID(r)
		if !ok {
			return true, httpserver.RequestAuth{Type: authSession, Client: "anonymous"}
		}
		return true, httpserver.RequestAuth{
			Type:   authSession,
			Client: "user:" + strconv.Itoa(id),
			Claims: map[string]interface{}{"user_id": id},
		}
	}
}

// sessionSecret returns the configured secret, or a random one when none
// is set.
func sessionSecret(cfg *config.Config) ([]byte, error) {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	logger.Info("SESSION_SECRET not set, using a random secret; sessions will not survive a restart")
	return secret, nil
}

// csrfKey derives the 32-byte CSRF key from the session secret.
func csrfKey(secret []byte) []byte {
	sum := sha256.Sum256(append([]byte("csrf:"), secret...))
	return sum[:]
}

func StartServer(configPath string) {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting Coffee & Wifi...")

	if err := run(configPath); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	// Initialize database
	dbConn, err := database.InitializeDatabase(cfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize cache
	cache, err := cachepackage.InitializeCache(cfg)
	if err != nil {
		return err
	}
	defer cache.Close()

	secret, err := sessionSecret(cfg)
	if err != nil {
		return err
	}

	users := repository.NewCachedUserRepository(repository.NewSQLUserRepository(dbConn), cache, cfg.CacheTTL)
	sessions := auth.NewSessionManager(secret, users, auth.SessionOptions{
		MaxAge: cfg.SessionMaxAge,
		Secure: cfg.SecureCookies,
	})

	views, err := handlers.LoadViews()
	if err != nil {
		return err
	}

	h := handlers.NewHandler(handlers.Deps{
		Users:    users,
		Stores:   repository.NewSQLStoreRepository(dbConn),
		Sessions: sessions,
		Hasher:   auth.NewPasswordHasher(cfg.PasswordMethod, cfg.PBKDF2Iterations),
		Forms:    forms.NewParser(),
		Views:    views,
		DB:       dbConn,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	app := NewApp(h, NewMetrics(registry), Options{
		CSRFKey:       csrfKey(secret),
		CSRFEnabled:   cfg.CSRFEnabled,
		SecureCookies: cfg.SecureCookies,
	})

	// Create HTTP server; page access is decided by the route guards
	server := httpserver.New(cfg.Port, sessionAuth(sessions))

	registerRoutes(server, app)

	logger.Info("Coffee & Wifi started", zap.String("port", cfg.Port))
	logger.Info("Health check: GET /health")
	logger.Info("Pages: / /add /register /login /logout /admin")

	return server.Start()
}
