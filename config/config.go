// Package config holds runtime settings for the coffee & wifi service.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file, then the process environment. Later layers win.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration of the service.
type Config struct {
	Port          string `yaml:"port" env:"PORT"`
	DatabasePath  string `yaml:"database_path" env:"DATABASE_PATH"`
	MigrationsDir string `yaml:"migrations_dir" env:"MIGRATIONS_DIR"`

	// SessionSecret signs the session cookie. When empty a random secret is
	// generated at start and sessions do not survive a restart.
	SessionSecret string        `yaml:"session_secret" env:"SESSION_SECRET"`
	SessionMaxAge time.Duration `yaml:"session_max_age" env:"SESSION_MAX_AGE"`
	SecureCookies bool          `yaml:"secure_cookies" env:"SECURE_COOKIES"`
	CSRFEnabled   bool          `yaml:"csrf_enabled" env:"CSRF_ENABLED"`

	CacheType     string        `yaml:"cache_type" env:"CACHE_TYPE"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env:"CACHE_TTL"`
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"REDIS_DB"`

	PasswordMethod   string `yaml:"password_method" env:"PASSWORD_METHOD"`
	PBKDF2Iterations int    `yaml:"pbkdf2_iterations" env:"PBKDF2_ITERATIONS"`
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.Port = "8080"
	c.DatabasePath = "./coffee_and_wifi.db"
	c.MigrationsDir = "./database/migrations"
	c.SessionMaxAge = 7 * 24 * time.Hour
	c.CSRFEnabled = true
	c.CacheType = "memory"
	c.CacheTTL = 10 * time.Minute
	c.RedisAddr = "localhost:6379"
	c.PasswordMethod = "pbkdf2:sha256"
	c.PBKDF2Iterations = 600000
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.DatabasePath == "" {
		return errors.New("database path must not be empty")
	}
	switch c.PasswordMethod {
	case "pbkdf2:sha256", "bcrypt":
	default:
		return fmt.Errorf("unsupported password method %q", c.PasswordMethod)
	}
	if c.PBKDF2Iterations <= 0 {
		return fmt.Errorf("pbkdf2 iterations must be positive, got %d", c.PBKDF2Iterations)
	}
	switch c.CacheType {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported cache type %q", c.CacheType)
	}
	return nil
}

// LoadConfig builds a Config from defaults, the YAML file at path (skipped
// when path is empty), a .env file in the working directory if one exists,
// and finally the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := parseYAML(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// parseEnv overlays variables that are set; unset ones keep their value.
func parseEnv(cfg *Config) error {
	err := envdecode.Decode(cfg)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode environment: %w", err)
	}
	return nil
}
