package cache

import (
	"fmt"
	"time"

	"coffee-wifi/config"

	utilcache "github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Store is the byte-oriented cache used by the repositories.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}

// UtilsStore adapts a go-utils cache (memory or redis) to Store.
type UtilsStore struct {
	c utilcache.Cache
}

// InitializeCache builds the cache selected by cfg.CacheType.
func InitializeCache(cfg *config.Config) (*UtilsStore, error) {
	c, err := utilcache.New(utilcache.Config{
		Type:          cfg.CacheType,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Error("Failed to initialize cache", zap.String("type", cfg.CacheType), zap.Error(err))
		return nil, fmt.Errorf("initialize %s cache: %w", cfg.CacheType, err)
	}
	logger.Info("Cache initialized", zap.String("type", cfg.CacheType))
	return &UtilsStore{c: c}, nil
}

// Get returns the cached bytes for key. Redis hands values back as strings,
// the in-memory cache returns what was stored.
func (s *UtilsStore) Get(key string) ([]byte, bool) {
	raw, err := s.c.Get(key)
	if err != nil {
		return nil, false
	}
	switch v := raw.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}

func (s *UtilsStore) Set(key string, value []byte, ttl time.Duration) {
	s.c.Set(key, value, ttl)
}

func (s *UtilsStore) Delete(key string) {
	s.c.Delete(key)
}

func (s *UtilsStore) Close() {
	s.c.Close()
}
