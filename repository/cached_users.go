package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"coffee-wifi/cache"
	"coffee-wifi/models"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// cachedUser mirrors models.User including the hash, which models.User
// keeps out of its JSON form.
type cachedUser struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// CachedUserRepository serves FindByID from the cache. Users are never
// updated, so entries only expire by TTL.
type CachedUserRepository struct {
	UserRepository
	cache cache.Store
	ttl   time.Duration
}

func NewCachedUserRepository(next UserRepository, c cache.Store, ttl time.Duration) *CachedUserRepository {
	return &CachedUserRepository{UserRepository: next, cache: c, ttl: ttl}
}

func userCacheKey(id int) string {
	return "user:" + strconv.Itoa(id)
}

func (r *CachedUserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	key := userCacheKey(id)
	if raw, ok := r.cache.Get(key); ok {
		var cu cachedUser
		if err := json.Unmarshal(raw, &cu); err == nil {
			return &models.User{
				ID:           cu.ID,
				Name:         cu.Name,
				Email:        cu.Email,
				PasswordHash: cu.PasswordHash,
				CreatedAt:    cu.CreatedAt,
			}, nil
		}
		logger.Debug("Discarding unreadable cache entry", zap.String("key", key))
		r.cache.Delete(key)
	}

	user, err := r.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(cachedUser{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	if err == nil {
		r.cache.Set(key, raw, r.ttl)
	}
	return user, nil
}

// Insert writes through and drops any stale entry left under the new id.
func (r *CachedUserRepository) Insert(ctx context.Context, user *models.User) error {
	if err := r.UserRepository.Insert(ctx, user); err != nil {
		return err
	}
	r.cache.Delete(userCacheKey(user.ID))
	return nil
}
