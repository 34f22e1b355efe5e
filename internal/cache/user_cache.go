package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/tajoco/contacts/internal/constants"
	"github.com/tajoco/contacts/internal/model"
	"github.com/tajoco/contacts/pkg/logger"
	"github.com/tajoco/contacts/pkg/redis"
)

// KV is the minimal key-value surface the user cache needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// UserCache is a best-effort read-through cache of user snapshots keyed by
// email. Snapshots are stored as JSON, the password hash and refresh token
// are excluded by the model's marshalling rules. Every cache failure is
// reported as a miss, never to the caller.
type UserCache struct {
	kv  KV
	ttl time.Duration
}

func NewUserCache(kv KV, ttl time.Duration) *UserCache {
	return &UserCache{kv: kv, ttl: ttl}
}

func key(email string) string {
	return constants.CacheKeyUser + email
}

// Get returns the cached user snapshot for email, or (nil, false) on a miss.
func (c *UserCache) Get(ctx context.Context, email string) (*model.User, bool) {
	if c == nil || c.kv == nil {
		return nil, false
	}

	data, err := c.kv.Get(ctx, key(email))
	if err != nil {
		if !errors.Is(err, redis.ErrNil) {
			logger.WarnWithContext(ctx, "User cache unavailable, falling through").
				String("email", email).
				Err(err).
				Log()
		}
		return nil, false
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		logger.WarnWithContext(ctx, "Corrupt user cache entry dropped").
			String("email", email).
			Err(err).
			Log()
		_ = c.kv.Delete(ctx, key(email))
		return nil, false
	}

	return &user, true
}

// Set stores a user snapshot with the configured TTL. Failures are logged only.
func (c *UserCache) Set(ctx context.Context, user *model.User) {
	if c == nil || c.kv == nil || user == nil {
		return
	}

	data, err := json.Marshal(user)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to marshal user snapshot").
			String("email", user.Email).
			Err(err).
			Log()
		return
	}

	if err := c.kv.Set(ctx, key(user.Email), data, c.ttl); err != nil {
		logger.WarnWithContext(ctx, "Failed to store user snapshot").
			String("email", user.Email).
			Err(err).
			Log()
	}
}

// Delete invalidates the cached snapshot for email.
func (c *UserCache) Delete(ctx context.Context, email string) {
	if c == nil || c.kv == nil {
		return
	}

	if err := c.kv.Delete(ctx, key(email)); err != nil {
		logger.WarnWithContext(ctx, "Failed to invalidate user snapshot").
			String("email", email).
			Err(err).
			Log()
	}
}
