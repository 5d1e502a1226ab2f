package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache is an explicit value object for a refreshable platform access
// token: the token plus the moment it was obtained. It is passed around by
// value, never held as hidden mutable client state.
type TokenCache struct {
	AccessToken string    `json:"access_token"`
	UpdatedAt   time.Time `json:"date_updated"`
}

// Fresh reports whether the token is still usable at now. maxAge is kept
// below the platform's real token lifetime to leave headroom for the
// refresh-endpoint cooldown.
func (t TokenCache) Fresh(now time.Time, maxAge time.Duration) bool {
	if t.AccessToken == "" {
		return false
	}
	return now.Sub(t.UpdatedAt) < maxAge
}

// TokenStore persists TokenCache values in Redis so restarts and parallel
// workers reuse a live token instead of burning the refresh cooldown.
type TokenStore struct {
	rdb *redis.Client
}

// NewTokenStore returns a configured TokenStore.
func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

func tokenKey(platform string) string {
	return "scetl:token:" + platform
}

// Load returns the cached token for platform; ok is false when none exists.
func (s *TokenStore) Load(ctx context.Context, platform string) (TokenCache, bool, error) {
	raw, err := s.rdb.Get(ctx, tokenKey(platform)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return TokenCache{}, false, nil
		}
		return TokenCache{}, false, fmt.Errorf("redis get token: %w", err)
	}

	var tc TokenCache
	if err := json.Unmarshal([]byte(raw), &tc); err != nil {
		return TokenCache{}, false, fmt.Errorf("decode cached token: %w", err)
	}
	return tc, true, nil
}

// Save stores the token with a TTL matching its freshness window.
func (s *TokenStore) Save(ctx context.Context, platform string, tc TokenCache, ttl time.Duration) error {
	raw, err := json.Marshal(tc)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := s.rdb.Set(ctx, tokenKey(platform), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}
