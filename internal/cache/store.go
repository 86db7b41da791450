package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventplanner/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const UserKeyPrefix = "user:%d"

const UserTTL = 5 * time.Minute

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// Store is a JSON cache over Redis. A nil Store or nil client disables caching.
type Store struct {
	rdb *redis.Client
}

// NewStore wraps rdb. rdb may be nil.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) enabled() bool {
	return s != nil && s.rdb != nil
}

// GetJSON loads key into dest. It reports false on a miss or when caching is disabled.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !s.enabled() {
		return false, nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value under key with ttl.
func (s *Store) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !s.enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, ttl).Err()
}

// Invalidate removes key. Failures are logged and otherwise ignored.
func (s *Store) Invalidate(ctx context.Context, key string) {
	if !s.enabled() {
		return
	}
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidate failed",
			slog.String("key", key), slog.String("error", err.Error()))
	}
}

// InvalidateUser drops the cached profile of userID.
func (s *Store) InvalidateUser(ctx context.Context, userID uint) {
	s.Invalidate(ctx, UserKey(userID))
}

// Aside implements cache-aside: return the cached value for key, or call fetch and cache
// its result. A nil result from fetch is not cached. Cache errors never fail the read.
func Aside[T any](ctx context.Context, s *Store, key string, ttl time.Duration, fetch func() (*T, error)) (*T, error) {
	var cached T
	hit, err := s.GetJSON(ctx, key, &cached)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if hit {
		return &cached, nil
	}

	value, err := fetch()
	if err != nil || value == nil {
		return value, err
	}

	if err := s.SetJSON(ctx, key, value, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return value, nil
}
