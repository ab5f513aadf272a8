package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RatingCache holds recently computed fame ratings
type RatingCache interface {
	Get(ctx context.Context, userID int64) (int, bool, error)
	Set(ctx context.Context, userID int64, rating int, ttl time.Duration) error
	Delete(ctx context.Context, userID int64) error
}

// FameRatingKey is the redis key holding a user's cached rating
func FameRatingKey(userID int64) string {
	return fmt.Sprintf("fame:user:%d", userID)
}

type redisRatingCache struct {
	client *redis.Client
}

// NewRedisRatingCache creates a RatingCache backed by redis
func NewRedisRatingCache(client *redis.Client) RatingCache {
	return &redisRatingCache{client: client}
}

func (c *redisRatingCache) Get(ctx context.Context, userID int64) (int, bool, error) {
	rating, err := c.client.Get(ctx, FameRatingKey(userID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get fame rating: %w", err)
	}
	return rating, true, nil
}

func (c *redisRatingCache) Set(ctx context.Context, userID int64, rating int, ttl time.Duration) error {
	if err := c.client.Set(ctx, FameRatingKey(userID), rating, ttl).Err(); err != nil {
		return fmt.Errorf("set fame rating: %w", err)
	}
	return nil
}

func (c *redisRatingCache) Delete(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, FameRatingKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete fame rating: %w", err)
	}
	return nil
}
