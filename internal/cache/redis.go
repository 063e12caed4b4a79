package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/peerseeker/peerseeker-backend/internal/user"
)

const tutorPageKey = "cache:tutors:first-page"

// RedisCache implements user.DirectoryCache on top of Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects a directory cache to the given Redis instance.
func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl:    ttl,
	}
}

type tutorPage struct {
	Items []*user.User `json:"items"`
	Total int          `json:"total"`
}

// GetTutorPage returns the cached first page of the tutor directory,
// or (nil, 0, nil) on a cache miss.
func (c *RedisCache) GetTutorPage(ctx context.Context) ([]*user.User, int, error) {
	data, err := c.client.Get(ctx, tutorPageKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, 0, nil
		}
		return nil, 0, err
	}

	var page tutorPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

// SetTutorPage stores the first page of the tutor directory with a TTL.
func (c *RedisCache) SetTutorPage(ctx context.Context, users []*user.User, total int) error {
	payload, err := json.Marshal(tutorPage{Items: users, Total: total})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tutorPageKey, payload, c.ttl).Err()
}

// Invalidate drops the cached tutor page.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, tutorPageKey).Err()
}

// Close releases the underlying Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
