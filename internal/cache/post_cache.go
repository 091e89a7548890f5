package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"luxejournal/internal/model"
)

const homeKey = "blog:posts:home"

// PostListCache keeps the rendered home-page post list in Redis so the
// busiest read path skips the join. Writers invalidate the key.
type PostListCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewPostListCache(client *redisv9.Client, ttl time.Duration) *PostListCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &PostListCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *PostListCache) GetHome(ctx context.Context) ([]model.PostView, bool, error) {
	raw, err := c.client.Get(ctx, homeKey).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get post list failed: %w", err)
	}

	var posts []model.PostView
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached post list failed: %w", err)
	}
	return posts, true, nil
}

func (c *PostListCache) SetHome(ctx context.Context, posts []model.PostView) error {
	payload, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("marshal post list cache failed: %w", err)
	}
	if err := c.client.Set(ctx, homeKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set post list failed: %w", err)
	}
	return nil
}

func (c *PostListCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, homeKey).Err(); err != nil {
		return fmt.Errorf("redis invalidate post list failed: %w", err)
	}
	return nil
}
