package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DocCache stores rendered OpenAPI documents, keyed by program and
// version. Documents are derived purely from version content, so a
// cached render stays valid until the version changes.
type DocCache interface {
	Get(ctx context.Context, programID, versionID int64) (string, error)
	Set(ctx context.Context, programID, versionID int64, doc string) error
	Invalidate(ctx context.Context, programID, versionID int64) error
}

type docCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDocCache creates a new OpenAPI document cache
func NewDocCache(client *redis.Client) DocCache {
	return &docCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *docCache) key(programID, versionID int64) string {
	return fmt.Sprintf("openapi:p:%d:v:%d", programID, versionID)
}

func (c *docCache) Get(ctx context.Context, programID, versionID int64) (string, error) {
	doc, err := c.client.Get(ctx, c.key(programID, versionID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return doc, nil
}

func (c *docCache) Set(ctx context.Context, programID, versionID int64, doc string) error {
	return c.client.Set(ctx, c.key(programID, versionID), doc, c.ttl).Err()
}

func (c *docCache) Invalidate(ctx context.Context, programID, versionID int64) error {
	return c.client.Del(ctx, c.key(programID, versionID)).Err()
}
