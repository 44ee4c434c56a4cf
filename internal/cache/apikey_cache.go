package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civiform/civiform-go/internal/model"
)

// ApiKeyCache keeps recently validated api keys out of the database on
// the hot read path. Entries are short-lived so retirement takes
// effect quickly.
type ApiKeyCache interface {
	Set(ctx context.Context, key *model.ApiKey) error
	Get(ctx context.Context, id string) (*model.ApiKey, error)
	Delete(ctx context.Context, id string) error
}

type apiKeyCache struct {
	client *redis.Client
}

func NewApiKeyCache(client *redis.Client) ApiKeyCache {
	return &apiKeyCache{
		client: client,
	}
}

func (c *apiKeyCache) Set(ctx context.Context, key *model.ApiKey) error {
	data, err := json.Marshal(key)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "apikey:"+key.ID, data, 5*time.Minute).Err()
}

func (c *apiKeyCache) Get(ctx context.Context, id string) (*model.ApiKey, error) {
	data, err := c.client.Get(ctx, "apikey:"+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var key model.ApiKey
	if err := json.Unmarshal([]byte(data), &key); err != nil {
		return nil, err
	}
	return &key, nil
}

func (c *apiKeyCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "apikey:"+id).Err()
}
