package cache

import (
	"context"
	"encoding/json"
	"time"

	"emtsim/internal/model"

	"github.com/redis/go-redis/v9"
)

// SessionCache holds active encounter sessions in Redis. The record carries
// the start timestamp, so elapsed-time math survives a process restart; a
// missing key reads as (nil, nil).
type SessionCache interface {
	Set(ctx context.Context, session *model.ScenarioSession) error
	Get(ctx context.Context, id string) (*model.ScenarioSession, error)
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    2 * time.Hour,
	}
}

func (c *sessionCache) Set(ctx context.Context, session *model.ScenarioSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "session:"+session.ID, data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.ScenarioSession, error) {
	data, err := c.client.Get(ctx, "session:"+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.ScenarioSession
	err = json.Unmarshal([]byte(data), &session)
	return &session, err
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "session:"+id).Err()
}
