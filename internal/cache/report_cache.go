package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"emtsim/internal/model"

	"github.com/redis/go-redis/v9"
)

// ReportCache holds finished encounter reports in Redis. Reports outlive the
// session record so a trainee can review results after the encounter is gone.
type ReportCache interface {
	Set(ctx context.Context, report *model.SessionReport) error
	Get(ctx context.Context, sessionID string) (*model.SessionReport, error)
	Delete(ctx context.Context, sessionID string) error
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportCache(client *redis.Client) ReportCache {
	return &reportCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *reportCache) key(sessionID string) string {
	return fmt.Sprintf("report:%s", sessionID)
}

func (c *reportCache) Set(ctx context.Context, report *model.SessionReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(report.SessionID), data, c.ttl).Err()
}

func (c *reportCache) Get(ctx context.Context, sessionID string) (*model.SessionReport, error) {
	data, err := c.client.Get(ctx, c.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.SessionReport
	err = json.Unmarshal([]byte(data), &report)
	return &report, err
}

func (c *reportCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.key(sessionID)).Err()
}
