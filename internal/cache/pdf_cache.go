package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PDFCache keeps rendered report PDFs next to the report itself so repeat
// downloads skip the render. Raw bytes, same TTL window as the report.
type PDFCache interface {
	Set(ctx context.Context, sessionID string, data []byte) error
	Get(ctx context.Context, sessionID string) ([]byte, error)
	Delete(ctx context.Context, sessionID string) error
}

type pdfCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPDFCache creates a new PDF cache
func NewPDFCache(client *redis.Client) PDFCache {
	return &pdfCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *pdfCache) key(sessionID string) string {
	return fmt.Sprintf("report:%s:pdf", sessionID)
}

func (c *pdfCache) Set(ctx context.Context, sessionID string, data []byte) error {
	return c.client.Set(ctx, c.key(sessionID), data, c.ttl).Err()
}

func (c *pdfCache) Get(ctx context.Context, sessionID string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.key(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *pdfCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.key(sessionID)).Err()
}
