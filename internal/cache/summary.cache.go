// internal/cache/summary.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfolio-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	summaryKeyPrefix = "portfolio:summary:"
	summaryTTL       = 30 * time.Second
)

// SummaryCache stores rendered portfolio summaries in Redis with a short
// TTL. Mutating operations drop the entry so readers never see a stale net
// worth for longer than one request.
type SummaryCache struct {
	client *redis.Client
}

func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client}
}

func summaryKey(portfolioID string) string {
	return summaryKeyPrefix + portfolioID
}

// Get returns the cached summary or (nil, nil) on a miss.
func (c *SummaryCache) Get(ctx context.Context, portfolioID string) (*domain.PortfolioSummary, error) {
	val, err := c.client.Get(ctx, summaryKey(portfolioID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read summary cache: %w", err)
	}

	var summary domain.PortfolioSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, fmt.Errorf("failed to decode cached summary: %w", err)
	}
	return &summary, nil
}

func (c *SummaryCache) Set(ctx context.Context, portfolioID string, s *domain.PortfolioSummary) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(portfolioID), data, summaryTTL).Err(); err != nil {
		return fmt.Errorf("failed to write summary cache: %w", err)
	}
	return nil
}

func (c *SummaryCache) Invalidate(ctx context.Context, portfolioID string) error {
	if err := c.client.Del(ctx, summaryKey(portfolioID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary cache: %w", err)
	}
	return nil
}
