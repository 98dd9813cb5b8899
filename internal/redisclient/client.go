package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetMetricScores returns the popularity score per product for a metric
// (bestsellers, most_viewed, reviews_count, top_rated). An empty or
// missing sorted set means the metric feed has not been populated and
// the provider is treated as unavailable.
func (c *Client) GetMetricScores(ctx context.Context, metric string, productIDs []int64) (map[int64]float64, error) {
	key := fmt.Sprintf("metric:%s", metric)

	exists, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("metric lookup failed: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("metric %s not populated", metric)
	}

	pipe := c.rdb.Pipeline()
	cmds := make([]*redis.FloatCmd, len(productIDs))
	for i, id := range productIDs {
		cmds[i] = pipe.ZScore(ctx, key, fmt.Sprintf("%d", id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("metric scores fetch failed: %w", err)
	}

	scores := make(map[int64]float64, len(productIDs))
	for i, cmd := range cmds {
		score, err := cmd.Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		scores[productIDs[i]] = score
	}

	return scores, nil
}

// SetMetricScore updates a product's score for a metric feed
func (c *Client) SetMetricScore(ctx context.Context, metric string, productID int64, score float64) error {
	key := fmt.Sprintf("metric:%s", metric)
	return c.rdb.ZAdd(ctx, key, &redis.Z{Score: score, Member: fmt.Sprintf("%d", productID)}).Err()
}

// CacheRelatedItems stores the computed related-items payload for a cart
func (c *Client) CacheRelatedItems(ctx context.Context, cartID int64, payload interface{}, ttl time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal related items payload: %w", err)
	}
	return c.rdb.Set(ctx, relatedItemsKey(cartID), data, ttl).Err()
}

// GetCachedRelatedItems retrieves a cached related-items payload.
// Returns (nil, nil) on a cache miss.
func (c *Client) GetCachedRelatedItems(ctx context.Context, cartID int64) ([]byte, error) {
	data, err := c.rdb.Get(ctx, relatedItemsKey(cartID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// InvalidateRelatedItems drops the cached payload for a cart
func (c *Client) InvalidateRelatedItems(ctx context.Context, cartID int64) error {
	return c.rdb.Del(ctx, relatedItemsKey(cartID)).Err()
}

func relatedItemsKey(cartID int64) string {
	return fmt.Sprintf("crosssell:cart:%d", cartID)
}
