package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meshlog/core/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrUnavailable marks failures to reach or initialize the underlying store.
// Callers surface it as-is; no retry happens at this layer.
var ErrUnavailable = errors.New("kv store unavailable")

// Client wraps go-redis for the application.
type Client struct {
	rdb *redis.Client
}

// Connect creates a Redis client and verifies connectivity.
func Connect(url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redis url: %v", ErrUnavailable, err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: ping failed: %v", ErrUnavailable, err)
	}

	return &Client{rdb: rdb}, nil
}

// Raw returns the underlying redis.Client for advanced usage.
func (c *Client) Raw() *redis.Client { return c.rdb }

// Ping verifies the store is still reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Partition returns a region-scoped view of the client. All keys read or
// written through the view carry the region prefix, so partitions never see
// each other's data. Created once per region at startup and reused.
func (c *Client) Partition(region models.Region) *Partition {
	return &Partition{rdb: c.rdb, prefix: "mesh:" + string(region) + ":"}
}

// Partition is a Client scoped to a single region.
type Partition struct {
	rdb    *redis.Client
	prefix string
}

// Get retrieves a string value. An expired or never-written key returns
// found=false with a nil error; only transport failures return an error.
func (p *Partition) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := p.rdb.Get(ctx, p.prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", ErrUnavailable, key, err)
	}
	return val, true, nil
}

// Put stores a value with a TTL (0 = no expiry).
func (p *Partition) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := p.rdb.Set(ctx, p.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrUnavailable, key, err)
	}
	return nil
}
