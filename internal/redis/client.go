package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// connectTimeout bounds the startup ping so a dead Redis fails the
// process quickly instead of hanging boot.
const connectTimeout = 5 * time.Second

// Client is the single shared Redis handle. Sessions, the bookmark
// cache and the event stream all share its connection pool.
type Client struct {
	*redis.Client
}

// NewClient parses a redis:// URL, opens the client and verifies the
// connection with a bounded ping. A client that cannot reach Redis is
// never returned.
func NewClient(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{Client: client}, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
