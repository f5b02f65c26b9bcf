// Package redis holds the Redis-backed response cache and alert deduper.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	responsePrefix = "drs:resp:"
	alertPrefix    = "drs:alert:"
)

// Connect parses a redis:// URL and verifies the server answers a PING.
func Connect(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// ResponseCache stores serialized API responses with a fixed TTL.
type ResponseCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache whose entries expire after ttl.
func NewResponseCache(client *goredis.Client, ttl time.Duration) *ResponseCache {
	return &ResponseCache{client: client, ttl: ttl}
}

// Get returns the cached value for key and whether it was present.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, responsePrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return b, true, nil
}

// Set stores value under key until the TTL elapses.
func (c *ResponseCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, responsePrefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *ResponseCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// AlertDeduper remembers which alert IDs were already published. IDs are
// forgotten after the TTL so a long-running event can resurface.
type AlertDeduper struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewAlertDeduper creates a deduper whose marks expire after ttl.
func NewAlertDeduper(client *goredis.Client, ttl time.Duration) *AlertDeduper {
	return &AlertDeduper{client: client, ttl: ttl}
}

// Unseen returns the IDs that have not been marked, in input order.
func (d *AlertDeduper) Unseen(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := d.client.Pipeline()
	cmds := make([]*goredis.IntCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Exists(ctx, alertPrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("check seen alerts: %w", err)
	}

	unseen := make([]string, 0, len(ids))
	for i, cmd := range cmds {
		if cmd.Val() == 0 {
			unseen = append(unseen, ids[i])
		}
	}
	return unseen, nil
}

// MarkSeen records the IDs as published.
func (d *AlertDeduper) MarkSeen(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	pipe := d.client.TxPipeline()
	for _, id := range ids {
		pipe.Set(ctx, alertPrefix+id, 1, d.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mark alerts seen: %w", err)
	}
	return nil
}
