package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/arcade-hub-api/pkg/config"
)

// Redis is the shared connection behind the public payload cache and the live
// change feed. Cache keys live under KeyPrefix; changes fan out on Channel.
type Redis struct {
	*redis.Client
	KeyPrefix string
	Channel   string
}

// NewRedis dials Redis and verifies it answers within the dial timeout.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: timeout,
		ClientName:  "arcade-hub",
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", client.Options().Addr, err)
	}

	return Wrap(client, cfg), nil
}

// Wrap attaches the configured key prefix and change channel to an existing client.
func Wrap(client *redis.Client, cfg config.RedisConfig) *Redis {
	channel := cfg.ChangesChannel
	if channel == "" {
		channel = "arcade:changes"
	}
	return &Redis{Client: client, KeyPrefix: normalizePrefix(cfg.KeyPrefix), Channel: channel}
}

// Healthy reports whether Redis still answers. Used by the readiness probe.
func (r *Redis) Healthy(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// normalizePrefix makes sure a non-empty prefix ends with the ':' separator.
func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.HasSuffix(prefix, ":") {
		return prefix
	}
	return prefix + ":"
}
