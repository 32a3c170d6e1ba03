package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/page-delivery-service/internal/config"
)

// Redis wraps the go-redis client. It backs the render-output cache.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// GetRender returns a cached render document, or redis.Nil when absent.
func (r *Redis) GetRender(ctx context.Context, scopeID, pageID, tier string) ([]byte, error) {
	if r == nil || r.Client == nil {
		return nil, redis.Nil
	}
	return r.Client.Get(ctx, renderKey(scopeID, pageID, tier)).Bytes()
}

// SetRender stores a render document for the given TTL.
func (r *Redis) SetRender(ctx context.Context, scopeID, pageID, tier string, body []byte, ttl time.Duration) error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Set(ctx, renderKey(scopeID, pageID, tier), body, ttl).Err()
}

func renderKey(scopeID, pageID, tier string) string {
	return fmt.Sprintf("render:%s:%s:%s", scopeID, pageID, tier)
}
