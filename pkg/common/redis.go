package common

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/beam-cloud/mailchat/pkg/types"
)

// RedisClient wraps a universal go-redis client so repositories can depend on
// one concrete type regardless of single vs cluster mode.
type RedisClient struct {
	redis.UniversalClient
}

type RedisClientOption func(*redis.UniversalOptions)

// WithClientName sets the client name reported to the Redis server
func WithClientName(name string) RedisClientOption {
	return func(opts *redis.UniversalOptions) {
		opts.ClientName = name
	}
}

// NewRedisClient creates a Redis client from config and verifies connectivity
func NewRedisClient(config types.RedisConfig, options ...RedisClientOption) (*RedisClient, error) {
	opts := &redis.UniversalOptions{
		Addrs:           config.Addrs,
		Username:        config.Username,
		Password:        config.Password,
		ClientName:      config.ClientName,
		PoolSize:        config.PoolSize,
		MinIdleConns:    config.MinIdleConns,
		MaxIdleConns:    config.MaxIdleConns,
		ConnMaxIdleTime: config.ConnMaxIdleTime,
		ConnMaxLifetime: config.ConnMaxLifetime,
		DialTimeout:     config.DialTimeout,
		ReadTimeout:     config.ReadTimeout,
		WriteTimeout:    config.WriteTimeout,
		MaxRedirects:    config.MaxRedirects,
		MaxRetries:      config.MaxRetries,
		RouteByLatency:  config.RouteByLatency,
	}

	if config.EnableTLS {
		opts.TLSConfig = &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		}
	}

	for _, opt := range options {
		opt(opts)
	}

	var client redis.UniversalClient
	if config.Mode == types.RedisModeCluster {
		client = redis.NewClusterClient(opts.Cluster())
	} else {
		client = redis.NewUniversalClient(opts)
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisClient{UniversalClient: client}, nil
}
