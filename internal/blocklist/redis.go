// Package blocklist stores the IDs of revoked access tokens until their
// natural expiry. Logout writes an entry; the auth middleware reads it.
// Entries expire with the token, so redis TTL does all the cleanup.
package blocklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked:"

type RedisBlocklist struct {
	client *redis.Client
	ctx    context.Context
}

type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func NewRedisBlocklist(config *Config) *RedisBlocklist {
	if config == nil {
		config = DefaultConfig()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	return &RedisBlocklist{
		client: rdb,
		ctx:    context.Background(),
	}
}

// Revoke marks a token ID as revoked until the token's own expiry. Tokens
// that are already past expiry need no entry.
func (b *RedisBlocklist) Revoke(tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(b.ctx, 3*time.Second)
	defer cancel()

	if err := b.client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

func (b *RedisBlocklist) IsRevoked(tokenID string) (bool, error) {
	ctx, cancel := context.WithTimeout(b.ctx, 3*time.Second)
	defer cancel()

	result, err := b.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}

	return result > 0, nil
}

func (b *RedisBlocklist) Health() error {
	ctx, cancel := context.WithTimeout(b.ctx, 2*time.Second)
	defer cancel()

	return b.client.Ping(ctx).Err()
}

func (b *RedisBlocklist) Close() error {
	return b.client.Close()
}
