package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the go-redis client behind the redis token store
type RedisClient struct{ *redis.Client }

// NewRedis dials lazily. Timeouts are short: a slow store degrades the session to
// signed out instead of stalling startup.
func NewRedis(addr, pass string, db int) *RedisClient {
	return &RedisClient{redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
