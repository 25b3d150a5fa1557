package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/you/adminconsole/domain"
)

// TokenRedisRepository implements domain.TokenStore using Redis
type TokenRedisRepository struct {
	client *redis.Client
	key    string
}

// NewTokenRedisRepository creates a Redis-backed token store; the stored key is prefix+key
func NewTokenRedisRepository(client *redis.Client, prefix, key string) domain.TokenStore {
	return &TokenRedisRepository{
		client: client,
		key:    prefix + key,
	}
}

// Save implements domain.TokenStore
func (r *TokenRedisRepository) Save(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, r.key, token, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Load implements domain.TokenStore
func (r *TokenRedisRepository) Load(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return token, nil
}

// Clear implements domain.TokenStore
func (r *TokenRedisRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
