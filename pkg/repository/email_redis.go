package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/beam-cloud/mailchat/pkg/common"
	"github.com/beam-cloud/mailchat/pkg/types"
)

// EmailRedisRepository implements EmailCacheRepository using Redis.
// Values are JSON arrays of Email; a payload that fails to decode is treated
// as a miss, never as an error.
type EmailRedisRepository struct {
	rdb *common.RedisClient
}

func NewEmailRedisRepository(rdb *common.RedisClient) EmailCacheRepository {
	return &EmailRedisRepository{rdb: rdb}
}

func (r *EmailRedisRepository) GetByQuery(ctx context.Context, identity, query string) ([]types.Email, error) {
	return r.get(ctx, common.Keys.EmailByQuery(identity, query))
}

func (r *EmailRedisRepository) SetByQuery(ctx context.Context, identity, query string, emails []types.Email, ttl time.Duration) error {
	return r.set(ctx, common.Keys.EmailByQuery(identity, query), emails, ttl)
}

func (r *EmailRedisRepository) GetByCount(ctx context.Context, identity string, count int) ([]types.Email, error) {
	emails, err := r.get(ctx, common.Keys.EmailByCount(identity, count))
	if err != nil {
		return nil, err
	}

	// A shorter cached set cannot satisfy the request; refetch instead
	if len(emails) < count {
		return nil, types.ErrCacheMiss
	}
	return emails, nil
}

func (r *EmailRedisRepository) SetByCount(ctx context.Context, identity string, count int, emails []types.Email, ttl time.Duration) error {
	return r.set(ctx, common.Keys.EmailByCount(identity, count), emails, ttl)
}

func (r *EmailRedisRepository) get(ctx context.Context, key string) ([]types.Email, error) {
	raw, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var emails []types.Email
	if err := json.Unmarshal([]byte(raw), &emails); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("discarding malformed cache entry")
		return nil, types.ErrCacheMiss
	}
	return emails, nil
}

func (r *EmailRedisRepository) set(ctx context.Context, key string, emails []types.Email, ttl time.Duration) error {
	payload, err := json.Marshal(emails)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, key, payload, ttl).Err()
}
