package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/beam-cloud/mailchat/pkg/common"
	"github.com/beam-cloud/mailchat/pkg/types"
)

// SessionRedisRepository implements SessionRepository using Redis
type SessionRedisRepository struct {
	rdb *common.RedisClient
}

func NewSessionRedisRepository(rdb *common.RedisClient) SessionRepository {
	return &SessionRedisRepository{rdb: rdb}
}

func (r *SessionRedisRepository) Get(ctx context.Context, sessionID string) (*types.Session, error) {
	raw, err := r.rdb.Get(ctx, common.Keys.SessionState(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session types.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, types.ErrSessionNotFound
	}
	return &session, nil
}

func (r *SessionRedisRepository) Save(ctx context.Context, session *types.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, common.Keys.SessionState(session.ID), payload, ttl).Err()
}

func (r *SessionRedisRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, common.Keys.SessionState(sessionID)).Err()
}
