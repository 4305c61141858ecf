package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/beam-cloud/mailchat/pkg/common"
	"github.com/beam-cloud/mailchat/pkg/types"
)

const memoryCacheSize = 1024

// EmailMemoryRepository implements EmailCacheRepository with an in-process
// expirable LRU, used in local mode when Redis is not configured. The TTL is
// fixed at construction; per-call TTLs are ignored.
type EmailMemoryRepository struct {
	cache *expirable.LRU[string, []types.Email]
}

func NewEmailMemoryRepository(ttl time.Duration) EmailCacheRepository {
	return &EmailMemoryRepository{
		cache: expirable.NewLRU[string, []types.Email](memoryCacheSize, nil, ttl),
	}
}

func (r *EmailMemoryRepository) GetByQuery(ctx context.Context, identity, query string) ([]types.Email, error) {
	emails, ok := r.cache.Get(common.Keys.EmailByQuery(identity, query))
	if !ok {
		return nil, types.ErrCacheMiss
	}
	return emails, nil
}

func (r *EmailMemoryRepository) SetByQuery(ctx context.Context, identity, query string, emails []types.Email, ttl time.Duration) error {
	r.cache.Add(common.Keys.EmailByQuery(identity, query), emails)
	return nil
}

func (r *EmailMemoryRepository) GetByCount(ctx context.Context, identity string, count int) ([]types.Email, error) {
	emails, ok := r.cache.Get(common.Keys.EmailByCount(identity, count))
	if !ok || len(emails) < count {
		return nil, types.ErrCacheMiss
	}
	return emails, nil
}

func (r *EmailMemoryRepository) SetByCount(ctx context.Context, identity string, count int, emails []types.Email, ttl time.Duration) error {
	r.cache.Add(common.Keys.EmailByCount(identity, count), emails)
	return nil
}
