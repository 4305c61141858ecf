package repository

import (
	"context"
	"time"

	"github.com/beam-cloud/mailchat/pkg/types"
)

// EmailCacheRepository stores fetched email sets keyed per user, either by a
// derived search query or by a requested result count. Entries expire on
// their own; callers decide when to bypass reads. A count-scoped lookup only
// hits when the stored set is at least as long as the currently desired
// count.
type EmailCacheRepository interface {
	GetByQuery(ctx context.Context, identity, query string) ([]types.Email, error)
	SetByQuery(ctx context.Context, identity, query string, emails []types.Email, ttl time.Duration) error
	GetByCount(ctx context.Context, identity string, count int) ([]types.Email, error)
	SetByCount(ctx context.Context, identity string, count int, emails []types.Email, ttl time.Duration) error
}

// SessionRepository persists per-user session state: mailbox identity,
// access credential, and bounded chat history.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*types.Session, error)
	Save(ctx context.Context, session *types.Session, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}
