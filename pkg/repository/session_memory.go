package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/beam-cloud/mailchat/pkg/types"
)

const memorySessionLimit = 256

// SessionMemoryRepository implements SessionRepository with an in-process
// expirable LRU for local mode. Sessions do not survive restarts.
type SessionMemoryRepository struct {
	sessions *expirable.LRU[string, *types.Session]
}

func NewSessionMemoryRepository(ttl time.Duration) SessionRepository {
	return &SessionMemoryRepository{
		sessions: expirable.NewLRU[string, *types.Session](memorySessionLimit, nil, ttl),
	}
}

func (r *SessionMemoryRepository) Get(ctx context.Context, sessionID string) (*types.Session, error) {
	session, ok := r.sessions.Get(sessionID)
	if !ok {
		return nil, types.ErrSessionNotFound
	}

	// Copy so callers can mutate without racing other requests
	clone := *session
	clone.History = append([]types.ChatMessage(nil), session.History...)
	return &clone, nil
}

func (r *SessionMemoryRepository) Save(ctx context.Context, session *types.Session, ttl time.Duration) error {
	clone := *session
	clone.History = append([]types.ChatMessage(nil), session.History...)
	r.sessions.Add(session.ID, &clone)
	return nil
}

func (r *SessionMemoryRepository) Delete(ctx context.Context, sessionID string) error {
	r.sessions.Remove(sessionID)
	return nil
}
