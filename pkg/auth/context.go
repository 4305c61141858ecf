package auth

import (
	"context"

	"github.com/beam-cloud/mailchat/pkg/types"
)

type ctxKey int

const sessionKey ctxKey = iota

// WithSession stores the resolved chat session on the request context
func WithSession(ctx context.Context, session *types.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext returns the chat session resolved by the middleware,
// or nil when none was attached.
func SessionFromContext(ctx context.Context) *types.Session {
	session, _ := ctx.Value(sessionKey).(*types.Session)
	return session
}
