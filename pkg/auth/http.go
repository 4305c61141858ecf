package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/beam-cloud/mailchat/pkg/oauth"
	"github.com/beam-cloud/mailchat/pkg/repository"
	"github.com/beam-cloud/mailchat/pkg/session"
	"github.com/beam-cloud/mailchat/pkg/types"
)

// TokenRefresher exchanges a refresh token for fresh credentials
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth.Credentials, error)
}

// SessionMiddleware resolves the session cookie into a chat session and adds
// it to the request context. Requests without a valid cookie get a fresh
// anonymous session and a new cookie; handlers decide what requires a
// mailbox credential. Access tokens nearing expiry are refreshed in place so
// long-lived sessions keep their mailbox access.
func SessionMiddleware(cookies *session.Manager, store repository.SessionRepository, refresher TokenRefresher) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			var sess *types.Session
			if claims := cookies.Get(c); claims != nil {
				stored, err := store.Get(ctx, claims.SessionID)
				switch {
				case err == nil:
					sess = stored
				case errors.Is(err, types.ErrSessionNotFound):
					// Expired server side, keep the identity from the cookie
					sess = &types.Session{ID: claims.SessionID, Email: claims.Email}
				default:
					log.Error().Err(err).Msg("failed to load session")
					return c.JSON(http.StatusInternalServerError, map[string]string{"error": "session lookup failed"})
				}
			}

			if sess == nil {
				sess = &types.Session{ID: uuid.NewString()}
				token, err := cookies.Create(sess.ID, "")
				if err != nil {
					log.Error().Err(err).Msg("failed to create session cookie")
					return c.JSON(http.StatusInternalServerError, map[string]string{"error": "session creation failed"})
				}
				cookies.Set(c, token)
			}

			refreshCredentials(ctx, sess, store, cookies, refresher)

			c.SetRequest(c.Request().WithContext(WithSession(ctx, sess)))
			return next(c)
		}
	}
}

// refreshCredentials renews the session's mailbox token when it is about to
// expire. A failed refresh leaves the current token in place; the turn then
// surfaces the upstream failure instead of a silent logout.
func refreshCredentials(ctx context.Context, sess *types.Session, store repository.SessionRepository, cookies *session.Manager, refresher TokenRefresher) {
	if refresher == nil || !sess.Authenticated() {
		return
	}

	current := &oauth.Credentials{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    sess.ExpiresAt,
	}
	if !oauth.NeedsRefresh(current) {
		return
	}

	creds, err := refresher.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		log.Warn().Str("session_id", sess.ID).Err(err).Msg("failed to refresh access token")
		return
	}

	sess.AccessToken = creds.AccessToken
	sess.ExpiresAt = creds.ExpiresAt
	if creds.RefreshToken != "" {
		sess.RefreshToken = creds.RefreshToken
	}

	if err := store.Save(ctx, sess, cookies.TTL()); err != nil {
		log.Warn().Str("session_id", sess.ID).Err(err).Msg("failed to persist refreshed session")
	}
	log.Debug().Str("session_id", sess.ID).Msg("refreshed mailbox access token")
}
