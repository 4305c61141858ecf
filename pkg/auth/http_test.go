package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beam-cloud/mailchat/pkg/oauth"
	"github.com/beam-cloud/mailchat/pkg/repository"
	"github.com/beam-cloud/mailchat/pkg/session"
	"github.com/beam-cloud/mailchat/pkg/types"
)

type stubRefresher struct {
	calls int
	creds *oauth.Credentials
	err   error
}

func (r *stubRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth.Credentials, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.creds, nil
}

func newSessionRequest(t *testing.T, cookies *session.Manager, sessionID, email string) *http.Request {
	t.Helper()

	token, err := cookies.Create(sessionID, email)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "mailchat_session", Value: token})
	return req
}

func runMiddleware(t *testing.T, cookies *session.Manager, store repository.SessionRepository, refresher TokenRefresher, req *http.Request) *types.Session {
	t.Helper()

	var seen *types.Session
	handler := SessionMiddleware(cookies, store, refresher)(func(c echo.Context) error {
		seen = SessionFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	return seen
}

func TestSessionMiddlewareRefreshesExpiringToken(t *testing.T) {
	ctx := context.Background()
	cookies := session.NewManager("test-secret", time.Hour)
	store := repository.NewSessionMemoryRepository(time.Hour)

	soon := time.Now().Add(time.Minute)
	require.NoError(t, store.Save(ctx, &types.Session{
		ID:           "sess-1",
		Email:        "user@example.com",
		AccessToken:  "stale-token",
		RefreshToken: "refresh-1",
		ExpiresAt:    &soon,
	}, time.Hour))

	later := time.Now().Add(time.Hour)
	refresher := &stubRefresher{creds: &oauth.Credentials{
		AccessToken:  "fresh-token",
		RefreshToken: "refresh-1",
		ExpiresAt:    &later,
	}}

	req := newSessionRequest(t, cookies, "sess-1", "user@example.com")
	seen := runMiddleware(t, cookies, store, refresher, req)

	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, "fresh-token", seen.AccessToken)
	require.NotNil(t, seen.ExpiresAt)
	assert.True(t, seen.ExpiresAt.After(soon))

	stored, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", stored.AccessToken)
	assert.Equal(t, "refresh-1", stored.RefreshToken)
}

func TestSessionMiddlewareSkipsRefreshForValidToken(t *testing.T) {
	ctx := context.Background()
	cookies := session.NewManager("test-secret", time.Hour)
	store := repository.NewSessionMemoryRepository(time.Hour)

	later := time.Now().Add(time.Hour)
	require.NoError(t, store.Save(ctx, &types.Session{
		ID:           "sess-2",
		Email:        "user@example.com",
		AccessToken:  "live-token",
		RefreshToken: "refresh-2",
		ExpiresAt:    &later,
	}, time.Hour))

	refresher := &stubRefresher{}
	req := newSessionRequest(t, cookies, "sess-2", "user@example.com")
	seen := runMiddleware(t, cookies, store, refresher, req)

	assert.Equal(t, 0, refresher.calls)
	assert.Equal(t, "live-token", seen.AccessToken)
}

func TestSessionMiddlewareKeepsTokenWhenRefreshFails(t *testing.T) {
	ctx := context.Background()
	cookies := session.NewManager("test-secret", time.Hour)
	store := repository.NewSessionMemoryRepository(time.Hour)

	soon := time.Now().Add(time.Minute)
	require.NoError(t, store.Save(ctx, &types.Session{
		ID:           "sess-3",
		Email:        "user@example.com",
		AccessToken:  "stale-token",
		RefreshToken: "refresh-3",
		ExpiresAt:    &soon,
	}, time.Hour))

	refresher := &stubRefresher{err: errors.New("token endpoint unavailable")}
	req := newSessionRequest(t, cookies, "sess-3", "user@example.com")
	seen := runMiddleware(t, cookies, store, refresher, req)

	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, "stale-token", seen.AccessToken)
}

func TestSessionMiddlewareIssuesAnonymousSession(t *testing.T) {
	cookies := session.NewManager("test-secret", time.Hour)
	store := repository.NewSessionMemoryRepository(time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	seen := runMiddleware(t, cookies, store, nil, req)

	assert.NotEmpty(t, seen.ID)
	assert.False(t, seen.Authenticated())
}
