package apiv1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beam-cloud/mailchat/pkg/auth"
	"github.com/beam-cloud/mailchat/pkg/chat"
	"github.com/beam-cloud/mailchat/pkg/gmail"
	"github.com/beam-cloud/mailchat/pkg/llm"
	"github.com/beam-cloud/mailchat/pkg/session"
	"github.com/beam-cloud/mailchat/pkg/types"
)

type stubEmailCache struct{}

func (s *stubEmailCache) GetByQuery(ctx context.Context, identity, query string) ([]types.Email, error) {
	return nil, types.ErrCacheMiss
}

func (s *stubEmailCache) SetByQuery(ctx context.Context, identity, query string, emails []types.Email, ttl time.Duration) error {
	return nil
}

func (s *stubEmailCache) GetByCount(ctx context.Context, identity string, count int) ([]types.Email, error) {
	return nil, types.ErrCacheMiss
}

func (s *stubEmailCache) SetByCount(ctx context.Context, identity string, count int, emails []types.Email, ttl time.Duration) error {
	return nil
}

type stubMailboxFetcher struct{}

func (s *stubMailboxFetcher) Fetch(ctx context.Context, token string, opts gmail.FetchOptions) (*types.FetchResult, error) {
	return &types.FetchResult{}, nil
}

type stubResponder struct {
	reply string
}

func (s *stubResponder) Respond(ctx context.Context, message string, emails []types.Email, history []types.ChatMessage, metaNotes []string) (*llm.Response, error) {
	return &llm.Response{Text: s.reply, UserTurn: message}, nil
}

type recordingSessionStore struct {
	saves int
}

func (r *recordingSessionStore) Get(ctx context.Context, sessionID string) (*types.Session, error) {
	return nil, types.ErrSessionNotFound
}

func (r *recordingSessionStore) Save(ctx context.Context, sess *types.Session, ttl time.Duration) error {
	r.saves++
	return nil
}

func (r *recordingSessionStore) Delete(ctx context.Context, sessionID string) error {
	return nil
}

func postChat(t *testing.T, cg *ChatGroup, sess *types.Session, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if sess != nil {
		req = req.WithContext(auth.WithSession(req.Context(), sess))
	}
	rec := httptest.NewRecorder()
	require.NoError(t, cg.Chat(e.NewContext(req, rec)))
	return rec
}

func newTestChatGroup(store *recordingSessionStore, reply string) *ChatGroup {
	service := chat.NewService(&stubEmailCache{}, &stubMailboxFetcher{}, &stubResponder{reply: reply}, types.ChatConfig{})
	return &ChatGroup{
		service:  service,
		sessions: store,
		cookies:  session.NewManager("test-secret", time.Hour),
	}
}

func TestChatUnauthenticatedMailboxIntent(t *testing.T) {
	store := &recordingSessionStore{}
	cg := newTestChatGroup(store, "unused")

	sess := &types.Session{ID: "anon-1"}
	rec := postChat(t, cg, sess, `{"message": "summarize my inbox"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp struct {
		Success bool            `json:"success"`
		Error   string          `json:"error"`
		Data    map[string]bool `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "connect your Google account")
	assert.True(t, resp.Data["needsAuth"])

	// History must not be persisted for a failed turn
	assert.Equal(t, 0, store.saves)
	assert.Empty(t, sess.History)
}

func TestChatGeneralMessageWithoutAuth(t *testing.T) {
	store := &recordingSessionStore{}
	cg := newTestChatGroup(store, "hello there")

	sess := &types.Session{ID: "anon-2"}
	rec := postChat(t, cg, sess, `{"message": "tell me a joke"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Reply            string `json:"reply"`
			UsedEmailContext bool   `json:"usedEmailContext"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "hello there", resp.Data.Reply)
	assert.False(t, resp.Data.UsedEmailContext)
	assert.Equal(t, 1, store.saves)
}

func TestChatEmptyMessageRejected(t *testing.T) {
	store := &recordingSessionStore{}
	cg := newTestChatGroup(store, "unused")

	rec := postChat(t, cg, &types.Session{ID: "anon-3"}, `{"message": "   "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "message required", resp.Error)
}
