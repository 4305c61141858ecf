package apiv1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/beam-cloud/mailchat/pkg/auth"
	"github.com/beam-cloud/mailchat/pkg/chat"
	"github.com/beam-cloud/mailchat/pkg/repository"
	"github.com/beam-cloud/mailchat/pkg/session"
	"github.com/beam-cloud/mailchat/pkg/types"
)

// ChatGroup handles the chat endpoint
type ChatGroup struct {
	service  *chat.Service
	sessions repository.SessionRepository
	cookies  *session.Manager
}

func NewChatGroup(g *echo.Group, service *chat.Service, sessions repository.SessionRepository, cookies *session.Manager) *ChatGroup {
	cg := &ChatGroup{service: service, sessions: sessions, cookies: cookies}
	g.POST("", cg.Chat)
	return cg
}

type ChatRequest struct {
	Message      string `json:"message"`
	ForceRefresh bool   `json:"forceRefresh"`
}

type ChatResponse struct {
	Reply            string `json:"reply"`
	UsedEmailContext bool   `json:"usedEmailContext"`
}

func (cg *ChatGroup) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return ErrorResponse(c, http.StatusBadRequest, "invalid request")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return ErrorResponse(c, http.StatusBadRequest, "message required")
	}

	sess := auth.SessionFromContext(ctx)
	if sess == nil {
		return ErrorResponse(c, http.StatusInternalServerError, "no session")
	}

	result, err := cg.service.HandleTurn(ctx, chat.TurnRequest{
		Message:      req.Message,
		ForceRefresh: req.ForceRefresh,
	}, sess)
	if err != nil {
		if errors.Is(err, types.ErrAuthRequired) {
			return c.JSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "connect your Google account to ask about your inbox",
				Data:    map[string]bool{"needsAuth": true},
			})
		}
		log.Error().Str("session_id", sess.ID).Err(err).Msg("chat turn failed")
		return ErrorResponse(c, http.StatusInternalServerError, "failed to process message")
	}

	// Persist history only after a successful turn
	if err := cg.sessions.Save(ctx, sess, cg.cookies.TTL()); err != nil {
		log.Warn().Str("session_id", sess.ID).Err(err).Msg("failed to save session")
	}

	return SuccessResponse(c, ChatResponse{
		Reply:            result.Text,
		UsedEmailContext: result.UsedMailboxContext,
	})
}
