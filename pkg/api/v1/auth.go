package apiv1

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/beam-cloud/mailchat/pkg/auth"
	"github.com/beam-cloud/mailchat/pkg/oauth"
	"github.com/beam-cloud/mailchat/pkg/repository"
	"github.com/beam-cloud/mailchat/pkg/session"
	"github.com/beam-cloud/mailchat/pkg/types"
)

const stateCookieName = "oauth_state"

// AuthGroup handles the Google OAuth flow and session lifecycle
type AuthGroup struct {
	google   *oauth.GoogleClient
	sessions repository.SessionRepository
	cookies  *session.Manager
}

func NewAuthGroup(g *echo.Group, google *oauth.GoogleClient, sessions repository.SessionRepository, cookies *session.Manager) *AuthGroup {
	ag := &AuthGroup{google: google, sessions: sessions, cookies: cookies}

	g.GET("/login", ag.Login)
	g.GET("/callback", ag.Callback)
	g.POST("/logout", ag.Logout)
	g.GET("/status", ag.Status)

	return ag
}

// Login initiates the OAuth flow
func (ag *AuthGroup) Login(c echo.Context) error {
	if !ag.google.IsConfigured() {
		return ErrorResponse(c, http.StatusServiceUnavailable, "google oauth is not configured")
	}

	state := generateState()
	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Request().TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})

	return c.Redirect(http.StatusFound, ag.google.AuthorizeURL(state))
}

// Callback completes the OAuth flow: the mailbox credential is attached to
// the caller's existing session so chat history survives login.
func (ag *AuthGroup) Callback(c echo.Context) error {
	stateCookie, err := c.Cookie(stateCookieName)
	if err != nil || c.QueryParam("state") != stateCookie.Value {
		return ErrorResponse(c, http.StatusBadRequest, "invalid oauth state")
	}
	c.SetCookie(&http.Cookie{Name: stateCookieName, Path: "/", MaxAge: -1})

	if errParam := c.QueryParam("error"); errParam != "" {
		return ErrorResponse(c, http.StatusBadRequest, "oauth error: "+errParam)
	}

	code := c.QueryParam("code")
	if code == "" {
		return ErrorResponse(c, http.StatusBadRequest, "missing authorization code")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	creds, err := ag.google.Exchange(ctx, code)
	if err != nil {
		log.Error().Err(err).Msg("oauth token exchange failed")
		return ErrorResponse(c, http.StatusBadGateway, "token exchange failed")
	}

	user, err := ag.google.FetchUser(ctx, creds.AccessToken)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch google user info")
		return ErrorResponse(c, http.StatusBadGateway, "failed to get user info")
	}

	if !ag.google.Allowed(user.Email) {
		return ErrorResponse(c, http.StatusForbidden, "email not authorized: "+user.Email)
	}

	sess := auth.SessionFromContext(c.Request().Context())
	if sess == nil {
		sess = &types.Session{ID: uuid.NewString()}
	}
	sess.Email = user.Email
	sess.AccessToken = creds.AccessToken
	sess.ExpiresAt = creds.ExpiresAt
	if creds.RefreshToken != "" {
		sess.RefreshToken = creds.RefreshToken
	}

	if err := ag.sessions.Save(ctx, sess, ag.cookies.TTL()); err != nil {
		log.Error().Err(err).Msg("failed to persist session")
		return ErrorResponse(c, http.StatusInternalServerError, "failed to create session")
	}

	token, err := ag.cookies.Create(sess.ID, sess.Email)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, "failed to create session")
	}
	ag.cookies.Set(c, token)

	log.Info().Str("email", user.Email).Msg("mailbox connected")
	return c.Redirect(http.StatusFound, "/")
}

// Logout deletes the server-side session and clears the cookie
func (ag *AuthGroup) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if sess := auth.SessionFromContext(ctx); sess != nil {
		if err := ag.sessions.Delete(ctx, sess.ID); err != nil {
			log.Warn().Str("session_id", sess.ID).Err(err).Msg("failed to delete session")
		}
	}
	ag.cookies.Clear(c)
	return SuccessResponse(c, nil)
}

type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
}

// Status reports whether the caller has a connected mailbox
func (ag *AuthGroup) Status(c echo.Context) error {
	status := AuthStatus{}
	if sess := auth.SessionFromContext(c.Request().Context()); sess != nil && sess.Authenticated() {
		status.Authenticated = true
		status.Email = sess.Email
	}
	return SuccessResponse(c, status)
}

func generateState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
