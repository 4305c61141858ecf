// Package session issues and validates the signed cookies that tie a browser
// to its server-side chat session.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const cookieName = "mailchat_session"

// Claims contains the JWT claims for a chat session cookie. The cookie only
// carries the session id and display email; tokens and history live in the
// session store.
type Claims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Manager handles JWT session cookie creation and validation
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a new session manager
func NewManager(secret string, ttl time.Duration) *Manager {
	if secret == "" {
		// Generate random key (sessions won't persist across restarts)
		b := make([]byte, 32)
		rand.Read(b)
		secret = hex.EncodeToString(b)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured session lifetime
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create generates a new signed session token
func (m *Manager) Create(sessionID, email string) (string, error) {
	claims := Claims{
		SessionID: sessionID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "mailchat",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Validate parses and validates a session token
func (m *Manager) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// Get retrieves and validates the session claims from request cookies
func (m *Manager) Get(c echo.Context) *Claims {
	cookie, err := c.Cookie(cookieName)
	if err != nil {
		return nil
	}
	claims, err := m.Validate(cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}

// Set stores the session token in a cookie
func (m *Manager) Set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Request().TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
}

// Clear removes the session cookie
func (m *Manager) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:   cookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
