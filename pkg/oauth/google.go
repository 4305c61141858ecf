// Package oauth implements the Google OAuth flow that grants the assistant
// read-only Gmail access.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/beam-cloud/mailchat/pkg/types"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var gmailScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// GoogleUser contains user info from Google
type GoogleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Credentials holds the tokens returned by a completed OAuth exchange
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}

// GoogleClient handles the Google OAuth flow for mailbox access
type GoogleClient struct {
	config     *oauth2.Config
	allowed    []string
	httpClient *http.Client
}

// NewGoogleClient creates a new Google OAuth client from config
func NewGoogleClient(cfg types.GoogleOAuthConfig) *GoogleClient {
	return &GoogleClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       gmailScopes,
			Endpoint:     google.Endpoint,
		},
		allowed:    cfg.AllowedEmails,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// IsConfigured returns true if Google OAuth is configured
func (g *GoogleClient) IsConfigured() bool {
	return g.config.ClientID != "" && g.config.ClientSecret != "" && g.config.RedirectURL != ""
}

// AuthorizeURL generates the Google OAuth authorization URL.
// Offline access with forced consent guarantees a refresh token even when
// the user authorized before.
func (g *GoogleClient) AuthorizeURL(state string) string {
	return g.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent select_account"),
	)
}

// Exchange exchanges an authorization code for tokens
func (g *GoogleClient) Exchange(ctx context.Context, code string) (*Credentials, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange failed: %w", err)
	}

	creds := &Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		creds.ExpiresAt = &token.Expiry
	}

	return creds, nil
}

// FetchUser gets the authenticated user's profile from Google
func (g *GoogleClient) FetchUser(ctx context.Context, accessToken string) (*GoogleUser, error) {
	client := g.config.Client(ctx, &oauth2.Token{AccessToken: accessToken})
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: status %d", resp.StatusCode)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Allowed reports whether the email passes the allow list. An empty list
// allows everyone.
func (g *GoogleClient) Allowed(email string) bool {
	return len(g.allowed) == 0 || slices.Contains(g.allowed, email)
}

// Refresh refreshes an access token using a refresh token
func (g *GoogleClient) Refresh(ctx context.Context, refreshToken string) (*Credentials, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("no refresh token")
	}

	data := url.Values{
		"client_id":     {g.config.ClientID},
		"client_secret": {g.config.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", google.Endpoint.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("refresh failed: status %d", resp.StatusCode)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	expiry := time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	return &Credentials{
		AccessToken:  result.AccessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    &expiry,
	}, nil
}

// NeedsRefresh returns true if credentials expire within 5 minutes
func NeedsRefresh(creds *Credentials) bool {
	if creds == nil || creds.RefreshToken == "" || creds.ExpiresAt == nil {
		return false
	}
	return time.Until(*creds.ExpiresAt) < 5*time.Minute
}
