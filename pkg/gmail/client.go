// Package gmail is a minimal Gmail REST API client: message listing with
// cursor pagination and full message retrieval, authorized by a bearer
// access token supplied per call.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const apiBase = "https://gmail.googleapis.com/gmail/v1"

// Client provides shared Gmail API functionality
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Gmail API client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    apiBase,
	}
}

// NewClientWithBaseURL creates a client pointed at a custom endpoint, used by
// tests to target an httptest server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// ListPage is one page of message ids from the list endpoint
type ListPage struct {
	Messages      []MessageRef `json:"messages"`
	NextPageToken string       `json:"nextPageToken"`
}

// MessageRef identifies a message without its content
type MessageRef struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

// Message is a full message as returned by the get endpoint
type Message struct {
	ID       string   `json:"id"`
	ThreadID string   `json:"threadId"`
	LabelIDs []string `json:"labelIds"`
	Snippet  string   `json:"snippet"`
	Payload  *Part    `json:"payload"`
}

// Part is a MIME part of a message payload
type Part struct {
	MimeType string   `json:"mimeType"`
	Headers  []Header `json:"headers"`
	Body     *Body    `json:"body"`
	Parts    []Part   `json:"parts"`
}

// Header is a single message header
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Body holds base64url-encoded part content
type Body struct {
	Data string `json:"data"`
	Size int    `json:"size"`
}

// ListMessages fetches one page of message ids matching query. An empty
// pageToken requests the first page.
func (c *Client) ListMessages(ctx context.Context, token, query string, pageSize int, pageToken string) (*ListPage, error) {
	params := url.Values{}
	params.Set("maxResults", strconv.Itoa(pageSize))
	if query != "" {
		params.Set("q", query)
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var page ListPage
	if err := c.request(ctx, token, "/users/me/messages?"+params.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetMessage fetches a full message by id
func (c *Client) GetMessage(ctx context.Context, token, id string) (*Message, error) {
	var msg Message
	if err := c.request(ctx, token, "/users/me/messages/"+url.PathEscape(id)+"?format=full", &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) request(ctx context.Context, token, path string, result any) error {
	log.Debug().Str("path", path).Msg("gmail API call")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gmail API error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// DecodeBodyData decodes base64url body content. Gmail emits URL-safe base64,
// usually without padding, but some payloads arrive padded.
func DecodeBodyData(data string) string {
	if data == "" {
		return ""
	}

	decoded, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.URLEncoding.DecodeString(data)
		if err != nil {
			padded := data
			switch len(data) % 4 {
			case 2:
				padded += "=="
			case 3:
				padded += "="
			}
			decoded, _ = base64.URLEncoding.DecodeString(padded)
		}
	}

	return string(decoded)
}
