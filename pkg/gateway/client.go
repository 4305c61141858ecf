package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	apiv1 "github.com/beam-cloud/mailchat/pkg/api/v1"
)

const defaultRequestTimeout = 120 * time.Second

// Client is an HTTP client for the gateway API. The cookie jar keeps the
// session cookie across calls so chat history accumulates server side.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new gateway API client
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: defaultRequestTimeout,
		},
	}, nil
}

// Chat sends one chat message and returns the assistant's reply
func (c *Client) Chat(ctx context.Context, message string, forceRefresh bool) (*apiv1.ChatResponse, error) {
	var reply apiv1.ChatResponse
	err := c.post(ctx, "/api/v1/chat", apiv1.ChatRequest{
		Message:      message,
		ForceRefresh: forceRefresh,
	}, &reply)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// AuthStatus reports whether the current session has a connected mailbox
func (c *Client) AuthStatus(ctx context.Context) (*apiv1.AuthStatus, error) {
	var status apiv1.AuthStatus
	if err := c.get(ctx, "/api/v1/auth/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Health checks gateway liveness
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope apiv1.Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, raw)
	}

	if !envelope.Success {
		if envelope.Error != "" {
			return fmt.Errorf("%s", envelope.Error)
		}
		return fmt.Errorf("request failed: status %d", resp.StatusCode)
	}

	if out != nil && envelope.Data != nil {
		data, err := json.Marshal(envelope.Data)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, out)
	}
	return nil
}
