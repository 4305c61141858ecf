// Package llm talks to an OpenAI-compatible chat completions endpoint and
// builds email-aware responses, chunking large email sets through a
// map-reduce summarization pass.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/beam-cloud/mailchat/pkg/types"
)

// CompletionRequest is one chat completion call
type CompletionRequest struct {
	Messages    []types.ChatMessage
	Temperature float64
	MaxTokens   int
}

// Completer abstracts the completion provider so the summarizer can be
// tested against a scripted implementation.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Client is a chat completions client for OpenAI-compatible APIs (Groq by
// default).
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClient creates a completion client from config
func NewClient(config types.LLMConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    config.BaseURL,
		apiKey:     config.APIKey,
		model:      config.Model,
	}
}

type completionPayload struct {
	Model       string              `json:"model"`
	Messages    []types.ChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete issues one chat completion call and returns the first choice's
// content, or "" when the provider returns none.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	payload, err := json.Marshal(completionPayload{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	log.Debug().Int("messages", len(req.Messages)).Str("model", c.model).Msg("llm completion call")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm API error %d: %s", resp.StatusCode, string(body))
	}

	var result completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}
