package gmail

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/beam-cloud/mailchat/pkg/types"
)

const (
	defaultPerPage    = 50
	minPerPage        = 10
	maxPerPage        = 100
	defaultTotalLimit = 300
	minTotalLimit     = 50
	maxTotalLimit     = 1000

	maxConcurrentFetches = 10
)

// FetchOptions control one mailbox retrieval. Zero values take defaults;
// out-of-range values are clamped.
type FetchOptions struct {
	Query      string
	PerPage    int
	TotalLimit int
}

// Fetcher paginates the Gmail list API and resolves full messages into
// normalized Email records.
type Fetcher struct {
	client *Client
}

// NewFetcher creates a fetcher on top of client
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch lists matching message ids page by page until the cursor runs out or
// TotalLimit ids are collected, then fetches full messages concurrently.
// Result order follows listing order regardless of completion order. Total
// counts every id observed during listing, so it can exceed len(Emails).
// Any listing or per-message failure fails the whole fetch.
func (f *Fetcher) Fetch(ctx context.Context, token string, opts FetchOptions) (*types.FetchResult, error) {
	perPage := clampInt(opts.PerPage, defaultPerPage, minPerPage, maxPerPage)
	totalLimit := clampInt(opts.TotalLimit, defaultTotalLimit, minTotalLimit, maxTotalLimit)

	var (
		ids       []string
		total     int
		pageToken string
	)

	for {
		page, err := f.client.ListMessages(ctx, token, opts.Query, perPage, pageToken)
		if err != nil {
			return nil, err
		}

		total += len(page.Messages)
		for _, ref := range page.Messages {
			if ref.ID != "" {
				ids = append(ids, ref.ID)
			}
		}

		pageToken = page.NextPageToken
		if pageToken == "" || len(ids) >= totalLimit {
			break
		}
	}

	if len(ids) > totalLimit {
		ids = ids[:totalLimit]
	}

	emails := make([]types.Email, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, id := range ids {
		g.Go(func() error {
			msg, err := f.client.GetMessage(gctx, token, id)
			if err != nil {
				return err
			}
			emails[i] = normalize(id, msg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &types.FetchResult{Emails: emails, Total: total}, nil
}

// normalize converts a raw API message into the canonical Email record,
// substituting placeholders for missing headers.
func normalize(id string, msg *Message) types.Email {
	email := types.Email{
		ID:      id,
		Subject: "No Subject",
		From:    "Unknown",
		Snippet: msg.Snippet,
	}

	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "Subject":
				if h.Value != "" {
					email.Subject = h.Value
				}
			case "From":
				if h.Value != "" {
					email.From = h.Value
				}
			case "Date":
				email.Date = h.Value
			}
		}
		email.Body = truncate(extractBody(msg.Payload), types.MaxBodyChars)
	}

	for _, label := range msg.LabelIDs {
		if label == "UNREAD" {
			email.IsUnread = true
			break
		}
	}

	return email
}

// extractBody prefers an inline body on the payload itself, then falls back
// to the first text/plain part, searching nested multiparts depth-first.
func extractBody(payload *Part) string {
	if payload.Body != nil && payload.Body.Data != "" {
		return DecodeBodyData(payload.Body.Data)
	}
	return extractMimePart(payload, "text/plain")
}

func extractMimePart(part *Part, target string) string {
	if part.MimeType == target && part.Body != nil {
		if decoded := DecodeBodyData(part.Body.Data); decoded != "" {
			return decoded
		}
	}

	// Exact matches at this level win over nested ones
	for i := range part.Parts {
		sub := &part.Parts[i]
		if sub.MimeType == target && sub.Body != nil {
			if decoded := DecodeBodyData(sub.Body.Data); decoded != "" {
				return decoded
			}
		}
	}

	for i := range part.Parts {
		sub := &part.Parts[i]
		if strings.HasPrefix(sub.MimeType, "multipart/") || len(sub.Parts) > 0 {
			if result := extractMimePart(sub, target); result != "" {
				return result
			}
		}
	}

	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func clampInt(n, fallback, min, max int) int {
	if n == 0 {
		n = fallback
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
