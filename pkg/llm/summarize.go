package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/beam-cloud/mailchat/pkg/common"
	"github.com/beam-cloud/mailchat/pkg/types"
)

// Direct-path completion parameters
const (
	directTemperature = 0.7
	directMaxTokens   = 1024

	chunkTemperature = 0.4
	chunkMaxTokens   = 400

	mergeTemperature = 0.5
	mergeMaxTokens   = 800
)

// SummarizerOptions tune the response pipeline
type SummarizerOptions struct {
	// LargeThreshold is the exclusive email-count bound above which the
	// chunked map-reduce path is taken.
	LargeThreshold int

	// ChunkSize is the number of emails summarized per map call
	ChunkSize int

	// Pacer serializes map calls with a fixed inter-call delay
	Pacer *common.Pacer
}

// Summarizer generates assistant responses, directly for small email sets
// and via chunked map-reduce summarization for large ones.
type Summarizer struct {
	completer Completer
	opts      SummarizerOptions
}

// NewSummarizer creates a summarizer over the given completion provider
func NewSummarizer(completer Completer, opts SummarizerOptions) *Summarizer {
	if opts.LargeThreshold <= 0 {
		opts.LargeThreshold = 120
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 30
	}
	if opts.Pacer == nil {
		opts.Pacer = common.NewPacer(0)
	}
	return &Summarizer{completer: completer, opts: opts}
}

// Response is one generated assistant reply. UserTurn is the exact user
// message (with embedded email context, when present) that belongs in the
// conversation history for this turn.
type Response struct {
	Text     string
	UserTurn string
}

// Respond produces the assistant reply for one chat turn. The emails slice
// may be nil when the turn needs no mailbox context; history carries the
// recent prior turns forwarded as context.
func (s *Summarizer) Respond(ctx context.Context, message string, emails []types.Email, history []types.ChatMessage, metaNotes []string) (*Response, error) {
	systemPrompt := strings.TrimSpace(BuildSystemPrompt(metaNotes))

	userTurn := strings.TrimSpace(message)
	if len(emails) > 0 {
		userTurn = BuildContextTurn(message, emails)
	}

	if len(emails) > s.opts.LargeThreshold {
		text, err := s.summarizeInChunks(ctx, emails, message, systemPrompt)
		if err != nil {
			return nil, err
		}
		return &Response{Text: text, UserTurn: userTurn}, nil
	}

	messages := make([]types.ChatMessage, 0, len(history)+2)
	messages = append(messages, types.ChatMessage{Role: types.RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, types.ChatMessage{Role: types.RoleUser, Content: userTurn})

	text, err := s.completer.Complete(ctx, CompletionRequest{
		Messages:    messages,
		Temperature: directTemperature,
		MaxTokens:   directMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	return &Response{Text: text, UserTurn: userTurn}, nil
}

// summarizeInChunks is the map-reduce path: fixed-size chunks summarized
// sequentially in order, then merged by one final call.
func (s *Summarizer) summarizeInChunks(ctx context.Context, emails []types.Email, message, systemPrompt string) (string, error) {
	chunks := chunkEmails(emails, s.opts.ChunkSize)
	log.Info().Int("emails", len(emails)).Int("chunks", len(chunks)).Msg("summarizing in chunks")

	partials := make([]string, len(chunks))
	tasks := make([]func(ctx context.Context) error, len(chunks))
	for i, chunk := range chunks {
		tasks[i] = func(ctx context.Context) error {
			summary, err := s.summarizeChunk(ctx, chunk, message, systemPrompt)
			if err != nil {
				return err
			}
			partials[i] = summary
			return nil
		}
	}

	if err := s.opts.Pacer.Run(ctx, tasks...); err != nil {
		return "", err
	}

	return s.mergeSummaries(ctx, partials, message, systemPrompt)
}

func (s *Summarizer) summarizeChunk(ctx context.Context, chunk []types.Email, message, systemPrompt string) (string, error) {
	prompt := strings.TrimSpace(fmt.Sprintf(`You will receive a portion of the user's emails. Create a concise intermediate summary optimized for later merging.
- Keep it under 8 bullet points.
- Include counts (unread/read) and notable senders/subjects.
- Output only the summary, no preface.

User request: "%s"

Emails:
%s`, message, FormatEmails(chunk)))

	text, err := s.completer.Complete(ctx, CompletionRequest{
		Messages: []types.ChatMessage{
			{Role: types.RoleSystem, Content: systemPrompt},
			{Role: types.RoleUser, Content: prompt},
		},
		Temperature: chunkTemperature,
		MaxTokens:   chunkMaxTokens,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (s *Summarizer) mergeSummaries(ctx context.Context, partials []string, message, systemPrompt string) (string, error) {
	labeled := make([]string, len(partials))
	for i, partial := range partials {
		labeled[i] = fmt.Sprintf("Summary %d:\n%s", i+1, partial)
	}

	prompt := strings.TrimSpace(fmt.Sprintf(`Combine the following partial email summaries into a single answer to the user's request.
- Do not repeat items; deduplicate.
- Follow the formatting rules previously provided.
- Limit lists to 10 items unless asked.

User request: "%s"

Partial summaries:
%s`, message, strings.Join(labeled, "\n\n")))

	return s.completer.Complete(ctx, CompletionRequest{
		Messages: []types.ChatMessage{
			{Role: types.RoleSystem, Content: systemPrompt},
			{Role: types.RoleUser, Content: prompt},
		},
		Temperature: mergeTemperature,
		MaxTokens:   mergeMaxTokens,
	})
}

// chunkEmails partitions emails into consecutive slices of at most size,
// preserving order.
func chunkEmails(emails []types.Email, size int) [][]types.Email {
	var chunks [][]types.Email
	for start := 0; start < len(emails); start += size {
		end := start + size
		if end > len(emails) {
			end = len(emails)
		}
		chunks = append(chunks, emails[start:end])
	}
	return chunks
}
