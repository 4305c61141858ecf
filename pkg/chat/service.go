// Package chat implements the email-context chat pipeline: intent
// classification, query synthesis, cached mailbox retrieval, and response
// generation.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/beam-cloud/mailchat/pkg/common"
	"github.com/beam-cloud/mailchat/pkg/gmail"
	"github.com/beam-cloud/mailchat/pkg/intent"
	"github.com/beam-cloud/mailchat/pkg/llm"
	"github.com/beam-cloud/mailchat/pkg/repository"
	"github.com/beam-cloud/mailchat/pkg/types"
)

// Fetch parameters for the query-scoped branch
const (
	queryFetchPerPage    = 100
	queryFetchTotalLimit = 500
)

// MailboxFetcher retrieves normalized emails from the mail provider
type MailboxFetcher interface {
	Fetch(ctx context.Context, token string, opts gmail.FetchOptions) (*types.FetchResult, error)
}

// Responder generates the assistant reply for one turn
type Responder interface {
	Respond(ctx context.Context, message string, emails []types.Email, history []types.ChatMessage, metaNotes []string) (*llm.Response, error)
}

// TurnRequest is one inbound chat message
type TurnRequest struct {
	Message      string
	ForceRefresh bool
}

// TurnResult is the outcome of a successfully handled turn
type TurnResult struct {
	Text               string
	UsedMailboxContext bool
}

// Service orchestrates chat turns. It reads the credential and history off
// the session and appends the completed exchange; the transport layer owns
// session persistence.
type Service struct {
	cache     repository.EmailCacheRepository
	fetcher   MailboxFetcher
	responder Responder
	config    types.ChatConfig

	// Coalesces concurrent identical fetches within this process. Cross-
	// process races stay possible and are accepted: both writers store the
	// same idempotent data.
	fetchGroup singleflight.Group
}

// NewService creates the chat pipeline service
func NewService(cache repository.EmailCacheRepository, fetcher MailboxFetcher, responder Responder, config types.ChatConfig) *Service {
	if config.FallbackCount <= 0 {
		config.FallbackCount = 20
	}
	if config.MinCount <= 0 {
		config.MinCount = 5
	}
	if config.MaxCount <= 0 {
		config.MaxCount = 200
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 15 * time.Minute
	}
	if config.MaxHistory <= 0 {
		config.MaxHistory = 50
	}
	if config.ContextMessages <= 0 {
		config.ContextMessages = 10
	}
	return &Service{cache: cache, fetcher: fetcher, responder: responder, config: config}
}

// HandleTurn processes one chat message. Turns that need mailbox context
// fail with types.ErrAuthRequired when the session has no credential. On any
// failure the session history is left untouched.
func (s *Service) HandleTurn(ctx context.Context, req TurnRequest, session *types.Session) (*TurnResult, error) {
	var (
		emails    []types.Email
		metaNotes []string
		usedGmail bool
	)

	if intent.IsMailboxQuery(req.Message) {
		if !session.Authenticated() {
			return nil, types.ErrAuthRequired
		}

		var err error
		emails, metaNotes, err = s.assembleContext(ctx, req, session)
		if err != nil {
			return nil, fmt.Errorf("assemble email context: %w", err)
		}
		usedGmail = true
	}

	history := session.RecentHistory(s.config.ContextMessages)
	resp, err := s.responder.Respond(ctx, req.Message, emails, history, metaNotes)
	if err != nil {
		return nil, fmt.Errorf("generate response: %w", err)
	}

	session.AppendExchange(resp.UserTurn, resp.Text, s.config.MaxHistory)

	return &TurnResult{Text: resp.Text, UsedMailboxContext: usedGmail}, nil
}

// assembleContext resolves the email set for this turn, reading through the
// cache unless the user forced a refresh. Query-scoped and count-scoped
// retrieval are mutually exclusive per request.
func (s *Service) assembleContext(ctx context.Context, req TurnRequest, session *types.Session) ([]types.Email, []string, error) {
	desiredCount, wantsMore := intent.ParseDesiredCount(req.Message, intent.CountOptions{
		Fallback: s.config.FallbackCount,
		Min:      s.config.MinCount,
		Max:      s.config.MaxCount,
	})

	shouldForce := req.ForceRefresh || intent.WantsFreshEmails(req.Message) || wantsMore

	if query, ok := intent.BuildSearchQuery(req.Message); ok {
		return s.queryScopedEmails(ctx, session, query, shouldForce)
	}
	return s.countScopedEmails(ctx, session, desiredCount, shouldForce)
}

func (s *Service) queryScopedEmails(ctx context.Context, session *types.Session, query string, force bool) ([]types.Email, []string, error) {
	if !force {
		emails, err := s.cache.GetByQuery(ctx, session.Email, query)
		if err == nil {
			log.Debug().Str("query", query).Msg("using cached query emails")
			return emails, nil, nil
		}
	}

	log.Debug().Str("query", query).Msg("fetching query-filtered emails")
	key := common.Keys.EmailByQuery(session.Email, query)
	result, err := s.fetchAndCache(ctx, key, session.AccessToken, gmail.FetchOptions{
		Query:      query,
		PerPage:    queryFetchPerPage,
		TotalLimit: queryFetchTotalLimit,
	}, func(emails []types.Email) error {
		return s.cache.SetByQuery(ctx, session.Email, query, emails, s.config.CacheTTL)
	})
	if err != nil {
		return nil, nil, err
	}

	note := fmt.Sprintf("Search matched ~%d messages (showing up to %d).", result.Total, len(result.Emails))
	return result.Emails, []string{note}, nil
}

func (s *Service) countScopedEmails(ctx context.Context, session *types.Session, count int, force bool) ([]types.Email, []string, error) {
	if !force {
		emails, err := s.cache.GetByCount(ctx, session.Email, count)
		if err == nil {
			log.Debug().Int("count", count).Msg("using cached recent emails")
			return emails, nil, nil
		}
	}

	log.Debug().Int("count", count).Msg("fetching recent emails")
	key := common.Keys.EmailByCount(session.Email, count)
	result, err := s.fetchAndCache(ctx, key, session.AccessToken, gmail.FetchOptions{
		PerPage:    count,
		TotalLimit: count,
	}, func(emails []types.Email) error {
		return s.cache.SetByCount(ctx, session.Email, count, emails, s.config.CacheTTL)
	})
	if err != nil {
		return nil, nil, err
	}

	note := fmt.Sprintf("Loaded recent emails (showing %d of ~%d).", len(result.Emails), result.Total)
	return result.Emails, []string{note}, nil
}

// fetchAndCache performs the upstream fetch behind singleflight and writes
// the result through to the cache. A cache-write failure is logged but does
// not fail the turn: the cache is an optimization, not a source of truth.
func (s *Service) fetchAndCache(ctx context.Context, key, token string, opts gmail.FetchOptions, store func([]types.Email) error) (*types.FetchResult, error) {
	value, err, _ := s.fetchGroup.Do(key, func() (any, error) {
		result, err := s.fetcher.Fetch(ctx, token, opts)
		if err != nil {
			return nil, err
		}
		if err := store(result.Emails); err != nil {
			log.Warn().Str("key", key).Err(err).Msg("failed to cache emails")
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*types.FetchResult), nil
}
