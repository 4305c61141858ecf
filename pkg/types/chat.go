package types

import "time"

// Role identifies the author of a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single turn entry, wire-compatible with OpenAI-style APIs
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session is the per-user state the transport layer owns and the chat
// pipeline reads and appends to. Persistence is handled by the caller.
type Session struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time    `json:"expires_at,omitempty"`
	History      []ChatMessage `json:"history"`
}

// Authenticated returns true if the session carries a mailbox credential
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// AppendExchange records one completed turn and drops the oldest entries once
// the stored history exceeds max.
func (s *Session) AppendExchange(userTurn, assistantTurn string, max int) {
	s.History = append(s.History,
		ChatMessage{Role: RoleUser, Content: userTurn},
		ChatMessage{Role: RoleAssistant, Content: assistantTurn},
	)
	if max > 0 && len(s.History) > max {
		s.History = s.History[len(s.History)-max:]
	}
}

// RecentHistory returns at most n of the latest stored entries
func (s *Session) RecentHistory(n int) []ChatMessage {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	if len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}
