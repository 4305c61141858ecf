package llm

import (
	"fmt"
	"strings"

	"github.com/beam-cloud/mailchat/pkg/types"
)

const baseSystemPrompt = `You are a helpful Gmail-savvy assistant. When email context is provided, answer using it exactly (do not invent emails). If no email context is relevant, answer normally.

Core behavior (choose based on the user's intent):
- Summary: Provide a brief overview first (total emails, unread count, top senders, key subjects, time range). Keep it concise and scannable.
- Specific/search: Show only matching emails. Prefer a compact list with From, Subject, Date, and an unread badge.
- Status (unread/read/recent): List those emails only.
- Trends/analysis: Highlight patterns (frequent senders, common topics, busy days) and provide short, actionable takeaways.

Formatting rules:
- Start with a short title line that describes what you did (e.g., "Inbox summary" or "Emails from Alice").
- Use clear sections and bullet points. Keep paragraphs short. Use emojis sparingly for clarity (e.g., 📬 for inbox, 🔎 for search, 📈 for trends).
- For email lists, use a compact markdown list like: - [Unread 📩] From — Subject (Date)
- Show at most 20 items by default. For requests like "recent/latest emails", list up to 20 items. If there are more than 20, say how many are hidden and how to request them.
- If the request is ambiguous, ask a brief clarifying question before proceeding.

Constraints:
- Only use the provided email context. Never fabricate senders, subjects, or dates.
- If no relevant emails are found, say so clearly and suggest a next step (e.g., adjust date/sender/keywords).
- Keep responses focused and avoid dumping raw data unless explicitly requested.`

// BuildSystemPrompt assembles the assistant system prompt, appending any
// meta-notes about what mailbox data was loaded for this turn.
func BuildSystemPrompt(metaNotes []string) string {
	if len(metaNotes) == 0 {
		return baseSystemPrompt
	}
	return baseSystemPrompt + "\n\n" + strings.Join(metaNotes, "\n")
}

// FormatEmails renders an email set for LLM consumption
func FormatEmails(emails []types.Email) string {
	formatted := make([]string, len(emails))
	for i, email := range emails {
		formatted[i] = fmt.Sprintf("Email %d:\nFrom: %s\nSubject: %s\nDate: %s\nStatus: %s\nPreview: %s",
			i+1, email.From, email.Subject, email.Date, statusLabel(email), email.Snippet)
	}
	return strings.Join(formatted, "\n\n")
}

func statusLabel(email types.Email) string {
	if email.IsUnread {
		return "Unread 📩"
	}
	return "Read 📧"
}

// BuildContextTurn wraps the user's request together with their email
// context into a single user turn.
func BuildContextTurn(message string, emails []types.Email) string {
	return strings.TrimSpace(fmt.Sprintf(`User request: "%s"

Here are the user's recent emails for context:
%s

Follow the adaptive behavior described above to answer the user's request appropriately.
If not relevant, summarize or ignore unnecessary data. Format responses cleanly and intuitively.`,
		message, FormatEmails(emails)))
}
