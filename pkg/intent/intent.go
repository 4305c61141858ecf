// Package intent derives mailbox intent from free-text chat messages.
//
// Everything here is deliberately heuristic: ordered keyword and pattern
// rules, cheap to evaluate and easy to swap for a real classifier later
// without touching the pipeline contract.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// mailboxKeywords marks a message as needing the user's email data
var mailboxKeywords = []string{
	"email", "emails", "gmail", "inbox", "message", "messages",
	"unread", "latest", "recent", "mail", "sender", "from",
	"subject", "received", "yesterday", "today", "week",
}

// refreshKeywords signal the user wants the cache bypassed
var refreshKeywords = []string{
	"refresh", "latest", "fetch again", "update",
	"check now", "get new", "most recent", "just now",
}

var (
	countRe     = regexp.MustCompile(`\b(\d{1,3})\b\s*(?:emails?|msgs?|messages?)?`)
	wantsMoreRe = regexp.MustCompile(`more|show more|next|load more`)
)

// IsMailboxQuery reports whether the message likely needs mailbox context.
// Substring matching is intentionally loose; false positives only cost an
// extra fetch, false negatives lose the feature.
func IsMailboxQuery(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range mailboxKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// WantsFreshEmails reports whether the message demands a cache bypass
func WantsFreshEmails(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range refreshKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// CountOptions bound the result of ParseDesiredCount
type CountOptions struct {
	Fallback int
	Min      int
	Max      int
}

// ParseDesiredCount extracts how many emails the user asked for ("show 25",
// "top 20 messages") and whether they asked to page further. The first
// standalone 1-3 digit number wins even without surrounding mail words, so
// "I have 2 kids" parses as count=2 — a known false-positive accepted for
// simplicity.
func ParseDesiredCount(message string, opts CountOptions) (int, bool) {
	min := opts.Min
	if min < 1 {
		min = 5
	}
	max := opts.Max
	if max <= 0 || max > 500 {
		max = 200
	}

	lower := strings.ToLower(message)
	count := opts.Fallback
	if m := countRe.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			count = clamp(n, min, max)
		}
	}

	return count, wantsMoreRe.MatchString(lower)
}

func clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
