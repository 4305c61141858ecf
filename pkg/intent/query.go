package intent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	yearRe     = regexp.MustCompile(`\b(20\d{2})\b`)
	senderRe   = regexp.MustCompile(`(?:emails?\s+)?from\s+([a-z0-9._%+@-]+(?:\.[a-z0-9-]+)*|[a-z]+(?:\s+[a-z]+){0,3})`)
	topicRe    = regexp.MustCompile(`(?:about|regarding)\s+([\w\s]{3,50})`)
	recencyRe  = regexp.MustCompile(`today|latest|recent|this week|yesterday|now`)
	sanitizeRe = regexp.MustCompile(`[^a-z0-9@._\s-]`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// BuildSearchQuery translates a free-text message into a Gmail search query.
// Rules fire independently and their outputs are joined with spaces in a
// fixed order: year range, sender, topic, unread flag, recency window.
// Returns ok=false when no rule fires.
func BuildSearchQuery(message string) (string, bool) {
	m := strings.ToLower(message)
	var parts []string

	if match := yearRe.FindStringSubmatch(m); match != nil {
		year, _ := strconv.Atoi(match[1])
		parts = append(parts, fmt.Sprintf("after:%d/01/01 before:%d/01/01", year, year+1))
	}

	if match := senderRe.FindStringSubmatch(m); match != nil {
		sender := strings.TrimSpace(sanitizeRe.ReplaceAllString(match[1], ""))
		if strings.ContainsAny(sender, "@.") {
			// Email-like sender: search by domain
			domain := sender
			if at := strings.Index(sender, "@"); at >= 0 && at+1 < len(sender) {
				domain = sender[at+1:]
			}
			parts = append(parts, "from:"+domain)
		} else if sender != "" {
			parts = append(parts, "from:"+spaceRe.ReplaceAllString(sender, ""))
		}
	}

	if match := topicRe.FindStringSubmatch(m); match != nil {
		topic := spaceRe.ReplaceAllString(strings.TrimSpace(match[1]), " ")
		parts = append(parts, "{"+topic+"}")
	}

	if strings.Contains(m, "unread") {
		parts = append(parts, "is:unread")
	}

	if recencyRe.MatchString(m) {
		// Exactly one recency token, yesterday > week > default
		switch {
		case strings.Contains(m, "yesterday"):
			parts = append(parts, "newer_than:2d")
		case strings.Contains(m, "week"):
			parts = append(parts, "newer_than:7d")
		default:
			parts = append(parts, "newer_than:1d")
		}
	}

	query := strings.TrimSpace(strings.Join(parts, " "))
	return query, query != ""
}
