package intent

import (
	"testing"
)

func TestIsMailboxQuery(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected bool
	}{
		{
			name:     "inbox keyword",
			message:  "what's in my inbox?",
			expected: true,
		},
		{
			name:     "unread keyword",
			message:  "any unread stuff",
			expected: true,
		},
		{
			name:     "uppercase keyword",
			message:  "Summarize my EMAILS from last week",
			expected: true,
		},
		{
			name:     "keyword inside larger word",
			message:  "the fromage was excellent",
			expected: true, // substring matching is intentionally loose
		},
		{
			name:     "no keywords",
			message:  "what is the capital of France?",
			expected: false,
		},
		{
			name:     "empty message",
			message:  "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMailboxQuery(tt.message); got != tt.expected {
				t.Errorf("IsMailboxQuery(%q) = %v, want %v", tt.message, got, tt.expected)
			}
		})
	}
}

func TestWantsFreshEmails(t *testing.T) {
	tests := []struct {
		message  string
		expected bool
	}{
		{"please refresh my inbox", true},
		{"fetch again", true},
		{"show me the most recent ones", true},
		{"check now", true},
		{"summarize my inbox", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := WantsFreshEmails(tt.message); got != tt.expected {
			t.Errorf("WantsFreshEmails(%q) = %v, want %v", tt.message, got, tt.expected)
		}
	}
}

func TestParseDesiredCount(t *testing.T) {
	opts := CountOptions{Fallback: 20, Min: 5, Max: 200}

	tests := []struct {
		name          string
		message       string
		wantCount     int
		wantWantsMore bool
	}{
		{
			name:          "explicit count",
			message:       "show me 37 emails",
			wantCount:     37,
			wantWantsMore: false,
		},
		{
			name:          "no number falls back",
			message:       "summarize my inbox",
			wantCount:     20,
			wantWantsMore: false,
		},
		{
			name:          "show more",
			message:       "show more",
			wantCount:     20,
			wantWantsMore: true,
		},
		{
			name:          "clamped to max",
			message:       "list 500 messages",
			wantCount:     200,
			wantWantsMore: false,
		},
		{
			name:          "clamped to min",
			message:       "just 2 emails",
			wantCount:     5,
			wantWantsMore: false,
		},
		{
			name:          "bare number without mail words",
			message:       "I have 8 ideas",
			wantCount:     8,
			wantWantsMore: false,
		},
		{
			name:          "four digit year ignored",
			message:       "emails received in 2023",
			wantCount:     20,
			wantWantsMore: false,
		},
		{
			name:          "load more pages",
			message:       "load more",
			wantCount:     20,
			wantWantsMore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, wantsMore := ParseDesiredCount(tt.message, opts)
			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}
			if wantsMore != tt.wantWantsMore {
				t.Errorf("wantsMore = %v, want %v", wantsMore, tt.wantWantsMore)
			}
		})
	}
}

func TestParseDesiredCountDefaults(t *testing.T) {
	// Zero-valued bounds pick up the built-in 5/200 limits
	count, _ := ParseDesiredCount("show 1 email", CountOptions{Fallback: 20})
	if count != 5 {
		t.Errorf("count = %d, want 5", count)
	}
	count, _ = ParseDesiredCount("show 999 emails", CountOptions{Fallback: 20})
	if count != 200 {
		t.Errorf("count = %d, want 200", count)
	}
}
