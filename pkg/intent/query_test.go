package intent

import (
	"strings"
	"testing"
)

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		contains []string
		excludes []string
		wantOK   bool
	}{
		{
			name:    "year sender and unread",
			message: "unread emails from alice@example.com in 2023",
			contains: []string{
				"after:2023/01/01",
				"before:2024/01/01",
				"from:example.com",
				"is:unread",
			},
			excludes: []string{"newer_than"},
			wantOK:   true,
		},
		{
			name:     "no rules fire",
			message:  "hi there",
			wantOK:   false,
			excludes: []string{"from:", "is:unread"},
		},
		{
			name:     "plain sender name",
			message:  "emails from acme billing team",
			contains: []string{"from:acme"},
			wantOK:   true,
		},
		{
			name:     "bare domain sender",
			message:  "messages from github.com",
			contains: []string{"from:github.com"},
			wantOK:   true,
		},
		{
			name:     "topic braces",
			message:  "anything about quarterly planning",
			contains: []string{"{quarterly planning}"},
			wantOK:   true,
		},
		{
			name:     "default recency window",
			message:  "latest emails",
			contains: []string{"newer_than:1d"},
			excludes: []string{"newer_than:2d", "newer_than:7d"},
			wantOK:   true,
		},
		{
			name:     "yesterday wins over week",
			message:  "emails from yesterday this week",
			contains: []string{"newer_than:2d"},
			excludes: []string{"newer_than:7d", "newer_than:1d"},
			wantOK:   true,
		},
		{
			name:     "week window",
			message:  "what came in this week",
			contains: []string{"newer_than:7d"},
			wantOK:   true,
		},
		{
			name:     "unread only",
			message:  "unread",
			contains: []string{"is:unread"},
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, ok := BuildSearchQuery(tt.message)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (query=%q)", ok, tt.wantOK, query)
			}
			for _, part := range tt.contains {
				if !strings.Contains(query, part) {
					t.Errorf("query %q missing %q", query, part)
				}
			}
			for _, part := range tt.excludes {
				if strings.Contains(query, part) {
					t.Errorf("query %q should not contain %q", query, part)
				}
			}
		})
	}
}

func TestBuildSearchQueryPartOrder(t *testing.T) {
	query, ok := BuildSearchQuery("unread emails from alice@example.com about contracts in 2023 today")
	if !ok {
		t.Fatal("expected a query")
	}

	order := []string{"after:", "from:", "{", "is:unread", "newer_than:"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(query, marker)
		if idx < 0 {
			t.Fatalf("query %q missing %q", query, marker)
		}
		if idx < last {
			t.Errorf("query %q has %q out of order", query, marker)
		}
		last = idx
	}
}
