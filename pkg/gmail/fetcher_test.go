package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeGmail serves the list and get endpoints for a fixed set of message ids
type fakeGmail struct {
	ids      []string
	pageSize int
	failID   string // if set, fetching this message returns 500
	jitter   bool   // randomize per-message latency to shuffle completion order
}

func (f *fakeGmail) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		start := 0
		if tok := r.URL.Query().Get("pageToken"); tok != "" {
			fmt.Sscanf(tok, "page-%d", &start)
		}

		end := start + f.pageSize
		if end > len(f.ids) {
			end = len(f.ids)
		}

		page := map[string]any{}
		var msgs []map[string]string
		for _, id := range f.ids[start:end] {
			msgs = append(msgs, map[string]string{"id": id})
		}
		page["messages"] = msgs
		if end < len(f.ids) {
			page["nextPageToken"] = fmt.Sprintf("page-%d", end)
		}

		json.NewEncoder(w).Encode(page)
	})

	mux.HandleFunc("/users/me/messages/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/users/me/messages/")
		if id == f.failID {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		if f.jitter {
			time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
		}

		body := base64.RawURLEncoding.EncodeToString([]byte("body of " + id))
		json.NewEncoder(w).Encode(map[string]any{
			"id":       id,
			"snippet":  "snippet " + id,
			"labelIds": []string{"INBOX", "UNREAD"},
			"payload": map[string]any{
				"mimeType": "text/plain",
				"headers": []map[string]string{
					{"name": "Subject", "value": "subject " + id},
					{"name": "From", "value": id + "@example.com"},
					{"name": "Date", "value": "Mon, 02 Jan 2023 15:04:05 -0700"},
				},
				"body": map[string]any{"data": body},
			},
		})
	})

	return mux
}

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("msg-%03d", i)
	}
	return ids
}

func TestFetchPreservesOrderAndCapsTotal(t *testing.T) {
	fake := &fakeGmail{ids: makeIDs(130), pageSize: 50, jitter: true}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	fetcher := NewFetcher(NewClientWithBaseURL(srv.URL))
	result, err := fetcher.Fetch(context.Background(), "tok", FetchOptions{PerPage: 50, TotalLimit: 60})
	if err != nil {
		t.Fatal(err)
	}

	// Listing stops once 60 ids are collected: two 50-item pages observed
	if result.Total != 100 {
		t.Errorf("total = %d, want 100", result.Total)
	}
	if len(result.Emails) != 60 {
		t.Fatalf("len(emails) = %d, want 60", len(result.Emails))
	}

	for i, email := range result.Emails {
		want := fmt.Sprintf("msg-%03d", i)
		if email.ID != want {
			t.Fatalf("emails[%d].ID = %s, want %s (order not preserved)", i, email.ID, want)
		}
	}
}

func TestFetchNormalization(t *testing.T) {
	fake := &fakeGmail{ids: makeIDs(3), pageSize: 50}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	fetcher := NewFetcher(NewClientWithBaseURL(srv.URL))
	result, err := fetcher.Fetch(context.Background(), "tok", FetchOptions{})
	if err != nil {
		t.Fatal(err)
	}

	email := result.Emails[0]
	if email.Subject != "subject msg-000" {
		t.Errorf("subject = %q", email.Subject)
	}
	if email.From != "msg-000@example.com" {
		t.Errorf("from = %q", email.From)
	}
	if email.Body != "body of msg-000" {
		t.Errorf("body = %q", email.Body)
	}
	if !email.IsUnread {
		t.Error("expected unread")
	}
	if email.Snippet != "snippet msg-000" {
		t.Errorf("snippet = %q", email.Snippet)
	}
}

func TestFetchSingleFailureFailsBatch(t *testing.T) {
	fake := &fakeGmail{ids: makeIDs(10), pageSize: 50, failID: "msg-007"}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	fetcher := NewFetcher(NewClientWithBaseURL(srv.URL))
	_, err := fetcher.Fetch(context.Background(), "tok", FetchOptions{})
	if err == nil {
		t.Fatal("expected fetch to fail when one message fetch fails")
	}
}

func TestNormalizeMissingHeaders(t *testing.T) {
	msg := &Message{
		ID:      "x",
		Payload: &Part{MimeType: "text/plain"},
	}

	email := normalize("x", msg)
	if email.Subject != "No Subject" {
		t.Errorf("subject = %q, want placeholder", email.Subject)
	}
	if email.From != "Unknown" {
		t.Errorf("from = %q, want placeholder", email.From)
	}
	if email.Date != "" {
		t.Errorf("date = %q, want empty", email.Date)
	}
	if email.IsUnread {
		t.Error("expected read")
	}
}

func TestExtractBodyNestedPlainText(t *testing.T) {
	data := base64.RawURLEncoding.EncodeToString([]byte("nested plain"))
	payload := &Part{
		MimeType: "multipart/mixed",
		Parts: []Part{
			{
				MimeType: "multipart/alternative",
				Parts: []Part{
					{MimeType: "text/plain", Body: &Body{Data: data}},
					{MimeType: "text/html", Body: &Body{Data: "PGI+aGk8L2I+"}},
				},
			},
		},
	}

	if got := extractBody(payload); got != "nested plain" {
		t.Errorf("body = %q, want %q", got, "nested plain")
	}
}

func TestTruncateBody(t *testing.T) {
	long := strings.Repeat("x", 1200)
	data := base64.RawURLEncoding.EncodeToString([]byte(long))
	payload := &Part{MimeType: "text/plain", Body: &Body{Data: data}}

	msg := &Message{ID: "x", Payload: payload}
	email := normalize("x", msg)
	if len(email.Body) != 500 {
		t.Errorf("body length = %d, want 500", len(email.Body))
	}
}
