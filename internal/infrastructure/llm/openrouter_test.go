package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"TaxNewsletter/internal/domain"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key-1" {
			t.Errorf("unexpected authorization header: %s", got)
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[1].Content, "tax circular") {
			t.Errorf("prompt is not category-aware: %s", req.Messages[1].Content)
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Here is a summary: The due date moves to 30 September 2026."}}]}`))
	}))
	defer server.Close()

	s := NewOpenRouterSummarizer(server.URL, "test-model", "key-1", nil)

	got := s.Summarize(context.Background(), "document text", domain.CategoryCircular, "Circular No. 12/2026")
	if got != "The due date moves to 30 September 2026." {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestSummarizeAPIErrorReturnsSentinel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := NewOpenRouterSummarizer(server.URL, "test-model", "key-1", nil)

	if got := s.Summarize(context.Background(), "text", domain.CategoryNotification, "ref"); got != ErrorSentinel {
		t.Fatalf("expected sentinel, got %q", got)
	}
}

func TestCleanSummary(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Here's the summary: TDS rates are revised.", "TDS rates are revised."},
		{"SUMMARY: nothing else changes.", "nothing else changes."},
		{"In summary, the deadline is extended.", "the deadline is extended."},
		{"The circular revises TDS rates.", "The circular revises TDS rates."},
	}

	for _, tc := range cases {
		if got := CleanSummary(tc.in); got != tc.want {
			t.Fatalf("CleanSummary(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 6000)
	if got := Truncate(long, 5000); len(got) != 5000 {
		t.Fatalf("expected 5000 chars, got %d", len(got))
	}
	if got := Truncate("short", 5000); got != "short" {
		t.Fatalf("short input must pass through, got %q", got)
	}
}
