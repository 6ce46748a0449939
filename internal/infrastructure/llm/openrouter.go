package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"TaxNewsletter/internal/domain"
	"TaxNewsletter/internal/ports"
)

// ErrorSentinel is returned in place of a summary when the completion
// endpoint fails. A missing summary must never abort the pipeline.
const ErrorSentinel = "Summary unavailable due to API error"

// maxPromptChars caps how much extracted text is submitted per document.
const maxPromptChars = 5000

const systemPrompt = "You are a tax expert. Provide concise summaries without meta-commentary. Write directly and professionally."

// leadIns are conversational boilerplate phrases models prepend despite
// instructions; matched case-insensitively against the summary prefix.
var leadIns = []string{
	"Here is a summary:",
	"Here's a summary:",
	"Here is the summary:",
	"Here's the summary:",
	"Summary:",
	"The main update is that",
	"The main change is that",
	"In summary,",
	"To summarize,",
	"Here is a 2-3 sentence",
	"Here is a 3-4 sentence",
	"Here's a 2-3 sentence",
	"Here's a 3-4 sentence",
}

// OpenRouterSummarizer talks to an OpenRouter-compatible chat completion
// endpoint.
type OpenRouterSummarizer struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.Summarizer = (*OpenRouterSummarizer)(nil)

// NewOpenRouterSummarizer builds a summarizer with the 60s completion timeout.
func NewOpenRouterSummarizer(endpoint, model, apiKey string, logger *slog.Logger) *OpenRouterSummarizer {
	return &OpenRouterSummarizer{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
	}
}

// Summarize submits truncated document text with a category-aware
// instruction and returns the cleaned model output. Any transport or API
// error degrades to ErrorSentinel instead of propagating.
func (s *OpenRouterSummarizer) Summarize(ctx context.Context, text string, category domain.Category, reference string) string {
	summary, err := s.complete(ctx, buildPrompt(text, category))
	if err != nil {
		s.warn("summarization failed", "reference", reference, "error", err)
		return ErrorSentinel
	}
	return CleanSummary(summary)
}

func (s *OpenRouterSummarizer) complete(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" || s.endpoint == "" || s.model == "" {
		return "", fmt.Errorf("openrouter summarizer misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("completion error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return strings.TrimSpace(payload.Choices[0].Message.Content), nil
}

func buildPrompt(text string, category domain.Category) string {
	return fmt.Sprintf(`Summarize this tax %s in 2-3 clear, professional sentences. Write directly - no introductory phrases like "Here is a summary" or "The main update is". Focus on:

1. The specific change or update
2. Who is affected (taxpayers, entities, deadlines)
3. Required actions or important dates

Document text:
%s

Summary:`, category, Truncate(text, maxPromptChars))
}

// Truncate limits text to at most limit characters (runes, not bytes).
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// CleanSummary strips any leading boilerplate lead-in and a following
// colon if present.
func CleanSummary(summary string) string {
	for _, phrase := range leadIns {
		if len(summary) < len(phrase) {
			continue
		}
		if strings.EqualFold(summary[:len(phrase)], phrase) {
			summary = strings.TrimSpace(summary[len(phrase):])
			if strings.HasPrefix(summary, ":") {
				summary = strings.TrimSpace(summary[1:])
			}
		}
	}
	return summary
}

func (s *OpenRouterSummarizer) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
