package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"TaxNewsletter/internal/domain"
	"TaxNewsletter/internal/infrastructure/llm"
	"TaxNewsletter/internal/ports"
)

// ErrorSentinel replaces the summary when the Gemini call fails.
const ErrorSentinel = "Summary unavailable"

// Summarizer is the Gemini-backed alternative to the OpenRouter gateway,
// selected via configuration.
type Summarizer struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *slog.Logger
}

var _ ports.Summarizer = (*Summarizer)(nil)

// New builds a Gemini client for the given model name.
func New(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*Summarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini summarizer misconfigured: missing api key")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("new gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.3)

	return &Summarizer{client: client, model: model, logger: logger}, nil
}

// Summarize generates a summary for the document text; failures degrade
// to the sentinel instead of propagating.
func (s *Summarizer) Summarize(ctx context.Context, text string, category domain.Category, reference string) string {
	prompt := fmt.Sprintf(`You are a tax expert. Summarize the following %s (%s) in 3-4 clear sentences.

Focus on:
1. What is the main change or update?
2. Who is affected?
3. What action is required?
4. Important dates/deadlines (if any)

Document text:
%s

Provide a professional summary:`, category, reference, llm.Truncate(text, 5000))

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		s.warn("gemini generation failed", "reference", reference, "error", err)
		return ErrorSentinel
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		s.warn("gemini returned no candidates", "reference", reference)
		return ErrorSentinel
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if chunk, ok := part.(genai.Text); ok {
			sb.WriteString(string(chunk))
		}
	}

	summary := strings.TrimSpace(sb.String())
	if summary == "" {
		return ErrorSentinel
	}
	return summary
}

// Close releases the underlying API client.
func (s *Summarizer) Close() error {
	return s.client.Close()
}

func (s *Summarizer) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
