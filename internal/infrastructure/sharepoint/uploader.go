package sharepoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"TaxNewsletter/internal/domain"
	"TaxNewsletter/internal/newsletter"
	"TaxNewsletter/internal/ports"
)

// Uploader posts the rendered newsletter to a document-storage webhook
// (a Power Automate flow that files it into SharePoint).
type Uploader struct {
	webhookURL string
	client     *http.Client
	logger     *slog.Logger
}

var _ ports.Sink = (*Uploader)(nil)

// NewUploader wires the webhook endpoint; the default client carries the
// 30s webhook timeout.
func NewUploader(webhookURL string, client *http.Client, logger *slog.Logger) *Uploader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Uploader{webhookURL: webhookURL, client: client, logger: logger}
}

// Name identifies the sink in recorded outcomes.
func (u *Uploader) Name() string {
	return "sharepoint"
}

type uploadPayload struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Deliver uploads the full HTML document under a date-stamped filename.
// Only 200 and 202 responses count as success.
func (u *Uploader) Deliver(ctx context.Context, draft domain.NewsletterDraft) error {
	if u.webhookURL == "" {
		return fmt.Errorf("sharepoint sink misconfigured: missing webhook url")
	}

	content, err := newsletter.RenderHTML(draft)
	if err != nil {
		return fmt.Errorf("render newsletter document: %w", err)
	}

	payload := uploadPayload{
		Filename: fmt.Sprintf("Tax_Newsletter_%s.html", draft.GeneratedAt.Format("2006-01-02")),
		Content:  content,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal upload payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("post newsletter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}

	if u.logger != nil {
		u.logger.Info("newsletter uploaded", "filename", payload.Filename)
	}
	return nil
}
