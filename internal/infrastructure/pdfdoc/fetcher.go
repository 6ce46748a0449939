package pdfdoc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"TaxNewsletter/internal/ports"
)

// maxDocumentBytes caps a single download; published circulars are a few
// hundred kilobytes at most.
const maxDocumentBytes = 32 << 20

// Fetcher downloads document bytes over plain HTTP.
type Fetcher struct {
	client *http.Client
}

var _ ports.DocumentFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; the default carries the 30s fetch timeout.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client}
}

// FetchBytes performs a single GET with no retry. Any transport error or
// non-2xx status is a fetch failure.
func (f *Fetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "TaxNewsletter/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("document server returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read document body: %w", err)
	}
	return data, nil
}
