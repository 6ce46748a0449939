package ports

import (
	"context"
	"time"

	"TaxNewsletter/internal/domain"
)

// MonitorSource queries the external scraping monitor for recent runs of
// one robot. Change-set resolution happens on top of the returned runs.
type MonitorSource interface {
	RecentRuns(ctx context.Context, robotID string) ([]domain.MonitorRun, error)
}

// DocumentFetcher downloads raw document bytes by URL.
type DocumentFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// TextExtractor pulls plain text out of a PDF byte stream.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// Summarizer condenses extracted document text. Implementations never
// fail the caller: on any transport or API error they return a fixed
// sentinel summary so one broken summary cannot sink the whole run.
type Summarizer interface {
	Summarize(ctx context.Context, text string, category domain.Category, reference string) string
}

// Sink delivers an assembled newsletter to one distribution channel.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, draft domain.NewsletterDraft) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
