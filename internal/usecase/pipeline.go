package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"TaxNewsletter/internal/changeset"
	"TaxNewsletter/internal/docurl"
	"TaxNewsletter/internal/domain"
	"TaxNewsletter/internal/newsletter"
	"TaxNewsletter/internal/ports"
)

// ErrRunInProgress is returned when a run is requested while another is
// still executing. The in-progress run is reported, never restarted.
var ErrRunInProgress = errors.New("newsletter run already in progress")

// minExtractedChars is the floor below which extracted text is treated as
// an extraction failure: shorter output signals a scanned or image-only
// PDF rather than a usable document.
const minExtractedChars = 100

// RobotSet maps each category to its monitored robot.
type RobotSet struct {
	Circulars     string
	Notifications string
	PressReleases string
}

// For returns the robot monitoring the given category.
func (r RobotSet) For(cat domain.Category) string {
	switch cat {
	case domain.CategoryCircular:
		return r.Circulars
	case domain.CategoryNotification:
		return r.Notifications
	case domain.CategoryPressRelease:
		return r.PressReleases
	default:
		return ""
	}
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.MonitorSource
	Fetcher    ports.DocumentFetcher
	Extractor  ports.TextExtractor
	Summarizer ports.Summarizer
	Sinks      []ports.Sink
	Robots     RobotSet
	Logger     *slog.Logger
	Clock      func() time.Time
}

// Snapshot is a read-only view of the pipeline's run state for the
// status surface.
type Snapshot struct {
	Status      domain.RunStatus
	LastUpdated time.Time
	ItemCount   int
	Draft       domain.NewsletterDraft
	Err         string
}

// Pipeline orchestrates one newsletter run: change-set resolution per
// category, the per-document extract/summarize chain, assembly, and
// distribution. At most one run executes at a time; that guard protects
// the single latest-newsletter slot from mid-computation overwrites.
type Pipeline struct {
	source     ports.MonitorSource
	fetcher    ports.DocumentFetcher
	extractor  ports.TextExtractor
	summarizer ports.Summarizer
	sinks      []ports.Sink
	robots     RobotSet
	logger     *slog.Logger
	clock      func() time.Time

	mu          sync.Mutex
	running     bool
	status      domain.RunStatus
	lastUpdated time.Time
	latest      domain.NewsletterDraft
	lastErr     string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Pipeline{
		source:     deps.Source,
		fetcher:    deps.Fetcher,
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		sinks:      deps.Sinks,
		robots:     deps.Robots,
		logger:     deps.Logger,
		clock:      clock,
		status:     domain.StatusNotGenerated,
	}
}

// Run executes one pipeline pass synchronously.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.begin(); err != nil {
		return err
	}
	draft, err := p.process(ctx)
	p.finish(draft, err)
	return err
}

// Start launches a pipeline pass in the background, rejecting the
// request when a run is already in progress. The run detaches from the
// caller's cancellation: an HTTP trigger returns immediately and its
// request context dies with the response, which must not abort the run.
func (p *Pipeline) Start(ctx context.Context) error {
	if err := p.begin(); err != nil {
		return err
	}
	runCtx := context.WithoutCancel(ctx)
	go func() {
		draft, err := p.process(runCtx)
		p.finish(draft, err)
	}()
	return nil
}

// Snapshot returns the current run state and the last completed draft.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Status:      p.status,
		LastUpdated: p.lastUpdated,
		ItemCount:   len(p.latest.Items),
		Draft:       p.latest,
		Err:         p.lastErr,
	}
}

func (p *Pipeline) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return ErrRunInProgress
	}
	p.running = true
	p.status = domain.StatusProcessing
	p.lastUpdated = p.clock()
	return nil
}

func (p *Pipeline) finish(draft domain.NewsletterDraft, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	p.lastUpdated = p.clock()
	if err != nil {
		p.status = domain.StatusError
		p.lastErr = err.Error()
		return
	}
	p.latest = draft
	p.status = domain.StatusCompleted
	p.lastErr = ""
}

// process runs all categories in fixed order and distributes the result.
// Per-item failures skip that item only; a run fails solely on
// orchestration-level problems such as missing configuration.
func (p *Pipeline) process(ctx context.Context) (domain.NewsletterDraft, error) {
	if p.source == nil || p.fetcher == nil || p.extractor == nil || p.summarizer == nil {
		return domain.NewsletterDraft{}, fmt.Errorf("pipeline misconfigured: missing dependencies")
	}

	var (
		items    []domain.ProcessedItem
		warnings []string
	)

	for _, cat := range domain.Categories() {
		robotID := p.robots.For(cat)
		if robotID == "" {
			return domain.NewsletterDraft{}, fmt.Errorf("no robot configured for category %s", cat)
		}

		runs, err := p.source.RecentRuns(ctx, robotID)
		if err != nil {
			reason := fmt.Sprintf("%s: monitor query failed: %v", cat, err)
			p.warn("monitor query failed", "category", cat, "error", err)
			warnings = append(warnings, reason)
			continue
		}

		entries := changeset.Entries(cat, changeset.NewRecords(runs))
		p.info("change set resolved", "category", cat, "new_items", len(entries))

		for _, entry := range entries {
			if cat == domain.CategoryPressRelease {
				// The title serves as its own summary; press releases
				// have no document to fetch.
				items = append(items, domain.ProcessedItem{
					Category:  cat,
					Reference: entry.Reference,
					Date:      entry.Date,
					Summary:   entry.Reference,
				})
				continue
			}

			item, skipReason := p.processDocument(ctx, cat, entry)
			if skipReason != "" {
				p.warn("item skipped", "category", cat, "reference", entry.Reference, "reason", skipReason)
				warnings = append(warnings, fmt.Sprintf("%s %s: %s", cat, entry.Reference, skipReason))
				continue
			}
			items = append(items, item)
		}
	}

	draft := newsletter.Assemble(items, p.clock())
	draft.Warnings = warnings

	if draft.Empty() {
		p.info("no new items detected, skipping distribution")
		return draft, nil
	}

	for _, sink := range p.sinks {
		outcome := domain.SinkOutcome{Sink: sink.Name(), Sent: true}
		if err := sink.Deliver(ctx, draft); err != nil {
			outcome.Sent = false
			outcome.Error = err.Error()
			p.warn("distribution failed", "sink", sink.Name(), "error", err)
			draft.Warnings = append(draft.Warnings, fmt.Sprintf("sink %s: %v", sink.Name(), err))
		} else {
			p.info("newsletter delivered", "sink", sink.Name(), "items", len(draft.Items))
		}
		draft.Outcomes = append(draft.Outcomes, outcome)
	}

	return draft, nil
}

// processDocument runs the resolve, fetch, extract, summarize chain for
// one circular or notification. A non-empty skip reason means the item
// is dropped; summarization never skips, it degrades inside the gateway.
func (p *Pipeline) processDocument(ctx context.Context, cat domain.Category, entry domain.SourceEntry) (domain.ProcessedItem, string) {
	url, err := docurl.Resolve(cat, entry.Reference)
	if err != nil {
		return domain.ProcessedItem{}, fmt.Sprintf("resolve url: %v", err)
	}

	data, err := p.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return domain.ProcessedItem{}, fmt.Sprintf("fetch: %v", err)
	}

	text, err := p.extractor.ExtractText(data)
	if err != nil {
		return domain.ProcessedItem{}, fmt.Sprintf("extract: %v", err)
	}
	if len(text) < minExtractedChars {
		return domain.ProcessedItem{}, fmt.Sprintf("extracted text too short (%d chars)", len(text))
	}

	return domain.ProcessedItem{
		Category:  cat,
		Reference: entry.Reference,
		Date:      entry.Date,
		Summary:   p.summarizer.Summarize(ctx, text, cat, entry.Reference),
		PDFURL:    url,
	}, ""
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
