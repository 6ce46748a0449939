package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"TaxNewsletter/internal/api"
	"TaxNewsletter/internal/config"
	"TaxNewsletter/internal/infrastructure/browseai"
	"TaxNewsletter/internal/infrastructure/email"
	"TaxNewsletter/internal/infrastructure/gemini"
	"TaxNewsletter/internal/infrastructure/llm"
	"TaxNewsletter/internal/infrastructure/pdfdoc"
	"TaxNewsletter/internal/infrastructure/scheduler"
	"TaxNewsletter/internal/infrastructure/sharepoint"
	"TaxNewsletter/internal/logging"
	"TaxNewsletter/internal/ports"
	"TaxNewsletter/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	server    *api.Server
	closeFns  []func()
}

// New builds a runnable application instance from configuration.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	source := browseai.NewClient(cfg.BrowseAI.BaseURL, cfg.BrowseAI.APIKey, nil)

	summarizer, err := a.buildSummarizer(ctx, cfg, baseLogger)
	if err != nil {
		return nil, err
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Fetcher:    pdfdoc.NewFetcher(nil),
		Extractor:  pdfdoc.NewExtractor(),
		Summarizer: summarizer,
		Sinks:      a.buildSinks(cfg, baseLogger),
		Robots: usecase.RobotSet{
			Circulars:     cfg.BrowseAI.Robots.Circulars,
			Notifications: cfg.BrowseAI.Robots.Notifications,
			PressReleases: cfg.BrowseAI.Robots.PressReleases,
		},
		Logger: baseLogger.With("component", "pipeline"),
	})

	a.pipeline = pipeline
	a.scheduler = usecase.NewScheduler(
		scheduler.NewTickerScheduler(cfg.Scheduler.IntervalDuration()),
		pipeline,
		baseLogger.With("component", "scheduler"),
	)
	a.server = api.NewServer(pipeline, baseLogger.With("component", "api"))

	return a, nil
}

func (a *Application) buildSummarizer(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (ports.Summarizer, error) {
	switch cfg.Summarizer.Backend {
	case "gemini":
		s, err := gemini.New(ctx, cfg.Summarizer.Gemini.APIKey, cfg.Summarizer.Gemini.Model,
			baseLogger.With("component", "summarizer.gemini"))
		if err != nil {
			return nil, fmt.Errorf("build gemini summarizer: %w", err)
		}
		a.closeFns = append(a.closeFns, func() { _ = s.Close() })
		return s, nil
	case "", "openrouter":
		return llm.NewOpenRouterSummarizer(
			cfg.Summarizer.OpenRouter.Endpoint,
			cfg.Summarizer.OpenRouter.Model,
			cfg.Summarizer.OpenRouter.APIKey,
			baseLogger.With("component", "summarizer.openrouter"),
		), nil
	default:
		return nil, fmt.Errorf("unknown summarizer backend %q", cfg.Summarizer.Backend)
	}
}

func (a *Application) buildSinks(cfg config.Config, baseLogger *slog.Logger) []ports.Sink {
	var sinks []ports.Sink

	if cfg.Email.From != "" && cfg.Email.To != "" {
		sinks = append(sinks, email.NewSender(email.Options{
			Host:        cfg.Email.Host,
			Port:        cfg.Email.Port,
			Username:    cfg.Email.Username,
			Password:    cfg.Email.Password,
			From:        cfg.Email.From,
			To:          splitRecipients(cfg.Email.To),
			InsecureTLS: cfg.Email.InsecureTLS,
		}, baseLogger.With("component", "sink.email")))
	} else {
		baseLogger.Warn("email sink disabled, sender or recipients not configured")
	}

	if cfg.SharePoint.WebhookURL != "" {
		sinks = append(sinks, sharepoint.NewUploader(cfg.SharePoint.WebhookURL, nil,
			baseLogger.With("component", "sink.sharepoint")))
	} else {
		baseLogger.Warn("sharepoint sink disabled, webhook url not configured")
	}

	return sinks
}

func splitRecipients(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if addr := strings.TrimSpace(p); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// Run performs a single pipeline execution and exits.
func (a *Application) Run(ctx context.Context) error {
	defer a.Close()
	return a.pipeline.Run(ctx)
}

// Serve starts the recurring scheduler and blocks on the HTTP surface
// until the context is cancelled or the listener fails.
func (a *Application) Serve(ctx context.Context) error {
	defer a.Close()

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer func() {
		_ = a.scheduler.Stop(context.Background())
	}()

	return a.server.Serve(ctx, a.cfg.Server.Addr)
}

// Close releases backend clients.
func (a *Application) Close() {
	for _, fn := range a.closeFns {
		fn()
	}
	a.closeFns = nil
}
