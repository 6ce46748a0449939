package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv         = "TAX_NEWSLETTER_CONFIG"
	browseAIAPIKeyEnv     = "BROWSE_AI_API_KEY"
	circularsRobotEnv     = "CIRCULARS_ROBOT_ID"
	notificationsRobotEnv = "NOTIFICATIONS_ROBOT_ID"
	pressReleasesRobotEnv = "PRESS_RELEASES_ROBOT_ID"
	openRouterAPIKeyEnv   = "OPENROUTER_API_KEY"
	geminiAPIKeyEnv       = "GEMINI_API_KEY"
	sendgridAPIKeyEnv     = "SENDGRID_API_KEY"
	emailFromEnv          = "EMAIL_FROM"
	emailToEnv            = "EMAIL_TO"
	webhookURLEnv         = "POWER_AUTOMATE_WEBHOOK"

	defaultInterval = 24 * time.Hour
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
	BrowseAI   BrowseAIConfig   `yaml:"browseAi"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Email      EmailConfig      `yaml:"email"`
	SharePoint SharePointConfig `yaml:"sharepoint"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
}

// LoggingConfig controls the slog handler level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// BrowseAIConfig wires the scraping-monitor API and the per-category robots.
type BrowseAIConfig struct {
	APIKey  string       `yaml:"apiKey"`
	BaseURL string       `yaml:"baseUrl"`
	Robots  RobotsConfig `yaml:"robots"`
}

// RobotsConfig maps categories to robot identifiers.
type RobotsConfig struct {
	Circulars     string `yaml:"circulars"`
	Notifications string `yaml:"notifications"`
	PressReleases string `yaml:"pressReleases"`
}

// SummarizerConfig selects and configures the LLM backend.
type SummarizerConfig struct {
	Backend    string           `yaml:"backend"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Gemini     GeminiConfig     `yaml:"gemini"`
}

// OpenRouterConfig defines how to contact the OpenRouter API.
type OpenRouterConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// GeminiConfig defines the Gemini backend parameters.
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// EmailConfig wires the SMTP sink.
type EmailConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	InsecureTLS bool   `yaml:"insecureSkipVerify"`
}

// SharePointConfig wires the document-storage webhook.
type SharePointConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// SchedulerConfig defines how often the pipeline runs in serve mode.
type SchedulerConfig struct {
	Interval string `yaml:"interval"`
}

// IntervalDuration parses the configured interval, falling back to the
// daily default on absent or malformed values.
func (s SchedulerConfig) IntervalDuration() time.Duration {
	if s.Interval == "" {
		return defaultInterval
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		log.Printf("config: invalid scheduler interval %q, reverting to %s", s.Interval, defaultInterval)
		return defaultInterval
	}
	return d
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(browseAIAPIKeyEnv); v != "" {
		c.BrowseAI.APIKey = v
	}
	if v := os.Getenv(circularsRobotEnv); v != "" {
		c.BrowseAI.Robots.Circulars = v
	}
	if v := os.Getenv(notificationsRobotEnv); v != "" {
		c.BrowseAI.Robots.Notifications = v
	}
	if v := os.Getenv(pressReleasesRobotEnv); v != "" {
		c.BrowseAI.Robots.PressReleases = v
	}

	if v := os.Getenv(openRouterAPIKeyEnv); v != "" {
		c.Summarizer.OpenRouter.APIKey = v
	}
	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Summarizer.Gemini.APIKey = v
	}

	if v := os.Getenv(sendgridAPIKeyEnv); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv(emailFromEnv); v != "" {
		c.Email.From = v
	}
	if v := os.Getenv(emailToEnv); v != "" {
		c.Email.To = v
	}

	if v := os.Getenv(webhookURLEnv); v != "" {
		c.SharePoint.WebhookURL = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Server.Addr != "" {
		base.Server = override.Server
	}

	if override.BrowseAI.APIKey != "" {
		base.BrowseAI.APIKey = override.BrowseAI.APIKey
	}
	if override.BrowseAI.BaseURL != "" {
		base.BrowseAI.BaseURL = override.BrowseAI.BaseURL
	}
	if override.BrowseAI.Robots.Circulars != "" {
		base.BrowseAI.Robots.Circulars = override.BrowseAI.Robots.Circulars
	}
	if override.BrowseAI.Robots.Notifications != "" {
		base.BrowseAI.Robots.Notifications = override.BrowseAI.Robots.Notifications
	}
	if override.BrowseAI.Robots.PressReleases != "" {
		base.BrowseAI.Robots.PressReleases = override.BrowseAI.Robots.PressReleases
	}

	if override.Summarizer.Backend != "" {
		base.Summarizer.Backend = override.Summarizer.Backend
	}
	if override.Summarizer.OpenRouter.Endpoint != "" {
		base.Summarizer.OpenRouter.Endpoint = override.Summarizer.OpenRouter.Endpoint
	}
	if override.Summarizer.OpenRouter.Model != "" {
		base.Summarizer.OpenRouter.Model = override.Summarizer.OpenRouter.Model
	}
	if override.Summarizer.OpenRouter.APIKey != "" {
		base.Summarizer.OpenRouter.APIKey = override.Summarizer.OpenRouter.APIKey
	}
	if override.Summarizer.Gemini.APIKey != "" {
		base.Summarizer.Gemini.APIKey = override.Summarizer.Gemini.APIKey
	}
	if override.Summarizer.Gemini.Model != "" {
		base.Summarizer.Gemini.Model = override.Summarizer.Gemini.Model
	}

	if override.Email.Host != "" {
		base.Email.Host = override.Email.Host
	}
	if override.Email.Port != 0 {
		base.Email.Port = override.Email.Port
	}
	if override.Email.Username != "" {
		base.Email.Username = override.Email.Username
	}
	if override.Email.Password != "" {
		base.Email.Password = override.Email.Password
	}
	if override.Email.From != "" {
		base.Email.From = override.Email.From
	}
	if override.Email.To != "" {
		base.Email.To = override.Email.To
	}
	if override.Email.InsecureTLS {
		base.Email.InsecureTLS = true
	}

	if override.SharePoint.WebhookURL != "" {
		base.SharePoint.WebhookURL = override.SharePoint.WebhookURL
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Addr: ":8080"},
		BrowseAI: BrowseAIConfig{
			BaseURL: "https://api.browse.ai/v2",
		},
		Summarizer: SummarizerConfig{
			Backend: "openrouter",
			OpenRouter: OpenRouterConfig{
				Endpoint: "https://openrouter.ai/api/v1/chat/completions",
				Model:    "meta-llama/llama-3.1-70b-instruct",
			},
			Gemini: GeminiConfig{Model: "gemini-2.5-flash"},
		},
		Email: EmailConfig{
			Host:        "smtp.sendgrid.net",
			Port:        587,
			Username:    "apikey",
			InsecureTLS: true,
		},
		Scheduler: SchedulerConfig{Interval: "24h"},
	}
}
