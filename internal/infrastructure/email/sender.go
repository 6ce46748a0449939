package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"TaxNewsletter/internal/domain"
	"TaxNewsletter/internal/newsletter"
	"TaxNewsletter/internal/ports"
)

// Sender delivers the newsletter as one multipart message per run over
// an authenticated SMTP relay.
type Sender struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
	insecure bool
	logger   *slog.Logger
}

var _ ports.Sink = (*Sender)(nil)

// Options configures the SMTP relay connection.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	// InsecureTLS disables certificate verification on STARTTLS; needed
	// behind TLS-intercepting corporate proxies.
	InsecureTLS bool
}

// NewSender wires relay credentials and recipients.
func NewSender(opts Options, logger *slog.Logger) *Sender {
	return &Sender{
		host:     opts.Host,
		port:     opts.Port,
		username: opts.Username,
		password: opts.Password,
		from:     opts.From,
		to:       opts.To,
		insecure: opts.InsecureTLS,
		logger:   logger,
	}
}

// Name identifies the sink in recorded outcomes.
func (s *Sender) Name() string {
	return "email"
}

// message builds the multipart newsletter mail: plain-text body with the
// HTML document as the preferred alternative.
func (s *Sender) message(draft domain.NewsletterDraft) (*gomail.Message, error) {
	html, err := newsletter.RenderHTML(draft)
	if err != nil {
		return nil, fmt.Errorf("render email body: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", s.to...)
	msg.SetHeader("Subject", fmt.Sprintf("India Tax Alert - %s", draft.GeneratedAt.Format("January 2, 2006")))
	msg.SetBody("text/plain", newsletter.RenderText(draft))
	msg.AddAlternative("text/html", html)
	return msg, nil
}

// Deliver sends the draft as a plain-text body with an HTML alternative.
// Failure is reported to the caller and logged, never retried.
func (s *Sender) Deliver(ctx context.Context, draft domain.NewsletterDraft) error {
	if s.host == "" || s.from == "" || len(s.to) == 0 {
		return fmt.Errorf("email sink misconfigured")
	}

	msg, err := s.message(draft)
	if err != nil {
		return err
	}

	dialer := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if s.insecure {
		dialer.TLSConfig = &tls.Config{ServerName: s.host, InsecureSkipVerify: true}
	}

	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send newsletter email: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("newsletter email sent", "recipients", len(s.to), "items", len(draft.Items))
	}
	return nil
}
