// Package notify provides the outbound notification sinks.
package notify

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"announcebot/internal/adapters/email"
	"announcebot/internal/domain"
)

// Config selects and configures a Notifier.
type Config struct {
	// Provider is one of "log", "webhook" or "ses". Empty means "log".
	Provider   string
	WebhookURL string
	// EmailTo is the recipient for the ses provider.
	EmailTo string
	Mailer  email.MailerConfig
}

// NewNotifier builds the Notifier named by cfg.Provider.
func NewNotifier(cfg Config, logger *slog.Logger) (domain.Notifier, error) {
	switch cfg.Provider {
	case "", "log":
		return NewLogNotifier(logger), nil
	case "webhook":
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("%w: WEBHOOK_URL is required for the webhook notifier", domain.ErrInvalidInput)
		}
		return NewWebhookNotifier(cfg.WebhookURL, &http.Client{Timeout: 15 * time.Second}, logger), nil
	case "ses":
		if cfg.EmailTo == "" || cfg.Mailer.FromAddress == "" {
			return nil, fmt.Errorf("%w: EMAIL_TO and EMAIL_FROM are required for the ses notifier", domain.ErrInvalidInput)
		}
		mcfg := cfg.Mailer
		mcfg.Provider = "ses"
		mailer, err := email.NewMailer(mcfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create mailer: %w", err)
		}
		return NewEmailNotifier(mailer, email.NewTemplateRenderer(), cfg.EmailTo, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown notifier provider %q", domain.ErrInvalidInput, cfg.Provider)
	}
}
