package domain

import "context"

// Notifier delivers a rendered notification (infrastructure port).
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Mailer defines the contract for sending emails.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}
