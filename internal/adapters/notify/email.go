package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"announcebot/internal/domain"
)

// NoticeRenderer turns a notice into email parts.
type NoticeRenderer interface {
	RenderNotice(text, sentAt string) (subject, htmlBody, textBody string, err error)
}

type emailNotifier struct {
	mailer   domain.Mailer
	renderer NoticeRenderer
	to       string
	logger   *slog.Logger
	now      func() time.Time
}

// NewEmailNotifier returns a Notifier that mails each notice to one recipient.
func NewEmailNotifier(mailer domain.Mailer, renderer NoticeRenderer, to string, logger *slog.Logger) domain.Notifier {
	return &emailNotifier{
		mailer:   mailer,
		renderer: renderer,
		to:       to,
		logger:   logger,
		now:      time.Now,
	}
}

func (n *emailNotifier) Send(ctx context.Context, text string) error {
	subject, html, plain, err := n.renderer.RenderNotice(text, n.now().Format("2006-01-02 15:04 MST"))
	if err != nil {
		return fmt.Errorf("failed to render notice email: %w", err)
	}
	n.logger.DebugContext(ctx, "mailing notice", "to", n.to, "subject", subject)
	if err := n.mailer.Send(ctx, n.to, subject, html, plain); err != nil {
		return fmt.Errorf("failed to send notice email: %w", err)
	}
	return nil
}
