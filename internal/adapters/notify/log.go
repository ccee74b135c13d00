package notify

import (
	"context"
	"log/slog"

	"announcebot/internal/domain"
)

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a Notifier that only logs the notice.
func NewLogNotifier(logger *slog.Logger) domain.Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Send(ctx context.Context, text string) error {
	n.logger.InfoContext(ctx, "notice", "text", text)
	return nil
}
