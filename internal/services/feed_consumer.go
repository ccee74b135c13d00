package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"announcebot/internal/domain"
)

// MessageProcessor handles one feed message.
type MessageProcessor interface {
	Process(ctx context.Context, text string) (ProcessResult, error)
}

// FeedConsumer drives a MessageProcessor from a FeedSource.
type FeedConsumer struct {
	source    domain.FeedSource
	processor MessageProcessor
	logger    *slog.Logger
}

func NewFeedConsumer(source domain.FeedSource, processor MessageProcessor, logger *slog.Logger) *FeedConsumer {
	return &FeedConsumer{
		source:    source,
		processor: processor,
		logger:    logger,
	}
}

// Run blocks reading messages until ctx is canceled or a fatal error occurs.
// Malformed payloads are logged and skipped. Transport and processing errors
// end the loop.
func (c *FeedConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, domain.ErrMalformedMessage) {
				c.logger.WarnContext(ctx, "skipping malformed feed payload", "error", err)
				continue
			}
			return fmt.Errorf("read feed: %w", err)
		}

		c.logger.DebugContext(ctx, "feed message received", "id", msg.ID)
		if _, err := c.processor.Process(ctx, msg.Text); err != nil {
			return fmt.Errorf("process message %s: %w", msg.ID, err)
		}
	}
}
