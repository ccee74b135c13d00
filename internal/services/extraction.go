package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"announcebot/internal/domain"
	"announcebot/internal/extract"
)

// Outcome is the planned effect of one rule match.
type Outcome struct {
	Match extract.Match
	// EndDate is set for FutureEvent matches (YYYYMMDD).
	EndDate int
	// Notice is set for ImmediateNotice matches.
	Notice string
}

// ProcessResult reports what Process did with a message.
type ProcessResult struct {
	Outcomes []Outcome
	Inserted []*domain.PendingEvent
	Sent     []string
}

// ExtractionService turns feed messages into pending events and immediate
// notices. It holds no per-message state.
type ExtractionService struct {
	catalog  *extract.Catalog
	pending  domain.PendingEventRepository
	notifier domain.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewExtractionService returns an ExtractionService that reads the current
// time from time.Now.
func NewExtractionService(catalog *extract.Catalog, pending domain.PendingEventRepository,
	notifier domain.Notifier, logger *slog.Logger) *ExtractionService {
	return &ExtractionService{
		catalog:  catalog,
		pending:  pending,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the time source.
func (s *ExtractionService) SetClock(now func() time.Time) {
	s.now = now
}

// Preview returns the outcomes text would produce at now, without side effects.
func Preview(catalog *extract.Catalog, text string, now time.Time) []Outcome {
	matches := catalog.MatchAll(text)
	out := make([]Outcome, 0, len(matches))
	for _, m := range matches {
		o := Outcome{Match: m}
		switch m.Kind {
		case extract.FutureEvent:
			o.EndDate = extract.ResolveEndDate(m.Month, m.Day, now)
		case extract.ImmediateNotice:
			o.Notice = m.Notice()
		}
		out = append(out, o)
	}
	return out
}

// Process applies every matching rule to text. Outcomes are independent:
// a failed insert does not stop a notice from being sent and vice versa.
// All failures are joined into the returned error.
func (s *ExtractionService) Process(ctx context.Context, text string) (ProcessResult, error) {
	var res ProcessResult
	if strings.TrimSpace(text) == "" {
		return res, nil
	}

	now := s.now()
	res.Outcomes = Preview(s.catalog, text, now)
	if len(res.Outcomes) == 0 {
		s.logger.DebugContext(ctx, "message matched no rule")
		return res, nil
	}

	var errs []error
	for _, o := range res.Outcomes {
		switch o.Match.Kind {
		case extract.FutureEvent:
			e := domain.NewPendingEvent(o.Match.EventName, o.EndDate, now)
			if err := s.pending.Insert(ctx, e); err != nil {
				errs = append(errs, fmt.Errorf("insert pending event %q: %w", e.Name, err))
				continue
			}
			res.Inserted = append(res.Inserted, e)
			s.logger.InfoContext(ctx, "pending event stored",
				"rule", o.Match.Rule, "id", e.ID, "name", e.Name, "end_date", e.EndDate)
		case extract.ImmediateNotice:
			if err := s.notifier.Send(ctx, o.Notice); err != nil {
				errs = append(errs, fmt.Errorf("send %s notice: %w", o.Match.Rule, err))
				continue
			}
			res.Sent = append(res.Sent, o.Notice)
			s.logger.InfoContext(ctx, "notice sent", "rule", o.Match.Rule)
		}
	}

	return res, errors.Join(errs...)
}
