package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"announcebot/internal/domain"
	"announcebot/internal/extract"
)

// TickReport summarizes one scheduler tick.
type TickReport struct {
	Today     int
	Pending   int
	Recurring int
	Sent      int
	Failed    int
	Pruned    int64
}

// DispatchService replays the facts that are due today. Delivery is at most
// once per day: a notice that fails to send is logged and not retried on a
// later tick.
type DispatchService struct {
	pending   domain.PendingEventRepository
	recurring domain.RecurringDateRepository
	notifier  domain.Notifier
	logger    *slog.Logger
}

func NewDispatchService(pending domain.PendingEventRepository, recurring domain.RecurringDateRepository,
	notifier domain.Notifier, logger *slog.Logger) *DispatchService {
	return &DispatchService{
		pending:   pending,
		recurring: recurring,
		notifier:  notifier,
		logger:    logger,
	}
}

// EventEndingNotice renders the notice for a pending event on its end date.
func EventEndingNotice(e *domain.PendingEvent) string {
	return "本日、イベント「" + e.Name + "」が終了します！アフターライブとストーリーの確認を忘れずに。"
}

// RecurringNotice renders the notice for a recurring date, worded by category.
func RecurringNotice(r *domain.RecurringDate) string {
	switch r.Category {
	case domain.CategoryAnniversary:
		return "今日は" + r.SubjectName + "の記念日です！おめでとう！"
	default:
		return "今日は" + r.SubjectName + "の誕生日です！おめでとう！"
	}
}

// RunTick dispatches everything due on the reference-zone day of now, then
// deletes pending events dated before that day. A storage failure aborts the
// tick; send failures are counted and joined into the returned error after
// every item has been attempted.
func (s *DispatchService) RunTick(ctx context.Context, now time.Time) (TickReport, error) {
	ymd, md := extract.Today(now)
	report := TickReport{Today: ymd}

	events, err := s.pending.ListDue(ctx, ymd)
	if err != nil {
		return report, fmt.Errorf("list pending events: %w", err)
	}
	dates, err := s.recurring.ListDue(ctx, md)
	if err != nil {
		return report, fmt.Errorf("list recurring dates: %w", err)
	}
	report.Pending = len(events)
	report.Recurring = len(dates)

	notices := make([]string, 0, len(events)+len(dates))
	for _, e := range events {
		notices = append(notices, EventEndingNotice(e))
	}
	for _, r := range dates {
		notices = append(notices, RecurringNotice(r))
	}

	var sendErrs []error
	for _, n := range notices {
		if err := s.notifier.Send(ctx, n); err != nil {
			report.Failed++
			sendErrs = append(sendErrs, err)
			s.logger.ErrorContext(ctx, "dispatch failed", "today", ymd, "error", err)
			continue
		}
		report.Sent++
	}

	pruned, err := s.pending.DeleteBefore(ctx, ymd)
	if err != nil {
		return report, fmt.Errorf("prune pending events: %w", err)
	}
	report.Pruned = pruned

	s.logger.InfoContext(ctx, "tick complete",
		"today", ymd,
		"pending", report.Pending,
		"recurring", report.Recurring,
		"sent", report.Sent,
		"failed", report.Failed,
		"pruned", report.Pruned,
	)

	if len(sendErrs) > 0 {
		return report, fmt.Errorf("%d of %d notices failed: %w",
			report.Failed, len(notices), errors.Join(sendErrs...))
	}
	return report, nil
}
