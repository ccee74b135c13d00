package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"announcebot/internal/adapters/calendar"
	"announcebot/internal/domain"
	"announcebot/internal/extract"
)

// RecurringView is a recurring date with its next occurrence.
// swagger:model RecurringView
type RecurringView struct {
	domain.RecurringDate
	Occasion string `json:"occasion"`
	// NextOccurrence is YYYY-MM-DD in the reference zone.
	NextOccurrence string `json:"next_occurrence"`
	DaysUntil      int    `json:"days_until"`
}

// MatchView is the JSON form of one dry-run outcome.
// swagger:model MatchView
type MatchView struct {
	Rule      string `json:"rule"`
	Kind      string `json:"kind"`
	EventName string `json:"event_name,omitempty"`
	EndDate   int    `json:"end_date,omitempty"`
	Notice    string `json:"notice,omitempty"`
}

// ScheduleQueryService answers read-only questions about stored state for
// the ops API.
type ScheduleQueryService struct {
	pending   domain.PendingEventRepository
	recurring domain.RecurringDateRepository
	catalog   *extract.Catalog
	now       func() time.Time
}

func NewScheduleQueryService(pending domain.PendingEventRepository, recurring domain.RecurringDateRepository,
	catalog *extract.Catalog) *ScheduleQueryService {
	return &ScheduleQueryService{
		pending:   pending,
		recurring: recurring,
		catalog:   catalog,
		now:       time.Now,
	}
}

// SetClock overrides the time source.
func (s *ScheduleQueryService) SetClock(now func() time.Time) {
	s.now = now
}

// Upcoming lists pending events ending on or after from (YYYYMMDD). A zero
// from means today.
func (s *ScheduleQueryService) Upcoming(ctx context.Context, from int) ([]*domain.PendingEvent, error) {
	if from == 0 {
		from, _ = extract.Today(s.now())
	}
	events, err := s.pending.ListFrom(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("list pending events: %w", err)
	}
	return events, nil
}

// Recurring lists the recurring catalog ordered by next occurrence.
func (s *ScheduleQueryService) Recurring(ctx context.Context) ([]RecurringView, error) {
	dates, err := s.recurring.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recurring dates: %w", err)
	}
	now := s.now()
	ref := extract.ReferenceTime(now)
	today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, extract.ReferenceZone)

	views := make([]RecurringView, 0, len(dates))
	for _, d := range dates {
		next, err := calendar.NextOccurrence(d, now)
		if err != nil {
			return nil, fmt.Errorf("next occurrence of %s: %w", d.SubjectName, err)
		}
		views = append(views, RecurringView{
			RecurringDate:  *d,
			Occasion:       calendar.Occasion(d.Category),
			NextOccurrence: next.Format(time.DateOnly),
			DaysUntil:      int(next.Sub(today).Hours() / 24),
		})
	}
	slices.SortStableFunc(views, func(a, b RecurringView) int {
		return a.DaysUntil - b.DaysUntil
	})
	return views, nil
}

// Calendar renders upcoming pending events and the recurring catalog as an
// iCalendar document.
func (s *ScheduleQueryService) Calendar(ctx context.Context) (string, error) {
	now := s.now()
	today, _ := extract.Today(now)
	events, err := s.pending.ListFrom(ctx, today)
	if err != nil {
		return "", fmt.Errorf("list pending events: %w", err)
	}
	dates, err := s.recurring.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list recurring dates: %w", err)
	}
	return calendar.Export(events, dates, now), nil
}

// Match dry-runs the catalog on text without storing or sending anything.
func (s *ScheduleQueryService) Match(text string) []MatchView {
	return MatchViews(Preview(s.catalog, text, s.now()))
}

// MatchViews converts dry-run outcomes to their JSON form.
func MatchViews(outcomes []Outcome) []MatchView {
	views := make([]MatchView, 0, len(outcomes))
	for _, o := range outcomes {
		views = append(views, MatchView{
			Rule:      o.Match.Rule,
			Kind:      o.Match.Kind.String(),
			EventName: o.Match.EventName,
			EndDate:   o.EndDate,
			Notice:    o.Notice,
		})
	}
	return views
}
