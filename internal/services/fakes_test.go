package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"announcebot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePendingRepo is an in-memory PendingEventRepository for tests.
type fakePendingRepo struct {
	mu        sync.Mutex
	events    []*domain.PendingEvent
	nextID    int64
	insertErr error
	listErr   error
	deleteErr error
	deletedLT []int
}

func (f *fakePendingRepo) Insert(_ context.Context, e *domain.PendingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.events = append(f.events, &cp)
	return nil
}

func (f *fakePendingRepo) ListDue(_ context.Context, endDate int) ([]*domain.PendingEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.PendingEvent
	for _, e := range f.events {
		if e.EndDate == endDate {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakePendingRepo) ListFrom(_ context.Context, endDate int) ([]*domain.PendingEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.PendingEvent
	for _, e := range f.events {
		if e.EndDate >= endDate {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakePendingRepo) DeleteBefore(_ context.Context, endDate int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deletedLT = append(f.deletedLT, endDate)
	kept := f.events[:0]
	var n int64
	for _, e := range f.events {
		if e.EndDate < endDate {
			n++
			continue
		}
		kept = append(kept, e)
	}
	f.events = kept
	return n, nil
}

// fakeRecurringRepo is an in-memory RecurringDateRepository for tests.
type fakeRecurringRepo struct {
	entries []domain.RecurringDate
	listErr error
}

func (f *fakeRecurringRepo) Reseed(_ context.Context, entries []domain.RecurringDate) error {
	f.entries = append([]domain.RecurringDate(nil), entries...)
	return nil
}

func (f *fakeRecurringRepo) ListDue(_ context.Context, monthDay int) ([]*domain.RecurringDate, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.RecurringDate
	for i := range f.entries {
		if f.entries[i].Date == monthDay {
			out = append(out, &f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeRecurringRepo) List(_ context.Context) ([]*domain.RecurringDate, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.RecurringDate, 0, len(f.entries))
	for i := range f.entries {
		out = append(out, &f.entries[i])
	}
	return out, nil
}

// fakeNotifier records sent texts. Texts containing failOn are rejected.
type fakeNotifier struct {
	mu     sync.Mutex
	sent   []string
	failOn string
	err    error
}

func (f *fakeNotifier) Send(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return errors.New("sink rejected message")
	}
	f.sent = append(f.sent, text)
	return nil
}
