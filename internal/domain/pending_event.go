package domain

import (
	"context"
	"time"
)

// PendingEvent is a future-dated event extracted from the feed that is
// dispatched on the day its EndDate arrives.
// swagger:model PendingEvent
type PendingEvent struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// EndDate is the absolute end date encoded as YYYYMMDD.
	EndDate   int       `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPendingEvent returns a new PendingEvent. ID is set by the repository on insert.
func NewPendingEvent(name string, endDate int, createdAt time.Time) *PendingEvent {
	return &PendingEvent{
		Name:      name,
		EndDate:   endDate,
		CreatedAt: createdAt,
	}
}

// PendingEventRepository defines storage for pending events. Inserts are
// append-only and never rejected as duplicates.
type PendingEventRepository interface {
	Insert(ctx context.Context, event *PendingEvent) error
	// ListDue returns events whose end date equals endDate.
	ListDue(ctx context.Context, endDate int) ([]*PendingEvent, error)
	// ListFrom returns events whose end date is on or after endDate, ordered by end date.
	ListFrom(ctx context.Context, endDate int) ([]*PendingEvent, error)
	// DeleteBefore removes events whose end date is strictly before endDate.
	DeleteBefore(ctx context.Context, endDate int) (int64, error)
}
