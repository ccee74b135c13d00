package sqlstore

import (
	"context"
	"database/sql"

	"announcebot/internal/domain"
)

type pendingEventRepository struct {
	DB *sql.DB
}

func NewPendingEventRepository(db *sql.DB) domain.PendingEventRepository {
	return &pendingEventRepository{
		DB: db,
	}
}

func (r *pendingEventRepository) Insert(ctx context.Context, e *domain.PendingEvent) error {
	query := `
		INSERT INTO pending_events (name, end_date, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, e.Name, e.EndDate, e.CreatedAt).Scan(&e.ID)
}

func (r *pendingEventRepository) ListDue(ctx context.Context, endDate int) ([]*domain.PendingEvent, error) {
	query := `
		SELECT id, name, end_date, created_at
		FROM pending_events
		WHERE end_date = $1
	`
	return r.list(ctx, query, endDate)
}

func (r *pendingEventRepository) ListFrom(ctx context.Context, endDate int) ([]*domain.PendingEvent, error) {
	query := `
		SELECT id, name, end_date, created_at
		FROM pending_events
		WHERE end_date >= $1
		ORDER BY end_date, id
	`
	return r.list(ctx, query, endDate)
}

func (r *pendingEventRepository) list(ctx context.Context, query string, arg int) ([]*domain.PendingEvent, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.PendingEvent, 0)
	for rows.Next() {
		e := &domain.PendingEvent{}
		if err := rows.Scan(&e.ID, &e.Name, &e.EndDate, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *pendingEventRepository) DeleteBefore(ctx context.Context, endDate int) (int64, error) {
	query := `DELETE FROM pending_events WHERE end_date < $1`
	result, err := r.DB.ExecContext(ctx, query, endDate)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
