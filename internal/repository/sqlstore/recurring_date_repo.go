package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"announcebot/internal/domain"
)

type recurringDateRepository struct {
	DB *sql.DB
}

func NewRecurringDateRepository(db *sql.DB) domain.RecurringDateRepository {
	return &recurringDateRepository{
		DB: db,
	}
}

// The table is dropped and rebuilt on every Reseed, so its DDL lives here
// rather than in the migrations.
var recurringDDL = []string{
	`DROP TABLE IF EXISTS recurring_dates`,
	`CREATE TABLE recurring_dates (
		subject_name TEXT NOT NULL,
		month_day INTEGER NOT NULL,
		category TEXT NOT NULL
	)`,
	`CREATE INDEX recurring_dates_month_day_idx ON recurring_dates (month_day)`,
}

func (r *recurringDateRepository) Reseed(ctx context.Context, entries []domain.RecurringDate) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range recurringDDL {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("recreate recurring_dates: %w", err)
		}
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO recurring_dates (subject_name, month_day, category)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return err
	}
	defer insert.Close()

	for _, e := range entries {
		if _, err = insert.ExecContext(ctx, e.SubjectName, e.Date, string(e.Category)); err != nil {
			return fmt.Errorf("insert %q: %w", e.SubjectName, err)
		}
	}

	return tx.Commit()
}

func (r *recurringDateRepository) ListDue(ctx context.Context, monthDay int) ([]*domain.RecurringDate, error) {
	query := `
		SELECT subject_name, month_day, category
		FROM recurring_dates
		WHERE month_day = $1
	`
	return r.list(ctx, query, monthDay)
}

func (r *recurringDateRepository) List(ctx context.Context) ([]*domain.RecurringDate, error) {
	query := `
		SELECT subject_name, month_day, category
		FROM recurring_dates
		ORDER BY month_day, subject_name
	`
	return r.list(ctx, query)
}

func (r *recurringDateRepository) list(ctx context.Context, query string, args ...any) ([]*domain.RecurringDate, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.RecurringDate, 0)
	for rows.Next() {
		e := &domain.RecurringDate{}
		var category string
		if err := rows.Scan(&e.SubjectName, &e.Date, &category); err != nil {
			return nil, err
		}
		e.Category = domain.RecurringCategory(category)
		out = append(out, e)
	}
	return out, rows.Err()
}
