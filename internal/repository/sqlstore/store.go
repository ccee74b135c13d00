// Package sqlstore persists pending events and the recurring-date table in
// PostgreSQL or an on-disk SQLite file. Queries use $n placeholders, which
// both drivers accept.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/lib/pq"

	"announcebot/internal/domain"
)

// Dialect identifies the SQL backend.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// Store is one handle on the database plus the repositories bound to it.
// Each long-running loop opens its own Store.
type Store struct {
	DB      *sql.DB
	Dialect Dialect

	Pending   domain.PendingEventRepository
	Recurring domain.RecurringDateRepository

	log *slog.Logger
}

// ParseURL splits a database URL into a dialect and a driver DSN.
// Accepted forms: postgres://..., postgresql://..., sqlite3://path,
// sqlite://path and file:path.
func ParseURL(url string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DialectPostgres, url, nil
	case strings.HasPrefix(url, "sqlite3://"):
		return DialectSQLite, strings.TrimPrefix(url, "sqlite3://"), nil
	case strings.HasPrefix(url, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(url, "sqlite://"), nil
	case strings.HasPrefix(url, "file:"):
		return DialectSQLite, strings.TrimPrefix(url, "file:"), nil
	default:
		return "", "", fmt.Errorf("%w: unsupported database url scheme", domain.ErrInvalidInput)
	}
}

// Open connects to the database named by url.
func Open(ctx context.Context, url string, logger *slog.Logger) (*Store, error) {
	dialect, dsn, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty database path", domain.ErrInvalidInput)
	}

	var db *sql.DB
	switch dialect {
	case DialectSQLite:
		db, err = openSQLite(dsn)
	default:
		db, err = sql.Open("postgres", dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewStore(db, dialect, logger), nil
}

// NewStore wraps an open database.
func NewStore(db *sql.DB, dialect Dialect, logger *slog.Logger) *Store {
	return &Store{
		DB:        db,
		Dialect:   dialect,
		Pending:   NewPendingEventRepository(db),
		Recurring: NewRecurringDateRepository(db),
		log:       logger,
	}
}

// Init migrates the pending-event schema (idempotent) and rebuilds the
// recurring-date table from entries.
func (s *Store) Init(ctx context.Context, entries []domain.RecurringDate) error {
	if err := applyMigrations(ctx, s.DB, s.Dialect, s.log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := s.Recurring.Reseed(ctx, entries); err != nil {
		return fmt.Errorf("reseed recurring dates: %w", err)
	}
	s.log.InfoContext(ctx, "recurring dates seeded", "count", len(entries))
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.DB.Close()
}
