package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/httpfs"
)

// LatestMigrationVersion is the newest schema version this binary knows.
//
// NOTE: This MUST be updated when a new migration is added.
const LatestMigrationVersion uint = 1

// ErrMigrationDowngrade is returned when the database schema is newer than
// this binary.
var ErrMigrationDowngrade = errors.New("database downgrade detected")

// migrationLogger adapts slog.Logger to migrate.Logger.
type migrationLogger struct {
	log *slog.Logger
}

// Printf implements the migrate.Logger interface.
func (m *migrationLogger) Printf(format string, v ...any) {
	format = strings.TrimRight(format, "\n")
	m.log.Info(fmt.Sprintf(format, v...))
}

// Verbose implements the migrate.Logger interface.
func (m *migrationLogger) Verbose() bool {
	return false
}

func migrationDriver(db *sql.DB, dialect Dialect) (database.Driver, error) {
	switch dialect {
	case DialectPostgres:
		return postgres.WithInstance(db, &postgres.Config{})
	case DialectSQLite:
		return sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// applyMigrations brings the schema up to LatestMigrationVersion. It refuses
// to run on a dirty or newer database.
func applyMigrations(ctx context.Context, db *sql.DB, dialect Dialect,
	log *slog.Logger) error {

	sub, err := fs.Sub(sqlSchemas, "migrations")
	if err != nil {
		return err
	}
	src, err := httpfs.New(http.FS(sub), string(dialect))
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	driver, err := migrationDriver(db, dialect)
	if err != nil {
		return fmt.Errorf("open migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("migrations", src, string(dialect), driver)
	if err != nil {
		return err
	}
	m.Log = &migrationLogger{log}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("unable to determine current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %v, "+
			"manual intervention required", version)
	}
	if version > LatestMigrationVersion {
		return fmt.Errorf("%w: db_version=%v, latest_migration_version=%v",
			ErrMigrationDowngrade, version, LatestMigrationVersion)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, _, err = m.Version()
	if err != nil {
		return fmt.Errorf("unable to get db version: %w", err)
	}
	log.InfoContext(ctx, "database schema ready", "dialect", dialect, "version", version)

	return nil
}
