package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// PersistentStore keeps the history of finished batches.
type PersistentStore struct {
	db     *sql.DB
	driver string
	sb     sq.StatementBuilderType
}

// NewPersistentStore opens driver ("sqlite" or "postgres") at dsn and applies
// the schema. For sqlite, dsn is a file path.
func NewPersistentStore(ctx context.Context, driver, dsn string) (*PersistentStore, error) {
	var (
		db  *sql.DB
		err error
		sb  sq.StatementBuilderType
	)

	switch driver {
	case DriverSQLite:
		// Ensure the database directory exists
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		db, err = sql.Open("sqlite", dsn+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		sb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

	case DriverPostgres:
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	// Ping makes sure the database is actually reachable and the DSN is valid
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	store := &PersistentStore{db: db, driver: driver, sb: sb}

	if err := store.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}

	return store, nil
}

// Driver is DriverSQLite or DriverPostgres.
func (s *PersistentStore) Driver() string { return s.driver }

func (s *PersistentStore) Close() error {
	return s.db.Close()
}
