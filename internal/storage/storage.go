// Package storage opens the name store named by a database URL and runs its
// migrations. The dialect is chosen from the URL scheme:
//
//	postgres://…, postgresql://…   Postgres through a pgx pool
//	sqlite://path, file:path, *.db  SQLite through modernc.org/sqlite
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver for database/sql

	"github.com/pkordes/prenoms/internal/repo"
	"github.com/pkordes/prenoms/migrations"
)

// Dialect identifies the SQL backend of a Store.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ErrUnsupportedURL is returned by Open when the scheme maps to no dialect.
var ErrUnsupportedURL = errors.New("unsupported database url")

// repository is what both dialect implementations provide.
type repository interface {
	repo.NameRepo
	repo.ImportRepo
}

// Store bundles the repos of one database with its lifecycle.
type Store struct {
	dialect Dialect
	repo    repository
	sqlDB   *sql.DB
	pool    *pgxpool.Pool
}

// Open connects to the database named by url. Like pgxpool.New, it does not
// prove the database is reachable; call Ping before accepting traffic.
func Open(ctx context.Context, url string) (*Store, error) {
	dialect, dsn, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case DialectPostgres:
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("storage.Open: create pool: %w", err)
		}
		return &Store{
			dialect: dialect,
			repo:    repo.NewPostgresRepo(pool),
			sqlDB:   stdlib.OpenDBFromPool(pool),
			pool:    pool,
		}, nil
	default:
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage.Open: open sqlite: %w", err)
		}
		// A single writer avoids SQLITE_BUSY during the import; reads are
		// short indexed lookups.
		db.SetMaxOpenConns(1)
		return &Store{
			dialect: dialect,
			repo:    repo.NewSQLiteRepo(db),
			sqlDB:   db,
		}, nil
	}
}

// ParseURL maps a database URL to a dialect and the DSN its driver expects.
func ParseURL(url string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DialectPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("%w: %q has no path", ErrUnsupportedURL, url)
		}
		return DialectSQLite, path, nil
	case strings.HasPrefix(url, "file:"), strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"):
		return DialectSQLite, url, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedURL, redact(url))
	}
}

// Dialect reports the backend of s.
func (s *Store) Dialect() Dialect { return s.dialect }

// Names returns the read repo.
func (s *Store) Names() repo.NameRepo { return s.repo }

// Importer returns the write repo used by the seed command.
func (s *Store) Importer() repo.ImportRepo { return s.repo }

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	return s.sqlDB.PingContext(ctx)
}

// Migrate applies all pending goose migrations for the store's dialect and
// returns the number applied.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	provider, err := NewMigrationProvider(s.dialect, s.sqlDB)
	if err != nil {
		return 0, err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("storage.Store.Migrate: %w", err)
	}
	return len(results), nil
}

// Close releases every connection.
func (s *Store) Close() error {
	err := s.sqlDB.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

// NewMigrationProvider builds a goose provider over the embedded migrations
// of dialect.
func NewMigrationProvider(dialect Dialect, db *sql.DB) (*goose.Provider, error) {
	var (
		gooseDialect goose.Dialect
		dir          string
	)
	switch dialect {
	case DialectPostgres:
		gooseDialect, dir = goose.DialectPostgres, migrations.Postgres
	case DialectSQLite:
		gooseDialect, dir = goose.DialectSQLite3, migrations.SQLite
	default:
		return nil, fmt.Errorf("storage.NewMigrationProvider: unknown dialect %q", dialect)
	}

	fsys, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("storage.NewMigrationProvider: %w", err)
	}
	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("storage.NewMigrationProvider: %w", err)
	}
	return provider, nil
}

// redact drops everything before the last '@' so credentials in an
// unrecognised URL never reach the logs.
func redact(url string) string {
	if i := strings.LastIndex(url, "@"); i >= 0 {
		return "…" + url[i:]
	}
	return url
}
