// Package database opens the service's SQL handle and applies embedded
// schema migrations.
package database

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	migrationsTable = "agentlists_schema_migrations"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open connects to the configured backend. driver is one of DriverPostgres
// or DriverSQLite.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres:
		db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		db.SetMaxOpenConns(20)
		db.SetConnMaxIdleTime(5 * time.Minute)
		return db, nil
	case DriverSQLite:
		db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("connect sqlite: %w", err)
		}
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func gooseDialect(db *sqlx.DB) (goose.Dialect, error) {
	switch db.DriverName() {
	case "pgx", "postgres":
		return goose.DialectPostgres, nil
	case "sqlite", "sqlite3":
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("no migration dialect for driver %q", db.DriverName())
	}
}

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending migration found in dir of fsys.
func Migrate(ctx context.Context, db *sqlx.DB, fsys fs.FS, dir string) error {
	return withGoose(db, fsys, func() error {
		return goose.UpContext(ctx, db.DB, dir)
	})
}

// Rollback reverts the most recent migration found in dir of fsys.
func Rollback(ctx context.Context, db *sqlx.DB, fsys fs.FS, dir string) error {
	return withGoose(db, fsys, func() error {
		return goose.DownContext(ctx, db.DB, dir)
	})
}

func withGoose(db *sqlx.DB, fsys fs.FS, fn func() error) error {
	dialect, err := gooseDialect(db)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())
	goose.SetTableName(migrationsTable)
	if err := goose.SetDialect(string(dialect)); err != nil {
		return err
	}
	return fn()
}
