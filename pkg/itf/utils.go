package itf

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/agentlists/pkg/application"
	"github.com/iota-uz/agentlists/pkg/configuration"
	"github.com/iota-uz/agentlists/pkg/database"
	"github.com/iota-uz/agentlists/pkg/eventbus"
)

func DiscardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// NewDB opens a fresh SQLite database under tb's temp dir. The handle is
// closed when the test ends.
func NewDB(tb testing.TB, name string) *sqlx.DB {
	tb.Helper()
	opts := configuration.DatabaseOptions{
		Driver:     configuration.DriverSQLite,
		SQLitePath: filepath.Join(tb.TempDir(), sanitizeDBName(name)+".db"),
	}
	db, err := database.Open(context.Background(), database.DriverSQLite, opts.ConnectionString())
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		if err := db.Close(); err != nil {
			tb.Logf("Warning: failed to close database: %v", err)
		}
	})
	return db
}

// sanitizeDBName turns a test name into a file name.
func sanitizeDBName(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, strings.ToLower(name))
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		return "test_db"
	}
	return sanitized
}

func SetupApplication(ctx context.Context, db *sqlx.DB, logger *logrus.Logger, mods ...application.Module) (application.Application, error) {
	app := application.New(&application.ApplicationOptions{
		DB:       db,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	for _, m := range mods {
		if err := m.Register(app); err != nil {
			return nil, err
		}
	}
	if err := app.Migrations().Run(ctx); err != nil {
		return nil, err
	}
	return app, nil
}
