package itf

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/agentlists/pkg/application"
	"github.com/iota-uz/agentlists/pkg/composables"
)

// TestContext provides a fluent API for building test contexts
type TestContext struct {
	ctx     context.Context
	modules []application.Module
	dbName  string
	logger  *logrus.Logger
}

// NewTestContext creates a new TestContext builder
func NewTestContext() *TestContext {
	return &TestContext{
		ctx:     context.Background(),
		modules: []application.Module{},
	}
}

// WithModules adds modules to the test context
func (tc *TestContext) WithModules(modules ...application.Module) *TestContext {
	tc.modules = append(tc.modules, modules...)
	return tc
}

// WithDBName sets a custom database file name
func (tc *TestContext) WithDBName(tb testing.TB, name string) *TestContext {
	tb.Helper()
	if tc.dbName == "" {
		tc.dbName = name
	}
	return tc
}

// WithLogger replaces the discarding default logger.
func (tc *TestContext) WithLogger(logger *logrus.Logger) *TestContext {
	tc.logger = logger
	return tc
}

// Build creates a migrated SQLite database in a temp dir and an application
// with the configured modules registered.
func (tc *TestContext) Build(tb testing.TB) *TestEnvironment {
	tb.Helper()

	if tc.dbName == "" {
		tc.dbName = tb.Name()
	}
	if tc.logger == nil {
		tc.logger = DiscardLogger()
	}

	db := NewDB(tb, tc.dbName)
	app, err := SetupApplication(tc.ctx, db, tc.logger, tc.modules...)
	if err != nil {
		tb.Fatal(err)
	}

	ctx := composables.WithDB(tc.ctx, db)
	ctx = composables.WithLogger(ctx, logrus.NewEntry(tc.logger))

	return &TestEnvironment{
		Ctx:    ctx,
		DB:     db,
		App:    app,
		Logger: tc.logger,
	}
}

// TestEnvironment holds the built test dependencies
type TestEnvironment struct {
	Ctx    context.Context
	DB     *sqlx.DB
	App    application.Application
	Logger *logrus.Logger
}

// Service retrieves a service from the application
func (te *TestEnvironment) Service(service interface{}) interface{} {
	return te.App.Service(service)
}

// GetService is a generic helper that retrieves and casts a service
func GetService[T any](te *TestEnvironment) *T {
	var zero T
	service := te.App.Service(zero)
	if service == nil {
		return nil
	}
	return service.(*T)
}

// AssertNoError fails the test if err is not nil
func (te *TestEnvironment) AssertNoError(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatal(err)
	}
}

// Count returns the number of rows in table.
func (te *TestEnvironment) Count(tb testing.TB, table string) int {
	tb.Helper()
	var n int
	if err := te.DB.GetContext(te.Ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		tb.Fatal(err)
	}
	return n
}
