package application

import (
	"context"
	"fmt"
	"io/fs"
	"reflect"
	"sort"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/agentlists/pkg/database"
	"github.com/iota-uz/agentlists/pkg/eventbus"
)

// ---- Migration manager ----

type schemaSource struct {
	fsys fs.FS
	dir  string
}

type migrationManager struct {
	db      *sqlx.DB
	logger  *logrus.Logger
	schemas []schemaSource
}

func NewMigrationManager(db *sqlx.DB, logger *logrus.Logger) MigrationManager {
	return &migrationManager{db: db, logger: logger}
}

func (m *migrationManager) RegisterSchema(fsys fs.FS, dir string) {
	m.schemas = append(m.schemas, schemaSource{fsys: fsys, dir: dir})
}

func (m *migrationManager) Run(ctx context.Context) error {
	for _, s := range m.schemas {
		if err := database.Migrate(ctx, m.db, s.fsys, s.dir); err != nil {
			return fmt.Errorf("migrate %s: %w", s.dir, err)
		}
		if m.logger != nil {
			m.logger.WithField("dir", s.dir).Info("schema migrated")
		}
	}
	return nil
}

// Rollback reverts the latest migration of each schema, last registered first.
func (m *migrationManager) Rollback(ctx context.Context) error {
	for i := len(m.schemas) - 1; i >= 0; i-- {
		s := m.schemas[i]
		if err := database.Rollback(ctx, m.db, s.fsys, s.dir); err != nil {
			return fmt.Errorf("rollback %s: %w", s.dir, err)
		}
	}
	return nil
}

// ---- Application implementation ----

type ApplicationOptions struct {
	DB       *sqlx.DB
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	return &application{
		db:             opts.DB,
		eventPublisher: opts.EventBus,
		controllers:    make(map[string]Controller),
		services:       make(map[reflect.Type]interface{}),
		migrations:     NewMigrationManager(opts.DB, opts.Logger),
	}
}

type application struct {
	db             *sqlx.DB
	eventPublisher eventbus.EventBus
	services       map[reflect.Type]interface{}
	controllers    map[string]Controller
	middleware     []mux.MiddlewareFunc
	migrations     MigrationManager
}

func (app *application) DB() *sqlx.DB {
	return app.db
}

func (app *application) EventPublisher() eventbus.EventBus {
	return app.eventPublisher
}

// Controllers are returned ordered by key so route registration is stable.
func (app *application) Controllers() []Controller {
	keys := make([]string, 0, len(app.controllers))
	for k := range app.controllers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	controllers := make([]Controller, 0, len(keys))
	for _, k := range keys {
		controllers = append(controllers, app.controllers[k])
	}
	return controllers
}

func (app *application) Middleware() []mux.MiddlewareFunc {
	return app.middleware
}

func (app *application) Migrations() MigrationManager {
	return app.migrations
}

func (app *application) RegisterControllers(controllers ...Controller) {
	for _, c := range controllers {
		app.controllers[c.Key()] = c
	}
}

func (app *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	app.middleware = append(app.middleware, middleware...)
}

// RegisterServices registers a new service in the application by its type
func (app *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		app.services[serviceType] = service
	}
}

// Service retrieves a service by its type
func (app *application) Service(service interface{}) interface{} {
	serviceType := reflect.TypeOf(service)
	svc, exists := app.services[serviceType]
	if !exists {
		panic(fmt.Sprintf("service %s not found", serviceType.Name()))
	}
	return svc
}

func (app *application) Services() map[reflect.Type]interface{} {
	return app.services
}
