package application

import (
	"context"
	"io/fs"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"

	"github.com/iota-uz/agentlists/pkg/eventbus"
)

type Controller interface {
	Register(r *mux.Router)
	Key() string
}

type Module interface {
	Name() string
	Register(app Application) error
}

// MigrationManager applies the schema migrations registered by modules.
type MigrationManager interface {
	RegisterSchema(fsys fs.FS, dir string)
	Run(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Application with a dynamically extendable service registry.
type Application interface {
	DB() *sqlx.DB
	EventPublisher() eventbus.EventBus
	Controllers() []Controller
	Middleware() []mux.MiddlewareFunc
	Migrations() MigrationManager
	RegisterControllers(controllers ...Controller)
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	Services() map[reflect.Type]interface{}
}
