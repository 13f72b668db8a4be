package lists

import (
	"embed"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/agentlists/modules/lists/handlers"
	"github.com/iota-uz/agentlists/modules/lists/infrastructure/persistence"
	"github.com/iota-uz/agentlists/modules/lists/presentation/controllers"
	"github.com/iota-uz/agentlists/modules/lists/services"
	"github.com/iota-uz/agentlists/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

const MigrationsDir = "infrastructure/persistence/schema"

type ModuleOptions struct {
	Logger          *logrus.Logger
	TempDir         string
	MaxUploadSize   int64
	MaxUploadMemory int64
	Clock           func() time.Time
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(MigrationFiles, MigrationsDir)

	listRepo := persistence.NewListRepository()
	agentRepo := persistence.NewAgentRepository()
	app.RegisterServices(
		services.NewListService(listRepo, agentRepo, app.EventPublisher(), services.ListServiceOptions{
			TempDir: m.options.TempDir,
			Clock:   m.options.Clock,
		}),
		services.NewAgentService(agentRepo, listRepo),
	)
	app.RegisterControllers(
		controllers.NewListAPIController(app, controllers.ListAPIOptions{
			MaxUploadSize:   m.options.MaxUploadSize,
			MaxUploadMemory: m.options.MaxUploadMemory,
		}),
		controllers.NewAgentAPIController(app),
	)

	logger := m.options.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	handlers.RegisterAuditHandlers(app, logger)
	return nil
}

func (m *Module) Name() string {
	return "lists"
}
