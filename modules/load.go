package modules

import (
	"github.com/iota-uz/agentlists/modules/lists"
	"github.com/iota-uz/agentlists/pkg/application"
	"github.com/iota-uz/agentlists/pkg/configuration"
)

func BuiltInModules(conf *configuration.Configuration) []application.Module {
	return []application.Module{
		lists.NewModule(&lists.ModuleOptions{
			Logger:          conf.Logger(),
			TempDir:         conf.Upload.TempDir,
			MaxUploadSize:   conf.Upload.MaxSize,
			MaxUploadMemory: conf.Upload.MaxMemory,
		}),
	}
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
