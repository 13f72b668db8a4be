package server

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/agentlists/pkg/application"
	"github.com/iota-uz/agentlists/pkg/configuration"
	"github.com/iota-uz/agentlists/pkg/constants"
	"github.com/iota-uz/agentlists/pkg/httpapi"
	"github.com/iota-uz/agentlists/pkg/middleware"
	"github.com/iota-uz/agentlists/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	conf := options.Configuration

	loggerOpts := middleware.DefaultLoggerOptions()
	loggerOpts.RequestIDHeader = conf.RequestIDHeader
	loggerOpts.RealIPHeader = conf.RealIPHeader

	middlewares := []mux.MiddlewareFunc{
		// creates the root span for each request
		middleware.WithLogger(options.Logger, loggerOpts),

		middleware.TracedMiddleware("database"),
		middleware.Provide(constants.AppKey, app),
		middleware.ProvideDB(app.DB()),

		middleware.TracedMiddleware("cors"),
		middleware.Cors(conf.Origins()...),
	}

	if conf.RateLimit.Enabled {
		middlewares = append(middlewares,
			middleware.TracedMiddleware("rateLimit"),
			middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerPeriod: conf.RateLimit.GlobalRPS,
				Store:             middleware.NewMemoryStore(),
			}),
		)
	}

	app.RegisterMiddleware(middlewares...)

	return server.NewHTTPServer(
		app,
		httpapi.NotFoundHandler(),
		httpapi.MethodNotAllowedHandler(),
	), nil
}
