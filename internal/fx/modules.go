package fx

import (
	"context"

	"rift-rewind/internal/api"
	"rift-rewind/internal/config"
	"rift-rewind/internal/database"
	"rift-rewind/internal/heatmap"
	"rift-rewind/internal/logger"
	"rift-rewind/internal/pipeline"
	"rift-rewind/internal/repository"
	"rift-rewind/internal/server"
	"rift-rewind/internal/service"

	"go.uber.org/fx"
)

func ProvideBackend(client *api.RiftClient) pipeline.Backend {
	return client
}

func RunJanitor(lc fx.Lifecycle, janitor *service.SessionJanitor) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			janitor.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			return janitor.Stop()
		},
	})
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewSessionRepository),
	// api client
	fx.Provide(api.NewRiftClient),
	fx.Provide(ProvideBackend),
	// pipeline + rendering
	fx.Provide(pipeline.NewOrchestrator),
	fx.Provide(heatmap.NewRenderer),
	// svc
	fx.Provide(service.NewSearchService),
	fx.Provide(service.NewDashboardService),
	fx.Provide(service.NewSessionJanitor),
	fx.Invoke(RunJanitor),
	// server
	fx.Provide(server.NewRiftServer),
)
