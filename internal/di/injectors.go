//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"ptt/internal"
	"ptt/internal/controllers"
	"ptt/internal/providers"
	"ptt/internal/services"
	"ptt/internal/structures"
	"ptt/internal/tracker"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewDeviceProvider,
		providers.NewMetricsProvider,
		providers.NewApiCache,

		tracker.NewZstdCompressor,
		tracker.NewFileState,
		wire.Bind(new(tracker.StateStore), new(*tracker.FileState)),
		tracker.NewLocalWorkspace,
		tracker.NewResolver,
		tracker.NewStore,
		tracker.NewCalculator,
		tracker.NewFileProbe,
		wire.Bind(new(tracker.ActivityProbe), new(*tracker.FileProbe)),
		tracker.NewTimer,
		tracker.NewScheduler,

		services.NewTrackerService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
