//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"stravaboard/internal"
	"stravaboard/internal/controllers"
	"stravaboard/internal/models"
	"stravaboard/internal/providers"
	"stravaboard/internal/services"
	"stravaboard/internal/snapshot"
	"stravaboard/internal/strava"
	"stravaboard/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewCacheProvider,
		providers.NewDBProvider,
		providers.NewRulesetProvider,

		models.NewCredentialStore,
		strava.NewClient,
		wire.Bind(new(strava.TokenRefresher), new(*strava.Client)),
		wire.Bind(new(strava.ActivityFetcher), new(*strava.Client)),
		wire.Bind(new(strava.CodeExchanger), new(*strava.Client)),

		services.NewLeaderboardService,
		services.NewSnapshotCache,

		snapshot.NewZstdCompressor,
		snapshot.NewFileManager,
		snapshot.NewScheduler,

		controllers.NewApiController,
		controllers.NewAuthController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
