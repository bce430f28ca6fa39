//go:build wireinject
// +build wireinject

package di

import (
	"FXCast/pkg/config"
	"FXCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,

		// Repositories
		ProvideBarStore,
		ProvideArtifactStore,
		ProvidePublisher,

		// Domain services
		ProvideClassifier,
		ProvideBarSource,
		ProvideMarketStream,
		ProvideFeatureParams,
		ProvideCache,

		// Use cases
		ProvideBackfiller,
		ProvideTrainer,
		ProvidePredictor,
		ProvideBarsQuery,
		ProvideBarCollector,

		// HTTP and application
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
