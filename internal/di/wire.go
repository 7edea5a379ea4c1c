//go:build wireinject
// +build wireinject

package di

import (
	"TradeYodha/pkg/config"
	"TradeYodha/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisCache,
		ProvideCacheService,

		// Repositories
		ProvideStateStore,
		ProvideSignalHistory,
		ProvideAlertSink,
		ProvideMarketStream,

		// Services
		ProvideSnapshotSource,
		ProvideNotifier,

		// Use cases
		ProvideFlowTracker,
		ProvideFlowCollector,
		ProvideSignalProcessor,
		ProvideAlertPipeline,
		ProvideScanUseCase,
		ProvideSignalsQueryUseCase,
		ProvideKafkaSignalsHandler,
		ProvideScanQueue,
		ProvideScanScheduler,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
