package di

import (
	"context"
	"fmt"
	"time"

	"TradeYodha/internal/domain/repository"
	domsvc "TradeYodha/internal/domain/service"
	"TradeYodha/internal/handler/api"
	mid "TradeYodha/internal/middleware"
	internalrepo "TradeYodha/internal/repository"
	icache "TradeYodha/internal/service/cache"
	"TradeYodha/internal/service/notify"
	"TradeYodha/internal/service/polygon"
	"TradeYodha/internal/usecase"
	pkgcache "TradeYodha/pkg/cache"
	pkgch "TradeYodha/pkg/clickhouse"
	"TradeYodha/pkg/config"
	pkgkafka "TradeYodha/pkg/kafka"
	applogger "TradeYodha/pkg/logger"
	"TradeYodha/pkg/metrics"
	"TradeYodha/pkg/queue"
	"TradeYodha/pkg/server"

	"github.com/segmentio/kafka-go"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.SignalsSchema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRedisCache creates the shared Redis connection.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.MinIdleConns, cfg.Redis.PoolTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCacheService layers an in-process LRU over Redis.
func ProvideCacheService(rc *pkgcache.RedisCache) pkgcache.Service {
	return pkgcache.NewLayeredCache(rc)
}

// ProvideStateStore creates the per-ticker baseline store.
func ProvideStateStore(svc pkgcache.Service, cfg *config.Config) repository.StateStore {
	return internalrepo.NewCacheStateStore(svc, cfg.Redis.StateTTL)
}

// ProvideSignalHistory creates ClickHouse signal storage.
func ProvideSignalHistory(chClient *pkgch.Client, cfg *config.Config) repository.SignalHistory {
	return internalrepo.NewCHSignalStore(chClient, cfg.ClickHouse.Database+".signals")
}

// ProvideAlertSink creates the Kafka alert sink.
func ProvideAlertSink(producer *pkgkafka.Producer, cfg *config.Config) repository.AlertSink {
	return internalrepo.NewKafkaAlertSink(producer, cfg.Kafka.Topic)
}

// ProvideMarketStream creates the Polygon trades WebSocket stream.
func ProvideMarketStream(cfg *config.Config) repository.MarketStream {
	return polygon.NewStream(
		cfg.Polygon.APIKey,
		cfg.Polygon.WebSocketURL,
		cfg.Scanner.Symbols,
		cfg.Polygon.ReconnectDelay,
		cfg.Polygon.PingInterval,
	)
}

// ProvideFlowTracker creates the rolling trade-flow tracker.
func ProvideFlowTracker() *usecase.FlowTracker {
	return usecase.NewFlowTracker()
}

// ProvideFlowCollector wires the stream into the flow tracker.
func ProvideFlowCollector(stream repository.MarketStream, tracker *usecase.FlowTracker, m repository.Metrics) *usecase.FlowCollector {
	return usecase.NewFlowCollector(stream, tracker, m)
}

// ProvideSnapshotSource creates the Polygon REST snapshot client.
// Snapshot responses are cached in Redis; live CVD and volume pressure
// come from the flow tracker when it has enough observations.
func ProvideSnapshotSource(cfg *config.Config, tracker *usecase.FlowTracker, l *applogger.Logger) domsvc.SnapshotSource {
	bytesCache := icache.NewRedisCache(icache.RedisConfig{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return polygon.NewClient(
		cfg.Polygon.RESTURL,
		cfg.Polygon.APIKey,
		cfg.Polygon.Timeout,
		polygon.WithCache(bytesCache, cfg.Polygon.CacheTTL),
		polygon.WithFlowReadings(tracker),
		polygon.WithMaxRPS(cfg.Polygon.MaxRPS),
		polygon.WithLogger(l),
	)
}

// ProvideNotifier creates the Telegram notifier, or nil when disabled.
func ProvideNotifier(cfg *config.Config, l *applogger.Logger) (domsvc.Notifier, error) {
	if !cfg.Telegram.Enabled {
		return nil, nil
	}
	n, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxTier, l)
	if err != nil {
		return nil, fmt.Errorf("telegram notifier: %w", err)
	}
	return n, nil
}

// ProvideSignalProcessor creates the signal delivery processor.
func ProvideSignalProcessor(
	sink repository.AlertSink,
	notifier domsvc.Notifier,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SignalProcessor {
	return usecase.NewSignalProcessor(sink, notifier, m, l)
}

// ProvideAlertPipeline wraps the processor with cooldown and retry buffering.
func ProvideAlertPipeline(proc *usecase.SignalProcessor, m repository.Metrics, cfg *config.Config) *mid.AlertPipeline {
	return mid.NewAlertPipeline(proc, m,
		mid.WithCooldown(cfg.Scanner.AlertCooldown),
		mid.WithBufferSize(256),
	)
}

// ProvideScanUseCase creates the detection pass use case.
func ProvideScanUseCase(
	source domsvc.SnapshotSource,
	states repository.StateStore,
	pipeline *mid.AlertPipeline,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.ScanUseCase {
	return usecase.NewScanUseCase(source, states, pipeline, m, l)
}

// ProvideSignalsQueryUseCase creates the history query use case.
func ProvideSignalsQueryUseCase(history repository.SignalHistory) *usecase.SignalsQueryUseCase {
	return usecase.NewSignalsQueryUseCase(history)
}

// ProvideKafkaSignalsHandler registers handler for the signals topic.
func ProvideKafkaSignalsHandler(history repository.SignalHistory, m repository.Metrics, cfg *config.Config) *usecase.KafkaSignalsHandler {
	return usecase.NewKafkaSignalsHandler(cfg.Kafka.Topic, history, m)
}

// ProvideScanQueue creates the Redis work queue with the scan job registered.
func ProvideScanQueue(l *applogger.Logger, cfg *config.Config, rc *pkgcache.RedisCache, svc pkgcache.Service, scan *usecase.ScanUseCase) *queue.RedisQueue {
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    cfg.Scanner.Workers,
		QueueSize:  cfg.Scanner.QueueSize,
		RetryLimit: 3,
		RetryDelay: 5 * time.Second,
	}, rc.Client(), queue.ModeProducerConsumer)
	q.RegisterJob(usecase.NewScanTickerJob(scan, svc))
	return q
}

// ProvideScanScheduler creates the periodic watchlist scheduler.
func ProvideScanScheduler(q *queue.RedisQueue, cfg *config.Config, l *applogger.Logger) *usecase.ScanScheduler {
	return usecase.NewScanScheduler(q, cfg.Scanner.Symbols, cfg.Scanner.Interval, l)
}

// ProvideHTTPHandler creates the Echo API handler.
func ProvideHTTPHandler(
	l *applogger.Logger,
	query *usecase.SignalsQueryUseCase,
	scan *usecase.ScanUseCase,
	stream repository.MarketStream,
) *api.SignalsEchoHandler {
	h := api.NewSignalsEchoHandler(l, query, scan, stream)
	h.SetCache(icache.NewTTLCache())
	return h
}

// consumerHooks stamps each message with a start time and trace id, and
// logs handler failures with both attached.
func consumerHooks(l *applogger.Logger) *pkgkafka.HookChain {
	return pkgkafka.NewHookChain(pkgkafka.HookFuncs{
		Before: func(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
			ctx = pkgkafka.WithStartTime(ctx, time.Now())
			ctx = pkgkafka.WithTraceID(ctx, pkgkafka.ExtractTraceID(km))
			return ctx, km, data, nil
		},
		Err: func(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
			fields := []applogger.Field{
				applogger.String("topic", topic),
				applogger.String("trace_id", pkgkafka.TraceID(ctx)),
				applogger.Error(err),
			}
			if start, ok := pkgkafka.StartTime(ctx); ok {
				fields = append(fields, applogger.Duration("elapsed", time.Since(start)))
			}
			l.Error("kafka message handling failed", fields...)
		},
	})
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.FlowCollector,
	scheduler *usecase.ScanScheduler,
	q *queue.RedisQueue,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSignalsHandler,
	pipeline *mid.AlertPipeline,
	processor *usecase.SignalProcessor,
	handler *api.SignalsEchoHandler,
	chClient *pkgch.Client,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(consumerHooks(l))
	}
	return server.New(cfg, l, collector, scheduler, q, consumer, kh, pipeline, processor, handler, chClient)
}
