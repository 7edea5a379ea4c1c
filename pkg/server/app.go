package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TradeYodha/internal/handler/api"
	mid "TradeYodha/internal/middleware"
	"TradeYodha/internal/usecase"
	pkgch "TradeYodha/pkg/clickhouse"
	"TradeYodha/pkg/config"
	xhttp "TradeYodha/pkg/http"
	pkgkafka "TradeYodha/pkg/kafka"
	applogger "TradeYodha/pkg/logger"
	"TradeYodha/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	collector  *usecase.FlowCollector
	scheduler  *usecase.ScanScheduler
	queue      *queue.RedisQueue
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	pipeline   *mid.AlertPipeline
	processor  *usecase.SignalProcessor
	handler    *api.SignalsEchoHandler
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.FlowCollector,
	scheduler *usecase.ScanScheduler,
	q *queue.RedisQueue,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	pipeline *mid.AlertPipeline,
	processor *usecase.SignalProcessor,
	handler *api.SignalsEchoHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		collector: collector,
		scheduler: scheduler,
		queue:     q,
		consumer:  consumer,
		kh:        kh,
		pipeline:  pipeline,
		processor: processor,
		handler:   handler,
		chClient:  chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.l

	// Aggregate repeated error logs onto the work queue instead of
	// flooding stdout line by line.
	if a.queue != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "error_logs",
			Publisher:      a.queue,
		})
	}

	// Delivery pipeline flush loop
	a.pipeline.Start(ctx)

	// Trades stream into the flow tracker
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("flow collector error", applogger.Error(err))
		}
	}()
	l.Info("flow collector started", applogger.Strings("symbols", a.cfg.Scanner.Symbols))

	// Scan queue workers + scheduler
	if err := a.queue.Start(); err != nil {
		l.Error("scan queue start error", applogger.Error(err))
		return err
	}
	a.queue.StartRetryProcessor()
	a.scheduler.Start(ctx)
	l.Info("scan scheduler started",
		applogger.String("interval", a.cfg.Scanner.Interval.String()),
		applogger.Int("workers", a.cfg.Scanner.Workers),
	)

	// Signals consumer persists fired alerts to ClickHouse
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// HTTP API
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestMetrics(a.l, time.Second),
	)
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.l

	// Stop producing new scans first
	a.scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.queue.Stop(shutdownCtx); err != nil {
		l.Warn("scan queue stop error", applogger.Error(err))
	}

	// Stop the trades stream
	if err := a.collector.Stop(); err != nil {
		l.Warn("flow collector stop error", applogger.Error(err))
	}

	// Drain buffered alerts
	a.pipeline.Stop()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close producer via the processor's sink
	if a.processor != nil {
		a.processor.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.RemoveCollector()
	l.Info("shutdown complete")
	return nil
}
