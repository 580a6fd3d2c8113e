package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/price-monitor/internal/clock"
	"github.com/iyhunko/price-monitor/internal/config"
	"github.com/iyhunko/price-monitor/internal/conversation"
	"github.com/iyhunko/price-monitor/internal/extraction"
	httpAPI "github.com/iyhunko/price-monitor/internal/http"
	"github.com/iyhunko/price-monitor/internal/http/controller"
	"github.com/iyhunko/price-monitor/internal/logger"
	"github.com/iyhunko/price-monitor/internal/metrics"
	"github.com/iyhunko/price-monitor/internal/repository/sql"
	"github.com/iyhunko/price-monitor/internal/service"
	sqspkg "github.com/iyhunko/price-monitor/internal/sqs"
	redis "github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)
	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.StartDB(ctx, conf.Database)
	handleErr("starting database", err)
	defer db.Close()

	catalogRepository := sql.NewCatalogRepository(db)
	fetcher := extraction.NewFetcher(conf.FetchTimeout)
	catalogService := service.NewCatalogService(catalogRepository, fetcher)

	sessions, closeSessions, err := newSessionStore(ctx, conf.Session)
	handleErr("creating session store", err)
	defer closeSessions()

	machine := conversation.NewMachine(catalogService, sessions, conf.OperatorID)

	var wg sync.WaitGroup

	monitor := service.NewMonitor(catalogRepository, fetcher, clock.Real{}, service.MonitorConfig{
		Interval: conf.Monitor.Interval,
		Backoff:  conf.Monitor.Backoff,
	})
	wg.Add(1)
	go func() {
		defer wg.Done()
		monitor.Start(ctx)
	}()

	var publisher *sqspkg.Publisher
	if conf.AWS.ChatTransportEnabled() {
		sqsClient, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
		handleErr("creating SQS client", err)

		publisher = sqspkg.NewPublisher(sqsClient, conf.AWS.SQSOutboundQueueURL)
		consumer := sqspkg.NewConsumer(sqsClient, conf.AWS.SQSInboundQueueURL, sqspkg.NewBridge(machine, publisher))

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("chat consumer stopped", slog.Any("err", err))
			}
		}()

		if err := publisher.Notify(ctx, conf.OperatorID, conversation.StartupNotice); err != nil {
			slog.Warn("failed to notify operator", slog.Any("err", err))
		}
	} else {
		slog.Info("chat queues not configured, chat is served over HTTP only")
	}

	ctr := controller.New()
	productCtr := controller.NewProductController(catalogService)
	chatCtr := controller.NewChatController(machine)
	router := httpAPI.InitRouter(gin.New(), ctr, productCtr, chatCtr)

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("HTTP server starting", slog.String("port", conf.HTTPServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metricsServer := metrics.StartMetricsServer(conf)

	<-ctx.Done()
	slog.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if publisher != nil {
		if err := publisher.Notify(shutdownCtx, conf.OperatorID, conversation.ShutdownNotice); err != nil {
			slog.Warn("failed to notify operator", slog.Any("err", err))
		}
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to stop HTTP server", slog.Any("err", err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to stop metrics server", slog.Any("err", err))
	}
	wg.Wait()
}

func newSessionStore(ctx context.Context, conf config.Session) (conversation.SessionStore, func(), error) {
	if conf.Store != config.SessionStoreRedis {
		store, err := conversation.NewMemoryStore(conf.CacheSize)
		return store, func() {}, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	slog.Info("redis session store connected", slog.String("addr", conf.Redis.Addr))

	return conversation.NewRedisStore(client), func() { _ = client.Close() }, nil
}

func handleErr(msg string, err error) {
	if err != nil {
		log.Fatalf("error while %s: %v", msg, err)
	}
}
