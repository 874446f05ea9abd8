package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	aggHttp "event-aggregation-service/internal/aggregation/adapters/http/fiber"
	aggRepoMongo "event-aggregation-service/internal/aggregation/adapters/mongo"
	aggRepoPg "event-aggregation-service/internal/aggregation/adapters/postgres"
	aggPorts "event-aggregation-service/internal/aggregation/core/ports"
	aggUsecase "event-aggregation-service/internal/aggregation/core/usecase"

	eventsHttp "event-aggregation-service/internal/events/adapters/http/fiber"
	eventsRepoMongo "event-aggregation-service/internal/events/adapters/mongo"
	eventsRepoPg "event-aggregation-service/internal/events/adapters/postgres"
	eventsPorts "event-aggregation-service/internal/events/core/ports"
	eventsUsecase "event-aggregation-service/internal/events/core/usecase"

	"event-aggregation-service/internal/config"
	"event-aggregation-service/internal/logctx"
	"event-aggregation-service/internal/logging"
	"event-aggregation-service/internal/middleware"
	"event-aggregation-service/internal/telemetry"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	_ "event-aggregation-service/docs"
)

// stores bundles both ports over one backend connection.
type stores struct {
	aggregation aggPorts.EventStorePort
	events      eventsPorts.EventRepositoryPort
	close       func(ctx context.Context) error
}

// @title Event Aggregation Service
// @version 1.0
// @description Sums timestamped event values into dense hour, day or month series.
// @BasePath /
func main() {
	// Config
	cfg := config.Load()

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Human)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log configuration: %v\n", err)
		os.Exit(1)
	}
	logctx.SetDefaultLogger(logger)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Store connection
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := openStores(connectCtx, cfg.Store)
	cancelConnect()
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	logger.Info().Str("driver", cfg.Store.Driver).Msg("store connected")

	// Metrics
	m := telemetry.NewMetrics()

	// Usecases
	aggregateUC := aggUsecase.NewAggregateUseCase(
		telemetry.InstrumentStore(st.aggregation, m),
		aggUsecase.WithCalendarMonths(cfg.Aggregation.CalendarMonths),
	)
	storeEventUC := eventsUsecase.NewStoreEventUseCase(st.events)

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// aggregation endpoints
	aggHandler := aggHttp.NewAggregationHandler(aggregateUC,
		aggHttp.WithQueryTimeout(cfg.Server.QueryTimeout),
		aggHttp.WithObserver(m),
	)
	app.Post("/aggregate", aggHandler.Aggregate)
	app.Post("/messages", aggHandler.Message)

	// events endpoints
	eventsHandler := eventsHttp.NewEventHandler(storeEventUC, m)
	app.Post("/events", eventsHandler.CreateEvent)
	app.Post("/events/bulk", eventsHandler.BulkCreateEvents)

	// Prometheus
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.Server.Addr); err != nil {
			logger.Error().Err(err).Msg("fiber stopped")
		}
	}()

	logger.Info().Str("addr", cfg.Server.Addr).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("fiber shutdown error")
	}
	if err := st.close(ctx); err != nil {
		logger.Error().Err(err).Msg("store close error")
	}

	logger.Info().Msg("server exiting")
}

func openStores(ctx context.Context, cfg config.StoreConfig) (*stores, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	default:
		return openMongo(ctx, cfg)
	}
}

func openMongo(ctx context.Context, cfg config.StoreConfig) (*stores, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
	return &stores{
		aggregation: aggRepoMongo.NewEventStore(aggRepoMongo.NewCollection(coll)),
		events:      eventsRepoMongo.NewEventRepository(eventsRepoMongo.NewCollection(coll)),
		close:       client.Disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg config.StoreConfig) (*stores, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &stores{
		aggregation: aggRepoPg.NewEventStore(aggRepoPg.NewSQLDB(db), cfg.PostgresTable),
		events:      eventsRepoPg.NewEventRepository(db, cfg.PostgresTable),
		close: func(context.Context) error {
			return db.Close()
		},
	}, nil
}
