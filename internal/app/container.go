// Package app wires the Atlas scheduling engine together: storage,
// event transport, domain services, and the command/query handlers the
// adapters call.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atlasops/atlas/db"
	"github.com/atlasops/atlas/internal/scheduling/application/commands"
	"github.com/atlasops/atlas/internal/scheduling/application/queries"
	"github.com/atlasops/atlas/internal/scheduling/application/services"
	"github.com/atlasops/atlas/internal/scheduling/application/subscribers"
	"github.com/atlasops/atlas/internal/scheduling/domain"
	"github.com/atlasops/atlas/internal/scheduling/infrastructure/cache"
	schedulePersistence "github.com/atlasops/atlas/internal/scheduling/infrastructure/persistence"
	"github.com/atlasops/atlas/internal/scheduling/infrastructure/resilience"
	sharedApplication "github.com/atlasops/atlas/internal/shared/application"
	"github.com/atlasops/atlas/internal/shared/infrastructure/database"
	"github.com/atlasops/atlas/internal/shared/infrastructure/eventbus"
	sharedPersistence "github.com/atlasops/atlas/internal/shared/infrastructure/persistence"
	"github.com/atlasops/atlas/pkg/config"
	"github.com/atlasops/atlas/pkg/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// availabilityCacheTTL bounds staleness of cached weekly availability.
// Writes invalidate eagerly, so the TTL only matters for out-of-band
// database edits.
const availabilityCacheTTL = 15 * time.Minute

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DB       *pgxpool.Pool // nil in SQLite mode
	SQLiteDB *sql.DB       // nil in PostgreSQL mode
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Metrics
	Metrics *observability.InMemoryMetrics

	// Repositories
	EventRepo        domain.EventRepository
	AvailabilityRepo domain.AvailabilityRepository
	RoomRepo         domain.RoomRepository
	SubjectDirectory domain.SubjectDirectory

	// Event transport
	EventPublisher eventbus.Publisher

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Domain services
	Resolver     *services.AvailabilityResolver
	Index        *services.ConflictIndex
	Generator    *services.SlotGenerator
	Intersector  *services.MultiPartyIntersector
	Aggregator   *services.WindowAggregator
	Arbiter      *services.RoomBookingArbiter
	Materializer *services.RecurrenceMaterializer

	// Command handlers
	ScheduleMeetingHandler       *commands.ScheduleMeetingHandler
	CancelEventHandler           *commands.CancelEventHandler
	BookRoomHandler              *commands.BookRoomHandler
	SetWeeklyAvailabilityHandler *commands.SetWeeklyAvailabilityHandler
	CreateRecurringEventHandler  *commands.CreateRecurringEventHandler

	// Query handlers
	FindAvailableSlotsHandler     *queries.FindAvailableSlotsHandler
	GetSubjectAvailabilityHandler *queries.GetSubjectAvailabilityHandler
	GetEventHandler               *queries.GetEventHandler
	ListRoomBookingsHandler       *queries.ListRoomBookingsHandler
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:   cfg,
		Logger:   logger,
		DBDriver: database.DetectDriver(cfg.DatabaseURL),
		Metrics:  observability.NewInMemoryMetrics(),
	}

	if err := c.connectDatabase(ctx); err != nil {
		return nil, err
	}

	if err := c.connectRedis(ctx); err != nil {
		c.closeDatabases()
		return nil, err
	}

	if err := c.connectPublisher(); err != nil {
		c.closeDatabases()
		return nil, err
	}

	policy := policyFromConfig(cfg.Scheduling)

	c.Resolver = services.NewAvailabilityResolver(c.SubjectDirectory, c.AvailabilityRepo, policy)
	c.Index = services.NewConflictIndex(c.EventRepo)
	c.Generator = services.NewSlotGenerator(c.Resolver, c.Index, policy)
	c.Intersector = services.NewMultiPartyIntersector(c.Generator, policy)
	c.Aggregator = services.NewWindowAggregator(policy)
	c.Arbiter = services.NewRoomBookingArbiter(c.RoomRepo, c.EventRepo, c.Index, logger)
	c.Materializer = services.NewRecurrenceMaterializer(policy)

	c.ScheduleMeetingHandler = commands.NewScheduleMeetingHandler(c.EventRepo, c.Index, c.UnitOfWork, c.EventPublisher, logger)
	c.CancelEventHandler = commands.NewCancelEventHandler(c.EventRepo, c.UnitOfWork, c.EventPublisher, logger)
	c.BookRoomHandler = commands.NewBookRoomHandler(c.Arbiter, c.EventPublisher, logger)
	c.SetWeeklyAvailabilityHandler = commands.NewSetWeeklyAvailabilityHandler(c.AvailabilityRepo, c.UnitOfWork, c.EventPublisher, logger)
	c.CreateRecurringEventHandler = commands.NewCreateRecurringEventHandler(c.EventRepo, c.Materializer, c.UnitOfWork, c.EventPublisher, logger)

	c.FindAvailableSlotsHandler = queries.NewFindAvailableSlotsHandler(c.Intersector, c.Aggregator)
	c.GetSubjectAvailabilityHandler = queries.NewGetSubjectAvailabilityHandler(c.Generator)
	c.GetEventHandler = queries.NewGetEventHandler(c.EventRepo)
	c.ListRoomBookingsHandler = queries.NewListRoomBookingsHandler(c.RoomRepo, c.Index)

	return c, nil
}

// connectDatabase opens the configured backend and builds the
// repository set for it.
func (c *Container) connectDatabase(ctx context.Context) error {
	switch c.DBDriver {
	case database.DriverPostgres:
		pool, err := pgxpool.New(ctx, c.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		c.DB = pool
		c.Logger.Info("connected to database", "driver", c.DBDriver)

		c.EventRepo = resilience.NewBreakerEventRepository(schedulePersistence.NewPostgresEventRepository(pool))
		c.AvailabilityRepo = schedulePersistence.NewPostgresAvailabilityRepository(pool)
		c.RoomRepo = schedulePersistence.NewPostgresRoomRepository(pool)
		c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)

	case database.DriverSQLite:
		dbConn, err := sql.Open("sqlite", sqliteDSN(c.Config.DatabaseURL))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		// SQLite allows a single writer at a time.
		dbConn.SetMaxOpenConns(1)
		if err := dbConn.PingContext(ctx); err != nil {
			_ = dbConn.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		if err := db.ApplySQLite(ctx, dbConn); err != nil {
			_ = dbConn.Close()
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		c.SQLiteDB = dbConn
		c.Logger.Info("connected to database", "driver", c.DBDriver)

		c.EventRepo = resilience.NewBreakerEventRepository(schedulePersistence.NewSQLiteEventRepository(dbConn))
		c.AvailabilityRepo = schedulePersistence.NewSQLiteAvailabilityRepository(dbConn)
		c.RoomRepo = schedulePersistence.NewSQLiteRoomRepository(dbConn)
		c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(dbConn)

	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}

	c.SubjectDirectory = schedulePersistence.NewRoomAwareDirectory(c.RoomRepo, "UTC")
	return nil
}

// connectRedis wires the availability cache when Redis is configured.
// Absence of Redis is not an error; the engine reads availability from
// the primary store directly.
func (c *Container) connectRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, availability cache disabled", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		if !c.Config.IsDevelopment() {
			_ = client.Close()
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, availability cache disabled", "error", err)
		_ = client.Close()
		return nil
	}

	c.RedisClient = client
	c.AvailabilityRepo = cache.NewCachedAvailabilityRepository(c.AvailabilityRepo, client, availabilityCacheTTL, c.Logger, c.Metrics)
	c.Logger.Info("connected to Redis")
	return nil
}

// connectPublisher selects the event transport: RabbitMQ when
// configured, otherwise the in-process bus.
func (c *Container) connectPublisher() error {
	if c.Config.RabbitMQURL == "" {
		c.EventPublisher = c.newInProcessBus()
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		if c.Config.IsDevelopment() {
			c.Logger.Warn("RabbitMQ not available, using in-process event bus", "error", err)
			c.EventPublisher = c.newInProcessBus()
			return nil
		}
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	c.EventPublisher = publisher
	return nil
}

func (c *Container) newInProcessBus() *eventbus.InProcessEventBus {
	bus := eventbus.NewInProcessEventBus(c.Logger)
	bus.RegisterConsumer(subscribers.NewActivitySubscriber(c.Metrics, c.Logger))
	return bus
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close Redis client", "error", err)
		}
	}
	c.closeDatabases()
}

func (c *Container) closeDatabases() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("failed to close database", "error", err)
		}
	}
}

// policyFromConfig maps the configured scheduling knobs onto the
// service-layer policy.
func policyFromConfig(cfg config.SchedulingConfig) services.Policy {
	return services.Policy{
		SlotGranularity:        cfg.SlotGranularity,
		BusinessDays:           cfg.BusinessDays,
		MaxSuggestions:         cfg.MaxSuggestions,
		SearchFanout:           cfg.SearchFanout,
		RoomDayStart:           cfg.RoomDayStart,
		RoomDayEnd:             cfg.RoomDayEnd,
		MaxRecurrenceInstances: cfg.MaxRecurrenceInstances,
	}
}

// sqliteDSN normalizes the configured URL into a DSN the SQLite driver
// accepts. An empty URL selects a local file, keeping zero-config mode
// working.
func sqliteDSN(url string) string {
	if url == "" {
		return "atlas.db"
	}
	return strings.TrimPrefix(url, "sqlite://")
}
