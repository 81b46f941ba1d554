package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/duelsmp/internal/dependencies/clock"
	"github.com/mcoot/duelsmp/internal/dependencies/idgen"
	"github.com/mcoot/duelsmp/internal/dependencies/random"
	"github.com/mcoot/duelsmp/internal/services/engine"
	"github.com/mcoot/duelsmp/internal/services/ledger"
	"github.com/mcoot/duelsmp/internal/services/matchmaker"
	"github.com/mcoot/duelsmp/internal/services/registry"
	"github.com/mcoot/duelsmp/internal/sse"
	"github.com/mcoot/duelsmp/internal/storage"
	"github.com/mcoot/duelsmp/internal/storage/memory"
	redisstorage "github.com/mcoot/duelsmp/internal/storage/redis"
	"github.com/mcoot/duelsmp/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	IDs    idgen.Generator

	// Services
	Registry   *registry.Service
	Ledger     *ledger.Service
	Matchmaker *matchmaker.Service
	Engine     *engine.Engine

	// Live updates
	Hub         *sse.Hub
	Broadcaster *sse.Broadcaster

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend: "memory" (default), "redis" or "sqlite"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// Matchmaking controls random duel wagers; zero fields use the defaults
	Matchmaking matchmaker.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	var closers []io.Closer
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closers = append(closers, redisStore)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
		closers = append(closers, sqliteStore)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}

	logger.Info("storage configured", slog.String("storage_type", storageType))

	app := newWithDependencies(store, clock.New(), random.New(), idgen.New(), cfg.Matchmaking, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	ids idgen.Generator,
	matchmaking matchmaker.Config,
	logger *slog.Logger,
) *App {
	reg := registry.New(store, clk, logger)
	led := ledger.New(store, reg, clk, ids, logger)
	mm := matchmaker.New(reg, led, rnd, matchmaking, logger)
	hub := sse.NewHub(logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		IDs:         ids,
		Registry:    reg,
		Ledger:      led,
		Matchmaker:  mm,
		Engine:      engine.New(reg, led, mm),
		Hub:         hub,
		Broadcaster: sse.NewBroadcaster(hub, clk, logger),
	}
}

// Close stops the event hub and releases storage connections
func (a *App) Close() error {
	a.Hub.Close()
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
