package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/duelsmp/internal/api"
	"github.com/mcoot/duelsmp/internal/config"
	"github.com/mcoot/duelsmp/internal/factory"
	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/services/matchmaker"
	redisstorage "github.com/mcoot/duelsmp/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate has already accepted the level
	level, _ := cfg.SlogLevel()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// run serves until a shutdown signal arrives or the listener fails
func run(cfg config.Config, logger *slog.Logger) error {
	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		SQLitePath:  cfg.SQLitePath,
		Matchmaking: matchmaker.Config{
			DefaultBet:     cfg.DefaultBet,
			DefaultBetMode: model.BetMode(cfg.DefaultBetMode),
			RandomBetMode:  cfg.RandomBetMode,
		},
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Engine:      app.Engine,
		Hub:         app.Hub,
		Broadcaster: app.Broadcaster,
	})

	server := api.NewServer(router, api.ServerConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The hub, the listener and the shutdown watcher stop together: a
	// signal or a listener failure cancels gctx and ends the other two
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.Hub.Run()
		return nil
	})
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Info("shutdown signal received")
		}
		// Close the hub first so open event streams end before the drain
		app.Hub.Close()
		return server.Shutdown(context.Background())
	})
	return g.Wait()
}
