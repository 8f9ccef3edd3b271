package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/atlasops/atlas/adapter/cli"
	cliAvailability "github.com/atlasops/atlas/adapter/cli/availability"
	cliRoom "github.com/atlasops/atlas/adapter/cli/room"
	cliSchedule "github.com/atlasops/atlas/adapter/cli/schedule"
	"github.com/atlasops/atlas/internal/app"
	"github.com/atlasops/atlas/pkg/config"
	"github.com/atlasops/atlas/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	// Setup logger
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// In development without .env, use defaults
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{
			AppEnv:     "development",
			Scheduling: config.DefaultSchedulingConfig(),
		}
	}

	// Update logger level based on config
	if cfg.IsDevelopment() {
		logCfg := observability.DefaultLogConfig()
		logCfg.Level = observability.LogLevelDebug
		logger = observability.NewLogger(logCfg)
	}
	cli.SetLogger(logger)

	// Try to initialize the full container
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
			// In development, allow CLI to run without database
			cliApp = nil
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		currentUserID := uuid.Nil
		if cfg.UserID != "" {
			currentUserID, err = uuid.Parse(cfg.UserID)
			if err != nil {
				logger.Error("invalid ATLAS_USER_ID", "error", err)
				os.Exit(1)
			}
		} else {
			logger.Warn("ATLAS_USER_ID not set, commands act as the nil user")
		}

		// Create CLI app with handlers
		cliApp = cli.NewApp(
			container.ScheduleMeetingHandler,
			container.CancelEventHandler,
			container.BookRoomHandler,
			container.SetWeeklyAvailabilityHandler,
			container.CreateRecurringEventHandler,
			container.FindAvailableSlotsHandler,
			container.GetSubjectAvailabilityHandler,
			container.GetEventHandler,
			container.ListRoomBookingsHandler,
			currentUserID,
		)
	}

	// Set the CLI app
	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(cliSchedule.Cmd)
	cli.AddCommand(cliAvailability.Cmd)
	cli.AddCommand(cliRoom.Cmd)

	// Execute root command
	cli.Execute()
}
