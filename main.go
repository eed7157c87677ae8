package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gopower/internal"
	"gopower/internal/config"
	"gopower/internal/container"
	"gopower/ui"
)

func main() {
	// Load environment variables from .env file
	config.LoadDotEnv()

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(appConfig, logger)
	if err != nil {
		logger.Error("failed to build container", "error", err)
		os.Exit(1)
	}
	if err := c.Connect(ctx); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer c.Shutdown(context.Background())

	app := ui.NewApp(ui.Config{
		Solver:         c.Solver,
		Analyzer:       c.Analyzer,
		History:        c.AnalysisRepo,
		Logger:         logger,
		RequestTimeout: appConfig.Server.RequestTimeout,
		Profiling:      appConfig.Server.Profiling,
	})

	server := ui.NewServer(appConfig.Server.Port, app, logger)
	if err := server.Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
