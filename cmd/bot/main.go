// Package main is the entry point for the FloppaBot Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/FloppaBotGo/pkg/config"
	"github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(logger.Options{
		ErrorWebhook: cfg.ErrorWebhook,
		LogsWebhook:  cfg.LogsWebhook,
		Dir:          cfg.LogsDir,
	})
	defer log.Close()

	logger.System(fmt.Sprintf("Starting FloppaBot Go %s (built %s)...", config.Version, config.BuildTime), "Main")
	logger.Info(fmt.Sprintf("Working directory: %s", getCurrentDir()), "Main")

	a := newApp(cfg)

	// An error storm shuts everything down before the handler exits the process
	errors.Init(cfg.ErrorWebhook, func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.shutdown(ctx)
	})

	if err := a.start(context.Background()); err != nil {
		logger.Critical(fmt.Sprintf("Startup failed: %v", err), "Main")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		a.shutdown(ctx)
		cancel()
		os.Exit(1)
	}

	logger.Success("FloppaBot Go started!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Shutting down FloppaBot Go...", "Main")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.shutdown(ctx)
	errors.Get().Stop()
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
