package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/LeoCore/internal/app"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/config"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"
	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flags override environment variables
	port := flag.String("port", cfg.Server.Port, "Server port")
	host := flag.String("host", cfg.Server.Host, "Server host")
	weights := flag.String("weights", cfg.Scoring.WeightsPath, "Weight table file (.yml or .toml)")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development mode (colored console logs)")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Server.Host = *host
	cfg.Scoring.WeightsPath = *weights
	cfg.Logging.Development = *dev

	logger := logging.FromLevel(cfg.Logging.Level, cfg.Logging.Development)
	logger.Info("starting LEO server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Engine),
		zap.Bool("ai", cfg.AI.APIKey != ""),
	)

	a := app.New(context.Background(), cfg, logger)
	srv := server.NewServer(cfg, a)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	exitCode := 0
	select {
	case <-sigChan:
		logger.Info("shutting down gracefully")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
			exitCode = 1
		}
		cancel()
	case err := <-errChan:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			exitCode = 1
		}
	}

	if err := a.Close(); err != nil {
		logger.Error("failed to close resources", zap.Error(err))
		exitCode = 1
	}
	os.Exit(exitCode)
}
