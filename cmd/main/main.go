package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-board/src/config"
	"stock-board/src/helpers"
	"stock-board/src/logger"
	"stock-board/src/server"
	"stock-board/src/visitor"
)

const shutdownTimeout = 10 * time.Second

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "", "path to config file (default $"+config.EnvConfigPath+" or config/default.yaml)")
	exportDir := flag.String("export-parquet", "", "load the configured market files, write <market>.parquet into this directory and exit")
	flag.Parse()

	// .env first so it can point at the config file
	config.LoadEnv()

	cfg, err := config.NewConfig(config.ResolvePath(*configPath, "config/default.yaml"))
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *exportDir != "" {
		if err := exportParquet(ctx, cfg, *exportDir, appLogger); err != nil {
			appLogger.Critical("Export failed: %v", err)
			os.Exit(1)
		}
		return
	}

	memoryLimitMB := helpers.ApplyMemoryLimit(appLogger.Named("Resources"))

	store, err := setupStore(cfg, appLogger)
	if err != nil {
		os.Exit(1)
	}

	handles := setupMarkets()
	visitors := visitor.NewService(store, appLogger.Named("Visitor"))

	srv := server.NewAPIServer(cfg.MConfig, appLogger.Named("Server"), handles, visitors)
	srv.MemoryLimitMB = memoryLimitMB
	control := setupControl(cfg, handles, appLogger)

	serverErrs := startServers(cfg, srv, control, appLogger)

	// Datasets load in the background; routes serve empty results until each
	// market is published.
	go func() {
		if err := loadMarkets(ctx, cfg, handles, srv, control, appLogger); err != nil {
			appLogger.Warning("Market loading stopped: %v", err)
		}
	}()

	select {
	case <-ctx.Done():
		appLogger.Info("Shutting down...")
	case err := <-serverErrs:
		appLogger.Critical("Server failed: %v", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		appLogger.Warning("HTTP shutdown: %v", err)
	}
	if control != nil {
		control.Stop()
	}
	if err := store.Close(); err != nil {
		appLogger.Warning("Store close: %v", err)
	}
	appLogger.Info("Bye")
}
