package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/giygas/medicines-catalog/app"
	"github.com/giygas/medicines-catalog/config"
	"github.com/giygas/medicines-catalog/logging"
	"github.com/giygas/medicines-catalog/scheduler"
	"github.com/giygas/medicines-catalog/server"
	"github.com/joho/godotenv"
)

func main() {
	// Get the working directory and read the env variables
	if err := godotenv.Load(); err != nil {
		// If failed, try loading from executable directory
		if ex, err := os.Executable(); err == nil {
			exPath := filepath.Dir(ex)
			if err := os.Chdir(exPath); err == nil {
				_ = godotenv.Load()
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.InitLoggerWithOptions(logging.Options{
		LogDir:         cfg.LogDir,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer func() { _ = logging.Close() }()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	application, err := app.New(startCtx, cfg)
	cancelStart()
	if err != nil {
		logging.Error("Failed to initialize catalog pipeline", "error", err)
		os.Exit(1)
	}
	application.Container.SetServerStartTime(time.Now())

	sched := scheduler.NewScheduler(application.Container, application.Loader, cfg.CacheTTL)
	srv := server.NewServer(cfg, application.Container, application.Loader)

	// The server answers while the initial load runs; health reports
	// unhealthy until a catalog is published
	go func() {
		if err := sched.Start(); err != nil {
			logging.Error("Scheduler failed to start", "error", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-quit:
		logging.Info("Received signal", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logging.Error("Server failed to start", "error", err)
			exitCode = 1
		}
	}

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		exitCode = 1
	}

	if err := application.Close(); err != nil {
		logging.Error("Failed to release resources", "error", err)
	}

	if exitCode != 0 {
		_ = logging.Close()
		os.Exit(exitCode)
	}
}
