package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/infrastructure/config"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/infrastructure/logging"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/infrastructure/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override the environment
	flag.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "Server port")
	flag.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "Server host")
	flag.DurationVar(&cfg.Runtime.Timeout, "timeout", cfg.Runtime.Timeout, "Per-evaluation timeout (0 disables)")
	flag.Int64Var(&cfg.Runtime.MaxConcurrent, "max-concurrent", cfg.Runtime.MaxConcurrent, "Maximum concurrent evaluations (0 is unbounded)")
	flag.BoolVar(&cfg.Logging.Development, "dev", cfg.Logging.Development, "Development logging")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.NewOrNop(logging.Options{Level: cfg.Logging.Level, Development: cfg.Logging.Development})

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down gracefully", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
	case err := <-errChan:
		if err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	}
}
