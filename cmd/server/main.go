package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/sebbaker/apple-mcp/internal/bridge"
	"github.com/sebbaker/apple-mcp/internal/config"
	"github.com/sebbaker/apple-mcp/internal/mail"
	"github.com/sebbaker/apple-mcp/internal/mcp"
	"github.com/sebbaker/apple-mcp/internal/tools"
)

var (
	version     = "dev"
	showVersion = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("apple-mail-mcp version %s\n", version)
		os.Exit(0)
	}

	// Set up logging. Stdout carries the MCP transport, so logs go to stderr.
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	// Set log level
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Starting Apple Mail MCP server")

	// Wire the bridge
	runner := bridge.NewOsascriptRunner(cfg.OsascriptPath, logger)
	client := bridge.NewMailClient(runner, logger)
	readiness := bridge.NewReadiness(client, logger)

	// Startup connectivity check, bounded so an unreachable Mail.app puts
	// the server into degraded mode instead of blocking forever.
	initCtx, cancelInit := context.WithTimeout(context.Background(), cfg.InitTimeout)
	readiness.Initialize(initCtx)
	cancelInit()
	logger.WithField("state", readiness.State().String()).Info("Initialization complete")

	// Wire the orchestration core
	directory := mail.NewDirectory(client, logger)
	locator := mail.NewLocator(client, logger)
	queryEngine := mail.NewQueryEngine(client, directory, mail.QueryEngineConfig{
		PerMailboxCap:  cfg.MailboxFetchCap,
		DefaultLimit:   cfg.DefaultListLimit,
		FuzzyThreshold: cfg.FuzzyThreshold,
	}, logger)
	coordinator := mail.NewCoordinator(client, directory, locator, logger)
	composer := mail.NewComposer(client, locator, mail.ComposerConfig{
		ReadAttempts: cfg.ReplyReadAttempts,
		ReadDelay:    cfg.ReplyReadDelay,
	}, logger)

	registry := tools.NewRegistry(tools.Deps{
		Config:      cfg,
		Readiness:   readiness,
		Directory:   directory,
		QueryEngine: queryEngine,
		Coordinator: coordinator,
		Composer:    composer,
		Logger:      logger,
	})

	server := mcp.NewServer(version, registry, logger)

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Run server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
	case err := <-errChan:
		logger.WithError(err).Error("Server error")
		cancel()
	}

	logger.Info("Shutting down Apple Mail MCP server")
}
