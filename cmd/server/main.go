// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gachipet/config"
	"gachipet/internal/chat"
	"gachipet/internal/classifier"
	"gachipet/internal/db"
	"gachipet/internal/display"
	"gachipet/internal/history"
	"gachipet/internal/oracle"
	"gachipet/internal/server"
	"gachipet/pkg/logger"
)

func main() {
	// Initialize logger
	l := logger.New()
	l.Info("Starting Gachipet server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l.Fatal("Failed to load config", err)
	}

	// Validate critical configuration
	if cfg.Oracle.APIKey == "" {
		l.Fatal("Oracle API key is not configured")
	}

	ctx := context.Background()

	// Initialize database connection with retry
	var database *db.PostgresDB
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		database, err = db.NewPostgresDB(cfg.DB)
		if err == nil {
			break
		}
		l.Error("Failed to connect to database, retrying...", err)
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	if database == nil {
		l.Fatal("Failed to connect to database after multiple attempts", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		l.Fatal("Failed to run migrations", err)
	}

	// Initialize the generation oracle
	var oracleClient oracle.Oracle
	switch cfg.Oracle.Provider {
	case "openai":
		oracleClient, err = oracle.NewOpenAIClient(cfg.Oracle.APIKey, cfg.Oracle.Model)
	default:
		oracleClient, err = oracle.NewGeminiClient(ctx, cfg.Oracle.APIKey, cfg.Oracle.Model)
	}
	if err != nil {
		l.Fatal("Failed to create oracle client", err)
	}

	// Initialize the image classification cascade
	primary, err := classifier.NewRekognitionClassifier(ctx, cfg.Vision.Region)
	if err != nil {
		l.Fatal("Failed to create vision classifier", err)
	}
	foodClassifier := classifier.New(primary, oracleClient, l)

	// Conversation orchestration over the persisted history
	historyStore := history.NewStore(database)
	orchestrator := chat.NewOrchestrator(oracleClient, historyStore, database, l)

	// Pet display relay
	notifier := display.NewNotifier()

	handlers := server.NewHandlers(orchestrator, foodClassifier, database, notifier, server.DisplayConfig{
		Enabled: cfg.Display.Enabled,
		Host:    cfg.Display.Host,
		Port:    cfg.Display.Port,
	}, l)

	// Start HTTP server
	httpServer := server.NewServer(cfg.Server.Port, handlers, l)
	go func() {
		l.Info("Starting HTTP server...")
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("Failed to start HTTP server", err)
		}
	}()

	// Wait for termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down server...")

	// Create context for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		l.Error("Error during HTTP server shutdown", err)
	}

	l.Info("Server stopped successfully")
}
