package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"invoice-converter/internal/api"
	"invoice-converter/internal/api/handlers"
	"invoice-converter/internal/service"
	"invoice-converter/pkg/config"
	"invoice-converter/pkg/logger"

	"go.uber.org/zap"
)

// @title Amazon Invoice Converter API
// @version 1.0
// @description Extracts order, invoice, address, item and total fields from Amazon invoice PDFs into an Excel spreadsheet

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting invoice converter",
		zap.String("engine", cfg.Extractor.Engine),
		zap.Int("workers", cfg.Converter.Workers),
	)

	// Initialize services
	extractor, err := service.NewTextExtractor(cfg.Extractor.Engine, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize text extractor", zap.Error(err))
	}
	parser := service.NewFieldParser(service.DefaultRules(), appLogger)
	writer := service.NewSpreadsheetWriter()
	converter := service.NewConverterService(extractor, parser, writer, cfg.Converter.Workers, appLogger)

	sessions := service.NewSessionStore(cfg.Session.TTL, appLogger)
	defer sessions.Close()

	// Initialize handlers
	conversionHandler := handlers.NewConversionHandler(converter, sessions, cfg.Converter.MaxFiles, appLogger)

	// Setup router
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app := api.SetupRouter(ctx, &cfg.Server, conversionHandler, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	cancel()
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
