package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"resumeforge/internal/api/routes"
	"resumeforge/internal/config"
	"resumeforge/internal/latex"
	"resumeforge/internal/logging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Resumeforge server")

	// Load templates; a corrupt template fails the process here, not
	// per-request
	store, err := latex.NewStore(cfg.Templates.Dir)
	if err != nil {
		logger.Fatal("Failed to load templates", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("Templates loaded", map[string]interface{}{"templates": store.IDs()})

	// Wire the compilation engine
	compiler := latex.NewPDFLaTeX(latex.PDFLaTeXConfig{
		Command:  cfg.Compiler.Command,
		WorkRoot: cfg.Compiler.WorkRoot,
		Timeout:  cfg.Compiler.Timeout,
	})
	pool := latex.NewCompilePool(latex.PoolConfig{
		MaxConcurrent: cfg.Compiler.MaxConcurrent,
		QueueWait:     cfg.Compiler.QueueWait,
		RatePerMinute: cfg.Compiler.RateLimit,
	})
	engine := latex.NewEngine(store, compiler, pool)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	routes.SetupRoutes(e, cfg, engine)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Stop accepting new compilations; in-flight work finishes
		engine.Shutdown()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil {
		logger.Info("Server stopped", map[string]interface{}{"reason": err.Error()})
	}
}
