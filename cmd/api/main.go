package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Remote analysis service
	analyzerClient := analyzer.NewClient(cfg.Analyzer.APIURL, cfg.Analyzer.Timeout)
	log.Printf("✅ Analysis service at %s (timeout %s)\n", analyzerClient.Endpoint(), analyzerClient.Timeout())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sessions
	registry := services.NewSessionRegistry(
		analyzerClient,
		cfg.Session.TTL,
		cfg.Session.SweepInterval,
	)
	registry.Start(ctx)

	store := session.New(session.Config{
		Expiration:     cfg.Session.TTL,
		KeyLookup:      "cookie:session_id",
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   uuid.NewString,
	})
	log.Println("✅ Session store initialized")

	// Initialize worker
	worker := services.NewWorker(cfg.Worker.Concurrency, cfg.Worker.QueueSize)
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	formHandler := handlers.NewFormHandler(
		store,
		registry,
		worker,
		cfg.Storage.MaxFileSize,
	)

	app := handlers.NewApp(formHandler, handlers.AppConfig{
		BodyLimit:   int(cfg.Storage.MaxFileSize) + 1<<20,
		ReloadViews: cfg.IsDevelopment(),
		AccessLog:   true,
	})
	log.Println("✅ Handlers initialized")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		registry.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 Open http://localhost%s in a browser\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
