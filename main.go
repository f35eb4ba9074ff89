package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guilbd/analise-apostas/config"
	"github.com/guilbd/analise-apostas/database"
	"github.com/guilbd/analise-apostas/logger"
	"github.com/guilbd/analise-apostas/services"
	"github.com/guilbd/analise-apostas/web"
)

func main() {
	logger.Println("Starting Análise de Apostas service...")

	cfg := config.Load()
	logger.Configure(cfg.LogLevel, cfg.LogFile)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Println("Database connected and migrated")

	userStore := services.NewUserStore(db, cfg.SessionTTL)
	if err := userStore.SeedDefaultAdmin(cfg.AdminUser, cfg.AdminPassword); err != nil {
		logger.Fatalf("Failed to seed admin user: %v", err)
	}

	batchStore, err := services.NewBatchStore(cfg.DataDir)
	if err != nil {
		logger.Fatalf("Failed to create batch store: %v", err)
	}
	statsStore := services.NewStatsStore(db)

	wsHub := web.NewHub()
	go wsHub.Run()

	client := services.NewAcademiaClient(cfg)
	parser := services.NewAcademiaParser(client)
	collector := services.NewCollector(parser, services.NewTipster(), batchStore, statsStore, wsHub)

	server := web.NewServer(cfg, db, wsHub, collector, batchStore, statsStore, userStore)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Web server error: %v", err)
		}
	}()
	logger.Printf("Web server started on port %s", cfg.Port)

	// Expired sessions are swept hourly.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := userStore.PurgeExpiredSessions(); err != nil {
				logger.Errorf("Session cleanup error: %v", err)
			}
		}
	}()

	logger.Println("Service is running. Press Ctrl+C to stop.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down service...")
	server.Stop()
	logger.Println("Service stopped")
}
