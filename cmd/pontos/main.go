package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pontosapp/pontos/internal/database"
	"github.com/pontosapp/pontos/internal/logging"
	"github.com/pontosapp/pontos/internal/server"
)

func main() {
	port := os.Getenv("PONTOS_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("PONTOS_DB_PATH")
	if dbPath == "" {
		dbPath = "pontos.db"
	}

	logger := logging.Setup(os.Getenv("PONTOS_LOG_LEVEL"))

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, logger)

	// Load the points mirror before serving. A missing user row is not fatal,
	// the first refresh after seeding will pick it up.
	if err := srv.Ledger().Refresh(); err != nil {
		logger.Warn("user settings not loaded at startup", "error", err)
	}

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Pontos running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
