package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cruxlabs/cruxd/internal/api"
	"github.com/cruxlabs/cruxd/internal/config"
	"github.com/cruxlabs/cruxd/internal/crisis"
	"github.com/cruxlabs/cruxd/internal/imaging"
	"github.com/cruxlabs/cruxd/internal/jobs"
	"github.com/cruxlabs/cruxd/internal/notifications"
	"github.com/cruxlabs/cruxd/internal/scanner"
	"github.com/cruxlabs/cruxd/internal/scheduler"
	"github.com/cruxlabs/cruxd/internal/scorer"
	"github.com/cruxlabs/cruxd/internal/search"
	"github.com/cruxlabs/cruxd/internal/store"
	"github.com/cruxlabs/cruxd/internal/verifier"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting cruxd fact-checking backend")

	// Pipeline stages
	newsScanner := scanner.NewScanner(cfg.NewsDataAPIKey)
	claimVerifier := verifier.NewVerifier(search.NewClient())
	claimScorer := scorer.NewScorer(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)
	crisisDetector := crisis.NewDetector()
	imageAnalyzer := imaging.NewAnalyzer(cfg.HuggingFaceAPIKey)

	// Process-lifetime state
	claims := store.NewClaims()
	tracker := jobs.NewTracker()

	// Optional scheduled crisis sweep
	notifier := notifications.NewService(cfg)
	schedulerService := scheduler.NewService(cfg.CrisisSweepSchedule, newsScanner, crisisDetector, notifier)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	apiServer := api.NewServer(newsScanner, claimVerifier, claimScorer, crisisDetector, imageAnalyzer, claims, tracker)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
