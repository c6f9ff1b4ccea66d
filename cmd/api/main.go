package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/debt-indexation/internal/config"
	"github.com/Dan9191/debt-indexation/internal/handler"
	"github.com/Dan9191/debt-indexation/internal/inflation"
	"github.com/Dan9191/debt-indexation/internal/integrations/minfin"
	"github.com/Dan9191/debt-indexation/internal/repository"
	"github.com/Dan9191/debt-indexation/internal/service"
	"github.com/Dan9191/debt-indexation/internal/utils/email"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// A local .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("Failed to read .env: %v", err)
	}

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Inflation source
	client := minfin.NewMinfinClient(cfg, logger)
	provider := inflation.NewCachingProvider(client, cfg.CacheTTL, logger)
	if cfg.RefreshSchedule != "" {
		refresher, err := inflation.NewRefresher(provider, cfg.RefreshSchedule, cfg.FetchBudget(), logger)
		if err != nil {
			logger.Fatalf("Failed to schedule refresh: %v", err)
		}
		refresher.Start()
		defer refresher.Stop()
	}

	// Calculation history is kept only when a database is configured
	var store service.CalculationStore
	if cfg.DBConn != "" {
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("Failed to ping database: %v", err)
		}
		store = repository.NewRepository(db)
	} else {
		logger.Info("DB_CONN is empty, calculation history disabled")
	}

	var notifier service.ClaimNotifier
	if cfg.MailEnabled() {
		notifier = email.NewSender(cfg, logger)
	}

	// Initialize layers
	svc := service.NewService(provider, store, notifier, logger, cfg)
	h := handler.NewHandler(svc, logger)
	r := handler.NewRouter(h, cfg)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.FetchBudget() + 10*time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
