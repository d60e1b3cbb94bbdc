package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hestia/config"
	"hestia/internal/api"
	"hestia/internal/billing"
	"hestia/internal/database"
	"hestia/internal/metrics"
	"hestia/internal/models"
	"hestia/internal/processor"
	"hestia/internal/queue"
	"hestia/internal/scheduler"
	"hestia/internal/telegram"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.SetLevel(cfg.Level())

	gasPolicy, err := cfg.ParsedGasPolicy()
	if err != nil {
		logger.WithError(err).Fatal("Invalid gas policy")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", cfg.DatabasePath)

	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	metrics.Init(db.GetDB(), logger)

	company := config.NewCompanyStore(cfg.CompanyPath)
	if err := company.Load(); err != nil {
		logger.WithError(err).Warn("Failed to load company profile, statements will have no letterhead")
	}

	// Saved settings win over the environment
	telegramService := telegram.NewService(logger)
	if saved, err := db.GetTelegramConfig(); err == nil && saved != nil {
		telegramService.UpdateConfig(saved)
	} else if cfg.Telegram.Enabled {
		telegramService.UpdateConfig(&models.TelegramConfig{
			IsEnabled: true,
			BotToken:  cfg.Telegram.BotToken,
			ChatID:    cfg.Telegram.ChatID,
		})
	}

	billingService := billing.NewService(db, company, cfg.StatementsPath, gasPolicy, logger)

	jobQueue := queue.NewJobQueue(cfg.BatchProcessing.QueueSize, logger)
	jobQueue.Start()
	defer jobQueue.Close()

	batchProcessor := processor.NewBatchProcessor(billingService, telegramService, jobQueue, cfg, logger)
	batchProcessor.Start()
	defer batchProcessor.Stop()

	billingScheduler := scheduler.NewScheduler(billingService, jobQueue, cfg, logger)
	if err := billingScheduler.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start billing scheduler")
	}
	defer billingScheduler.Stop()

	if cfg.Level() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler := api.NewHandler(db, billingService, billingScheduler, company, telegramService, logger)
	api.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shut down")
	}
}
