package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"novedad_notification_service/internal/app"
	"novedad_notification_service/internal/infra/config"
	idb "novedad_notification_service/internal/infra/database"
	"novedad_notification_service/internal/infra/httpapi"
	"novedad_notification_service/internal/infra/logger"
	"novedad_notification_service/internal/infra/mailer"
	"novedad_notification_service/internal/infra/metrics"
	"novedad_notification_service/internal/infra/reporting"
	"novedad_notification_service/internal/infra/scheduler"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Log.WithField("component", "main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	metrics.Register()

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	// Initialize Repositories
	recipientRepo := idb.NewPostgresRecipientRepository(db)
	novedadRepo := idb.NewPostgresNovedadRepository(db)
	assignmentRepo := idb.NewPostgresAssignmentRepository(db)
	deliveryRepo := idb.NewPostgresDeliveryRepository(db)
	mainLogger.Info("Repositories initialized.")

	// Initialize external collaborator clients
	mailerClient := mailer.NewHTTPClient(cfg.MailerBaseURL)
	chartsClient := reporting.NewChartsClient(cfg.ChartsBaseURL)
	uploaderClient := reporting.NewUploaderClient(cfg.StorageBaseURL)

	// Initialize Services
	recipientService := app.NewRecipientService(recipientRepo)
	assignmentService := app.NewAssignmentService(assignmentRepo, recipientRepo)
	novedadService := app.NewNovedadService(novedadRepo, logger.Log.WithField("component", "ingest"))
	resolverService := app.NewResolverService(novedadRepo, assignmentRepo, recipientRepo,
		logger.Log.WithField("component", "resolver"))
	deliveryService := app.NewDeliveryService(deliveryRepo, novedadRepo)
	dispatchService := app.NewDispatchService(novedadRepo, resolverService, deliveryRepo, mailerClient,
		logger.Log.WithField("component", "dispatch"), cfg.DispatchBatchSize)
	reportService := app.NewReportService(novedadRepo, chartsClient, uploaderClient,
		logger.Log.WithField("component", "report"))
	mainLogger.Info("Services initialized.")

	// Initialize NotificationScheduler
	notifScheduler := scheduler.NewNotificationScheduler(
		dispatchService,
		reportService,
		logger.Log.WithField("component", "scheduler"),
		cfg.CronSpecDispatch,
		cfg.CronSpecDailyReport,
	)
	notifScheduler.Start() // Start the cron jobs

	// Initialize HTTP server
	apiServer := httpapi.NewServer(
		cfg.HTTPPort,
		cfg.JWTSecret,
		recipientService,
		assignmentService,
		novedadService,
		resolverService,
		deliveryService,
	)
	httpServer := &http.Server{
		Addr:    apiServer.Addr(),
		Handler: apiServer.Handler(),
	}

	go func() {
		mainLogger.Infof("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mainLogger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	notifScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Error("HTTP server shutdown failed")
	}
	// db.Close() is handled by defer
	mainLogger.Info("Application shut down gracefully.")
}
