package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailAdapter "github.com/homenest/property-service/internal/adapter/email"
	natsAdapter "github.com/homenest/property-service/internal/adapter/messaging/nats"
	mongoRepo "github.com/homenest/property-service/internal/adapter/repository/mongodb"
	"github.com/homenest/property-service/internal/config"
	"github.com/homenest/property-service/internal/platform/logger"
	"github.com/homenest/property-service/internal/platform/metrics"
	"github.com/homenest/property-service/internal/platform/tracer"
	"github.com/homenest/property-service/internal/port/http/handler"
	"github.com/homenest/property-service/internal/port/http/router"
	"github.com/homenest/property-service/internal/usecase"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const serviceName = "property-service"

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application starting", zap.String("service_name", serviceName))

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if cfg.OTExporterOTLPEndpoint != "" {
		tp := tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
		defer func() {
			ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := tp.Shutdown(ctxShutdown); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := mongoClient.Ping(ctxPing, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	appLogger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	db := mongoClient.Database(cfg.MongoDatabase)

	var events usecase.EventPublisher
	if cfg.NATSURL != "" {
		publisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
		}
		defer publisher.Close()
		events = publisher
	} else {
		appLogger.Info("NATS_URL not set, event publishing disabled")
	}

	var mailer usecase.NotificationMailer
	if m := emailAdapter.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword, appLogger); m != nil {
		mailer = m
	}

	metricsManager := metrics.NewManager("property_service")
	if cfg.PrometheusMetricsPort != "" {
		go func() {
			if err := metrics.StartServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	propertyRepo := mongoRepo.NewPropertyRepository(db, appLogger)
	notificationRepo := mongoRepo.NewNotificationRepository(db, appLogger)

	propertyUC := usecase.NewPropertyUsecase(propertyRepo, events, metricsManager, appLogger)
	reviewUC := usecase.NewReviewUsecase(propertyRepo, events, metricsManager, appLogger)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, mailer, events, metricsManager, appLogger)
	statsUC := usecase.NewStatsUsecase(propertyRepo, appLogger)

	propertyHandler := handler.NewPropertyHandler(propertyUC, appLogger)
	reviewHandler := handler.NewReviewHandler(reviewUC, appLogger)
	notificationHandler := handler.NewNotificationHandler(notificationUC, appLogger)
	statsHandler := handler.NewStatsHandler(statsUC, appLogger)

	mux := router.New(propertyHandler, reviewHandler, notificationHandler, statsHandler, appLogger, metricsManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: mux,
	}

	go func() {
		appLogger.Info("HTTP server starting", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
