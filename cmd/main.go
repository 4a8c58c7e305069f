package main

import (
	"context"

	"kafka-governance/internal/handler"
	"kafka-governance/internal/kafka"
	mid "kafka-governance/internal/middleware"
	"kafka-governance/internal/model"
	"kafka-governance/internal/notifier"
	"kafka-governance/internal/scheduler"
	"kafka-governance/internal/store"
	"kafka-governance/internal/sync"
	"kafka-governance/pkg/config"
	"kafka-governance/pkg/database"
	"kafka-governance/pkg/jwtutil"
	"kafka-governance/pkg/logger"
	"kafka-governance/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "kafka-governance"

func main() {
	// Load configuration (reads .env when present)
	appConfig, err := config.Load(serviceName)
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: serviceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting kafka-governance", appConfig.LogConfig()...)

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if _, err := database.InitDB(&appConfig.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(
		&model.Tenant{},
		&model.Team{},
		&model.Cluster{},
		&model.Environment{},
		&model.Topic{},
		&model.TopicRequest{},
	); err != nil {
		log.Fatal("Failed to migrate models", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire the reconciliation service
	inventory := kafka.NewInventory(&appConfig.Kafka, log)
	catalog := store.New(database.GetDB())
	service := sync.NewService(catalog, inventory, inventory, log)
	handler.Init(service)

	// Scheduled drift notification under a cross-instance redis lease
	if appConfig.Scheduler.Enable {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     appConfig.Redis.Addr,
			Password: appConfig.Redis.Password,
			DB:       appConfig.Redis.DB,
		})
		locker := scheduler.NewRedisLock(
			redisClient,
			serviceName+":scheduler:reconciliation",
			appConfig.Scheduler.LockMinHold,
			appConfig.Scheduler.LockMaxHold,
			log,
		)
		job := scheduler.NewJob(
			catalog,
			service,
			notifier.NewLogNotifier(log),
			locker,
			appConfig.Scheduler.Interval,
			log,
		)
		go job.Run(context.Background())
	}

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Sync API routes - Apply auth middleware to validate JWT and extract tenant ID
	syncAPI := e.Group("/api/sync", mid.AuthMiddleware)
	syncAPI.GET("/topics", handler.GetSyncTopics)
	syncAPI.GET("/reconcile", handler.GetReconTopics)
	syncAPI.POST("/topics", handler.CommitSyncDecisions)
	syncAPI.POST("/topics/bulk", handler.BulkAssignTopics)
	syncAPI.POST("/back", handler.SyncBackTopics)

	// Catalog API routes
	topicAPI := e.Group("/api/topics", mid.AuthMiddleware)
	topicAPI.GET("", handler.ListTopics)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
