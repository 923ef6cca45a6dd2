package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	customerapp "github.com/creditcore/backend/internal/application/customer"
	eventapp "github.com/creditcore/backend/internal/application/event"
	verificationapp "github.com/creditcore/backend/internal/application/verification"
	"github.com/creditcore/backend/internal/infrastructure/cache"
	"github.com/creditcore/backend/internal/infrastructure/config"
	"github.com/creditcore/backend/internal/infrastructure/event"
	"github.com/creditcore/backend/internal/infrastructure/logger"
	"github.com/creditcore/backend/internal/infrastructure/messaging"
	"github.com/creditcore/backend/internal/infrastructure/persistence"
	"github.com/creditcore/backend/internal/infrastructure/storage"
	"github.com/creditcore/backend/internal/infrastructure/telemetry"
	infraverification "github.com/creditcore/backend/internal/infrastructure/verification"
	"github.com/creditcore/backend/internal/interfaces/http/handler"
	"github.com/creditcore/backend/internal/interfaces/http/middleware"
	"github.com/creditcore/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//	@title			Credit Service API
//	@version		1.0
//	@description	Customer financial profile and credit verification service

//	@contact.name	API Support
//	@contact.url	https://github.com/creditcore/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("Starting credit service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Connect to database
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// Connect to Redis (streams, idempotency store)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))

	// Initialize OpenTelemetry providers
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	// Database telemetry
	if cfg.Telemetry.DBTraceEnabled {
		tracingPlugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := tracingPlugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	certificateRepo := persistence.NewGormSalaryCertificateRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Event serialization and transactional outbox capture
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	outboxPublisher := event.NewOutboxPublisher(serializer)
	customerRepo.SetOutboxEventSaver(outboxPublisher)

	// Salary certificate provider client
	certificateClient, err := infraverification.NewHTTPCertificateClient(&cfg.Verification, log)
	if err != nil {
		log.Fatal("Failed to initialize certificate client", zap.Error(err))
	}

	// Raw provider response archive
	var archiver verificationapp.ResponseArchiver
	if cfg.Storage.Enabled {
		s3Archive, err := storage.NewS3ResponseArchive(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize response archive", zap.Error(err))
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			log.Warn("Failed to ensure archive bucket", zap.Error(err))
		}
		archiver = s3Archive
		log.Info("Response archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		archiver = storage.NewNoopResponseArchive()
	}

	// Application services
	customerService := customerapp.NewService(customerRepo)
	verificationService := verificationapp.NewService(certificateClient, certificateRepo, archiver, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Outbox entries are delivered to the Redis stream first; only after the
	// broker accepted an event does it fan out to the in-process bus. A
	// stream failure propagates back to the processor for retry.
	streamPublisher := messaging.NewStreamPublisher(redisClient, serializer, log)
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	deliveryPublisher := event.NewDeliveryPublisher(streamPublisher, eventBus)

	// Stream consumer dispatches customer events to the domain handler.
	// The Redis-backed idempotency store guards against at-least-once redelivery.
	idempotencyStore, err := cache.NewRedisIdempotencyStore(redisClient)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	customerEventHandler := event.NewIdempotentHandler(
		eventapp.NewCustomerEventHandler(log),
		idempotencyStore,
		log,
	)

	var consumer *messaging.StreamConsumer
	if cfg.Messaging.ConsumerEnabled {
		consumer = messaging.NewStreamConsumer(redisClient, serializer, messaging.StreamConsumerConfig{
			Group:         messaging.ConsumerGroup,
			ConsumerName:  cfg.Messaging.ConsumerName,
			BlockTimeout:  cfg.Messaging.BlockTimeout,
			BatchSize:     cfg.Messaging.BatchSize,
			ClaimMinIdle:  cfg.Messaging.ClaimMinIdle,
			ClaimInterval: cfg.Messaging.ClaimInterval,
		}, log)
		consumer.Subscribe(customerEventHandler)
		if err := consumer.Start(ctx); err != nil {
			log.Fatal("Failed to start stream consumer", zap.Error(err))
		}
	} else {
		// Without a stream consumer, deliver events in-process off the bus
		eventBus.Subscribe(customerEventHandler)
	}

	// Outbox processor drains pending entries to the broker and bus
	var outboxProcessor *event.OutboxProcessor
	if cfg.Event.ProcessorEnabled {
		outboxProcessor = event.NewOutboxProcessor(outboxRepo, deliveryPublisher, serializer, event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
			CleanupInterval:  time.Hour,
		}, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
	}

	// Business metrics gauges (outbox backlog, customer count)
	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:            meterProvider.Meter("credit.business"),
			Logger:           log,
			OutboxProvider:   telemetry.NewGormOutboxMetricsProvider(db.DB),
			CustomerProvider: telemetry.NewGormCustomerMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
		}
	}

	// HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	verificationHandler := handler.NewVerificationHandler(verificationService)
	messageHandler := handler.NewMessageHandler(streamPublisher)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	// Set gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	// Global middleware
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}

	// Health check endpoint (outside the versioned API)
	engine.GET("/health", healthHandler(db, redisClient, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Customer profile routes
	customerRoutes := router.NewDomainGroup("/customers")
	customerRoutes.POST("", customerHandler.Create)
	customerRoutes.GET("", customerHandler.List)
	customerRoutes.GET("/:id", customerHandler.GetByID)
	customerRoutes.PUT("/:id", customerHandler.Update)
	customerRoutes.DELETE("/:id", customerHandler.Delete)

	// Salary verification routes
	verificationRoutes := router.NewDomainGroup("/verification")
	verificationRoutes.POST("/salary", verificationHandler.Verify)
	verificationRoutes.GET("/salary/:nationalId", verificationHandler.GetLatest)

	// Ad-hoc stream message routes
	messageRoutes := router.NewDomainGroup("/messages")
	messageRoutes.POST("/simple", messageHandler.Send)
	messageRoutes.POST("/test", messageHandler.SendTest)

	// System and outbox administration routes
	systemRoutes := router.NewDomainGroup("/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	systemRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	systemRoutes.GET("/outbox/:id", outboxHandler.GetEntry)
	systemRoutes.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)
	systemRoutes.POST("/outbox/dead/retry-all", outboxHandler.RetryAllDeadEntries)

	r.Register(customerRoutes).
		Register(verificationRoutes).
		Register(messageRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Stop background workers before closing connections
	if outboxProcessor != nil {
		if err := outboxProcessor.Stop(shutdownCtx); err != nil {
			log.Warn("Outbox processor shutdown error", zap.Error(err))
		}
	}
	if consumer != nil {
		if err := consumer.Stop(shutdownCtx); err != nil {
			log.Warn("Stream consumer shutdown error", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus shutdown error", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown error", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown error", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, redisClient *redis.Client, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(); err != nil {
			reqLog.Warn("Database health check failed", zap.Error(err))
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			reqLog.Warn("Redis health check failed", zap.Error(err))
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":   overall,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"redis":    redisStatus,
		})
	}
}
