package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neohealth/internal/config"
	"neohealth/internal/db"
	apihttp "neohealth/internal/http"
	"neohealth/internal/observability"
	"neohealth/internal/repository"
	"neohealth/internal/service"
	"neohealth/internal/upstream"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	shutdownTracing := observability.InitOTel(ctx, logger, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelServiceName,
		Endpoint:    cfg.OtelEndpoint,
		SampleRatio: cfg.OtelSampleRatio,
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout(), cfg.UpstreamReadRetries, logger)

	var (
		records     service.RecordSource     = client
		predictions service.PredictionSource = client
		writer      service.RecordWriter     = client
	)
	if cfg.RecordBackend == config.RecordBackendPostgres {
		pool, err := db.Open(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		exampleColumn, err := db.HasColumn(ctx, pool, "health_records", "is_example")
		if err != nil {
			logger.Fatal("db schema", zap.Error(err))
		}
		recordRepo := repository.NewPgRecordRepository(pool, exampleColumn)
		records = recordRepo
		writer = recordRepo
		predictions = repository.NewPgPredictionRepository(pool)
		logger.Info("records served from postgres", zap.Bool("example_column", exampleColumn))
	}

	var (
		sessionStore service.SessionStore
		guard        service.SubmissionGuard
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
			redisClient = nil
		} else {
			sessionStore = service.NewRedisSessionStore(redisClient)
			guard = service.NewRedisSubmissionGuard(redisClient, cfg.UpstreamTimeout()*2)
		}
		cancel()
	}

	datasets := service.NewCachedDatasetBackend(logger, client, redisClient, cfg.SummaryCacheTTL())
	sessions := service.NewSessionManager(logger, client, sessionStore, cfg.SessionTTL())
	composer := service.NewDashboardComposer(logger, records, predictions, datasets, datasets, cfg.DashboardTimeout())
	workflow := service.NewSubmissionWorkflow(logger, writer, client, guard)

	router := apihttp.NewRouter(
		logger,
		apihttp.RouterConfig{
			ServiceName:    cfg.OtelServiceName,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Tracing:        cfg.OtelEnabled,
		},
		sessions,
		apihttp.NewAuthHandler(logger, sessions),
		apihttp.NewInsightHandler(logger, composer, datasets, sessions),
		apihttp.NewRecordHandler(logger, workflow, sessions),
		apihttp.NewAdminHandler(logger, client, sessions),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("upstream", cfg.UpstreamBaseURL),
		zap.String("record_backend", cfg.RecordBackend),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
