package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Ganesh-73005/saveher-backend/internal/adapter/handler"
	"github.com/Ganesh-73005/saveher-backend/internal/adapter/logger"
	"github.com/Ganesh-73005/saveher-backend/internal/adapter/metrics"
	"github.com/Ganesh-73005/saveher-backend/internal/adapter/storage/file"
	"github.com/Ganesh-73005/saveher-backend/internal/adapter/storage/memory"
	"github.com/Ganesh-73005/saveher-backend/internal/adapter/storage/postgres"
	redis_adapter "github.com/Ganesh-73005/saveher-backend/internal/adapter/storage/redis"
	"github.com/Ganesh-73005/saveher-backend/internal/adapter/websocket"
	"github.com/Ganesh-73005/saveher-backend/internal/config"
	"github.com/Ganesh-73005/saveher-backend/internal/core/geo"
	"github.com/Ganesh-73005/saveher-backend/internal/core/port"
	"github.com/Ganesh-73005/saveher-backend/internal/core/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		appLogger.Fatal("unable to parse db config", zap.Error(err))
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		appLogger.Fatal("unable to create db pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		appLogger.Fatal("cannot connect to db", zap.Error(err))
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		appLogger.Fatal("cannot prepare db schema", zap.Error(err))
	}

	appLogger.Info("connected to database via pgxpool")

	presence, closePresence := newPresenceStore(ctx, cfg, appLogger)
	defer closePresence()

	var finderOpts []geo.Option
	if cfg.IncludeSelf {
		finderOpts = append(finderOpts, geo.IncludeSelf())
	}

	directory := postgres.NewDirectory(postgres.New(pool))
	proximitySvc := service.NewProximityService(presence, geo.NewLinearScan(finderOpts...), cfg.MeterRadius, appLogger)
	familySvc := service.NewFamilyService(directory, presence, appLogger)
	authSvc := service.NewAuthService(cfg.JWTSecret)

	hub := websocket.NewHub(presence, proximitySvc, familySvc, appLogger)
	go hub.Run(ctx)

	presenceHandler := handler.NewPresenceHandler(proximitySvc, familySvc, appLogger)
	wsHandler := handler.NewWSHandler(hub, appLogger)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "UP", "env": cfg.Env})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authed := r.Group("/", handler.AuthMiddleware(authSvc))
	{
		authed.GET("/ws", wsHandler.Serve)
	}

	api := r.Group("/api/v1", handler.AuthMiddleware(authSvc))
	{
		api.GET("/me/nearby", presenceHandler.Nearby)
		api.GET("/me/family", presenceHandler.Family)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		appLogger.Info("starting server",
			zap.String("port", cfg.ServerPort),
			zap.String("snapshot_source", cfg.SnapshotSource),
			zap.Float64("radius_meters", cfg.MeterRadius))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	appLogger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("server exiting")
}

func newPresenceStore(ctx context.Context, cfg config.Config, appLogger *zap.Logger) (port.PresenceStore, func()) {
	switch cfg.SnapshotSource {
	case config.SnapshotSourceRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			appLogger.Fatal("cannot connect to redis", zap.Error(err))
		}
		appLogger.Info("presence snapshot in redis", zap.String("addr", cfg.RedisAddr), zap.String("key", cfg.SnapshotKey))
		return redis_adapter.NewPresenceStore(rdb, cfg.SnapshotKey), func() { rdb.Close() }
	case config.SnapshotSourceMemory:
		appLogger.Warn("presence snapshot kept in memory, it is lost on restart")
		return memory.NewSnapshotStore(), func() {}
	default:
		appLogger.Info("presence snapshot in file", zap.String("path", cfg.SnapshotPath))
		return file.NewSnapshotStore(cfg.SnapshotPath), func() {}
	}
}
