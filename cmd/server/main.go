package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swiftride/internal/config"
	"swiftride/internal/handlers"
	"swiftride/internal/repositories/mongodb"
	"swiftride/internal/services"
	"swiftride/pkg/cache"
	"swiftride/pkg/database"
	"swiftride/pkg/logger"
	"swiftride/pkg/routing"
	"swiftride/pkg/storage"

	"swiftride/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// MongoDB
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx); err != nil {
		cancelIndex()
		log.WithError(err).Fatal("Failed to create indexes")
	}
	cancelIndex()

	// Redis cache is optional: repositories fall back to the database when
	// no cache is wired.
	var cacheService services.CacheService
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache")
	} else {
		cacheService = redisCache
		defer redisCache.Close()
	}

	// Object storage for driver documents
	store, err := newStorageProvider(cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}

	// Routing provider
	routeProvider, err := newRoutingProvider(cfg.Routing)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize routing provider")
	}

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database)
	driverRepo := mongodb.NewDriverRepository(db.Database, cacheService)
	bookingRepo := mongodb.NewBookingRepository(db.Database, cacheService)

	// Services
	presence := services.NewPresenceService(log)
	fares := services.NewFareService(cfg.Pricing)
	routingService := services.NewRoutingService(routeProvider, log)
	dispatchService := services.NewDispatchService(bookingRepo, driverRepo, routingService, fares, presence, cfg.Dispatch, log)
	authService := services.NewAuthService(userRepo, driverRepo, store, cfg.Security, log)
	driverService := services.NewDriverService(driverRepo, store, log)

	// HTTP layer
	router := routes.SetupRouter(cfg, &routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Booking: handlers.NewBookingHandler(dispatchService, driverService),
		Driver:  handlers.NewDriverHandler(driverService),
		WS:      handlers.NewWSHandler(cfg.WebSocket, cfg.Security, presence, driverService, log),
	}, log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
}

func newStorageProvider(cfg *config.StorageConfig) (storage.Provider, error) {
	switch cfg.Provider {
	case "s3":
		return storage.NewAWSS3Storage(cfg.S3Region, cfg.S3Bucket, cfg.CDNDomain)
	default:
		return storage.NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	}
}

func newRoutingProvider(cfg *config.RoutingConfig) (routing.Provider, error) {
	switch cfg.Provider {
	case "google":
		return routing.NewGoogleProvider(cfg.GoogleMaps.APIKey)
	default:
		return routing.NewOSRMProvider(cfg.OSRM.BaseURL, cfg.OSRM.Profile, cfg.Timeout), nil
	}
}
