// Package main is the entry point for the store-search-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"store-search-service/internal/app/service"
	"store-search-service/internal/config"
	"store-search-service/internal/domain"
	"store-search-service/internal/infra/postgres"
	"store-search-service/internal/infra/postgres/migrations"
	rediscache "store-search-service/internal/infra/redis"
	"store-search-service/internal/job"
	"store-search-service/internal/logger"
	"store-search-service/internal/transport/httpserver"
	"store-search-service/internal/transport/httpserver/middleware"
	"store-search-service/internal/validator"
	"store-search-service/pkg/clock"
	"store-search-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("APP_CONFIG_PATH"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting store-search-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("time_zone", cfg.Search.TimeZone),
	)

	zoned, err := clock.NewZoned(cfg.Search.TimeZone)
	if err != nil {
		log.Fatal("invalid time zone", zap.Error(err))
	}

	// Connect to database
	db, err := postgres.NewConnection(
		postgres.Config{
			Host:          cfg.Database.Host,
			Port:          cfg.Database.Port,
			Name:          cfg.Database.Name,
			User:          cfg.Database.User,
			Password:      cfg.Database.Password,
			SSLMode:       cfg.Database.SSLMode,
			MaxOpenConns:  cfg.Database.MaxOpenConns,
			MaxIdleConns:  cfg.Database.MaxIdleConns,
			MaxLifetime:   cfg.Database.MaxLifetime,
			SlowThreshold: cfg.Database.SlowThreshold,
			LogQueries:    cfg.Database.LogQueries,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	// Run migrations
	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	readiness := []middleware.ReadinessCheck{
		func(ctx context.Context) error { return postgres.HealthCheck(ctx, db) },
	}

	// Redis backs the response cache and the job lock
	var redisClient *redis.Client
	if cfg.Cache.Enabled || cfg.Jobs.DealExpiry.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))

		readiness = append(readiness, func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// Create cache implementation (optional, based on config)
	var cache domain.Cache
	if cfg.Cache.Enabled {
		cache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		log.Info("cache enabled",
			zap.Duration("search_ttl", cfg.Cache.SearchTTL),
			zap.Duration("filters_ttl", cfg.Cache.FiltersTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("cache disabled")
	}

	// Create repositories
	searchRepo := postgres.NewSearchRepository(db)
	enrichRepo := postgres.NewEnrichmentRepository(db)
	filterRepo := postgres.NewFilterMetaRepository(db)
	favoriteRepo := postgres.NewFavoriteRepository(db)
	dealRepo := postgres.NewDealRepository(db)
	snapshots := postgres.NewSnapshots(db)

	// Create services
	searchSvc := service.NewStoreSearchService(
		searchRepo,
		enrichRepo,
		snapshots,
		cache,
		zoned,
		service.SearchOptions{
			MaxPageSize:  cfg.Search.MaxPageSize,
			QueryTimeout: cfg.Search.QueryTimeout,
			CacheTTL:     cfg.Cache.SearchTTL,
		},
		log.Logger,
	)
	filterSvc := service.NewFilterService(filterRepo, cache, cfg.Cache.FiltersTTL, cfg.Search.TagFacetLimit, log.Logger)
	favoriteSvc := service.NewFavoriteService(searchRepo, favoriteRepo, cache, log.Logger)
	morningSaleSvc := service.NewMorningSaleService(dealRepo, cache, zoned, cfg.Cache.SearchTTL, cfg.Search.MorningSaleLimit, log.Logger)

	// Start deal expiry scheduler with distributed locking
	var scheduler *job.DealExpiryScheduler
	if cfg.Jobs.DealExpiry.Enabled {
		distLocker := locker.NewRedisLocker(redisClient, log.Logger, locker.WithKeyPrefix(cfg.Cache.KeyPrefix))
		expirySvc := service.NewDealExpiryService(dealRepo, cache, zoned, log.Logger)

		scheduler, err = job.NewDealExpiryScheduler(
			expirySvc,
			job.DealExpiryConfig{
				Schedule:  cfg.Jobs.DealExpiry.Schedule,
				Timeout:   cfg.Jobs.DealExpiry.Timeout,
				Cooldown:  cfg.Jobs.DealExpiry.Cooldown,
				OnStartup: cfg.Jobs.DealExpiry.OnStartup,
			},
			log.Logger,
			distLocker,
		)
		if err != nil {
			log.Fatal("failed to create deal expiry scheduler", zap.Error(err))
		}
		scheduler.Start()
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:         cfg.App.Port,
			BodyLimit:    1024 * 1024, // 1MB
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			CORSOrigins:  cfg.HTTP.CORSOrigins,
			MetricsPath:  metricsPath,
		},
		httpserver.Services{
			Search:       searchSvc,
			Filters:      filterSvc,
			Stores:       searchSvc,
			Favorites:    favoriteSvc,
			MorningSales: morningSaleSvc,
		},
		readiness,
		validator.New(),
		log.Logger,
	)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
