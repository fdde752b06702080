package main

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/thebartekbanach/imgpipe/pkg/cache"
	cacherepositories "github.com/thebartekbanach/imgpipe/pkg/cache/repositories"
	dbconnections "github.com/thebartekbanach/imgpipe/pkg/cache/repositories/connections"
	"github.com/thebartekbanach/imgpipe/pkg/config"
	"github.com/thebartekbanach/imgpipe/pkg/filefetcher"
	"github.com/thebartekbanach/imgpipe/pkg/imageservice"
	"github.com/thebartekbanach/imgpipe/pkg/metrics"
	"github.com/thebartekbanach/imgpipe/pkg/provider"
	"github.com/thebartekbanach/imgpipe/pkg/worker"
	imaginaryworker "github.com/thebartekbanach/imgpipe/pkg/worker/imaginary"
	imagingworker "github.com/thebartekbanach/imgpipe/pkg/worker/imaging"
	vipsworker "github.com/thebartekbanach/imgpipe/pkg/worker/vips"
)

func InitializeMongoConnectionConfig(cfg *config.Config) dbconnections.CacheDBConfig {
	config := dbconnections.CacheDBConfig{
		ConnectionString: cfg.MongoConnectionString,
	}

	if config.ConnectionString == "" {
		log.Panic("IMGPIPE_MONGO_CONNECTION_STRING is required by mongo cache backend")
	}

	parsedConnectionString, err := url.Parse(config.ConnectionString)
	if err != nil {
		log.Panicf("Error ocurred when parsing IMGPIPE_MONGO_CONNECTION_STRING: %s", err)
	}

	if parsedConnectionString.User == nil {
		log.Panicf("IMGPIPE_MONGO_CONNECTION_STRING must contain credentials")
	}

	return config
}

func InitializeMongoConnection(ctx context.Context, mongoConfig dbconnections.CacheDBConfig) dbconnections.CacheDBConnection {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	cacheDbConnection, err := dbconnections.NewCacheDBProductionConnection(ctx, mongoConfig)
	if err != nil {
		log.Panicf("Error ocurred when initializing MongoDB connection: %s", err)
	}

	return cacheDbConnection
}

func InitializeMinioConnectionConfig(cfg *config.Config) dbconnections.MinioConfig {
	config := dbconnections.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Location:  cfg.MinioLocation,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioSSL,
	}

	if config.Endpoint == "" {
		log.Panic("IMGPIPE_MINIO_ENDPOINT is required by mongo cache backend")
	}

	if _, err := url.Parse(config.Endpoint); err != nil {
		log.Panicf("Error ocurred when parsing IMGPIPE_MINIO_ENDPOINT: %s", err)
	}

	if config.AccessKey == "" {
		log.Panic("IMGPIPE_MINIO_ACCESS_KEY is required by mongo cache backend")
	}

	if config.SecretKey == "" {
		log.Panic("IMGPIPE_MINIO_SECRET_KEY is required by mongo cache backend")
	}

	if config.Location == "" {
		config.Location = "us-east-1"
	}

	if config.Bucket == "" {
		log.Panic("IMGPIPE_MINIO_BUCKET is required by mongo cache backend")
	}

	return config
}

func InitializeMinioConnection(ctx context.Context, minioConfig dbconnections.MinioConfig) dbconnections.MinioConnection {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	minioConnection, err := dbconnections.NewMinioProductionConnection(ctx, minioConfig)
	if err != nil {
		log.Panicf("Error ocurred when initializing Minio connection: %s", err)
	}

	return minioConnection
}

func InitializeRedisConnectionConfig(cfg *config.Config) dbconnections.RedisConfig {
	if cfg.RedisAddr == "" {
		log.Panic("IMGPIPE_REDIS_ADDR is required by redis cache backend")
	}

	return dbconnections.RedisConfig{
		Address:  cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

func InitializeRedisConnection(ctx context.Context, redisConfig dbconnections.RedisConfig) dbconnections.RedisConnection {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	redisConnection, err := dbconnections.NewRedisProductionConnection(ctx, redisConfig)
	if err != nil {
		log.Panicf("Error ocurred when initializing Redis connection: %s", err)
	}

	return redisConnection
}

func InitializeMemoryStorage(cfg *config.Config) cacherepositories.CachedImagesStorage {
	storage, err := cacherepositories.NewMemoryCachedImagesStorage(cacherepositories.MemoryStorageConfig{
		MaxCostBytes: cfg.MemoryMaxCostMB << 20,
	})
	if err != nil {
		log.Panicf("Error ocurred when initializing in-memory image storage: %s", err)
	}

	return storage
}

// cacheServices share the backend connections of one cache backend.
type cacheServices struct {
	cache       cache.CacheService
	invalidator cache.InvalidationService
}

func newCacheServices(cacheService cache.CacheService, invalidationService cache.InvalidationService) cacheServices {
	return cacheServices{cacheService, invalidationService}
}

// InitializeCache picks the cache backend named in the configuration.
// Invalidation history is kept in MongoDB when it is the backend and in
// memory otherwise.
func InitializeCache(ctx context.Context, cfg *config.Config) cacheServices {
	switch cfg.CacheBackend {
	case "mongo":
		return InitializeMongoCache(ctx, cfg)
	case "redis":
		return InitializeRedisCache(ctx, cfg)
	case "memory":
		return InitializeMemoryCache(cfg)
	}

	log.Panicf("Unknown cache backend: %s", cfg.CacheBackend)
	return cacheServices{}
}

func InitializeSourceFetcher(cfg *config.Config) filefetcher.Fetcher {
	return filefetcher.NewSourceFetcher(cfg.SourceMaxSizeMB << 20)
}

// InitializeWorkerRegistry registers the configured engine as the default
// one. The pure Go engine is always available as a fallback by name.
func InitializeWorkerRegistry(cfg *config.Config, fetcher filefetcher.Fetcher) *worker.Registry {
	registry := worker.NewRegistry(fetcher)
	registry.SetLimits(worker.Limits{
		MaxDimension: cfg.MaxDimension,
		MaxPixels:    cfg.MaxSourcePixels,
	})

	switch cfg.WorkerEngine {
	case vipsworker.EngineName:
		registry.Register(vipsworker.NewEngine(vipsworker.Config{
			ConcurrencyLevel: cfg.VipsConcurrency,
			MaxCacheMem:      cfg.VipsMaxCacheMemMB << 20,
			MaxPixels:        cfg.MaxSourcePixels,
		}))
	case imaginaryworker.EngineName:
		if _, err := url.Parse(cfg.ImaginaryURL); err != nil {
			log.Panicf("Error ocurred when parsing IMGPIPE_IMAGINARY_URL: %s", err)
		}

		registry.Register(imaginaryworker.NewEngine(imaginaryworker.Config{
			ImaginaryServiceURL: cfg.ImaginaryURL,
		}))
	}

	registry.Register(imagingworker.NewEngine())
	return registry
}

func InitializeProviderSettings(cfg *config.Config) provider.Settings {
	breakpoints, err := cfg.ParsedBreakpoints()
	if err != nil {
		log.Panicf("Error ocurred when parsing IMGPIPE_BREAKPOINTS: %s", err)
	}

	return provider.Settings{
		PublicPath:        cfg.PublicPath,
		BasePath:          cfg.BasePath,
		JsPath:            cfg.JsPath,
		VarImage:          cfg.VarImage,
		VarTransform:      cfg.VarTransform,
		VarResponsiveFlag: cfg.VarResponsiveFlag,
		WorkerName:        cfg.WorkerEngine,
		Breakpoints:       breakpoints,
	}
}

func InitializeImageServiceConfig(cfg *config.Config, settings provider.Settings) imageservice.ImageServiceConfig {
	return imageservice.ImageServiceConfig{
		Provider:       settings,
		ServeRoute:     cfg.ServeRoute,
		CacheLifetime:  cfg.CacheLifetime,
		AllowedDomains: cfg.AllowedDomainList(),
		AllowedOrigins: cfg.AllowedOriginList(),
	}
}

func InitializeMetrics() *metrics.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}
