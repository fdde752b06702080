//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/thebartekbanach/imgpipe/pkg/cache"
	cacherepositories "github.com/thebartekbanach/imgpipe/pkg/cache/repositories"
	"github.com/thebartekbanach/imgpipe/pkg/config"
	"github.com/thebartekbanach/imgpipe/pkg/imageservice"
	"github.com/thebartekbanach/imgpipe/pkg/imgrequest"
	"github.com/thebartekbanach/imgpipe/pkg/metrics"
	"github.com/thebartekbanach/imgpipe/pkg/worker"
)

func InitializeMongoCache(ctx context.Context, cfg *config.Config) cacheServices {
	wire.Build(
		InitializeMinioConnectionConfig,
		InitializeMinioConnection,
		cacherepositories.NewCachedImagesStorage,

		InitializeMongoConnectionConfig,
		InitializeMongoConnection,
		cacherepositories.NewCachedImagesRepository,
		cacherepositories.NewInvalidationsRepository,

		cache.NewCacheService,
		cache.NewInvalidationService,
		newCacheServices,
	)

	return cacheServices{}
}

func InitializeRedisCache(ctx context.Context, cfg *config.Config) cacheServices {
	wire.Build(
		InitializeRedisConnectionConfig,
		InitializeRedisConnection,
		cacherepositories.NewRedisCachedImagesStorage,

		cacherepositories.NewMemoryCachedImagesRepository,
		cacherepositories.NewMemoryInvalidationsRepository,

		cache.NewCacheService,
		cache.NewInvalidationService,
		newCacheServices,
	)

	return cacheServices{}
}

func InitializeMemoryCache(cfg *config.Config) cacheServices {
	wire.Build(
		InitializeMemoryStorage,
		cacherepositories.NewMemoryCachedImagesRepository,
		cacherepositories.NewMemoryInvalidationsRepository,

		cache.NewCacheService,
		cache.NewInvalidationService,
		newCacheServices,
	)

	return cacheServices{}
}

func InitializeImageService(cfg *config.Config, cacheService cache.CacheService, m *metrics.Metrics) imageservice.ImageService {
	wire.Build(
		InitializeSourceFetcher,
		InitializeWorkerRegistry,
		wire.Bind(new(worker.Factory), new(*worker.Registry)),
		imgrequest.NewFlightGroup,

		InitializeProviderSettings,
		InitializeImageServiceConfig,
		imageservice.NewImageService,
	)

	return nil
}
