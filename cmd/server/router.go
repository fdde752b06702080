package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ryanuber/go-glob"
	"github.com/thebartekbanach/imgpipe/pkg/cache"
	"github.com/thebartekbanach/imgpipe/pkg/config"
	"github.com/thebartekbanach/imgpipe/pkg/imageservice"
	"github.com/thebartekbanach/imgpipe/pkg/metrics"
)

type serverDependencies struct {
	config              *config.Config
	imageService        imageservice.ImageService
	invalidationService cache.InvalidationService
	metrics             *metrics.Metrics
	rateLimiter         *clientRateLimiter
}

func setupRouter(deps serverDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.config.AllowedOriginList())))
	router.SetTrustedProxies(nil)

	router.GET("/health", handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	images := router.Group(deps.config.ServeRoute)
	if deps.rateLimiter != nil {
		images.Use(deps.rateLimiter.Middleware())
	}
	images.GET("", handleImageRequest(deps.imageService, deps.config.DeviceCookie, deps.config.RequestTimeout))

	router.GET("/js", handleJsRequest(deps.imageService))

	invalidations := router.Group("/cache", requireAccessToken(deps.config.InvalidateToken))
	invalidations.DELETE("", handleInvalidationRequest(deps.invalidationService, deps.config.PublicPath, deps.metrics))
	invalidations.GET("/invalidations", handleLatestInvalidationsRequest(deps.invalidationService))

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	config := cors.Config{
		AllowMethods: []string{"GET", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}

	config.AllowOriginFunc = func(origin string) bool {
		for _, allowedOrigin := range allowedOrigins {
			if glob.Glob(allowedOrigin, origin) {
				return true
			}
		}

		return false
	}

	return config
}
