package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thebartekbanach/imgpipe/pkg/cache"
	"github.com/thebartekbanach/imgpipe/pkg/imageservice"
	"github.com/thebartekbanach/imgpipe/pkg/imgrequest"
	"github.com/thebartekbanach/imgpipe/pkg/metrics"
)

var startTime = time.Now()

func handleImageRequest(imageService imageservice.ImageService, deviceCookie string, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		log.Printf("processing: %s", c.Request.URL.RequestURI())

		device, _ := c.Cookie(deviceCookie)
		imageService.Handle(ctx, c.Request.URL.RawQuery, c.GetHeader("Origin"), device, &ginResponseWriter{c})
	}
}

func handleJsRequest(imageService imageservice.ImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		snippet, err := imageService.Js(c.Query("publicDir"))
		if err != nil {
			log.Printf("cannot embed device detection script: %s", err)
			if errors.Is(err, imgrequest.ErrAssetMissing) {
				c.String(http.StatusNotFound, "device detection script is missing")
				return
			}

			c.String(http.StatusInternalServerError, "cannot embed device detection script")
			return
		}

		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(snippet))
	}
}

func requireAccessToken(rawAccessToken string) gin.HandlerFunc {
	if rawAccessToken == "" {
		log.Println("WARNING: IMGPIPE_INVALIDATE_TOKEN is not set, cache management endpoints are not authenticated")
		return func(c *gin.Context) { c.Next() }
	}

	accessToken := []byte("Bearer " + rawAccessToken)

	return func(c *gin.Context) {
		if subtle.ConstantTimeCompare([]byte(c.GetHeader("Authorization")), accessToken) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token authorization failed"})
			return
		}

		c.Next()
	}
}

// handleInvalidationRequest removes every cached rendition of the images
// given in the paths query parameter, by the same names as used in image
// URLs.
func handleInvalidationRequest(invalidationService cache.InvalidationService, publicPath string, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Minute)
		defer cancel()

		paths := c.QueryArray("paths")
		if len(paths) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "paths query parameter is required"})
			return
		}

		for i, path := range paths {
			sourcePath, err := imgrequest.SourcePath(publicPath, path)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			paths[i] = sourcePath
		}

		result, err := invalidationService.Invalidate(ctx, paths)
		m.ObserveInvalidated(len(result.InvalidatedImages))

		if err != nil {
			log.Printf("error ocurred when invalidating: %s", err)
			c.JSON(http.StatusInternalServerError, result)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func handleLatestInvalidationsRequest(invalidationService cache.InvalidationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Minute)
		defer cancel()

		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
			return
		}

		result, err := invalidationService.LatestInvalidations(ctx, limit)
		if err != nil {
			log.Printf("error ocurred when getting latest invalidations: %s", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot get latest invalidations"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(startTime).Round(time.Second).String(),
	})
}
