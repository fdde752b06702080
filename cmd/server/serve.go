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

	"github.com/spf13/cobra"
	vipsworker "github.com/thebartekbanach/imgpipe/pkg/worker/vips"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start image server",
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := loadConfig()

	log.Printf("initializing %s cache", cfg.CacheBackend)
	caches := InitializeCache(ctx, cfg)

	log.Printf("initializing %s image service", cfg.WorkerEngine)
	m := InitializeMetrics()
	imageService := InitializeImageService(cfg, caches.cache, m)
	if cfg.WorkerEngine == vipsworker.EngineName {
		defer vipsworker.Shutdown()
	}

	stopCleanup := make(chan struct{})
	defer close(stopCleanup)

	var rateLimiter *clientRateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = newClientRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
		rateLimiter.startCleanup(stopCleanup)
	}

	router := setupRouter(serverDependencies{
		config:              cfg,
		imageService:        imageService,
		invalidationService: caches.invalidator,
		metrics:             m,
		rateLimiter:         rateLimiter,
	})

	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	go func() {
		log.Printf("listening on %s", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
