package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/thebartekbanach/imgpipe/pkg/imgrequest"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Cache management commands",
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate <image>...",
	Short: "Remove every cached rendition of the given images",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cfg := loadConfig()
		invalidationService := InitializeCache(ctx, cfg).invalidator

		paths := make([]string, len(args))
		for i, image := range args {
			path, err := imgrequest.SourcePath(cfg.PublicPath, image)
			if err != nil {
				log.Fatalf("Cannot invalidate %s: %s", image, err)
			}
			paths[i] = path
		}

		result, err := invalidationService.Invalidate(ctx, paths)
		printJSON(result)
		if err != nil {
			log.Fatalf("Invalidation failed: %s", err)
		}
	},
}

var cacheGetCmd = &cobra.Command{
	Use:   "get <fingerprint>",
	Short: "Show a cached image, or write it to a file with --output",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cfg := loadConfig()
		artifact, err := InitializeCache(ctx, cfg).cache.Get(ctx, args[0])
		if err != nil {
			log.Fatalf("Cannot get cached image: %s", err)
		}

		output, _ := cmd.Flags().GetString("output")
		if output != "" {
			if err := os.WriteFile(output, artifact.Data, 0o644); err != nil {
				log.Fatalf("Cannot write %s: %s", output, err)
			}
		}

		artifact.Data = nil
		printJSON(artifact)
	},
}

var cacheInvalidationsCmd = &cobra.Command{
	Use:   "invalidations",
	Short: "List latest invalidations",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cfg := loadConfig()
		limit, _ := cmd.Flags().GetInt("limit")

		invalidationService := InitializeCache(ctx, cfg).invalidator
		result, err := invalidationService.LatestInvalidations(ctx, limit)
		if err != nil {
			log.Fatalf("Cannot get latest invalidations: %s", err)
		}

		printJSON(result)
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd, cacheGetCmd, cacheInvalidationsCmd)

	cacheGetCmd.Flags().StringP("output", "o", "", "write image data to file")
	cacheInvalidationsCmd.Flags().Int("limit", 10, "number of invalidations to show")
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Cannot encode result: %s", err)
	}

	fmt.Println(string(data))
}
