package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/thebartekbanach/imgpipe/pkg/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "imgpipe",
	Short: "Cache-aware image transformation server",
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (eg: /etc/imgpipe/config.yaml)")
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Cannot load configuration: %s", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %s", err)
	}

	return cfg
}
