package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vadr-vr/vrtrace/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "vrtrace",
	Short: "vrtrace telemetry tooling: local collector, session simulator, queue drain",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; real env always wins.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			slog.Warn("env file not loaded", "error", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath,
		"config", filepath.Join(os.Getenv("HOME"), ".vrtrace", "config.json"), "config file path")
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch cfg.LogLevel {
	case 0, 1:
		level = slog.LevelError
	case 2:
		level = slog.LevelWarn
	case 3:
		level = slog.LevelInfo
	default:
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
