package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vadr-vr/vrtrace/internal/config"
	"github.com/vadr-vr/vrtrace/internal/delivery"
	"github.com/vadr-vr/vrtrace/internal/queue"
	"github.com/vadr-vr/vrtrace/internal/storage"
	"github.com/vadr-vr/vrtrace/internal/types"
)

func init() {
	rootCmd.AddCommand(drainCmd)
	drainCmd.Flags().DurationVar(&drainTimeout, "timeout", 60*time.Second, "maximum time to wait for delivery")
}

var drainTimeout time.Duration

var drainCmd = &cobra.Command{
	Use:   "drain",
	Short: "Deliver payloads left in the persisted queue by a previous run",
	Args:  cobra.NoArgs,
	RunE:  runDrain,
}

func openStore(cfg *config.Config) (types.KV, error) {
	switch cfg.Storage {
	case "sqlite":
		return storage.NewSQLiteStore(filepath.Join(cfg.DataDir, "vrtrace.db"))
	default:
		return storage.NewFileStore(filepath.Join(cfg.DataDir, "vrtrace.json"))
	}
}

func runDrain(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	q, err := queue.Load(store, nil)
	if err != nil {
		return fmt.Errorf("load persisted queue: %w", err)
	}
	if q.Len() == 0 {
		slog.Info("queue is empty, nothing to drain")
		return nil
	}
	slog.Info("draining persisted queue", "queued", q.Len(), "endpoint", cfg.Endpoint)

	sender := delivery.NewHTTPSender(cfg.Endpoint, nil)
	worker := delivery.NewWorker(q, sender, time.Duration(cfg.RetryDelaySeconds)*time.Second, nil)
	worker.Wake()

	if !worker.WaitIdle(drainTimeout) {
		worker.Stop()
		return fmt.Errorf("drain did not finish within %s, %d payloads still queued", drainTimeout, q.Len())
	}
	worker.Stop()

	if remaining := q.Len(); remaining > 0 {
		return fmt.Errorf("collector unreachable, %d payloads still queued", remaining)
	}
	slog.Info("queue drained")
	return nil
}
