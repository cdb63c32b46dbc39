package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/vadr-vr/vrtrace"
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simEndpoint, "endpoint", "", "collector endpoint (overrides config)")
	simulateCmd.Flags().IntVar(&simFrames, "frames", 300, "frames to run per scene")
	simulateCmd.Flags().Int64Var(&simFrameMillis, "frame-ms", 16, "simulated frame duration in milliseconds")
}

var (
	simEndpoint    string
	simFrames      int
	simFrameMillis int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a scripted session against a collector",
	Long: `Runs a scripted VR session through the SDK: two scenes, a video media
session with play/pause/seek, custom events, and a teardown flush. Useful for
exercising a collector end to end.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)
	if simEndpoint != "" {
		cfg.Endpoint = simEndpoint
	}

	sdk, err := vrtrace.New(cfg, vrtrace.WithReferrer("simulate"))
	if err != nil {
		return fmt.Errorf("init sdk: %w", err)
	}

	sdk.SetPositionCallback(func() string { return vrtrace.Position(0, 1.7, 0) })
	sdk.SetGazeCallback(func() string { return vrtrace.Position(0, 0, -1) })
	sdk.SetAngleCallback(func() string { return vrtrace.Position(0, 15, 0) })

	sdk.User().SetUserID("simulated-user")
	sdk.User().SetAge(27)
	sdk.User().SetGender(vrtrace.GenderOther)
	sdk.SetSessionExtra("build", "simulate")

	slog.Info("simulating session", "frames", simFrames, "frame_ms", simFrameMillis)

	sdk.AddScene("lobby", "Lobby")
	for i := 0; i < simFrames; i++ {
		sdk.Tick(simFrameMillis)
	}
	sdk.RegisterEvent("button pressed", vrtrace.Position(1, 1, 1), map[string]any{"button": "start"})
	sdk.CloseScene()

	sdk.AddScene("theater", "Theater")
	sdk.Media().AddMedia("trailer-01", "Launch Trailer", vrtrace.MediaVideo, "https://cdn.example.com/trailer.mp4")
	for i := 0; i < simFrames; i++ {
		sdk.Tick(simFrameMillis)
		switch i {
		case simFrames / 4:
			sdk.Media().PauseMedia()
		case simFrames / 2:
			sdk.Media().PlayMedia()
		case 3 * simFrames / 4:
			sdk.Media().ChangeSeek(42)
		}
	}
	sdk.Media().CloseMedia()
	sdk.CloseScene()

	sdk.Destroy()

	// Give the delivery worker a moment to finish the final send.
	time.Sleep(2 * time.Second)
	slog.Info("simulation complete")
	return nil
}
