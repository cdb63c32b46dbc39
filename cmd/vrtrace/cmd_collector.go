package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadr-vr/vrtrace/internal/wire"
)

func init() {
	rootCmd.AddCommand(collectorCmd)
	collectorCmd.Flags().StringVar(&collectorListen, "listen", ":8791", "listen address")
	collectorCmd.Flags().BoolVar(&collectorReject, "reject", false, "permanently reject every payload (400)")
	collectorCmd.Flags().BoolVar(&collectorFail, "fail", false, "answer every payload with 500")
}

var (
	collectorListen string
	collectorReject bool
	collectorFail   bool
)

var collectorCmd = &cobra.Command{
	Use:   "collector",
	Short: "Run a local collector stub that accepts vrtrace payloads",
	Args:  cobra.NoArgs,
	RunE:  runCollector,
}

type collectorServer struct {
	mux      *http.ServeMux
	reject   bool
	fail     bool
	received atomic.Int64
}

func newCollectorServer(reject, fail bool) *collectorServer {
	s := &collectorServer{
		mux:    http.NewServeMux(),
		reject: reject,
		fail:   fail,
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /analytics/api/v1.1/register/data/", s.handleData)
	s.mux.HandleFunc("POST /", s.handleData)
	return s
}

func (s *collectorServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *collectorServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *collectorServer) handleData(w http.ResponseWriter, r *http.Request) {
	var payload wire.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	if s.fail {
		http.Error(w, `{"error":"simulated outage"}`, http.StatusInternalServerError)
		return
	}
	if s.reject {
		http.Error(w, `{"error":"payload rejected"}`, http.StatusBadRequest)
		return
	}

	total := s.received.Add(1)
	scenes := 0
	events := 0
	for _, sess := range payload.Sessions {
		scenes += len(sess.Scenes)
		for _, scene := range sess.Scenes {
			events += len(scene.Events.EventName)
			for _, media := range scene.Media {
				events += len(media.Events.EventName)
			}
		}
	}
	slog.Info("payload received",
		"app_id", payload.AppID,
		"device_id", payload.Device.DeviceID,
		"scenes", scenes,
		"events", events,
		"total_received", total,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func runCollector(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	srv := &http.Server{
		Addr:    collectorListen,
		Handler: newCollectorServer(collectorReject, collectorFail),
	}

	go func() {
		slog.Info("collector listening", "listen", collectorListen, "reject", collectorReject, "fail", collectorFail)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("collector server error", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down")
	return srv.Close()
}
