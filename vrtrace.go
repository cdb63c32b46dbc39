// Package vrtrace is a client-side telemetry SDK for immersive web and VR
// applications. The host drives a per-frame Tick and reports scenes, media
// playback, and custom events; the SDK batches them into a session tree and
// relays the batches to a remote collector with local durability across
// restarts.
package vrtrace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vadr-vr/vrtrace/internal/clock"
	"github.com/vadr-vr/vrtrace/internal/collector"
	"github.com/vadr-vr/vrtrace/internal/config"
	"github.com/vadr-vr/vrtrace/internal/delivery"
	"github.com/vadr-vr/vrtrace/internal/identity"
	"github.com/vadr-vr/vrtrace/internal/queue"
	"github.com/vadr-vr/vrtrace/internal/session"
	"github.com/vadr-vr/vrtrace/internal/storage"
	"github.com/vadr-vr/vrtrace/internal/types"
)

// Config is the SDK configuration. See the config package for defaults.
type Config = config.Config

// DefaultConfig returns the default SDK configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads a config file, creating it with defaults when absent, and
// applies VRTRACE_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// MediaType re-exports the media kind enum.
type MediaType = types.MediaType

const (
	MediaVideo = types.MediaVideo
	MediaImage = types.MediaImage
)

// Gender re-exports the user gender enum.
type Gender = types.Gender

const (
	GenderUnknown = types.GenderUnknown
	GenderMale    = types.GenderMale
	GenderFemale  = types.GenderFemale
	GenderOther   = types.GenderOther
)

// SDK is one independent telemetry instance. All methods are safe to call
// from the host's frame loop; none of them ever panic or surface delivery
// errors to the host.
type SDK struct {
	cfg        *config.Config
	clk        *clock.Clock
	mgr        *session.Manager
	collectors *collector.Set
	user       *session.UserData
	store      types.KV
	level      *slog.LevelVar
	log        *slog.Logger
}

// Option configures optional behavior on New.
type Option func(*options)

type options struct {
	sender   types.Sender
	store    types.KV
	referrer string
	logger   *slog.Logger
}

// WithSender replaces the HTTP sender, for tests and custom transports.
func WithSender(s types.Sender) Option {
	return func(o *options) { o.sender = s }
}

// WithStore replaces the durable storage backend.
func WithStore(kv types.KV) Option {
	return func(o *options) { o.store = kv }
}

// WithReferrer supplies the document referrer; a change since the persisted
// session forces a new one.
func WithReferrer(ref string) Option {
	return func(o *options) { o.referrer = ref }
}

// WithLogger replaces the logger the SDK writes through. SetLogLevel still
// applies on top of the given logger's own handler.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New initializes the SDK: opens durable storage, reloads any persisted
// request queue, resumes or creates the session, and starts the flush poll
// and delivery worker.
func New(cfg *Config, opts ...Option) (*SDK, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Every component logs through one logger gated by the mutable level, so
	// SetLogLevel governs all SDK output.
	level := new(slog.LevelVar)
	inner := slog.Default().Handler()
	if o.logger != nil {
		inner = o.logger.Handler()
	}
	logger := slog.New(newLevelHandler(level, inner))

	store := o.store
	if store == nil {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		var err error
		switch cfg.Storage {
		case "sqlite":
			store, err = storage.NewSQLiteStore(filepath.Join(cfg.DataDir, "vrtrace.db"))
		default:
			store, err = storage.NewFileStore(filepath.Join(cfg.DataDir, "vrtrace.json"))
		}
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
	}

	q, err := queue.Load(store, logger)
	if err != nil {
		return nil, fmt.Errorf("load persisted queue: %w", err)
	}

	sender := o.sender
	if sender == nil {
		sender = delivery.NewHTTPSender(cfg.Endpoint, logger)
	}
	worker := delivery.NewWorker(q, sender, time.Duration(cfg.RetryDelaySeconds)*time.Second, logger)

	clk := clock.New()
	ids := identity.New(store, logger)
	user := session.NewUserData()
	mgr := session.NewManager(cfg, clk, ids, q, worker, user, logger)

	collectors := collector.NewSet(clk)
	collectors.Configure(types.CollectorGaze, cfg.Collectors.Gaze.Enabled, cfg.Collectors.Gaze.PeriodMillis)
	collectors.Configure(types.CollectorOrientation, cfg.Collectors.Orientation.Enabled, cfg.Collectors.Orientation.PeriodMillis)
	collectors.Configure(types.CollectorPerformance, cfg.Collectors.Performance.Enabled, cfg.Collectors.Performance.PeriodMillis)
	mgr.SetPositionProvider(collectors.Position)

	sdk := &SDK{
		cfg:        cfg,
		clk:        clk,
		mgr:        mgr,
		collectors: collectors,
		user:       user,
		store:      store,
		level:      level,
		log:        logger,
	}
	sdk.SetLogLevel(cfg.LogLevel)

	mgr.Init(o.referrer)

	// Drain anything a previous run left behind.
	worker.Wake()

	return sdk, nil
}

// SetApplication sets the application identity stamped on every payload.
func (s *SDK) SetApplication(appID, appToken, version string) {
	s.cfg.App.ID = appID
	s.cfg.App.Token = appToken
	s.cfg.App.Version = version
}

// SetLogLevel adjusts SDK log verbosity: 0 silences, 1 errors, 2 warnings,
// 3 info, 4 debug.
func (s *SDK) SetLogLevel(level int) {
	switch {
	case level <= 0:
		s.level.Set(slog.LevelError + 4)
	case level == 1:
		s.level.Set(slog.LevelError)
	case level == 2:
		s.level.Set(slog.LevelWarn)
	case level == 3:
		s.level.Set(slog.LevelInfo)
	default:
		s.level.Set(slog.LevelDebug)
	}
}

// LogLeveler exposes the SDK's level var so the host can mount it on its own
// slog handler.
func (s *SDK) LogLeveler() slog.Leveler {
	return s.level
}

// Tick advances the SDK by one host frame. The frame duration is measured
// from the previous tick, or taken from the explicit value in milliseconds.
// Due default-event samples are registered during the call.
func (s *SDK) Tick(frameMillis ...int64) {
	s.clk.Tick(frameMillis...)

	for _, sample := range s.collectors.Tick(s.mgr.MediaActive()) {
		s.mgr.RegisterPrepared(sample.Name, sample.Position, sample.Extra)
	}
}

// RegisterEvent records a custom event against the deepest open container.
// Position is a "x,y,z" string or empty; extra values must be strings or
// numbers. Misuse is logged and dropped, never surfaced.
func (s *SDK) RegisterEvent(name, position string, extra map[string]any) {
	s.mgr.RegisterEvent(name, position, extra)
}

// SetSessionExtra attaches one key/value pair to the session. Keys are capped
// at 50 characters and string values at 255.
func (s *SDK) SetSessionExtra(key string, value any) {
	s.mgr.SetExtra(key, value)
}

// AddScene opens a scene session, closing any open one first.
func (s *SDK) AddScene(sceneID, sceneName string) {
	s.mgr.AddScene(sceneID, sceneName)
}

// CloseScene closes the open scene and flushes the batch.
func (s *SDK) CloseScene() {
	s.mgr.CloseScene()
}

// Flush forces an immediate batch flush.
func (s *SDK) Flush() {
	s.mgr.Flush()
}

// SetPositionCallback wires the host sampler for the user position.
func (s *SDK) SetPositionCallback(fn func() string) {
	if fn == nil {
		s.log.Warn("trying to set a nil position callback")
		return
	}
	s.collectors.SetPositionCallback(fn)
}

// SetGazeCallback wires the host sampler for the gaze hit point.
func (s *SDK) SetGazeCallback(fn func() string) {
	if fn == nil {
		s.log.Warn("trying to set a nil gaze callback")
		return
	}
	s.collectors.SetGazeCallback(fn)
}

// SetAngleCallback wires the host sampler for the view angle during media.
func (s *SDK) SetAngleCallback(fn func() string) {
	if fn == nil {
		s.log.Warn("trying to set a nil angle callback")
		return
	}
	s.collectors.SetAngleCallback(fn)
}

// SetDataConfig enables or disables one default-event sampler and sets its
// sampling period in milliseconds.
func (s *SDK) SetDataConfig(kind string, enabled bool, periodMillis int64) {
	switch kind {
	case "gaze":
		s.collectors.Configure(types.CollectorGaze, enabled, periodMillis)
	case "orientation":
		s.collectors.Configure(types.CollectorOrientation, enabled, periodMillis)
	case "performance":
		s.collectors.Configure(types.CollectorPerformance, enabled, periodMillis)
	default:
		s.log.Warn("unknown data config kind", "kind", kind)
	}
}

// Destroy flushes one final batch, halts the flush poll and retry timers, and
// closes storage. The SDK must not be used afterwards.
func (s *SDK) Destroy() {
	s.mgr.Destroy()
	if err := s.store.Close(); err != nil {
		s.log.Warn("storage close failed", "error", err)
	}
}

// Position formats a 3D position the way the wire format expects.
func Position(x, y, z float64) string {
	return fmt.Sprintf("%g,%g,%g", x, y, z)
}
