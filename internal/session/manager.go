// internal/session/manager.go
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vadr-vr/vrtrace/internal/clock"
	"github.com/vadr-vr/vrtrace/internal/config"
	"github.com/vadr-vr/vrtrace/internal/delivery"
	"github.com/vadr-vr/vrtrace/internal/identity"
	"github.com/vadr-vr/vrtrace/internal/queue"
	"github.com/vadr-vr/vrtrace/internal/types"
	"github.com/vadr-vr/vrtrace/internal/wire"
)

// flushParser accepts the @every descriptor used for the flush poll.
var flushParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Manager owns the live session and applies the batching policy: it routes
// registrations, counts event pairs for the size trigger, polls the time
// trigger, and on any flush snapshots the session tree into the persisted
// queue and wakes the delivery worker.
//
// All host calls and the poll callback serialize on one mutex, preserving the
// single-threaded model of the original SDK.
type Manager struct {
	mu sync.Mutex

	cfg    *config.Config
	clk    *clock.Clock
	ids    *identity.Store
	q      *queue.Queue
	worker *delivery.Worker
	user   *UserData
	log    *slog.Logger

	deviceID types.DeviceID
	current  *Session

	pairCount    int
	lastFlush    time.Time
	cron         *cron.Cron
	mediaPlaying bool

	// positionFn samples the host position for synthetic media events.
	positionFn func() string
}

// NewManager wires a Manager over its collaborators. Call Init before use.
// A nil log falls back to the default logger.
func NewManager(cfg *config.Config, clk *clock.Clock, ids *identity.Store, q *queue.Queue, worker *delivery.Worker, user *UserData, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		cfg:    cfg,
		clk:    clk,
		ids:    ids,
		q:      q,
		worker: worker,
		user:   user,
		log:    log,
	}
}

// SetPositionProvider wires the host position callback used by the synthetic
// media play/pause/seek events.
func (m *Manager) SetPositionProvider(fn func() string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positionFn = fn
}

func (m *Manager) sessionTTL() time.Duration {
	return time.Duration(m.cfg.SessionTTLMinutes) * time.Minute
}

func (m *Manager) deviceTTL() time.Duration {
	return time.Duration(m.cfg.DeviceTTLYears) * 365 * 24 * time.Hour
}

// Init resolves or creates the current session and starts the flush poll.
// A persisted session identity within its validity window is resumed unless
// the referrer changed since it was stored.
func (m *Manager) Init(referrer string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deviceID = m.ids.DeviceID(m.deviceTTL())

	forceNew := false
	if referrer != "" {
		old, _ := m.ids.Referrer()
		forceNew = old != referrer
		m.ids.SetReferrer(referrer, m.sessionTTL())
	}

	if token, startMillis, ok := m.ids.Session(); ok && !forceNew {
		m.current = New(m.clk, token, startMillis, nil)
		m.log.Debug("resumed existing session", "token", string(token), "start", startMillis)
	} else {
		m.current = New(m.clk, "", 0, nil)
		m.ids.SetSession(m.current.Token(), m.current.StartUnixMillis(), m.sessionTTL())
		m.log.Debug("created new session", "token", string(m.current.Token()))
	}
	m.current.SetTestMode(m.cfg.TestMode)
	m.lastFlush = time.Now()

	if m.cron == nil {
		m.cron = cron.New(cron.WithParser(flushParser))
		m.cron.AddFunc("@every 1s", m.checkFlushInterval)
		m.cron.Start()
	}
}

// checkFlushInterval is the 1-second poll behind the time trigger.
func (m *Manager) checkFlushInterval() {
	m.mu.Lock()
	defer m.mu.Unlock()

	interval := time.Duration(m.cfg.FlushIntervalSeconds) * time.Second
	if time.Since(m.lastFlush) > interval {
		m.flushLocked("interval")
	}
}

// SetExtra sets one session-level extra pair; a violation drops that key only.
func (m *Manager) SetExtra(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.current.SetExtra(key, value); err != nil {
		m.log.Error("session extra rejected", "error", err)
	}
}

// AddScene opens a new scene session. Media open under the replaced scene is
// closed first so the media flag and the seek clock do not leak into the new
// scene.
func (m *Manager) AddScene(sceneID, sceneName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mediaPlaying {
		m.closeMediaLocked()
	}
	m.current.AddScene(sceneID, sceneName)
}

// CloseScene closes the open scene and always flushes: scene boundaries are
// natural batch boundaries.
func (m *Manager) CloseScene() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.CurrentScene() != nil && m.current.CurrentScene().CurrentMedia() != nil {
		m.closeMediaLocked()
	}
	if !m.current.CloseScene() {
		m.log.Warn("request to close non existent scene session")
	}
	m.flushLocked("scene closed")
}

// AddMedia opens a media session under the open scene, closing any open one
// first. Videos start the seek clock.
func (m *Manager) AddMedia(mediaID, name string, mediaType types.MediaType, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mediaPlaying {
		m.closeMediaLocked()
	}

	if !m.current.AddMedia(mediaID, name, mediaType, url) {
		m.log.Warn("trying to register media without registering scene")
		return
	}
	m.mediaPlaying = true
	if mediaType == types.MediaVideo {
		m.clk.PlayVideo()
	}
}

// CloseMedia closes the open media session and stops the seek clock.
func (m *Manager) CloseMedia() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeMediaLocked()
}

func (m *Manager) closeMediaLocked() {
	m.mediaPlaying = false
	m.clk.StopVideo()
	if !m.current.CloseMedia() {
		m.log.Warn("request to close non existent media session")
	}
}

// MediaActive reports whether a media session is open.
func (m *Manager) MediaActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mediaPlaying
}

func (m *Manager) position() string {
	if m.positionFn == nil {
		return ""
	}
	return m.positionFn()
}

// PlayMedia registers the synthetic play event and resumes the seek clock.
func (m *Manager) PlayMedia() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.registerLocked("vadrMedia Play", m.position(), types.EmptyExtra())
	m.clk.PlayVideo()
}

// PauseMedia registers the synthetic pause event and pauses the seek clock.
func (m *Manager) PauseMedia() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.registerLocked("vadrMedia Pause", m.position(), types.EmptyExtra())
	m.clk.PauseVideo()
}

// ChangeSeek registers the synthetic seek event carrying the old and new
// positions, then repositions the seek clock.
func (m *Manager) ChangeSeek(newSeek float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	extra := types.EmptyExtra()
	extra.IntKeys = append(extra.IntKeys, "oldSeek", "newSeek")
	extra.IntValues = append(extra.IntValues, m.clk.VideoSeek(), newSeek)

	m.registerLocked("vadrMedia Seek", m.position(), extra)
	m.clk.SetVideoSeek(newSeek)
}

// RegisterEvent dispatches the extra map once and routes the event to the
// deepest open container. Unsupported extra types reject the whole event.
func (m *Manager) RegisterEvent(name, position string, extra map[string]any) {
	info, err := types.NewExtraInfo(extra)
	if err != nil {
		m.log.Error("event rejected", "event", name, "error", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerLocked(name, position, info)
}

// RegisterPrepared routes an event whose extra arrays are already built, the
// path used by the default-event collectors.
func (m *Manager) RegisterPrepared(name, position string, extra types.ExtraInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerLocked(name, position, extra)
}

func (m *Manager) registerLocked(name, position string, extra types.ExtraInfo) {
	if m.current.RegisterEvent(name, position, extra) == NoActiveScene {
		m.log.Warn("trying to register event without registering scene", "event", name)
		return
	}

	// Extraless events still count one pair toward the size trigger.
	pairs := extra.Pairs()
	if pairs == 0 {
		pairs = 1
	}
	m.pairCount += pairs
	if m.pairCount >= m.cfg.MaxEventPairs {
		m.flushLocked("size")
	}
}

// PairCount returns the running pair counter, for tests.
func (m *Manager) PairCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pairCount
}

// CurrentToken returns the live session token.
func (m *Manager) CurrentToken() types.SessionToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Token()
}

// Flush snapshots the session tree into the queue immediately.
func (m *Manager) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushLocked("explicit")
}

// flushLocked serializes the live session, enqueues the payload, wakes the
// worker, and swaps in the structural continuation. Caller must hold the lock.
func (m *Manager) flushLocked(reason string) {
	m.log.Info("creating data request", "reason", reason)

	payload := &wire.Payload{
		AppID:    m.cfg.App.ID,
		AppToken: m.cfg.App.Token,
		Version:  m.cfg.App.Version,
		Device:   m.deviceDict(),
		Sessions: []wire.SessionDict{m.current.Dictionary(m.user.Dictionary(m.deviceID))},
	}

	raw, err := payload.Marshal()
	if err != nil {
		m.log.Error("payload marshal failed, batch kept in session", "error", err)
		return
	}

	m.q.Enqueue(raw)
	m.worker.Wake()

	m.current = m.current.Snapshot()
	m.pairCount = 0
	m.lastFlush = time.Now()
	m.ids.SetSession(m.current.Token(), m.current.StartUnixMillis(), m.sessionTTL())
}

func (m *Manager) deviceDict() wire.Device {
	d := wire.Device{
		DeviceID: string(m.deviceID),
		Language: m.cfg.Device.Language,
		OS:       m.cfg.Device.OS,
		OSV:      m.cfg.Device.OSV,
	}
	if m.cfg.Device.BrowserName != "" || m.cfg.Device.BrowserVersion != "" {
		d.Browser = &wire.Browser{
			Name:    m.cfg.Device.BrowserName,
			Version: m.cfg.Device.BrowserVersion,
		}
	}
	return d
}

// Destroy halts the flush poll, performs one final flush, and stops the
// delivery worker's timers. An in-flight send is left to finish on its own.
func (m *Manager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cron != nil {
		m.cron.Stop()
		m.cron = nil
	}
	m.flushLocked("teardown")
	m.worker.Stop()
}
