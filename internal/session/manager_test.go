// internal/session/manager_test.go
package session

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vadr-vr/vrtrace/internal/clock"
	"github.com/vadr-vr/vrtrace/internal/config"
	"github.com/vadr-vr/vrtrace/internal/delivery"
	"github.com/vadr-vr/vrtrace/internal/identity"
	"github.com/vadr-vr/vrtrace/internal/queue"
	"github.com/vadr-vr/vrtrace/internal/storage"
	"github.com/vadr-vr/vrtrace/internal/types"
	"github.com/vadr-vr/vrtrace/internal/wire"
)

// captureSender accepts every payload and keeps it for inspection.
type captureSender struct {
	mu       sync.Mutex
	payloads []wire.Payload
}

func (c *captureSender) Send(_ context.Context, raw []byte) (types.Disposition, error) {
	var p wire.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return types.Discard, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, p)
	return types.Delivered, nil
}

func (c *captureSender) captured() []wire.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]wire.Payload{}, c.payloads...)
}

type managerHarness struct {
	mgr    *Manager
	clk    *clock.Clock
	sender *captureSender
	worker *delivery.Worker
}

func newManagerHarness(t *testing.T, cfg *config.Config) *managerHarness {
	t.Helper()

	kv, err := storage.NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatal(err)
	}
	q, err := queue.Load(kv, nil)
	if err != nil {
		t.Fatal(err)
	}

	sender := &captureSender{}
	worker := delivery.NewWorker(q, sender, time.Second, nil)

	base := time.Unix(1700000000, 0)
	clk := clock.NewWithNow(func() time.Time { return base })

	mgr := NewManager(cfg, clk, identity.New(kv, nil), q, worker, NewUserData(), nil)
	mgr.Init("")
	t.Cleanup(mgr.Destroy)

	return &managerHarness{mgr: mgr, clk: clk, sender: sender, worker: worker}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.App.ID = "app-1"
	cfg.App.Token = "token-1"
	cfg.App.Version = "1.0"
	cfg.FlushIntervalSeconds = 3600
	cfg.MaxEventPairs = 1000
	return cfg
}

// waitPayloads polls until the sender captured n payloads.
func (h *managerHarness) waitPayloads(t *testing.T, n int) []wire.Payload {
	t.Helper()
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-deadline:
			t.Fatalf("expected %d payloads, got %d", n, len(h.sender.captured()))
		case <-ticker.C:
			if got := h.sender.captured(); len(got) >= n {
				return got
			}
		}
	}
}

func TestFlushBySizeTrigger(t *testing.T) {
	cfg := testConfig()
	cfg.MaxEventPairs = 3
	h := newManagerHarness(t, cfg)

	h.mgr.AddScene("lobby", "Lobby")
	h.mgr.RegisterEvent("two-pairs", "", map[string]any{"a": 1, "b": 2})
	if got := h.mgr.PairCount(); got != 2 {
		t.Fatalf("expected pair count 2, got %d", got)
	}
	if len(h.sender.captured()) != 0 {
		t.Fatal("expected no flush below the threshold")
	}

	// An extraless event still counts one pair and tips the threshold.
	h.mgr.RegisterEvent("plain", "", nil)

	payloads := h.waitPayloads(t, 1)
	if got := h.mgr.PairCount(); got != 0 {
		t.Errorf("expected pair counter reset after flush, got %d", got)
	}

	p := payloads[0]
	if p.AppID != "app-1" || p.AppToken != "token-1" {
		t.Errorf("unexpected app identity %s/%s", p.AppID, p.AppToken)
	}
	if len(p.Sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(p.Sessions))
	}
	events := p.Sessions[0].Scenes[0].Events
	if len(events.EventName) != 2 {
		t.Fatalf("expected both events in the batch, got %v", events.EventName)
	}
}

func TestCloseSceneFlushes(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	h.mgr.AddScene("lobby", "Lobby")
	h.mgr.RegisterEvent("tap", "1,2,3", map[string]any{"x": 5})
	h.mgr.CloseScene()

	payloads := h.waitPayloads(t, 1)
	scene := payloads[0].Sessions[0].Scenes[0]
	if scene.SceneID != "lobby" {
		t.Errorf("expected scene lobby, got %s", scene.SceneID)
	}
	if len(scene.Events.EventName) != 1 || scene.Events.EventName[0] != "tap" {
		t.Fatalf("expected the tap event, got %v", scene.Events.EventName)
	}
	if scene.Events.Extra[0].IntValues[0] != 5 {
		t.Errorf("expected extra iv [5], got %v", scene.Events.Extra[0].IntValues)
	}
}

func TestSessionTokenStableAcrossFlushes(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	token := h.mgr.CurrentToken()
	h.mgr.AddScene("lobby", "Lobby")
	h.mgr.RegisterEvent("one", "", nil)
	h.mgr.Flush()
	h.mgr.RegisterEvent("two", "", nil)
	h.mgr.Flush()

	payloads := h.waitPayloads(t, 2)
	if h.mgr.CurrentToken() != token {
		t.Error("expected session token unchanged by flushes")
	}

	first, second := payloads[0].Sessions[0], payloads[1].Sessions[0]
	if first.Token != string(token) || second.Token != string(token) {
		t.Error("expected both payloads to carry the same session token")
	}
	if first.Scenes[0].SceneToken != second.Scenes[0].SceneToken {
		t.Error("expected the open scene to keep its token across the flush")
	}
	if got := second.Scenes[0].Events.EventName; len(got) != 1 || got[0] != "two" {
		t.Errorf("expected only the post-flush event in the second batch, got %v", got)
	}
}

func TestEventWithoutSceneDropped(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	h.mgr.RegisterEvent("orphan", "", map[string]any{"a": 1})
	if got := h.mgr.PairCount(); got != 0 {
		t.Errorf("expected dropped event not to count pairs, got %d", got)
	}
}

func TestRejectedExtraDropsWholeEvent(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	h.mgr.AddScene("lobby", "Lobby")
	h.mgr.RegisterEvent("bad", "", map[string]any{"ok": 1, "bad": []int{1}})
	if got := h.mgr.PairCount(); got != 0 {
		t.Errorf("expected rejected event to register nothing, got %d pairs", got)
	}
}

func TestIntervalFlush(t *testing.T) {
	cfg := testConfig()
	cfg.FlushIntervalSeconds = 1
	h := newManagerHarness(t, cfg)

	h.mgr.AddScene("lobby", "Lobby")
	h.mgr.RegisterEvent("tap", "", nil)

	// The 1-second poll fires the time trigger on its own.
	payloads := h.waitPayloads(t, 1)
	if got := payloads[0].Sessions[0].Scenes[0].Events.EventName; len(got) != 1 {
		t.Errorf("expected the event in the interval batch, got %v", got)
	}
}

func TestMediaLifecycle(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	h.mgr.AddScene("theater", "Theater")
	h.mgr.AddMedia("m1", "Trailer", types.MediaVideo, "https://cdn.example.com/t.mp4")
	if !h.mgr.MediaActive() {
		t.Fatal("expected media active after AddMedia")
	}

	h.clk.Tick(2000)
	h.mgr.PauseMedia()
	h.clk.Tick(1000)
	h.mgr.PlayMedia()
	h.mgr.ChangeSeek(42)
	h.mgr.CloseMedia()
	if h.mgr.MediaActive() {
		t.Error("expected media inactive after CloseMedia")
	}
	h.mgr.CloseScene()

	payloads := h.waitPayloads(t, 1)
	media := payloads[0].Sessions[0].Scenes[0].Media
	if len(media) != 1 {
		t.Fatalf("expected one media session, got %d", len(media))
	}
	names := media[0].Events.EventName
	want := []string{"vadrMedia Pause", "vadrMedia Play", "vadrMedia Seek"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], names[i])
		}
	}

	// The seek event carries the old and new positions; playback paused at 2s.
	seekExtra := media[0].Events.Extra[2]
	if seekExtra.IntKeys[0] != "oldSeek" || seekExtra.IntValues[0] != 2 {
		t.Errorf("expected oldSeek 2, got %v=%v", seekExtra.IntKeys, seekExtra.IntValues)
	}
	if seekExtra.IntKeys[1] != "newSeek" || seekExtra.IntValues[1] != 42 {
		t.Errorf("expected newSeek 42, got %v=%v", seekExtra.IntKeys, seekExtra.IntValues)
	}

	if media[0].Events.VideoDuration == nil {
		t.Fatal("expected videoDuration for video media")
	}
}

func TestAddMediaClosesPrevious(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	h.mgr.AddScene("theater", "Theater")
	h.mgr.AddMedia("m1", "First", types.MediaVideo, "")
	h.mgr.AddMedia("m2", "Second", types.MediaImage, "")
	h.mgr.CloseScene()

	payloads := h.waitPayloads(t, 1)
	media := payloads[0].Sessions[0].Scenes[0].Media
	if len(media) != 2 {
		t.Fatalf("expected both media sessions in history, got %d", len(media))
	}
	if media[0].Events.VideoDuration == nil {
		t.Error("expected videoDuration on the video media")
	}
	if media[1].Events.VideoDuration != nil {
		t.Error("expected no videoDuration on the image media")
	}
}

func TestAddSceneClosesOpenMedia(t *testing.T) {
	h := newManagerHarness(t, testConfig())

	h.mgr.AddScene("theater", "Theater")
	h.mgr.AddMedia("m1", "Trailer", types.MediaVideo, "")
	h.clk.Tick(2000)

	h.mgr.AddScene("lobby", "Lobby")
	if h.mgr.MediaActive() {
		t.Error("expected no media active after the scene change")
	}
	if got := h.clk.VideoSeek(); got != 0 {
		t.Errorf("expected the seek clock reset by the scene change, got %g", got)
	}

	// The old scene's playback must not keep advancing the seek clock.
	h.clk.Tick(1000)
	if got := h.clk.VideoSeek(); got != 0 {
		t.Errorf("expected the seek clock idle in the new scene, got %g", got)
	}
}

func TestTestModeOnWire(t *testing.T) {
	cfg := testConfig()
	cfg.TestMode = true
	h := newManagerHarness(t, cfg)

	h.mgr.Flush()
	payloads := h.waitPayloads(t, 1)
	if got := payloads[0].Sessions[0].Test; got != "true" {
		t.Errorf("expected test %q, got %q", "true", got)
	}
}

func TestDestroyFlushesTeardownBatch(t *testing.T) {
	cfg := testConfig()
	h := newManagerHarness(t, cfg)

	h.mgr.AddScene("lobby", "Lobby")
	h.mgr.RegisterEvent("last", "", nil)
	h.mgr.Destroy()

	payloads := h.waitPayloads(t, 1)
	if got := payloads[0].Sessions[0].Scenes[0].Events.EventName; len(got) != 1 || got[0] != "last" {
		t.Errorf("expected the final event delivered on teardown, got %v", got)
	}
}
