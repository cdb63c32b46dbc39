// internal/session/session.go
package session

import (
	"fmt"

	"github.com/vadr-vr/vrtrace/internal/clock"
	"github.com/vadr-vr/vrtrace/internal/types"
	"github.com/vadr-vr/vrtrace/internal/wire"
)

// RegisterResult says where an event landed, or that it was rejected.
type RegisterResult int

const (
	RegisteredScene RegisterResult = iota
	RegisteredMedia
	NoActiveScene
)

const (
	maxExtraKeyLen   = 50
	maxExtraValueLen = 255
)

// Session is the top-level container for one analytics session. It owns the
// scene history and at most one open scene.
type Session struct {
	token           types.SessionToken
	startUnixMillis int64
	extra           map[string]any
	testMode        bool

	scenes  []*SceneSession
	current *SceneSession

	clk *clock.Clock
}

// New creates a session. An empty token mints a fresh one; a zero start time
// takes the clock's current frame time. Passing both resumes an earlier
// session across a reload.
func New(clk *clock.Clock, token types.SessionToken, startMillis int64, extra map[string]any) *Session {
	if token == "" {
		token = types.NewSessionToken()
	}
	if startMillis == 0 {
		startMillis = clk.FrameUnixMillis()
	}

	dup := make(map[string]any, len(extra))
	for k, v := range extra {
		dup[k] = v
	}

	return &Session{
		token:           token,
		startUnixMillis: startMillis,
		extra:           dup,
		clk:             clk,
	}
}

// Token returns the session token.
func (s *Session) Token() types.SessionToken {
	return s.token
}

// StartUnixMillis returns the session start time in unix milliseconds.
func (s *Session) StartUnixMillis() int64 {
	return s.startUnixMillis
}

// SetTestMode marks the session's data as test data on the wire.
func (s *Session) SetTestMode(test bool) {
	s.testMode = test
}

// CurrentScene returns the open scene session, or nil.
func (s *Session) CurrentScene() *SceneSession {
	return s.current
}

// SetExtra sets one session-level extra pair. A violation rejects that key
// only and leaves previously set extras intact.
func (s *Session) SetExtra(key string, value any) error {
	if len(key) > maxExtraKeyLen {
		return fmt.Errorf("extra key %q exceeds %d characters", key[:maxExtraKeyLen], maxExtraKeyLen)
	}

	switch v := value.(type) {
	case string:
		if len(v) > maxExtraValueLen {
			return fmt.Errorf("extra value for %q exceeds %d characters", key, maxExtraValueLen)
		}
	case int, int32, int64, float32, float64:
	default:
		return fmt.Errorf("extra value for %q must be string or number, got %T", key, value)
	}

	s.extra[key] = value
	return nil
}

// AddScene opens a new scene session, closing any open one first so at most
// one is live.
func (s *Session) AddScene(sceneID, sceneName string) *SceneSession {
	if s.current != nil {
		s.CloseScene()
	}
	s.current = newSceneSession(s.clk, sceneID, sceneName)
	s.scenes = append(s.scenes, s.current)
	return s.current
}

// CloseScene detaches the open scene. Its events stay in the session history.
// Reports whether anything was open.
func (s *Session) CloseScene() bool {
	if s.current == nil {
		return false
	}
	s.current = nil
	return true
}

// AddMedia opens a media session under the open scene. Reports false when no
// scene is open.
func (s *Session) AddMedia(mediaID, name string, mediaType types.MediaType, url string) bool {
	if s.current == nil {
		return false
	}
	s.current.addMedia(mediaID, name, mediaType, url)
	return true
}

// CloseMedia closes the open media session under the open scene. Reports
// false when no scene or media is open.
func (s *Session) CloseMedia() bool {
	if s.current == nil {
		return false
	}
	return s.current.closeMedia()
}

// RegisterEvent routes the event to the deepest open container.
func (s *Session) RegisterEvent(name, position string, extra types.ExtraInfo) RegisterResult {
	if s.current == nil {
		return NoActiveScene
	}
	return s.current.registerEvent(name, position, extra)
}

// Snapshot returns the flush-time continuation: same token, start time, and
// extras, empty history, with the open scene (and its open media) carried
// forward as empty snapshots. The host keeps registering against the same
// logical containers with no observable discontinuity.
func (s *Session) Snapshot() *Session {
	dup := New(s.clk, s.token, s.startUnixMillis, s.extra)
	dup.testMode = s.testMode
	if s.current != nil {
		dup.current = s.current.snapshot()
		dup.scenes = append(dup.scenes, dup.current)
	}
	return dup
}

// Dictionary serializes the session into wire form. The user block is
// composed into the extra bag here, at serialization time only; the session's
// own extra map is not mutated.
func (s *Session) Dictionary(user map[string]any) wire.SessionDict {
	extra := make(map[string]any, len(s.extra)+1)
	for k, v := range s.extra {
		extra[k] = v
	}
	if user != nil {
		extra["user"] = user
	}

	test := "false"
	if s.testMode {
		test = "true"
	}

	dict := wire.SessionDict{
		Token:  string(s.token),
		Time:   wire.MillisToSeconds(s.startUnixMillis),
		Test:   test,
		Extra:  extra,
		Scenes: make([]wire.SceneDict, 0, len(s.scenes)),
	}
	for _, scene := range s.scenes {
		dict.Scenes = append(dict.Scenes, scene.dictionary())
	}
	return dict
}
