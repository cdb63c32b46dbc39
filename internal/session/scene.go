// internal/session/scene.go
package session

import (
	"github.com/vadr-vr/vrtrace/internal/clock"
	"github.com/vadr-vr/vrtrace/internal/types"
	"github.com/vadr-vr/vrtrace/internal/wire"
)

// SceneSession records events for a single play of one scene. It owns its own
// event stream plus the media sessions opened while it was live, of which at
// most one is open at a time.
type SceneSession struct {
	sceneID   string
	sceneName string

	startUnixMillis int64
	// beginPlayMillis is playTimeSinceStart at creation; gameTime of an event
	// is measured against it.
	beginPlayMillis int64
	token           types.SceneToken

	events  []types.Event
	media   []*MediaSession
	current *MediaSession

	clk *clock.Clock
}

func newSceneSession(clk *clock.Clock, sceneID, sceneName string) *SceneSession {
	return &SceneSession{
		sceneID:         sceneID,
		sceneName:       sceneName,
		startUnixMillis: clk.FrameUnixMillis(),
		beginPlayMillis: clk.PlayTimeSinceStart(),
		token:           types.NewSceneToken(),
		clk:             clk,
	}
}

// Token returns the scene session token.
func (s *SceneSession) Token() types.SceneToken {
	return s.token
}

// Events returns the scene-level events in registration order.
func (s *SceneSession) Events() []types.Event {
	return s.events
}

// CurrentMedia returns the open media session, or nil.
func (s *SceneSession) CurrentMedia() *MediaSession {
	return s.current
}

// gameTime is seconds of play time since this scene began.
func (s *SceneSession) gameTime() float64 {
	return float64(s.clk.PlayTimeSinceStart()-s.beginPlayMillis) / 1000
}

// addMedia opens a new media session, closing any open one first so at most
// one is live.
func (s *SceneSession) addMedia(mediaID, name string, mediaType types.MediaType, url string) *MediaSession {
	if s.current != nil {
		s.closeMedia()
	}
	s.current = newMediaSession(s.clk, mediaID, name, mediaType, s.gameTime(), url)
	s.media = append(s.media, s.current)
	return s.current
}

// closeMedia detaches the open media session. Its events stay in the scene's
// media history. Reports whether anything was open.
func (s *SceneSession) closeMedia() bool {
	if s.current == nil {
		return false
	}
	s.current = nil
	return true
}

// registerEvent routes to the open media session if one exists, else records
// against the scene's own stream.
func (s *SceneSession) registerEvent(name, position string, extra types.ExtraInfo) RegisterResult {
	if s.current != nil {
		s.current.registerEvent(name, position, extra, s.gameTime())
		return RegisteredMedia
	}

	s.events = append(s.events, types.Event{
		Name:      name,
		Position:  position,
		Extra:     extra,
		GameTime:  s.gameTime(),
		EventTime: s.clk.FrameUnixMillis(),
	})
	return RegisteredScene
}

// snapshot returns a structurally equal scene with the same token and timing
// origins, no events, and no media history except a snapshot of the open
// media session, which stays open.
func (s *SceneSession) snapshot() *SceneSession {
	dup := &SceneSession{
		sceneID:         s.sceneID,
		sceneName:       s.sceneName,
		startUnixMillis: s.startUnixMillis,
		beginPlayMillis: s.beginPlayMillis,
		token:           s.token,
		clk:             s.clk,
	}
	if s.current != nil {
		dup.current = s.current.snapshot()
		dup.media = append(dup.media, dup.current)
	}
	return dup
}

// dictionary serializes the scene and its media history into wire form.
func (s *SceneSession) dictionary() wire.SceneDict {
	dict := wire.SceneDict{
		SceneID:    s.sceneID,
		SceneName:  s.sceneName,
		StartTime:  wire.MillisToSeconds(s.startUnixMillis),
		SceneToken: string(s.token),
		Events:     wire.NewSceneEvents(s.events),
		Media:      make([]wire.MediaDict, 0, len(s.media)),
	}
	for _, m := range s.media {
		dict.Media = append(dict.Media, m.dictionary())
	}
	return dict
}
