// internal/session/media.go
package session

import (
	"github.com/vadr-vr/vrtrace/internal/clock"
	"github.com/vadr-vr/vrtrace/internal/types"
	"github.com/vadr-vr/vrtrace/internal/wire"
)

// MediaSession records events for a single playback of one media item. Owned
// exclusively by one SceneSession.
type MediaSession struct {
	mediaID   string
	name      string
	mediaType types.MediaType
	url       string

	// sceneStartTime is seconds of scene play time when the media appeared.
	sceneStartTime  float64
	startUnixMillis int64
	// beginPlayMillis is playTimeSinceStart at creation; mediaDuration of an
	// event is measured against it.
	beginPlayMillis int64
	token           types.MediaToken

	events []types.Event
	clk    *clock.Clock
}

func newMediaSession(clk *clock.Clock, mediaID, name string, mediaType types.MediaType, sceneStartTime float64, url string) *MediaSession {
	return &MediaSession{
		mediaID:         mediaID,
		name:            name,
		mediaType:       mediaType,
		url:             url,
		sceneStartTime:  sceneStartTime,
		startUnixMillis: clk.FrameUnixMillis(),
		beginPlayMillis: clk.PlayTimeSinceStart(),
		token:           types.NewMediaToken(),
		clk:             clk,
	}
}

// Token returns the media session token.
func (m *MediaSession) Token() types.MediaToken {
	return m.token
}

// Events returns the recorded events in registration order.
func (m *MediaSession) Events() []types.Event {
	return m.events
}

// registerEvent appends an event carrying the media timing fields. gameTime is
// seconds since the owning scene began.
func (m *MediaSession) registerEvent(name, position string, extra types.ExtraInfo, gameTime float64) {
	ev := types.Event{
		Name:          name,
		Position:      position,
		Extra:         extra,
		GameTime:      gameTime,
		EventTime:     m.clk.FrameUnixMillis(),
		MediaDuration: float64(m.clk.PlayTimeSinceStart()-m.beginPlayMillis) / 1000,
	}
	if m.mediaType == types.MediaVideo {
		ev.VideoSeek = m.clk.VideoSeek()
	}
	m.events = append(m.events, ev)
}

// snapshot returns a structurally equal media session with the same token and
// timing origins but no recorded events.
func (m *MediaSession) snapshot() *MediaSession {
	return &MediaSession{
		mediaID:         m.mediaID,
		name:            m.name,
		mediaType:       m.mediaType,
		url:             m.url,
		sceneStartTime:  m.sceneStartTime,
		startUnixMillis: m.startUnixMillis,
		beginPlayMillis: m.beginPlayMillis,
		token:           m.token,
		clk:             m.clk,
	}
}

// dictionary serializes the media session into its wire form.
func (m *MediaSession) dictionary() wire.MediaDict {
	return wire.MediaDict{
		ID:             m.mediaID,
		Name:           m.name,
		Type:           int(m.mediaType),
		StartTime:      wire.MillisToSeconds(m.startUnixMillis),
		SceneStartTime: m.sceneStartTime,
		Token:          string(m.token),
		URL:            m.url,
		Events:         wire.NewMediaEvents(m.events, m.mediaType == types.MediaVideo),
	}
}
