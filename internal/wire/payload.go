// internal/wire/payload.go
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/vadr-vr/vrtrace/internal/types"
)

// Payload is one delivery attempt to the collector: app identity, device
// block, and exactly one session dictionary.
type Payload struct {
	AppID    string        `json:"appId"`
	AppToken string        `json:"appToken"`
	Version  string        `json:"version"`
	Device   Device        `json:"device"`
	Sessions []SessionDict `json:"sessions"`
}

// Device identifies the machine and browser the session ran on. Everything
// except the id is supplied by the host.
type Device struct {
	DeviceID string   `json:"deviceId"`
	Language string   `json:"language,omitempty"`
	OS       string   `json:"os,omitempty"`
	OSV      string   `json:"osv,omitempty"`
	Browser  *Browser `json:"browser,omitempty"`
}

type Browser struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// SessionDict is the wire form of one Session.
type SessionDict struct {
	Token  string         `json:"token"`
	Time   int64          `json:"time"` // unix seconds
	Test   string         `json:"test"` // "true" | "false"
	Extra  map[string]any `json:"extra"`
	Scenes []SceneDict    `json:"scenes"`
}

// SceneDict is the wire form of one SceneSession.
type SceneDict struct {
	SceneID    string      `json:"sceneId"`
	SceneName  string      `json:"sceneName,omitempty"`
	StartTime  int64       `json:"startTime"` // unix seconds
	SceneToken string      `json:"sceneToken"`
	Events     SceneEvents `json:"events"`
	Media      []MediaDict `json:"media"`
}

// MediaDict is the wire form of one MediaSession.
type MediaDict struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Type           int         `json:"type"`
	StartTime      int64       `json:"startTime"`      // unix seconds
	SceneStartTime float64     `json:"sceneStartTime"` // seconds since scene begin
	Token          string      `json:"token"`
	URL            string      `json:"url,omitempty"`
	Events         MediaEvents `json:"events"`
}

// SceneEvents holds scene-level events as parallel arrays; index i across all
// arrays is one event.
type SceneEvents struct {
	EventName []string          `json:"eventName"`
	Position  []string          `json:"position"`
	GameTime  []float64         `json:"gameTime"`
	EventTime []int64           `json:"eventTime"`
	Extra     []types.ExtraInfo `json:"extra"`
}

// MediaEvents extends the parallel arrays with media timing. VideoDuration is
// emitted only for video media.
type MediaEvents struct {
	EventName     []string          `json:"eventName"`
	Position      []string          `json:"position"`
	GameTime      []float64         `json:"gameTime"`
	EventTime     []int64           `json:"eventTime"`
	MediaDuration []float64         `json:"mediaDuration"`
	Extra         []types.ExtraInfo `json:"extra"`
	VideoDuration *[]float64        `json:"videoDuration,omitempty"`
}

// NewSceneEvents packs recorded events into parallel arrays, never nil slices.
func NewSceneEvents(events []types.Event) SceneEvents {
	out := SceneEvents{
		EventName: make([]string, 0, len(events)),
		Position:  make([]string, 0, len(events)),
		GameTime:  make([]float64, 0, len(events)),
		EventTime: make([]int64, 0, len(events)),
		Extra:     make([]types.ExtraInfo, 0, len(events)),
	}
	for _, ev := range events {
		out.EventName = append(out.EventName, ev.Name)
		out.Position = append(out.Position, ev.Position)
		out.GameTime = append(out.GameTime, ev.GameTime)
		out.EventTime = append(out.EventTime, ev.EventTime)
		out.Extra = append(out.Extra, ev.Extra)
	}
	return out
}

// NewMediaEvents packs media-level events. The video flag adds the
// videoDuration array, present even when empty.
func NewMediaEvents(events []types.Event, video bool) MediaEvents {
	out := MediaEvents{
		EventName:     make([]string, 0, len(events)),
		Position:      make([]string, 0, len(events)),
		GameTime:      make([]float64, 0, len(events)),
		EventTime:     make([]int64, 0, len(events)),
		MediaDuration: make([]float64, 0, len(events)),
		Extra:         make([]types.ExtraInfo, 0, len(events)),
	}
	var seeks []float64
	if video {
		seeks = make([]float64, 0, len(events))
	}
	for _, ev := range events {
		out.EventName = append(out.EventName, ev.Name)
		out.Position = append(out.Position, ev.Position)
		out.GameTime = append(out.GameTime, ev.GameTime)
		out.EventTime = append(out.EventTime, ev.EventTime)
		out.MediaDuration = append(out.MediaDuration, ev.MediaDuration)
		out.Extra = append(out.Extra, ev.Extra)
		if video {
			seeks = append(seeks, ev.VideoSeek)
		}
	}
	if video {
		out.VideoDuration = &seeks
	}
	return out
}

// Marshal serializes the payload for the persisted queue.
func (p *Payload) Marshal() ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return raw, nil
}

// MillisToSeconds rounds a unix-milliseconds timestamp to whole seconds.
func MillisToSeconds(millis int64) int64 {
	return (millis + 500) / 1000
}
