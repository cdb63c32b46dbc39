// internal/collector/gaze.go
package collector

import (
	"github.com/vadr-vr/vrtrace/internal/clock"
	"github.com/vadr-vr/vrtrace/internal/types"
)

// gazeSampler reports where the user is looking: the gaze hit point in a
// scene, the view angle during media playback.
type gazeSampler struct {
	gaze  PositionFunc
	angle PositionFunc
}

func (g *gazeSampler) tick() {}

func (g *gazeSampler) events(clk *clock.Clock, _ int64) []Sample {
	if g.gaze == nil {
		return nil
	}
	gaze := g.gaze()
	if gaze == "" {
		return nil
	}

	extra := types.EmptyExtra()
	extra.IntKeys = append(extra.IntKeys, "Time")
	extra.IntValues = append(extra.IntValues, clk.FrameDurationSeconds())

	return []Sample{{Name: "vadrGaze", Position: gaze, Extra: extra}}
}

func (g *gazeSampler) mediaEvents(clk *clock.Clock, _ int64) []Sample {
	if g.angle == nil {
		return nil
	}
	angle := g.angle()
	if angle == "" {
		return nil
	}

	extra := types.EmptyExtra()
	extra.IntKeys = append(extra.IntKeys, "Time")
	extra.IntValues = append(extra.IntValues, clk.FrameDurationSeconds())
	if !clk.VideoPlaying() {
		extra.StringKeys = append(extra.StringKeys, "Status")
		extra.StringValues = append(extra.StringValues, "Paused")
	}

	return []Sample{{Name: "vadrMedia Gaze", Position: angle, Extra: extra}}
}
