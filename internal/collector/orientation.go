// internal/collector/orientation.go
package collector

import (
	"github.com/vadr-vr/vrtrace/internal/clock"
	"github.com/vadr-vr/vrtrace/internal/types"
)

// orientationSampler reports the user position each period.
type orientationSampler struct {
	position PositionFunc
}

func (o *orientationSampler) tick() {}

func (o *orientationSampler) events(clk *clock.Clock, _ int64) []Sample {
	if o.position == nil {
		return nil
	}
	pos := o.position()
	if pos == "" {
		return nil
	}

	extra := types.EmptyExtra()
	extra.IntKeys = append(extra.IntKeys, "Time")
	extra.IntValues = append(extra.IntValues, clk.FrameDurationSeconds())

	return []Sample{{Name: "vadrPosition", Position: pos, Extra: extra}}
}

// Position events are not sampled during media playback; gaze angle covers it.
func (o *orientationSampler) mediaEvents(_ *clock.Clock, _ int64) []Sample {
	return nil
}
