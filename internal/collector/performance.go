// internal/collector/performance.go
package collector

import (
	"github.com/vadr-vr/vrtrace/internal/clock"
	"github.com/vadr-vr/vrtrace/internal/types"
)

// performanceSampler counts frames between samples and reports FPS.
type performanceSampler struct {
	position PositionFunc
	frames   int64
}

func (p *performanceSampler) tick() {
	p.frames++
}

func (p *performanceSampler) sample(elapsedMillis int64) []Sample {
	if p.position == nil || elapsedMillis <= 0 {
		p.frames = 0
		return nil
	}
	pos := p.position()
	if pos == "" {
		p.frames = 0
		return nil
	}

	fps := float64(1000*p.frames) / float64(elapsedMillis)
	p.frames = 0

	extra := types.EmptyExtra()
	extra.IntKeys = append(extra.IntKeys, "FPS")
	extra.IntValues = append(extra.IntValues, fps)

	return []Sample{{Name: "vadrPerformance", Position: pos, Extra: extra}}
}

func (p *performanceSampler) events(_ *clock.Clock, elapsedMillis int64) []Sample {
	return p.sample(elapsedMillis)
}

func (p *performanceSampler) mediaEvents(_ *clock.Clock, elapsedMillis int64) []Sample {
	return p.sample(elapsedMillis)
}
