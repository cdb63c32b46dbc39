// internal/collector/collector.go
package collector

import (
	"github.com/vadr-vr/vrtrace/internal/clock"
	"github.com/vadr-vr/vrtrace/internal/types"
)

// Sample is one default event ready for registration.
type Sample struct {
	Name     string
	Position string
	Extra    types.ExtraInfo
}

// PositionFunc is a host callback returning a "x,y,z" position string. An
// empty return skips the sample for that period.
type PositionFunc func() string

type sampler interface {
	// events samples outside a media session; mediaEvents inside one.
	events(clk *clock.Clock, periodMillis int64) []Sample
	mediaEvents(clk *clock.Clock, periodMillis int64) []Sample
	// tick is called every frame regardless of period.
	tick()
}

type entry struct {
	enabled      bool
	periodMillis int64
	lastFetch    int64
	sampler      sampler
}

// Set owns the default-event samplers and their periods, and turns host
// frame ticks into event samples.
type Set struct {
	clk     *clock.Clock
	gaze    *gazeSampler
	orient  *orientationSampler
	perf    *performanceSampler
	entries map[types.CollectorKind]*entry
	// order fixes the cross-sampler emission sequence per frame.
	order []types.CollectorKind
}

// NewSet creates a Set with all samplers disabled.
func NewSet(clk *clock.Clock) *Set {
	s := &Set{
		clk:    clk,
		gaze:   &gazeSampler{},
		orient: &orientationSampler{},
		perf:   &performanceSampler{},
	}
	s.entries = map[types.CollectorKind]*entry{
		types.CollectorGaze:        {periodMillis: 200, sampler: s.gaze},
		types.CollectorOrientation: {periodMillis: 200, sampler: s.orient},
		types.CollectorPerformance: {periodMillis: 200, sampler: s.perf},
	}
	s.order = []types.CollectorKind{types.CollectorGaze, types.CollectorOrientation, types.CollectorPerformance}
	return s
}

// Configure enables or disables one sampler and sets its period.
func (s *Set) Configure(kind types.CollectorKind, enabled bool, periodMillis int64) {
	e, ok := s.entries[kind]
	if !ok {
		return
	}
	e.enabled = enabled
	if periodMillis > 0 {
		e.periodMillis = periodMillis
	}
}

// SetPositionCallback wires the host position sampler, shared by the
// orientation and performance collectors.
func (s *Set) SetPositionCallback(fn PositionFunc) {
	s.orient.position = fn
	s.perf.position = fn
}

// SetGazeCallback wires the host gaze hit-point sampler.
func (s *Set) SetGazeCallback(fn PositionFunc) {
	s.gaze.gaze = fn
}

// SetAngleCallback wires the host view-angle sampler used during media playback.
func (s *Set) SetAngleCallback(fn PositionFunc) {
	s.gaze.angle = fn
}

// Position samples the host position callback directly; used for synthetic
// media events. Empty when no callback is set.
func (s *Set) Position() string {
	if s.orient.position == nil {
		return ""
	}
	return s.orient.position()
}

// Tick is called once per host frame. It returns the samples due this frame,
// selecting media-aware variants while a media session is open.
func (s *Set) Tick(mediaActive bool) []Sample {
	playTime := s.clk.PlayTimeSinceStart()

	var out []Sample
	for _, kind := range s.order {
		e := s.entries[kind]
		e.sampler.tick()
		if !e.enabled || playTime-e.lastFetch <= e.periodMillis {
			continue
		}
		elapsed := playTime - e.lastFetch
		e.lastFetch = playTime

		if mediaActive {
			out = append(out, e.sampler.mediaEvents(s.clk, elapsed)...)
		} else {
			out = append(out, e.sampler.events(s.clk, elapsed)...)
		}
	}
	return out
}
