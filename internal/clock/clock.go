// internal/clock/clock.go
package clock

import (
	"sync"
	"time"
)

// Clock tracks the frame timings of the host application: wall time of the
// current frame, accumulated app time, and accumulated play time. The host
// drives it with one Tick per rendered frame.
//
// timeSinceStart excludes periods where the app was inactive (window switch,
// headset removed); playTimeSinceStart additionally excludes app pauses.
type Clock struct {
	mu sync.Mutex

	frameUnixMillis    int64
	frameDuration      int64
	timeSinceStart     int64
	playTimeSinceStart int64

	appActive  bool
	appPlaying bool

	headsetApplied       bool
	pauseOnHeadsetRemove bool

	videoPlaying bool
	videoSeek    float64

	now func() time.Time
}

// New returns a Clock reading wall time from time.Now.
func New() *Clock {
	return NewWithNow(time.Now)
}

// NewWithNow returns a Clock with an injected time source.
func NewWithNow(now func() time.Time) *Clock {
	c := &Clock{
		appActive:      true,
		appPlaying:     true,
		headsetApplied: true,
		now:            now,
	}
	c.Init()
	return c
}

// Init resets all counters and fixes the frame time to current wall time.
func (c *Clock) Init() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frameUnixMillis = c.now().UnixMilli()
	c.frameDuration = 0
	c.timeSinceStart = 0
	c.playTimeSinceStart = 0
	c.videoSeek = 0
}

// Tick advances the clock to the next frame. The frame duration is the delta
// since the previous tick, or the explicit value in milliseconds if supplied.
// When the app is not active the duration is zeroed before accumulation, but
// the frame wall time still advances.
func (c *Clock) Tick(explicitMillis ...int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nowMillis := c.now().UnixMilli()

	var duration int64
	if len(explicitMillis) > 0 {
		duration = explicitMillis[0]
		nowMillis = c.frameUnixMillis + duration
	} else {
		duration = nowMillis - c.frameUnixMillis
	}

	if !c.appActive {
		duration = 0
	}

	c.frameDuration = duration
	c.frameUnixMillis = nowMillis
	c.timeSinceStart += duration
	if c.appPlaying {
		c.playTimeSinceStart += duration
		if c.videoPlaying {
			c.videoSeek += float64(duration) / 1000
		}
	}
}

// SetAppActive marks the app in or out of focus.
func (c *Clock) SetAppActive(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appActive = active
}

// SetAppPlaying marks the app playing or paused.
func (c *Clock) SetAppPlaying(playing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appPlaying = playing
}

// SetHeadsetState records the headset being applied or removed. Removal
// pauses play time only when the pause-on-remove policy is set; application
// unconditionally resumes both active and playing state.
func (c *Clock) SetHeadsetState(applied bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.headsetApplied = applied
	if applied {
		c.appActive = true
		c.appPlaying = true
		return
	}
	if c.pauseOnHeadsetRemove {
		c.appPlaying = false
	}
}

// SetRemoveHeadsetPausesPlay toggles the pause-on-headset-remove policy.
func (c *Clock) SetRemoveHeadsetPausesPlay(pause bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseOnHeadsetRemove = pause
}

// PlayVideo marks a video as playing; the seek position advances with play time.
func (c *Clock) PlayVideo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videoPlaying = true
}

// PauseVideo stops the seek position from advancing.
func (c *Clock) PauseVideo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videoPlaying = false
}

// StopVideo stops playback and resets the seek position.
func (c *Clock) StopVideo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videoPlaying = false
	c.videoSeek = 0
}

// SetVideoSeek repositions the video seek, in seconds.
func (c *Clock) SetVideoSeek(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videoSeek = seconds
}

func (c *Clock) VideoSeek() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.videoSeek
}

func (c *Clock) VideoPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.videoPlaying
}

// FrameUnixMillis returns the wall time of the current frame in unix milliseconds.
func (c *Clock) FrameUnixMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameUnixMillis
}

// FrameDuration returns the previous frame duration in milliseconds.
func (c *Clock) FrameDuration() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameDuration
}

// FrameDurationSeconds returns the previous frame duration in seconds.
func (c *Clock) FrameDurationSeconds() float64 {
	return float64(c.FrameDuration()) / 1000
}

// TimeSinceStart returns accumulated active app time in milliseconds.
func (c *Clock) TimeSinceStart() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeSinceStart
}

// PlayTimeSinceStart returns accumulated play time in milliseconds.
func (c *Clock) PlayTimeSinceStart() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playTimeSinceStart
}

// PlayTimeSinceStartSeconds returns accumulated play time in seconds.
func (c *Clock) PlayTimeSinceStartSeconds() float64 {
	return float64(c.PlayTimeSinceStart()) / 1000
}
