// internal/clock/clock_test.go
package clock

import (
	"testing"
	"time"
)

func fixedNow() func() time.Time {
	base := time.Unix(1700000000, 0)
	return func() time.Time { return base }
}

func TestTickExplicitDuration(t *testing.T) {
	c := NewWithNow(fixedNow())
	start := c.FrameUnixMillis()

	c.Tick(16)
	if got := c.FrameDuration(); got != 16 {
		t.Errorf("expected frame duration 16, got %d", got)
	}
	if got := c.FrameUnixMillis(); got != start+16 {
		t.Errorf("expected frame time %d, got %d", start+16, got)
	}
	if got := c.TimeSinceStart(); got != 16 {
		t.Errorf("expected time since start 16, got %d", got)
	}
	if got := c.PlayTimeSinceStart(); got != 16 {
		t.Errorf("expected play time 16, got %d", got)
	}
}

func TestTickInactiveFreezesDurations(t *testing.T) {
	c := NewWithNow(fixedNow())
	start := c.FrameUnixMillis()

	c.Tick(100)
	c.SetAppActive(false)
	c.Tick(100)

	// Wall time still advances while inactive, accumulated time does not.
	if got := c.FrameUnixMillis(); got != start+200 {
		t.Errorf("expected frame time %d, got %d", start+200, got)
	}
	if got := c.TimeSinceStart(); got != 100 {
		t.Errorf("expected time since start 100, got %d", got)
	}
	if got := c.FrameDuration(); got != 0 {
		t.Errorf("expected zero frame duration while inactive, got %d", got)
	}

	c.SetAppActive(true)
	c.Tick(100)
	if got := c.TimeSinceStart(); got != 200 {
		t.Errorf("expected time since start 200 after resume, got %d", got)
	}
}

func TestTickPausedFreezesPlayTimeOnly(t *testing.T) {
	c := NewWithNow(fixedNow())

	c.Tick(100)
	c.SetAppPlaying(false)
	c.Tick(100)

	if got := c.TimeSinceStart(); got != 200 {
		t.Errorf("expected time since start 200, got %d", got)
	}
	if got := c.PlayTimeSinceStart(); got != 100 {
		t.Errorf("expected play time 100, got %d", got)
	}
}

func TestHeadsetRemovePolicy(t *testing.T) {
	c := NewWithNow(fixedNow())

	// Without the policy removal changes nothing.
	c.SetHeadsetState(false)
	c.Tick(100)
	if got := c.PlayTimeSinceStart(); got != 100 {
		t.Errorf("expected play time 100 without policy, got %d", got)
	}

	c.SetRemoveHeadsetPausesPlay(true)
	c.SetHeadsetState(false)
	c.Tick(100)
	if got := c.PlayTimeSinceStart(); got != 100 {
		t.Errorf("expected play time frozen after removal, got %d", got)
	}

	// Applying the headset resumes unconditionally.
	c.SetHeadsetState(true)
	c.Tick(100)
	if got := c.PlayTimeSinceStart(); got != 200 {
		t.Errorf("expected play time 200 after reapply, got %d", got)
	}
}

func TestVideoSeekTracking(t *testing.T) {
	c := NewWithNow(fixedNow())

	c.PlayVideo()
	c.Tick(1000)
	if got := c.VideoSeek(); got != 1.0 {
		t.Errorf("expected seek 1.0, got %g", got)
	}

	c.PauseVideo()
	c.Tick(1000)
	if got := c.VideoSeek(); got != 1.0 {
		t.Errorf("expected seek unchanged while paused, got %g", got)
	}

	c.PlayVideo()
	c.SetVideoSeek(42)
	c.Tick(500)
	if got := c.VideoSeek(); got != 42.5 {
		t.Errorf("expected seek 42.5 after reposition, got %g", got)
	}

	c.StopVideo()
	if got := c.VideoSeek(); got != 0 {
		t.Errorf("expected seek reset on stop, got %g", got)
	}
	if c.VideoPlaying() {
		t.Error("expected video stopped")
	}
}

func TestSeekFrozenWhileAppPaused(t *testing.T) {
	c := NewWithNow(fixedNow())

	c.PlayVideo()
	c.SetAppPlaying(false)
	c.Tick(1000)
	if got := c.VideoSeek(); got != 0 {
		t.Errorf("expected seek frozen while app paused, got %g", got)
	}
}
