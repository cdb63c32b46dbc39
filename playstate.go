package vrtrace

// PlayStateAPI is the focus and headset surface of the SDK. It feeds the
// time-accounting policy: inactive frames contribute no app time, paused
// frames contribute no play time.
type PlayStateAPI struct {
	sdk *SDK
}

// PlayState returns the focus and headset surface.
func (s *SDK) PlayState() *PlayStateAPI {
	return &PlayStateAPI{sdk: s}
}

// AppInFocus marks the application window focused.
func (p *PlayStateAPI) AppInFocus() {
	p.sdk.clk.SetAppActive(true)
}

// AppOutOfFocus marks the application window unfocused.
func (p *PlayStateAPI) AppOutOfFocus() {
	p.sdk.clk.SetAppActive(false)
}

// AppPlaying marks the application unpaused.
func (p *PlayStateAPI) AppPlaying() {
	p.sdk.clk.SetAppPlaying(true)
}

// AppPaused marks the application paused.
func (p *PlayStateAPI) AppPaused() {
	p.sdk.clk.SetAppPlaying(false)
}

// HeadsetApplied marks the headset worn; resumes active and playing state.
func (p *PlayStateAPI) HeadsetApplied() {
	p.sdk.clk.SetHeadsetState(true)
}

// HeadsetRemoved marks the headset taken off; pauses play time when the
// pause-on-remove policy is set.
func (p *PlayStateAPI) HeadsetRemoved() {
	p.sdk.clk.SetHeadsetState(false)
}

// PauseOnHeadsetRemove enables pausing play time on headset removal.
func (p *PlayStateAPI) PauseOnHeadsetRemove() {
	p.sdk.clk.SetRemoveHeadsetPausesPlay(true)
}

// DontPauseOnHeadsetRemove disables pausing play time on headset removal.
func (p *PlayStateAPI) DontPauseOnHeadsetRemove() {
	p.sdk.clk.SetRemoveHeadsetPausesPlay(false)
}
