package vrtrace

// MediaAPI is the media playback surface of the SDK.
type MediaAPI struct {
	sdk *SDK
}

// Media returns the media playback surface.
func (s *SDK) Media() *MediaAPI {
	return &MediaAPI{sdk: s}
}

// AddMedia opens a media session under the open scene, closing any open
// media first. Video media starts the seek clock.
func (m *MediaAPI) AddMedia(mediaID, name string, mediaType MediaType, url string) {
	m.sdk.mgr.AddMedia(mediaID, name, mediaType, url)
}

// CloseMedia closes the open media session. Its events remain part of the
// scene history.
func (m *MediaAPI) CloseMedia() {
	m.sdk.mgr.CloseMedia()
}

// PlayMedia records the playback resuming.
func (m *MediaAPI) PlayMedia() {
	m.sdk.mgr.PlayMedia()
}

// PauseMedia records the playback pausing.
func (m *MediaAPI) PauseMedia() {
	m.sdk.mgr.PauseMedia()
}

// ChangeSeek records a seek to the given position in seconds.
func (m *MediaAPI) ChangeSeek(seconds float64) {
	m.sdk.mgr.ChangeSeek(seconds)
}
