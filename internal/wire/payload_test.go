// internal/wire/payload_test.go
package wire

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/vadr-vr/vrtrace/internal/types"
)

func TestVideoDurationOnlyForVideo(t *testing.T) {
	events := []types.Event{{Name: "ev", Extra: types.EmptyExtra(), VideoSeek: 1.5}}

	video := NewMediaEvents(events, true)
	raw, err := json.Marshal(video)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"videoDuration":[1.5]`) {
		t.Errorf("expected videoDuration array for video, got %s", raw)
	}

	image := NewMediaEvents(events, false)
	raw, err = json.Marshal(image)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "videoDuration") {
		t.Errorf("expected no videoDuration for image, got %s", raw)
	}

	// Present even when empty for video media.
	empty := NewMediaEvents(nil, true)
	raw, err = json.Marshal(empty)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"videoDuration":[]`) {
		t.Errorf("expected empty videoDuration array, got %s", raw)
	}
}

func TestEventArraysNeverNull(t *testing.T) {
	raw, err := json.Marshal(NewSceneEvents(nil))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "null") {
		t.Errorf("expected empty arrays, got %s", raw)
	}
}

func TestMillisToSeconds(t *testing.T) {
	cases := []struct {
		millis int64
		want   int64
	}{
		{0, 0},
		{499, 0},
		{500, 1},
		{1499, 1},
		{1500, 2},
		{1700000000123, 1700000000},
	}
	for _, c := range cases {
		if got := MillisToSeconds(c.millis); got != c.want {
			t.Errorf("MillisToSeconds(%d): expected %d, got %d", c.millis, c.want, got)
		}
	}
}
