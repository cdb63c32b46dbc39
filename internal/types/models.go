// internal/types/models.go
package types

import (
	"fmt"
	"sort"
)

// ExtraInfo carries the typed key/value pairs attached to an event. The wire
// format requires separate parallel arrays per value type rather than a map:
// numeric extras go in ik/iv, textual extras in fk/fv. Invariant:
// len(IntKeys) == len(IntValues) and len(StringKeys) == len(StringValues).
type ExtraInfo struct {
	IntKeys      []string  `json:"ik"`
	IntValues    []float64 `json:"iv"`
	StringKeys   []string  `json:"fk"`
	StringValues []string  `json:"fv"`
}

// EmptyExtra returns an ExtraInfo with all four arrays present but empty, the
// shape synthetic events are registered with.
func EmptyExtra() ExtraInfo {
	return ExtraInfo{
		IntKeys:      []string{},
		IntValues:    []float64{},
		StringKeys:   []string{},
		StringValues: []string{},
	}
}

// NewExtraInfo dispatches each value into the numeric or string arrays once,
// at registration time. Keys are emitted in sorted order so the result is
// deterministic. A value of any other type rejects the whole event.
func NewExtraInfo(extra map[string]any) (ExtraInfo, error) {
	info := EmptyExtra()

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := extra[k].(type) {
		case int:
			info.IntKeys = append(info.IntKeys, k)
			info.IntValues = append(info.IntValues, float64(v))
		case int32:
			info.IntKeys = append(info.IntKeys, k)
			info.IntValues = append(info.IntValues, float64(v))
		case int64:
			info.IntKeys = append(info.IntKeys, k)
			info.IntValues = append(info.IntValues, float64(v))
		case float32:
			info.IntKeys = append(info.IntKeys, k)
			info.IntValues = append(info.IntValues, float64(v))
		case float64:
			info.IntKeys = append(info.IntKeys, k)
			info.IntValues = append(info.IntValues, v)
		case string:
			info.StringKeys = append(info.StringKeys, k)
			info.StringValues = append(info.StringValues, v)
		default:
			return ExtraInfo{}, fmt.Errorf("extra value for %q must be string or number, got %T", k, v)
		}
	}

	return info, nil
}

// Pairs returns the number of key/value pairs across both typed arrays. Used
// by the size-based flush trigger.
func (e ExtraInfo) Pairs() int {
	return len(e.IntKeys) + len(e.StringKeys)
}

// Event is a single recorded occurrence. Immutable once registered.
type Event struct {
	Name     string
	Position string
	Extra    ExtraInfo

	// GameTime is seconds of play time since the owning container began.
	GameTime float64
	// EventTime is unix milliseconds at the owning frame.
	EventTime int64

	// MediaDuration is seconds of play time since the owning media session
	// began. Set only for media-level events.
	MediaDuration float64
	// VideoSeek is the live seek position in seconds. Set only for events
	// registered against a video media session.
	VideoSeek float64
}
