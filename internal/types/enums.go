// internal/types/enums.go
package types

// MediaType identifies the kind of media being played back.
type MediaType int

const (
	MediaVideo MediaType = 1
	MediaImage MediaType = 2
)

// Gender values accepted by the user-data surface.
type Gender int

const (
	GenderUnknown Gender = 0
	GenderMale    Gender = 1
	GenderFemale  Gender = 2
	GenderOther   Gender = 3
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	case GenderOther:
		return "other"
	default:
		return "unknown"
	}
}

// CollectorKind names a default-event sampler.
type CollectorKind string

const (
	CollectorGaze        CollectorKind = "gaze"
	CollectorOrientation CollectorKind = "orientation"
	CollectorPerformance CollectorKind = "performance"
)
