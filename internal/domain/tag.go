package domain

// Tag identifies the field carried by one raw line.
type Tag uint8

const (
	TagUnknown Tag = iota
	TagRainRate
	TagReflectivity
	TagParticleCount
	TagTime
	TagDropCounts
	TagVelocities
	TagRawMatrix
)

var tagCodes = map[string]Tag{
	"01": TagRainRate,
	"07": TagReflectivity,
	"11": TagParticleCount,
	"20": TagTime,
	"90": TagDropCounts,
	"91": TagVelocities,
	"93": TagRawMatrix,
}

// ParseTag maps a two digit line prefix to its Tag. Codes the decoder does
// not consume map to TagUnknown.
func ParseTag(code string) Tag {
	if t, ok := tagCodes[code]; ok {
		return t
	}
	return TagUnknown
}

// Code returns the two digit wire code, or "" for TagUnknown.
func (t Tag) Code() string {
	switch t {
	case TagRainRate:
		return "01"
	case TagReflectivity:
		return "07"
	case TagParticleCount:
		return "11"
	case TagTime:
		return "20"
	case TagDropCounts:
		return "90"
	case TagVelocities:
		return "91"
	case TagRawMatrix:
		return "93"
	default:
		return ""
	}
}

func (t Tag) String() string {
	switch t {
	case TagRainRate:
		return "rain_rate"
	case TagReflectivity:
		return "reflectivity"
	case TagParticleCount:
		return "num_particles"
	case TagTime:
		return "time"
	case TagDropCounts:
		return "nd"
	case TagVelocities:
		return "velocity"
	case TagRawMatrix:
		return "raw"
	default:
		return "unknown"
	}
}
