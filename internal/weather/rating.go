package weather

import (
	"fmt"
	"strings"
)

// ConditionTier is the ski-condition rating. Higher values are better.
type ConditionTier int

const (
	TierPoor ConditionTier = iota
	TierFair
	TierGood
	TierExcellent
)

const (
	deepSnowpackCm    = 50
	minimumSnowpackCm = 20
	highWindKmh       = 60
)

// WMO weather code sets as reported by Open-Meteo.
var (
	stormCodes   = codeSet(95, 96, 99)
	rainCodes    = codeSet(51, 53, 55, 56, 57, 61, 63, 65, 66, 67, 80, 81, 82)
	snowingCodes = codeSet(71, 73, 75, 77, 85, 86)
	sunnyCodes   = codeSet(0, 1)
)

// Classify rates ski conditions. Rules are evaluated in order and the first
// match wins, so precipitation overrides wind and wind overrides snowpack.
func Classify(code int, windKmh, snowDepthCm float64) ConditionTier {
	switch {
	case stormCodes[code] || rainCodes[code]:
		return TierPoor
	case windKmh > highWindKmh:
		return TierFair
	case snowingCodes[code] && snowDepthCm >= deepSnowpackCm:
		return TierExcellent
	case sunnyCodes[code] && snowDepthCm >= deepSnowpackCm:
		return TierExcellent
	case snowDepthCm >= deepSnowpackCm:
		return TierGood
	case snowDepthCm >= minimumSnowpackCm:
		return TierFair
	default:
		return TierPoor
	}
}

// Label is the display name of the tier.
func (t ConditionTier) Label() string {
	switch t {
	case TierExcellent:
		return "Excellent"
	case TierGood:
		return "Good"
	case TierFair:
		return "Fair"
	default:
		return "Poor"
	}
}

// StyleTag is the presentation class for the tier.
func (t ConditionTier) StyleTag() string {
	return "rating-" + strings.ToLower(t.Label())
}

func (t ConditionTier) String() string {
	return t.Label()
}

func (t ConditionTier) MarshalText() ([]byte, error) {
	return []byte(t.Label()), nil
}

func (t *ConditionTier) UnmarshalText(b []byte) error {
	for _, tier := range []ConditionTier{TierPoor, TierFair, TierGood, TierExcellent} {
		if strings.EqualFold(string(b), tier.Label()) {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown condition tier %q", string(b))
}

var descriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snowfall",
	73: "Moderate snowfall",
	75: "Heavy snowfall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// Describe returns an English description of a WMO weather code.
func Describe(code int) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return "Unknown"
}

func codeSet(codes ...int) map[int]bool {
	m := make(map[int]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return m
}
