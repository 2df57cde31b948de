package weather

// TempUnit selects the temperature display scale.
type TempUnit string

const (
	TempMetric   TempUnit = "metric"
	TempImperial TempUnit = "imperial"
	TempKelvin   TempUnit = "kelvin"
)

// WindUnit selects the wind speed display unit.
type WindUnit string

const (
	WindKmh WindUnit = "kmh"
	WindMph WindUnit = "mph"
	WindMs  WindUnit = "ms"
)

// TimeFormat selects 12- or 24-hour clock display.
type TimeFormat string

const (
	Time12 TimeFormat = "12"
	Time24 TimeFormat = "24"
)

// Settings are the user display preferences. They are loaded once at
// startup, merged over defaults, and persisted after every change.
type Settings struct {
	TempUnit    TempUnit   `json:"tempUnit" validate:"omitempty,oneof=metric imperial kelvin"`
	WindUnit    WindUnit   `json:"windUnit" validate:"omitempty,oneof=kmh mph ms"`
	TimeFormat  TimeFormat `json:"timeFormat" validate:"omitempty,oneof=12 24"`
	AutoRefresh bool       `json:"autoRefresh"`
}

// DefaultSettings returns the out-of-the-box preferences.
func DefaultSettings() Settings {
	return Settings{
		TempUnit:    TempMetric,
		WindUnit:    WindKmh,
		TimeFormat:  Time12,
		AutoRefresh: true,
	}
}

// Normalize replaces unknown enum values with their defaults, so a
// stale or hand-edited persisted record can never poison the display.
func (s *Settings) Normalize() {
	switch s.TempUnit {
	case TempMetric, TempImperial, TempKelvin:
	default:
		s.TempUnit = TempMetric
	}
	switch s.WindUnit {
	case WindKmh, WindMph, WindMs:
	default:
		s.WindUnit = WindKmh
	}
	switch s.TimeFormat {
	case Time12, Time24:
	default:
		s.TimeFormat = Time12
	}
}

// TempSymbol returns the letter shown next to rounded temperatures.
func (s Settings) TempSymbol() string {
	switch s.TempUnit {
	case TempImperial:
		return "F"
	case TempKelvin:
		return "K"
	default:
		return "C"
	}
}
