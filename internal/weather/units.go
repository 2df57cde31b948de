package weather

import (
	"fmt"
	"math"
)

// compassLabels are the 16 wind direction labels, clockwise from north.
var compassLabels = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// ConvertTemperature maps a Celsius value into the requested display
// scale. Rounding is a presentation concern left to the caller.
func ConvertTemperature(celsius float64, unit TempUnit) float64 {
	switch unit {
	case TempImperial:
		return celsius*9/5 + 32
	case TempKelvin:
		return celsius + 273.15
	default:
		return celsius
	}
}

// ConvertWindSpeed maps a m/s value into the requested display unit.
func ConvertWindSpeed(metersPerSecond float64, unit WindUnit) float64 {
	switch unit {
	case WindKmh:
		return metersPerSecond * 3.6
	case WindMph:
		return metersPerSecond * 2.237
	default:
		return metersPerSecond
	}
}

// FormatWindSpeed renders a converted wind speed with its unit suffix,
// one decimal place.
func FormatWindSpeed(metersPerSecond float64, unit WindUnit) string {
	v := ConvertWindSpeed(metersPerSecond, unit)
	switch unit {
	case WindMph:
		return fmt.Sprintf("%.1f mph", v)
	case WindMs:
		return fmt.Sprintf("%.1f m/s", v)
	default:
		return fmt.Sprintf("%.1f km/h", v)
	}
}

// WindDirectionLabel buckets a wind bearing into one of the 16 compass
// labels. Degrees outside [0,360) are normalized, never rejected; each
// bucket spans 22.5 degrees centered on its cardinal point.
func WindDirectionLabel(degrees float64) string {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	idx := int(math.Round(d/22.5)) % 16
	return compassLabels[idx]
}
