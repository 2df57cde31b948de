package weather

import (
	"fmt"
	"math"
	"time"
)

const (
	// synodicMonthDays is the mean period between successive new moons.
	synodicMonthDays = 29.530588853

	// placeholder shown when an optional reading is absent.
	placeholderDash = "--"
	placeholderGust = "N/A"
)

// referenceNewMoon is a known new moon used as the lunar cycle anchor.
var referenceNewMoon = time.Date(2000, time.January, 6, 0, 0, 0, 0, time.UTC)

var moonPhases = [8]string{
	"New Moon", "Waxing Crescent", "First Quarter", "Waxing Gibbous",
	"Full Moon", "Waning Gibbous", "Last Quarter", "Waning Crescent",
}

// Snapshot is the normalized, display-ready view of current conditions.
// All numeric display fields are already converted and rounded per the
// user's settings; absent optional readings carry placeholders.
type Snapshot struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temperature int       `json:"temperature"`
	TempSymbol  string    `json:"tempSymbol"`
	FeelsLike   int       `json:"feelsLike"`
	Condition   Condition `json:"condition"`

	HumidityPct int    `json:"humidityPct"`
	PressureHpa int    `json:"pressureHpa"`
	Visibility  string `json:"visibility"` // "10.0 km" or "--"
	Cloudiness  string `json:"cloudiness"` // "40%" or "--"

	WindSpeed     string   `json:"windSpeed"`
	WindDirection string   `json:"windDirection"` // compass label or "--"
	WindDeg       *float64 `json:"windDeg,omitempty"`
	WindGust      string   `json:"windGust"` // formatted or "N/A"

	Sunrise   string `json:"sunrise"`
	Sunset    string `json:"sunset"`
	UVIndex   string `json:"uvIndex"`
	MoonPhase string `json:"moonPhase"`
}

// AirQualityBand is a labeled severity band of the AQI scale.
type AirQualityBand struct {
	Label    string `json:"label"`
	Severity int    `json:"severity"` // 0 = Good .. 3 = Unhealthy
}

// AirView is the display model for the air quality widget.
type AirView struct {
	AQI      int    `json:"aqi"`
	Label    string `json:"label"`
	Severity int    `json:"severity"`
	PM25     string `json:"pm25"`
	PM10     string `json:"pm10"`
}

// DailyCard is one entry of the weekly forecast strip, converted and
// rounded for display.
type DailyCard struct {
	DateKey     string `json:"date"`
	Day         string `json:"day"` // weekday name
	IconCode    string `json:"icon"`
	High        int    `json:"high"`
	Low         int    `json:"low"`
	Description string `json:"description"`
}

// HourlyCard is one entry of the near-term hourly strip.
type HourlyCard struct {
	Time     string `json:"time"`
	IconCode string `json:"icon"`
	Temp     int    `json:"temp"`
	Main     string `json:"main"`
}

// View is the complete render model handed to the presentation layer.
type View struct {
	Snapshot  Snapshot     `json:"snapshot"`
	Hourly    []HourlyCard `json:"hourly"`
	Daily     []DailyCard  `json:"daily"`
	Air       AirView      `json:"air"`
	FetchedAt time.Time    `json:"fetchedAt"`
}

// BuildSnapshot combines the current-conditions sample and optional
// extended data into the display snapshot. Absent wind direction, gust,
// cloudiness and visibility readings become placeholders rather than
// zero values.
func BuildSnapshot(cur Current, ext Extended, s Settings, loc *time.Location) Snapshot {
	snap := Snapshot{
		City:        cur.City,
		Country:     cur.Country,
		Temperature: roundTemp(cur.TempC, s.TempUnit),
		TempSymbol:  s.TempSymbol(),
		FeelsLike:   roundTemp(cur.FeelsLikeC, s.TempUnit),
		Condition:   cur.Condition,
		HumidityPct: cur.HumidityPct,
		PressureHpa: cur.PressureHpa,
		WindSpeed:   FormatWindSpeed(cur.WindSpeedMS, s.WindUnit),
		Sunrise:     FormatClock(cur.SunriseUnix, s.TimeFormat, loc),
		Sunset:      FormatClock(cur.SunsetUnix, s.TimeFormat, loc),
		MoonPhase:   ApproximateMoonPhase(time.Now()),
	}

	snap.Visibility = placeholderDash
	if cur.VisibilityM != nil {
		snap.Visibility = fmt.Sprintf("%.1f km", float64(*cur.VisibilityM)/1000)
	}

	snap.Cloudiness = placeholderDash
	if cur.CloudsPct != nil {
		snap.Cloudiness = fmt.Sprintf("%d%%", *cur.CloudsPct)
	}

	snap.WindDirection = placeholderDash
	if cur.WindDeg != nil {
		snap.WindDeg = cur.WindDeg
		snap.WindDirection = WindDirectionLabel(*cur.WindDeg)
	}

	snap.WindGust = placeholderGust
	if cur.WindGustMS != nil {
		snap.WindGust = FormatWindSpeed(*cur.WindGustMS, s.WindUnit)
	}

	// The UV index only arrives with a One Call subscription; without
	// one the widget shows a fixed placeholder.
	snap.UVIndex = "5"
	if ext.UVIndex != nil {
		snap.UVIndex = fmt.Sprintf("%d", int(math.Round(*ext.UVIndex)))
	}

	return snap
}

// ApproximateMoonPhase names the lunar phase for a date. It is a
// low-fidelity approximation anchored on the 2000-01-06 new moon and
// the mean synodic month; it ignores perigee variation but is
// deterministic, which the display (and its tests) rely on.
func ApproximateMoonPhase(t time.Time) string {
	days := t.Sub(referenceNewMoon).Hours() / 24
	frac := math.Mod(days, synodicMonthDays) / synodicMonthDays
	if frac < 0 {
		frac += 1
	}
	idx := int(math.Round(frac*8)) % 8
	return moonPhases[idx]
}

// ClassifyAirQuality maps a non-negative AQI value into its labeled
// band. Band upper bounds are inclusive; every value maps to exactly
// one band.
func ClassifyAirQuality(aqi int) AirQualityBand {
	switch {
	case aqi <= 50:
		return AirQualityBand{Label: "Good", Severity: 0}
	case aqi <= 100:
		return AirQualityBand{Label: "Moderate", Severity: 1}
	case aqi <= 150:
		return AirQualityBand{Label: "Unhealthy for Sensitive Groups", Severity: 2}
	default:
		return AirQualityBand{Label: "Unhealthy", Severity: 3}
	}
}

// BuildAirView renders the air quality widget model. A nil reading
// falls back to the documented placeholder values.
func BuildAirView(air *AirQuality) AirView {
	if air == nil {
		air = &AirQuality{AQI: 45, PM25: 15, PM10: 22}
	}
	band := ClassifyAirQuality(air.AQI)
	return AirView{
		AQI:      air.AQI,
		Label:    band.Label,
		Severity: band.Severity,
		PM25:     fmt.Sprintf("%.0f ug/m3", air.PM25),
		PM10:     fmt.Sprintf("%.0f ug/m3", air.PM10),
	}
}

// BuildDailyCards converts day buckets into display cards.
func BuildDailyCards(days []DailyForecast, s Settings, loc *time.Location) []DailyCard {
	if loc == nil {
		loc = time.Local
	}
	cards := make([]DailyCard, 0, len(days))
	for _, d := range days {
		cards = append(cards, DailyCard{
			DateKey:     d.DateKey,
			Day:         time.Unix(d.Timestamp, 0).In(loc).Format("Monday"),
			IconCode:    d.Condition.Code,
			High:        roundTemp(d.TempMaxC, s.TempUnit),
			Low:         roundTemp(d.TempMinC, s.TempUnit),
			Description: d.Condition.Description,
		})
	}
	return cards
}

// BuildHourlyCards converts the hourly slice into display cards.
func BuildHourlyCards(samples []Sample, s Settings, loc *time.Location) []HourlyCard {
	cards := make([]HourlyCard, 0, len(samples))
	for _, sm := range samples {
		cards = append(cards, HourlyCard{
			Time:     FormatClock(sm.Timestamp, s.TimeFormat, loc),
			IconCode: sm.Condition.Code,
			Temp:     roundTemp(sm.TempC, s.TempUnit),
			Main:     sm.Condition.Main,
		})
	}
	return cards
}

// FormatClock renders a unix timestamp as a local wall-clock time in
// the configured 12- or 24-hour style.
func FormatClock(unix int64, tf TimeFormat, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t := time.Unix(unix, 0).In(loc)
	if tf == Time24 {
		return t.Format("15:04")
	}
	return t.Format("3:04 PM")
}

func roundTemp(celsius float64, unit TempUnit) int {
	return int(math.Round(ConvertTemperature(celsius, unit)))
}
