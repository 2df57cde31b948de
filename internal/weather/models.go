package weather

// Condition is the provider's classification of the weather at a point
// in time: the icon id (e.g. "02d"), the short group name and the long
// description.
type Condition struct {
	Code        string `json:"code"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

// Sample is a single timestamped weather measurement in metric units
// (Celsius, m/s, hPa). Fields the provider may omit are pointers and
// are never synthesized downstream.
type Sample struct {
	Timestamp   int64     `json:"timestamp"` // unix seconds
	TempC       float64   `json:"tempC"`
	TempMinC    float64   `json:"tempMinC"`
	TempMaxC    float64   `json:"tempMaxC"`
	FeelsLikeC  float64   `json:"feelsLikeC"`
	HumidityPct int       `json:"humidityPct"`
	PressureHpa int       `json:"pressureHpa"`
	WindSpeedMS float64   `json:"windSpeedMs"`
	WindDeg     *float64  `json:"windDeg,omitempty"`
	WindGustMS  *float64  `json:"windGustMs,omitempty"`
	CloudsPct   *int      `json:"cloudsPct,omitempty"`
	Condition   Condition `json:"condition"`
}

// Current is the current-conditions sample plus the place metadata and
// day-cycle fields only the current-weather endpoint carries.
type Current struct {
	Sample
	City        string `json:"city"`
	Country     string `json:"country"`
	VisibilityM *int   `json:"visibilityM,omitempty"`
	SunriseUnix int64  `json:"sunrise"`
	SunsetUnix  int64  `json:"sunset"`
}

// DailyForecast summarizes one calendar day of forecast samples.
// TempMaxC >= TempMinC always; the condition is taken from the first
// sample of the day and never revised afterwards.
type DailyForecast struct {
	DateKey   string    `json:"date"`      // local calendar day, ISO date
	Timestamp int64     `json:"timestamp"` // first sample of the day
	TempMaxC  float64   `json:"tempMaxC"`
	TempMinC  float64   `json:"tempMinC"`
	Condition Condition `json:"condition"`
}

// AirQuality holds a pollution reading for a location.
type AirQuality struct {
	AQI  int     `json:"aqi"`
	PM25 float64 `json:"pm25"` // ug/m3
	PM10 float64 `json:"pm10"` // ug/m3
}

// Extended is the optional enrichment from the One Call and air
// pollution endpoints. Either field may be nil when the subscription or
// endpoint is unavailable; the service substitutes documented fallbacks.
type Extended struct {
	UVIndex *float64    `json:"uvIndex,omitempty"`
	Air     *AirQuality `json:"air,omitempty"`
}

// Coordinates drive all weather fetches.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is a geocoding candidate for a searched name.
type Place struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Label renders the place the way suggestions and recent searches show
// it, e.g. "Berlin, DE" or "Springfield, Illinois, US".
func (p Place) Label() string {
	if p.State != "" {
		return p.Name + ", " + p.State + ", " + p.Country
	}
	return p.Name + ", " + p.Country
}
