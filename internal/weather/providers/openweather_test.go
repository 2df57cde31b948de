package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"skycast/internal/weather"
)

const currentJSON = `{
	"name": "London",
	"dt": 1700000000,
	"sys": {"country": "GB", "sunrise": 1699945200, "sunset": 1699980000},
	"main": {"temp": 12.6, "temp_min": 10.1, "temp_max": 13.9, "feels_like": 11.2, "humidity": 70, "pressure": 1013},
	"wind": {"speed": 4.2, "deg": 200, "gust": 9.1},
	"clouds": {"all": 40},
	"visibility": 10000,
	"weather": [{"main": "Clouds", "description": "overcast clouds", "icon": "04d"}]
}`

const forecastJSON = `{
	"list": [
		{"dt": 1700000000, "main": {"temp": 10, "temp_min": 9, "temp_max": 11}, "wind": {"speed": 3}, "weather": [{"main": "Rain", "description": "light rain", "icon": "10d"}]},
		{"dt": 1700010800, "main": {"temp": 12, "temp_min": 11, "temp_max": 13}, "wind": {"speed": 4}, "weather": [{"main": "Clear", "description": "clear sky", "icon": "01d"}]}
	]
}`

const airJSON = `{
	"list": [{"main": {"aqi": 2}, "components": {"pm2_5": 14.3, "pm10": 21.8}}]
}`

const oneCallJSON = `{"current": {"uvi": 6.4}}`

const geocodeJSON = `[
	{"name": "London", "country": "GB", "lat": 51.5074, "lon": -0.1278},
	{"name": "London", "country": "CA", "state": "Ontario", "lat": 42.9849, "lon": -81.2453}
]`

// testClient points every endpoint family at the given test server.
func testClient(srv *httptest.Server) *OpenWeatherClient {
	c := NewOpenWeatherClient(srv.Client(), "test-key")
	c.baseURL = srv.URL + "/data/2.5"
	c.geoURL = srv.URL + "/geo/1.0"
	c.oneCallURL = srv.URL + "/data/3.0/onecall"
	return c
}

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/weather" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("appid") != "test-key" || r.URL.Query().Get("units") != "metric" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Write([]byte(currentJSON))
	}))
	defer srv.Close()

	cur, err := testClient(srv).Current(context.Background(), weather.Coordinates{Lat: 51.5, Lon: -0.12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cur.City != "London" || cur.Country != "GB" {
		t.Errorf("place = %q, %q", cur.City, cur.Country)
	}
	if cur.TempC != 12.6 || cur.HumidityPct != 70 {
		t.Errorf("readings = %+v", cur.Sample)
	}
	if cur.WindDeg == nil || *cur.WindDeg != 200 {
		t.Errorf("wind deg = %v", cur.WindDeg)
	}
	if cur.VisibilityM == nil || *cur.VisibilityM != 10000 {
		t.Errorf("visibility = %v", cur.VisibilityM)
	}
	if cur.Condition.Code != "04d" {
		t.Errorf("condition = %+v", cur.Condition)
	}
}

func TestCurrentOmitsAbsentReadings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "Quito", "sys": {"country": "EC"}, "main": {"temp": 18}, "wind": {"speed": 1.5}, "weather": []}`))
	}))
	defer srv.Close()

	cur, err := testClient(srv).Current(context.Background(), weather.Coordinates{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cur.WindDeg != nil || cur.WindGustMS != nil || cur.CloudsPct != nil || cur.VisibilityM != nil {
		t.Errorf("absent readings should stay nil: %+v", cur)
	}
}

func TestCurrentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv).Current(context.Background(), weather.Coordinates{})
	if !errors.Is(err, weather.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCurrentMissingAPIKey(t *testing.T) {
	c := NewOpenWeatherClient(http.DefaultClient, "")
	if _, err := c.Current(context.Background(), weather.Coordinates{}); !errors.Is(err, weather.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/forecast" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(forecastJSON))
	}))
	defer srv.Close()

	samples, err := testClient(srv).Forecast(context.Background(), weather.Coordinates{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].Condition.Main != "Rain" || samples[1].Condition.Main != "Clear" {
		t.Errorf("sample order not preserved: %+v", samples)
	}
}

func TestExtended(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/3.0/onecall":
			w.Write([]byte(oneCallJSON))
		case "/data/2.5/air_pollution":
			w.Write([]byte(airJSON))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ext, err := testClient(srv).Extended(context.Background(), weather.Coordinates{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.UVIndex == nil || *ext.UVIndex != 6.4 {
		t.Errorf("uv = %v", ext.UVIndex)
	}
	if ext.Air == nil {
		t.Fatal("air reading missing")
	}
	// OWM index 2 scales onto the Moderate band.
	if ext.Air.AQI != 75 || ext.Air.PM25 != 14.3 {
		t.Errorf("air = %+v", ext.Air)
	}
}

func TestExtendedPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/3.0/onecall":
			// No One Call subscription on the free tier.
			w.WriteHeader(http.StatusNotFound)
		case "/data/2.5/air_pollution":
			w.Write([]byte(airJSON))
		}
	}))
	defer srv.Close()

	ext, err := testClient(srv).Extended(context.Background(), weather.Coordinates{})
	if err != nil {
		t.Fatalf("one failing enrichment should not error: %v", err)
	}
	if ext.UVIndex != nil {
		t.Errorf("uv should be absent, got %v", ext.UVIndex)
	}
	if ext.Air == nil || ext.Air.AQI != 75 {
		t.Errorf("air = %+v", ext.Air)
	}
}

func TestScaleAirQualityIndex(t *testing.T) {
	cases := map[int]int{1: 25, 2: 75, 3: 125, 4: 175, 5: 250}
	for owm, want := range cases {
		if got := scaleAirQualityIndex(owm); got != want {
			t.Errorf("scaleAirQualityIndex(%d) = %d, want %d", owm, got, want)
		}
	}
}

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geo/1.0/direct" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "London" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Write([]byte(geocodeJSON))
	}))
	defer srv.Close()

	places, err := testClient(srv).Geocode(context.Background(), "London", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}
	if places[0].Label() != "London, GB" {
		t.Errorf("label = %q", places[0].Label())
	}
	if places[1].Label() != "London, Ontario, CA" {
		t.Errorf("label with state = %q", places[1].Label())
	}
}
