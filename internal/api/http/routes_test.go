package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"skycast/internal/app"
	"skycast/internal/weather"
)

type stubFetcher struct {
	view weather.View
	err  error
}

func (f *stubFetcher) FetchWeather(ctx context.Context, c weather.Coordinates, s weather.Settings) (weather.View, error) {
	return f.view, f.err
}

type stubGeocoder struct {
	places []weather.Place
}

func (g *stubGeocoder) Geocode(ctx context.Context, query string, limit int) ([]weather.Place, error) {
	return g.places, nil
}

type stubLocator struct{}

func (stubLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	return weather.Coordinates{Lat: 51.5, Lon: -0.12}, nil
}

type memStore struct {
	settings *weather.Settings
	searches []string
}

func (m *memStore) LoadSettings() (weather.Settings, error) {
	if m.settings == nil {
		return weather.DefaultSettings(), nil
	}
	return *m.settings, nil
}

func (m *memStore) SaveSettings(s weather.Settings) error {
	m.settings = &s
	return nil
}

func (m *memStore) RecentSearches() ([]string, error) { return m.searches, nil }

func (m *memStore) AddRecentSearch(entry string) error {
	m.searches = append([]string{entry}, m.searches...)
	return nil
}

type nopRenderer struct{}

func (nopRenderer) RenderView(weather.View) {}
func (nopRenderer) RenderError(string)      {}

func newTestApp(t *testing.T, fetcher app.Fetcher, geocoder weather.Geocoder) *fiber.App {
	t.Helper()
	ctrl, err := app.NewController(fetcher, geocoder, stubLocator{}, &memStore{}, nopRenderer{}, app.Options{})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	t.Cleanup(ctrl.Close)

	fa := fiber.New()
	RegisterRoutes(fa, ctrl)
	return fa
}

func TestWeatherBeforeFirstRefresh(t *testing.T) {
	fa := newTestApp(t, &stubFetcher{}, &stubGeocoder{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	resp, err := fa.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestRefreshThenWeather(t *testing.T) {
	view := weather.View{Snapshot: weather.Snapshot{City: "London", Country: "GB"}}
	fa := newTestApp(t, &stubFetcher{view: view}, &stubGeocoder{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/weather/refresh", nil)
	resp, err := fa.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status = %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
	resp, err = fa.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("weather status = %d", resp.StatusCode)
	}

	var got weather.View
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Snapshot.City != "London" {
		t.Errorf("city = %q", got.Snapshot.City)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	fa := newTestApp(t, &stubFetcher{}, &stubGeocoder{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	resp, err := fa.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestSearchUnknownCity(t *testing.T) {
	fa := newTestApp(t, &stubFetcher{}, &stubGeocoder{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=Atlantis", nil)
	resp, err := fa.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestSuggest(t *testing.T) {
	geocoder := &stubGeocoder{places: []weather.Place{
		{Name: "Berlin", Country: "DE", Lat: 52.52, Lon: 13.4},
	}}
	fa := newTestApp(t, &stubFetcher{}, geocoder)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/suggest?q=Berl", nil)
	resp, err := fa.Test(req, 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("suggest status = %d", resp.StatusCode)
	}

	var body struct {
		Query       string          `json:"query"`
		Suggestions []weather.Place `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Suggestions) != 1 || body.Suggestions[0].Name != "Berlin" {
		t.Errorf("suggestions = %v", body.Suggestions)
	}
}

func TestPutSettingsValidation(t *testing.T) {
	fa := newTestApp(t, &stubFetcher{}, &stubGeocoder{})

	// Unknown enum value should fail validation.
	body := strings.NewReader(`{"tempUnit": "rankine"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := fa.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestPutSettings(t *testing.T) {
	fa := newTestApp(t, &stubFetcher{}, &stubGeocoder{})

	body := strings.NewReader(`{"tempUnit": "imperial", "windUnit": "mph", "timeFormat": "24", "autoRefresh": false}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := fa.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put settings status = %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	resp, err = fa.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got weather.Settings
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TempUnit != weather.TempImperial || got.TimeFormat != weather.Time24 || got.AutoRefresh {
		t.Errorf("settings = %+v", got)
	}
}

func TestRecentReplayValidation(t *testing.T) {
	fa := newTestApp(t, &stubFetcher{}, &stubGeocoder{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recent/replay", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := fa.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestRecentAfterSearch(t *testing.T) {
	geocoder := &stubGeocoder{places: []weather.Place{{Name: "Paris", Country: "FR", Lat: 48.85, Lon: 2.35}}}
	fa := newTestApp(t, &stubFetcher{}, geocoder)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=Paris", nil)
	if _, err := fa.Test(req); err != nil {
		t.Fatalf("search: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/recent", nil)
	resp, err := fa.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		Recent []string `json:"recent"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Recent) != 1 || body.Recent[0] != "Paris, FR" {
		t.Errorf("recent = %v", body.Recent)
	}
}
