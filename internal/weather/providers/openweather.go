package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"skycast/internal/weather"
)

// OpenWeatherClient talks to the OpenWeatherMap endpoints: current
// conditions, 5-day/3-hour forecast, direct geocoding, air pollution
// and (optionally) One Call. It implements weather.Provider and
// weather.Geocoder.
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string // data/2.5
	geoURL     string // geo/1.0
	oneCallURL string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
}

var (
	_ weather.Provider = (*OpenWeatherClient)(nil)
	_ weather.Geocoder = (*OpenWeatherClient)(nil)
)

// NewOpenWeatherClient creates a client. The shared rate limiter keeps
// all endpoints together under the free-tier quota of 60 calls/minute.
func NewOpenWeatherClient(client *http.Client, apiKey string) *OpenWeatherClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherClient{
		apiKey:     apiKey,
		baseURL:    "https://api.openweathermap.org/data/2.5",
		geoURL:     "https://api.openweathermap.org/geo/1.0",
		oneCallURL: "https://api.openweathermap.org/data/3.0/onecall",
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
			Limiter: rate.NewLimiter(rate.Limit(1), 10), // 60/min
		},
		circuit: cb,
	}
}

// Current fetches the latest conditions for the coordinates.
func (c *OpenWeatherClient) Current(ctx context.Context, coord weather.Coordinates) (weather.Current, error) {
	if c.apiKey == "" {
		return weather.Current{}, weather.ErrMissingAPIKey
	}

	resp, err := c.get(ctx, c.baseURL+"/weather", coordQuery(coord, c.apiKey))
	if err != nil {
		return weather.Current{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Name string `json:"name"`
		Dt   int64  `json:"dt"`
		Sys  struct {
			Country string `json:"country"`
			Sunrise int64  `json:"sunrise"`
			Sunset  int64  `json:"sunset"`
		} `json:"sys"`
		Main struct {
			Temp      float64 `json:"temp"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
			Pressure  int     `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64  `json:"speed"`
			Deg   *float64 `json:"deg"`
			Gust  *float64 `json:"gust"`
		} `json:"wind"`
		Clouds struct {
			All *int `json:"all"`
		} `json:"clouds"`
		Visibility *int `json:"visibility"`
		Weather    []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Current{}, fmt.Errorf("decode current weather: %w", err)
	}

	cur := weather.Current{
		Sample: weather.Sample{
			Timestamp:   payload.Dt,
			TempC:       payload.Main.Temp,
			TempMinC:    payload.Main.TempMin,
			TempMaxC:    payload.Main.TempMax,
			FeelsLikeC:  payload.Main.FeelsLike,
			HumidityPct: payload.Main.Humidity,
			PressureHpa: payload.Main.Pressure,
			WindSpeedMS: payload.Wind.Speed,
			WindDeg:     payload.Wind.Deg,
			WindGustMS:  payload.Wind.Gust,
			CloudsPct:   payload.Clouds.All,
		},
		City:        payload.Name,
		Country:     payload.Sys.Country,
		VisibilityM: payload.Visibility,
		SunriseUnix: payload.Sys.Sunrise,
		SunsetUnix:  payload.Sys.Sunset,
	}
	if len(payload.Weather) > 0 {
		cur.Condition = weather.Condition{
			Code:        payload.Weather[0].Icon,
			Main:        payload.Weather[0].Main,
			Description: payload.Weather[0].Description,
		}
	}
	return cur, nil
}

// Forecast fetches the 3-hourly forecast list, chronological as served.
func (c *OpenWeatherClient) Forecast(ctx context.Context, coord weather.Coordinates) ([]weather.Sample, error) {
	if c.apiKey == "" {
		return nil, weather.ErrMissingAPIKey
	}

	resp, err := c.get(ctx, c.baseURL+"/forecast", coordQuery(coord, c.apiKey))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp      float64 `json:"temp"`
				TempMin   float64 `json:"temp_min"`
				TempMax   float64 `json:"temp_max"`
				FeelsLike float64 `json:"feels_like"`
				Humidity  int     `json:"humidity"`
				Pressure  int     `json:"pressure"`
			} `json:"main"`
			Wind struct {
				Speed float64  `json:"speed"`
				Deg   *float64 `json:"deg"`
				Gust  *float64 `json:"gust"`
			} `json:"wind"`
			Clouds struct {
				All *int `json:"all"`
			} `json:"clouds"`
			Weather []struct {
				Main        string `json:"main"`
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	samples := make([]weather.Sample, 0, len(payload.List))
	for _, item := range payload.List {
		s := weather.Sample{
			Timestamp:   item.Dt,
			TempC:       item.Main.Temp,
			TempMinC:    item.Main.TempMin,
			TempMaxC:    item.Main.TempMax,
			FeelsLikeC:  item.Main.FeelsLike,
			HumidityPct: item.Main.Humidity,
			PressureHpa: item.Main.Pressure,
			WindSpeedMS: item.Wind.Speed,
			WindDeg:     item.Wind.Deg,
			WindGustMS:  item.Wind.Gust,
			CloudsPct:   item.Clouds.All,
		}
		if len(item.Weather) > 0 {
			s.Condition = weather.Condition{
				Code:        item.Weather[0].Icon,
				Main:        item.Weather[0].Main,
				Description: item.Weather[0].Description,
			}
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// Extended fetches the One Call and air pollution enrichments
// concurrently. Either may be missing (no subscription, endpoint down);
// the error is non-nil only when both fail.
func (c *OpenWeatherClient) Extended(ctx context.Context, coord weather.Coordinates) (weather.Extended, error) {
	if c.apiKey == "" {
		return weather.Extended{}, weather.ErrMissingAPIKey
	}

	type uvResult struct {
		uv  *float64
		err error
	}
	type airResult struct {
		air *weather.AirQuality
		err error
	}

	uvCh := make(chan uvResult, 1)
	airCh := make(chan airResult, 1)

	go func() {
		uv, err := c.fetchUVIndex(ctx, coord)
		uvCh <- uvResult{uv, err}
	}()
	go func() {
		air, err := c.fetchAirQuality(ctx, coord)
		airCh <- airResult{air, err}
	}()

	uv := <-uvCh
	air := <-airCh

	ext := weather.Extended{UVIndex: uv.uv, Air: air.air}
	if uv.err != nil && air.err != nil {
		return ext, fmt.Errorf("extended data unavailable: %v; %v", uv.err, air.err)
	}
	return ext, nil
}

func (c *OpenWeatherClient) fetchUVIndex(ctx context.Context, coord weather.Coordinates) (*float64, error) {
	resp, err := c.get(ctx, c.oneCallURL, coordQuery(coord, c.apiKey))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			UVI *float64 `json:"uvi"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode one call: %w", err)
	}
	return payload.Current.UVI, nil
}

func (c *OpenWeatherClient) fetchAirQuality(ctx context.Context, coord weather.Coordinates) (*weather.AirQuality, error) {
	resp, err := c.get(ctx, c.baseURL+"/air_pollution", coordQuery(coord, c.apiKey))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components struct {
				PM25 float64 `json:"pm2_5"`
				PM10 float64 `json:"pm10"`
			} `json:"components"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode air pollution: %w", err)
	}
	if len(payload.List) == 0 {
		return nil, fmt.Errorf("air pollution response is empty")
	}

	item := payload.List[0]
	return &weather.AirQuality{
		AQI:  scaleAirQualityIndex(item.Main.AQI),
		PM25: item.Components.PM25,
		PM10: item.Components.PM10,
	}, nil
}

// scaleAirQualityIndex maps OpenWeatherMap's 1-5 pollution index onto a
// representative value of the labeled band scale so the band midpoints
// land in Good/Moderate/USG/Unhealthy respectively.
func scaleAirQualityIndex(owm int) int {
	switch owm {
	case 1:
		return 25
	case 2:
		return 75
	case 3:
		return 125
	case 4:
		return 175
	default:
		return 250
	}
}

// Geocode resolves a place name through the direct geocoding endpoint.
func (c *OpenWeatherClient) Geocode(ctx context.Context, query string, limit int) ([]weather.Place, error) {
	if c.apiKey == "" {
		return nil, weather.ErrMissingAPIKey
	}
	if limit <= 0 {
		limit = 1
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", fmt.Sprintf("%d", limit))
	values.Set("appid", c.apiKey)

	resp, err := c.get(ctx, c.geoURL+"/direct", values)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload []struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		State   string  `json:"state"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	places := make([]weather.Place, 0, len(payload))
	for _, p := range payload {
		places = append(places, weather.Place{
			Name:    p.Name,
			Country: p.Country,
			State:   p.State,
			Lat:     p.Lat,
			Lon:     p.Lon,
		})
	}
	return places, nil
}

func (c *OpenWeatherClient) get(ctx context.Context, endpoint string, values url.Values) (*http.Response, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
	return doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
}

func coordQuery(coord weather.Coordinates, apiKey string) url.Values {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", coord.Lat))
	values.Set("lon", fmt.Sprintf("%f", coord.Lon))
	values.Set("appid", apiKey)
	values.Set("units", "metric")
	return values
}
