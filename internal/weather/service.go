package weather

import (
	"context"
	"log"
	"sync"
	"time"
)

// Service runs the fetch-and-aggregate pipeline: it issues the
// current/forecast/extended requests concurrently, tolerates partial
// failure, and folds the results into a display View.
type Service struct {
	provider Provider
	loc      *time.Location
}

// NewService creates a Service. loc is the time zone used for day
// bucketing and clock display; nil means the process-local zone.
func NewService(provider Provider, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{provider: provider, loc: loc}
}

// FetchWeather builds the full dashboard view for the coordinates.
//
// The three provider calls are independent and read-only, so they run
// concurrently and are combined only after all have settled. Current
// conditions are required; a forecast failure is logged and leaves the
// forecast strips empty, and a failed extended fetch silently falls
// back to placeholder values.
func (s *Service) FetchWeather(ctx context.Context, c Coordinates, set Settings) (View, error) {
	var (
		wg      sync.WaitGroup
		cur     Current
		curErr  error
		samples []Sample
		fcErr   error
		ext     Extended
		extErr  error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		cur, curErr = s.provider.Current(ctx, c)
	}()
	go func() {
		defer wg.Done()
		samples, fcErr = s.provider.Forecast(ctx, c)
	}()
	go func() {
		defer wg.Done()
		ext, extErr = s.provider.Extended(ctx, c)
	}()
	wg.Wait()

	if curErr != nil {
		return View{}, curErr
	}
	if fcErr != nil {
		// Current conditions still render without a forecast.
		log.Printf("INFO: forecast fetch failed for %.4f,%.4f: %v", c.Lat, c.Lon, fcErr)
		samples = nil
	}
	if extErr != nil {
		ext = Extended{}
	}

	daily := BucketByDay(samples, s.loc)
	if len(daily) > MaxDailyForecasts {
		daily = daily[:MaxDailyForecasts]
	}
	hourly := TakeHourly(samples, MaxHourlySamples)

	return View{
		Snapshot:  BuildSnapshot(cur, ext, set, s.loc),
		Hourly:    BuildHourlyCards(hourly, set, s.loc),
		Daily:     BuildDailyCards(daily, set, s.loc),
		Air:       BuildAirView(ext.Air),
		FetchedAt: time.Now(),
	}, nil
}
