package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"skycast/internal/geo"
	"skycast/internal/weather"
)

const fetchTimeout = 30 * time.Second

// Fetcher runs the fetch-and-aggregate pipeline for one location.
type Fetcher interface {
	FetchWeather(ctx context.Context, c weather.Coordinates, s weather.Settings) (weather.View, error)
}

// SettingsStore persists display settings and the recent-search list.
type SettingsStore interface {
	LoadSettings() (weather.Settings, error)
	SaveSettings(weather.Settings) error
	RecentSearches() ([]string, error)
	AddRecentSearch(entry string) error
}

// Options configures a Controller.
type Options struct {
	RefreshInterval time.Duration // auto-refresh period, default 10m
	SuggestDebounce time.Duration // suggestion debounce, default 300ms
	DefaultLocation weather.Coordinates
}

// Controller owns all mutable dashboard state: the current location,
// the display settings and the last rendered view. Every mutation goes
// through a controller method under one mutex, so there are no ambient
// globals and a single writer at any time.
type Controller struct {
	fetcher  Fetcher
	geocoder weather.Geocoder
	locator  geo.Locator
	store    SettingsStore
	renderer Renderer

	refreshInterval time.Duration

	mu       sync.Mutex
	location weather.Coordinates
	settings weather.Settings
	lastView *weather.View
	sched    *gocron.Scheduler

	// generation orders refreshes; a completed fetch whose id is stale
	// lost the race to a newer one and is discarded unrendered.
	generation atomic.Uint64

	suggest *debouncer
}

// NewController builds a controller with the persisted settings loaded
// and merged over defaults.
func NewController(
	fetcher Fetcher,
	geocoder weather.Geocoder,
	locator geo.Locator,
	store SettingsStore,
	renderer Renderer,
	opts Options,
) (*Controller, error) {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 10 * time.Minute
	}
	if opts.SuggestDebounce <= 0 {
		opts.SuggestDebounce = 300 * time.Millisecond
	}
	if renderer == nil {
		renderer = LogRenderer{}
	}

	settings, err := store.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	return &Controller{
		fetcher:         fetcher,
		geocoder:        geocoder,
		locator:         locator,
		store:           store,
		renderer:        renderer,
		refreshInterval: opts.RefreshInterval,
		location:        opts.DefaultLocation,
		settings:        settings,
		suggest:         newDebouncer(opts.SuggestDebounce),
	}, nil
}

// Settings returns a copy of the current display settings.
func (c *Controller) Settings() weather.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Location returns the coordinates driving fetches right now.
func (c *Controller) Location() weather.Coordinates {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.location
}

// CurrentView returns the last rendered view, if any refresh has
// completed yet.
func (c *Controller) CurrentView() (weather.View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastView == nil {
		return weather.View{}, false
	}
	return *c.lastView, true
}

// Refresh fetches and renders the dashboard for the current location.
// Overlapping refreshes are tolerated: the one that started last wins
// the display, and an earlier fetch that settles afterwards is dropped.
func (c *Controller) Refresh(ctx context.Context) (weather.View, error) {
	gen := c.generation.Add(1)

	c.mu.Lock()
	loc, set := c.location, c.settings
	c.mu.Unlock()

	view, err := c.fetcher.FetchWeather(ctx, loc, set)
	if err != nil {
		c.renderer.RenderError(userMessage(err))
		return weather.View{}, err
	}

	c.mu.Lock()
	if gen != c.generation.Load() {
		c.mu.Unlock()
		log.Printf("INFO: discarding stale refresh result for %.4f,%.4f", loc.Lat, loc.Lon)
		return view, nil
	}
	c.lastView = &view
	c.mu.Unlock()

	c.renderer.RenderView(view)
	return view, nil
}

// Search resolves a place name, selects the best match, records it in
// the recent-search list and refreshes. Zero matches surface as
// weather.ErrNotFound.
func (c *Controller) Search(ctx context.Context, query string) (weather.View, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return weather.View{}, weather.ErrNotFound
	}

	places, err := c.geocoder.Geocode(ctx, query, 1)
	if err != nil {
		return weather.View{}, err
	}
	if len(places) == 0 {
		return weather.View{}, weather.ErrNotFound
	}

	place := places[0]
	c.mu.Lock()
	c.location = weather.Coordinates{Lat: place.Lat, Lon: place.Lon}
	c.mu.Unlock()

	if err := c.store.AddRecentSearch(place.Name + ", " + place.Country); err != nil {
		log.Printf("INFO: could not record recent search: %v", err)
	}

	return c.Refresh(ctx)
}

// Suggest returns up to 5 geocoding candidates for a partial query,
// debounced: a burst of calls runs only the last query, after the
// debounce delay. Callers superseded by a newer call block until their
// ctx ends. Queries shorter than two runes yield no suggestions.
func (c *Controller) Suggest(ctx context.Context, query string) ([]weather.Place, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return nil, nil
	}

	type result struct {
		places []weather.Place
		err    error
	}
	ch := make(chan result, 1)

	c.suggest.Schedule(func() {
		fctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		places, err := c.geocoder.Geocode(fctx, query, 5)
		ch <- result{places, err}
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.places, r.err
	}
}

// RecentSearches returns the persisted list, most recent first.
func (c *Controller) RecentSearches() ([]string, error) {
	return c.store.RecentSearches()
}

// ReplayRecent re-runs a saved "City, Country" entry as a search.
func (c *Controller) ReplayRecent(ctx context.Context, entry string) (weather.View, error) {
	city, _, _ := strings.Cut(entry, ",")
	return c.Search(ctx, strings.TrimSpace(city))
}

// UseDeviceLocation asks the locator for the host position and, on
// success, makes it the current location and refreshes. Failures carry
// a typed *geo.Error.
func (c *Controller) UseDeviceLocation(ctx context.Context) (weather.View, error) {
	coord, err := c.locator.Locate(ctx)
	if err != nil {
		return weather.View{}, err
	}

	c.mu.Lock()
	c.location = coord
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// UpdateSettings validates, persists and applies new display settings,
// re-rendering the current location in the new units and starting or
// stopping the auto-refresh job as needed.
func (c *Controller) UpdateSettings(ctx context.Context, s weather.Settings) (weather.View, error) {
	s.Normalize()
	if err := c.store.SaveSettings(s); err != nil {
		return weather.View{}, fmt.Errorf("persist settings: %w", err)
	}

	c.mu.Lock()
	c.settings = s
	hadView := c.lastView != nil
	c.mu.Unlock()

	if s.AutoRefresh {
		if err := c.StartAutoRefresh(); err != nil {
			log.Printf("ERROR: could not restart auto refresh: %v", err)
		}
	} else {
		c.StopAutoRefresh()
	}

	if !hadView {
		return weather.View{}, nil
	}
	return c.Refresh(ctx)
}

// StartAutoRefresh schedules the periodic background refresh. Any
// existing job is cancelled first, so there is never more than one.
func (c *Controller) StartAutoRefresh() error {
	c.StopAutoRefresh()

	s := gocron.NewScheduler(time.UTC)
	// The caller has just rendered; the first background run waits a
	// full interval instead of firing at startup.
	_, err := s.Every(c.refreshInterval).WaitForSchedule().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if _, err := c.Refresh(ctx); err != nil {
			// Background failures never interrupt the display.
			log.Printf("INFO: auto refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.StartAsync()

	c.mu.Lock()
	c.sched = s
	c.mu.Unlock()
	return nil
}

// StopAutoRefresh cancels the periodic refresh, if running.
func (c *Controller) StopAutoRefresh() {
	c.mu.Lock()
	s := c.sched
	c.sched = nil
	c.mu.Unlock()
	if s != nil {
		s.Stop()
	}
}

// Close stops all scheduled work.
func (c *Controller) Close() {
	c.StopAutoRefresh()
	c.suggest.Cancel()
}

// userMessage converts a pipeline error into the single message shown
// to the user for the action that triggered it.
func userMessage(err error) string {
	var gerr *geo.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, weather.ErrNotFound):
		return "City not found. Please try another search."
	case errors.Is(err, weather.ErrMissingAPIKey):
		return "Weather API key is missing. Please check the configuration."
	case errors.As(err, &gerr):
		return "Unable to get your location: " + string(gerr.Reason) + "."
	default:
		return "Failed to fetch weather data. Please try again."
	}
}
