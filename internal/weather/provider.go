package weather

import "context"

// Provider abstracts the weather data source. All readings are metric;
// unit conversion happens in the display pipeline, never at fetch time.
type Provider interface {
	// Current returns the latest conditions for the coordinates.
	Current(ctx context.Context, c Coordinates) (Current, error)

	// Forecast returns the chronological 3-hourly forecast samples,
	// typically spanning five days.
	Forecast(ctx context.Context, c Coordinates) ([]Sample, error)

	// Extended returns the optional enrichment data (UV index, air
	// quality). Partial results are valid; a failed call is tolerated
	// and downgraded to fallbacks by the caller.
	Extended(ctx context.Context, c Coordinates) (Extended, error)
}

// Geocoder resolves a free-form place name into candidate locations.
type Geocoder interface {
	// Geocode returns up to limit candidates for the query, best match
	// first. An empty result is not an error.
	Geocode(ctx context.Context, query string, limit int) ([]Place, error)
}
