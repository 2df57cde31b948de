package weather

import "errors"

var (
	// ErrNotFound is returned when a search or lookup matches no place.
	ErrNotFound = errors.New("location not found")

	// ErrMissingAPIKey is returned before any request is attempted when
	// no provider credential is configured.
	ErrMissingAPIKey = errors.New("weather api key is not configured")
)
