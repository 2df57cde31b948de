// Package geo resolves the host's physical coordinates. It plays the
// role the browser geolocation API plays for a web dashboard: a
// single-shot, cancellable lookup that either yields a coordinate pair
// or fails with a typed reason.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"skycast/internal/weather"
)

// Reason classifies why a geolocation attempt failed.
type Reason string

const (
	ReasonPermissionDenied    Reason = "permission denied"
	ReasonPositionUnavailable Reason = "position unavailable"
	ReasonTimeout             Reason = "timeout"
	ReasonUnsupported         Reason = "unsupported"
)

// Error is a typed geolocation failure.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("geolocation failed: %s", e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Locator supplies device coordinates, once per call.
type Locator interface {
	Locate(ctx context.Context) (weather.Coordinates, error)
}

// IPLocator approximates the host position from its public IP address
// using the ip-api.com JSON endpoint (no credential required).
type IPLocator struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewIPLocator creates a locator with the given per-call timeout.
func NewIPLocator(client *http.Client, timeout time.Duration) *IPLocator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &IPLocator{
		baseURL: "http://ip-api.com/json",
		client:  client,
		timeout: timeout,
	}
}

// Locate returns the host coordinates or a typed *Error.
func (l *IPLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	if l.client == nil {
		return weather.Coordinates{}, &Error{Reason: ReasonUnsupported, Err: errors.New("no http client")}
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL, nil)
	if err != nil {
		return weather.Coordinates{}, &Error{Reason: ReasonUnsupported, Err: err}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return weather.Coordinates{}, &Error{Reason: ReasonTimeout, Err: err}
		}
		return weather.Coordinates{}, &Error{Reason: ReasonPositionUnavailable, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return weather.Coordinates{}, &Error{Reason: ReasonPermissionDenied}
	case resp.StatusCode != http.StatusOK:
		return weather.Coordinates{}, &Error{
			Reason: ReasonPositionUnavailable,
			Err:    fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	var payload struct {
		Status string  `json:"status"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Coordinates{}, &Error{Reason: ReasonPositionUnavailable, Err: err}
	}
	if payload.Status != "success" {
		return weather.Coordinates{}, &Error{Reason: ReasonPositionUnavailable}
	}

	return weather.Coordinates{Lat: payload.Lat, Lon: payload.Lon}, nil
}
