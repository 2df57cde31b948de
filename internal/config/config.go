package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	OpenWeatherAPIKey string

	// RefreshInterval controls how often the dashboard re-fetches on its own.
	RefreshInterval time.Duration

	// SuggestDebounce is the quiet period before a suggestion query fires.
	SuggestDebounce time.Duration

	// DefaultLat/DefaultLon is the location shown before the user picks one.
	DefaultLat float64
	DefaultLon float64

	HTTPTimeout      time.Duration
	GeolocateTimeout time.Duration

	// DBPath is the local settings database file.
	DBPath string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OWM_API_KEY")

	interval, err := getenvDuration("REFRESH_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}
	cfg.RefreshInterval = interval

	debounce, err := getenvDuration("SUGGEST_DEBOUNCE", "300ms")
	if err != nil {
		return nil, err
	}
	cfg.SuggestDebounce = debounce

	httpTimeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = httpTimeout

	geoTimeout, err := getenvDuration("GEOLOCATE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.GeolocateTimeout = geoTimeout

	// London, the startup fallback when device lookup fails.
	lat, err := getenvFloat("DEFAULT_LAT", 51.5074)
	if err != nil {
		return nil, err
	}
	lon, err := getenvFloat("DEFAULT_LON", -0.1278)
	if err != nil {
		return nil, err
	}
	cfg.DefaultLat = lat
	cfg.DefaultLon = lon

	cfg.DBPath = getenvDefault("DB_PATH", "skycast.db")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
