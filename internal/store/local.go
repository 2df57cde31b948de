// Package store persists the small per-user records the dashboard
// keeps between runs: display settings and the recent-search list.
// Records live as JSON values under fixed keys in a single SQLite
// table, the service-side analog of the browser's local storage.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"skycast/internal/weather"
)

const (
	keySettings       = "settings"
	keyRecentSearches = "recent_searches"

	// MaxRecentSearches caps the recent-search list.
	MaxRecentSearches = 5
)

// Local is the SQLite-backed key-value store.
type Local struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the store at path.
func Open(path string) (*Local, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init local store: %w", err)
	}

	return &Local{db: db}, nil
}

// Close releases the underlying database handle.
func (l *Local) Close() error {
	return l.db.Close()
}

// LoadSettings returns the persisted settings merged over defaults.
// A missing record or unknown enum values fall back to defaults; only
// an actual storage failure is an error.
func (l *Local) LoadSettings() (weather.Settings, error) {
	settings := weather.DefaultSettings()

	raw, ok, err := l.get(keySettings)
	if err != nil {
		return settings, err
	}
	if !ok {
		return settings, nil
	}

	// Unmarshal over the defaults so missing keys keep their default.
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return weather.DefaultSettings(), nil
	}
	settings.Normalize()
	return settings, nil
}

// SaveSettings persists the settings record, replacing any prior one.
func (l *Local) SaveSettings(s weather.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return l.put(keySettings, string(raw))
}

// RecentSearches returns the saved list, most recent first.
func (l *Local) RecentSearches() ([]string, error) {
	raw, ok, err := l.get(keyRecentSearches)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var searches []string
	if err := json.Unmarshal([]byte(raw), &searches); err != nil {
		return nil, nil
	}
	return searches, nil
}

// AddRecentSearch prepends the entry, de-duplicates by exact match and
// trims the list to MaxRecentSearches.
func (l *Local) AddRecentSearch(entry string) error {
	searches, err := l.RecentSearches()
	if err != nil {
		return err
	}

	updated := make([]string, 0, MaxRecentSearches)
	updated = append(updated, entry)
	for _, s := range searches {
		if s == entry {
			continue
		}
		updated = append(updated, s)
	}
	if len(updated) > MaxRecentSearches {
		updated = updated[:MaxRecentSearches]
	}

	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("encode recent searches: %w", err)
	}
	return l.put(keyRecentSearches, string(raw))
}

func (l *Local) get(key string) (string, bool, error) {
	var value string
	err := l.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}
	return value, true, nil
}

func (l *Local) put(key, value string) error {
	_, err := l.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}
