// Package config loads tripdeck settings from a TOML file under the XDG config
// directory, with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/theirongolddev/tripdeck/internal/gazetteer"
	"github.com/theirongolddev/tripdeck/internal/geocoding"
	"github.com/theirongolddev/tripdeck/internal/model"
	"github.com/theirongolddev/tripdeck/internal/search"
)

// Config holds all tripdeck configuration.
type Config struct {
	General    GeneralConfig     `toml:"general"`
	Search     SearchConfig      `toml:"search"`
	Map        MapConfig         `toml:"map"`
	Appearance AppearanceConfig  `toml:"appearance"`
	Gazetteer  []gazetteer.Entry `toml:"gazetteer,omitempty"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath      string `toml:"db_path,omitempty"`
	DefaultTrip string `toml:"default_trip,omitempty"`
	Timezone    string `toml:"timezone,omitempty"`
}

// SearchConfig holds location search settings.
type SearchConfig struct {
	Limit            int     `toml:"limit"`
	Remote           bool    `toml:"remote"`
	NominatimURL     string  `toml:"nominatim_url,omitempty"`
	UserAgent        string  `toml:"user_agent,omitempty"`
	RatePerSec       float64 `toml:"rate_per_sec"`
	RemoteTimeoutSec int     `toml:"remote_timeout_sec"`
	CountryBias      string  `toml:"country_bias,omitempty"`
	FallbackLat      float64 `toml:"fallback_lat"`
	FallbackLon      float64 `toml:"fallback_lon"`
}

// MapConfig holds marker board settings.
type MapConfig struct {
	DefaultZoom int `toml:"default_zoom,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			Limit:            search.DefaultLimit,
			Remote:           true,
			NominatimURL:     geocoding.DefaultBaseURL,
			UserAgent:        "tripdeck/1.0",
			RatePerSec:       1,
			RemoteTimeoutSec: 8,
			FallbackLat:      search.DefaultFallback.Lat,
			FallbackLon:      search.DefaultFallback.Lon,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripdeck")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tripdeck")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultDBPath returns the database location used when none is configured.
func DefaultDBPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripdeck", "tripdeck.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tripdeck", "tripdeck.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
// A .env file in the working directory is loaded first, then environment
// overrides are applied.
func Load() (Config, error) {
	_ = godotenv.Load() // optional
	return LoadFile(Path())
}

// LoadFile reads the config at path. Missing files yield defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user config path
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TRIPDECK_DB"); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv("TRIPDECK_TRIP"); v != "" {
		cfg.General.DefaultTrip = v
	}
	if v := os.Getenv("TRIPDECK_NOMINATIM_URL"); v != "" {
		cfg.Search.NominatimURL = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// DB returns the configured database path or the default.
func (c Config) DB() string {
	if c.General.DBPath != "" {
		return c.General.DBPath
	}
	return DefaultDBPath()
}

// Location resolves the configured timezone. Empty means the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.General.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.General.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.General.Timezone, err)
	}
	return loc, nil
}

// SearchOptions converts the search section into merger options.
func (c Config) SearchOptions() search.Options {
	return search.Options{
		Limit:    c.Search.Limit,
		Timeout:  time.Duration(c.Search.RemoteTimeoutSec) * time.Second,
		Fallback: model.Coordinate{Lat: c.Search.FallbackLat, Lon: c.Search.FallbackLon},
	}
}
