// Package geocoding is the remote location provider backed by an
// OpenStreetMap Nominatim endpoint.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/theirongolddev/tripdeck/internal/model"
)

const (
	// DefaultBaseURL is the public Nominatim search endpoint.
	DefaultBaseURL   = "https://nominatim.openstreetmap.org/search"
	defaultUserAgent = "tripdeck/1.0" // Nominatim usage policy requires one
	requestTimeout   = 10 * time.Second
	maxBodySize      = 1 << 20
	defaultLimit     = 8
)

var (
	// ErrRateLimited indicates the server answered 429.
	ErrRateLimited = errors.New("geocoding: rate limited")
	// ErrMalformed indicates the response body could not be decoded.
	ErrMalformed = errors.New("geocoding: malformed response")
)

// Config configures a Client.
type Config struct {
	BaseURL     string
	UserAgent   string
	Limit       int
	RatePerSec  float64 // requests per second; Nominatim asks for at most 1
	CountryBias string  // optional comma-separated ISO codes
	HTTPClient  *http.Client
}

// Client searches places through Nominatim.
type Client struct {
	baseURL   string
	userAgent string
	limit     int
	countries string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient returns a client with defaults applied.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		limit:     cfg.Limit,
		countries: cfg.CountryBias,
		http:      cfg.HTTPClient,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
	}
}

type nominatimPlace struct {
	PlaceID     json.Number `json:"place_id"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
}

// SearchLocations implements search.Provider.
func (c *Client) SearchLocations(ctx context.Context, term string) ([]model.LocationCandidate, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", term)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(c.limit))
	if c.countries != "" {
		params.Set("countrycodes", c.countries)
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	out := make([]model.LocationCandidate, 0, len(places))
	for _, p := range places {
		if cand, ok := p.candidate(); ok {
			out = append(out, cand)
		}
	}
	return out, nil
}

func (p nominatimPlace) candidate() (model.LocationCandidate, bool) {
	pos := model.ParseCoordinate(p.Lat, p.Lon)
	if pos == nil {
		return model.LocationCandidate{}, false
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name, _, _ = strings.Cut(p.DisplayName, ",")
		name = strings.TrimSpace(name)
	}
	id := ""
	if p.PlaceID != "" {
		id = "osm-" + p.PlaceID.String()
	}
	return model.LocationCandidate{
		ID:       id,
		Name:     name,
		Label:    strings.TrimSpace(p.DisplayName),
		Position: *pos,
		Source:   model.SourceRemote,
	}, true
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocoding: waiting for rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocoding: creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocoding: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("geocoding: reading response: %w", err)
	}
	return body, nil
}
