package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, RatePerSec: 1000, UserAgent: "tripdeck-test"})
}

func TestSearchLocations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "keleti" {
			t.Errorf("q = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "tripdeck-test" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"place_id": 123, "lat": "47.5003", "lon": "19.0838", "name": "Keleti", "display_name": "Keleti, Budapest, Hungary"},
			{"place_id": 124, "lat": "47.5", "lon": "19.08", "display_name": "Keleti Station, Budapest"},
			{"place_id": 125, "lat": "north", "lon": "19.08", "display_name": "Broken"}
		]`))
	})

	got, err := c.SearchLocations(context.Background(), " keleti ")
	if err != nil {
		t.Fatalf("SearchLocations: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].ID != "osm-123" || got[0].Name != "Keleti" || got[0].Label != "Keleti, Budapest, Hungary" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Name != "Keleti Station" {
		t.Errorf("name from display_name = %q", got[1].Name)
	}
}

func TestSearchLocationsErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, "", ErrRateLimited},
		{"malformed", http.StatusOK, `{"not":"a list"`, ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.SearchLocations(context.Background(), "x")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSearchLocationsServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if _, err := c.SearchLocations(context.Background(), "x"); err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestSearchLocationsEmptyTerm(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	got, err := c.SearchLocations(context.Background(), "   ")
	if err != nil || got != nil {
		t.Errorf("SearchLocations(blank) = %v, %v", got, err)
	}
}

func TestSearchLocationsCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.SearchLocations(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
